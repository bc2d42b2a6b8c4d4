package database

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func TestMigrateRejectsUnknownDirection(t *testing.T) {
	_, err := Migrate(context.Background(), nil, fstest.MapFS{}, "sideways")
	assert.ErrorContains(t, err, "direction must be")
}

func TestMigrateWithNothingToRun(t *testing.T) {
	files, err := Migrate(context.Background(), nil, fstest.MapFS{
		"0001_create_local_storage.up.sql": {Data: []byte("SELECT 1")},
	}, "down")
	assert.NoError(t, err)
	assert.Empty(t, files)
}

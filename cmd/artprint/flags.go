package main

import (
	"fmt"
	"strings"

	"github.com/safar/artprint/internal/forms"
)

// setFlags collects repeated -set name=value pairs.
type setFlags forms.Values

func (s setFlags) String() string {
	pairs := make([]string, 0, len(s))
	for k, v := range s {
		pairs = append(pairs, k+"="+v)
	}
	return strings.Join(pairs, ",")
}

func (s setFlags) Set(raw string) error {
	name, value, ok := strings.Cut(raw, "=")
	if !ok || strings.TrimSpace(name) == "" {
		return fmt.Errorf("expected name=value, got %q", raw)
	}
	s[strings.TrimSpace(name)] = value
	return nil
}

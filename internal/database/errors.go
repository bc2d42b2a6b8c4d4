package database

import (
	"database/sql/driver"
	"errors"
	"strings"

	"github.com/lib/pq"
)

type ErrorClass int

const (
	ErrorClassPermanent ErrorClass = iota
	ErrorClassTransient
	ErrorClassDeadlock
	ErrorClassSerialization
	ErrorClassConnection
)

func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ErrorClassPermanent
	}

	if errors.Is(err, driver.ErrBadConn) {
		return ErrorClassConnection
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		switch {
		case code == "40001":
			return ErrorClassSerialization
		case code == "40P01":
			return ErrorClassDeadlock
		case code == "55P03", code == "57P03":
			return ErrorClassTransient
		case strings.HasPrefix(code, "08"):
			return ErrorClassConnection
		}
		return ErrorClassPermanent
	}

	return ErrorClassPermanent
}

func IsRetryable(err error) bool {
	return ClassifyError(err) != ErrorClassPermanent
}

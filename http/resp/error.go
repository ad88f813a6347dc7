package resp

import (
	"errors"

	"github.com/castellanoconmh/aula"
)

var (
	ErrBadConfig   = aula.ErrBadConfig
	ErrDone        = errors.New("request ctx done")
	ErrInvalid     = errors.New("invalid")
	ErrMissingData = errors.New("missing data")
	ErrNotFound    = errors.New("not found")
	ErrNoUser      = errors.New("no user")
)

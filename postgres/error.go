package postgres

import (
	"errors"
	"regexp"

	"gorm.io/gorm"
)

const violatesFK = "violates foreign key constraint"

var (
	// These errors originate from the std lib database/sql package.
	errSQLScan = regexp.MustCompile(`sql: expected \d+ destination arguments in Scan, not \d+`)

	// errSQLSyntax is a very loose aggregation of error codes
	// originating from PostgreSQL itself
	// that are some sort of syntax issue in the statement or datatype mismatch.
	//
	// Cf., https://www.postgresql.org/docs/current/errcodes-appendix.html
	errSQLSyntax = regexp.MustCompile(`SQLSTATE (42601|22P02)`)

	errUniqViolation = regexp.MustCompile(`SQLSTATE (23505)`)

	errNilArg = errors.New("nil argument")

	// safeGORMSession forces a clean *gorm.DB.
	safeGORMSession = &gorm.Session{}
)

package errors

import (
	stderrs "errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE values with a dedicated code; anything else from postgres is ErrorCodeDB
var sqlStates = map[string]ErrorCode{
	"23505": ErrorCodeDuplicateKey,    // unique_violation
	"23503": ErrorCodeInvalidArgument, // foreign_key_violation
	"23502": ErrorCodeValidation,      // not_null_violation
	"23514": ErrorCodeValidation,      // check_violation
	"22001": ErrorCodeInvalidArgument, // string_data_right_truncation
	"22P02": ErrorCodeInvalidArgument, // invalid_text_representation
	"25006": ErrorCodeUnavailable,     // read_only_sql_transaction
	"57P03": ErrorCodeUnavailable,     // cannot_connect_now
}

// PgError returns the postgres error in the chain, if any
func PgError(err error) (*pgconn.PgError, bool) {
	var pg *pgconn.PgError
	if stderrs.As(err, &pg) {
		return pg, true
	}
	return nil, false
}

// IsDuplicateKey reports a unique constraint violation anywhere in the chain
func IsDuplicateKey(err error) bool {
	pg, ok := PgError(err)
	return ok && pg.Code == "23505"
}

// FromPostgres wraps err with the code its SQLSTATE maps to; nil stays nil
// errors that already carry a code keep it
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, dbCode(err), msg)
}

// FromPostgresf is FromPostgres with a format
func FromPostgresf(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, dbCode(err), fmt.Sprintf(format, a...))
}

func dbCode(err error) ErrorCode {
	if pg, ok := PgError(err); ok {
		if c, ok := sqlStates[pg.Code]; ok {
			return c
		}
		return ErrorCodeDB
	}
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeDB
}

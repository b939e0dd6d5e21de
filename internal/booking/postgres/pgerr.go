package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgSerializationFailure = "40001"

func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgSerializationFailure
}

package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUnavailable        = errors.New("postgres is unavailable")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrDuplicateEmail     = errors.New("profile email already exists")
	ErrDuplicateProfileID = errors.New("profile id already exists")
	ErrUnknownProfile     = errors.New("referenced profile does not exist")
	ErrSwipeNotFound      = errors.New("swipe not found")
	ErrDuplicateSwipe     = errors.New("swipe already recorded")
	ErrMatchNotFound      = errors.New("match not found")
	ErrDuplicateMatch     = errors.New("match already exists for pair")
	ErrMessageNotFound    = errors.New("message not found")
	ErrUnknownMatch       = errors.New("referenced match does not exist")
)

const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
)

func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

func isUniqueViolation(err error, constraint string) bool {
	pgErr, ok := pgError(err)
	if !ok || pgErr.Code != sqlStateUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

func isForeignKeyViolation(err error) (string, bool) {
	pgErr, ok := pgError(err)
	if !ok || pgErr.Code != sqlStateForeignKeyViolation {
		return "", false
	}
	return pgErr.ConstraintName, true
}

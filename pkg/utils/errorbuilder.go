package utils

import (
	"context"
	"errors"
	"probe-wizard/pkg/apperror"
	"probe-wizard/pkg/redisstore"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func WrapRepoError(op string, err error, isNotFoundErrPossible bool, log *zerolog.Logger) error {
	// Context errors
	if isContextErr(err) {
		return &apperror.Error{
			Kind:    apperror.RequestTimeout,
			Op:      op,
			Message: "request cancelled or timed out",
			Err:     err,
		}
	}

	// if no row present
	if isNotFoundErrPossible && errors.Is(err, pgx.ErrNoRows) {
		return &apperror.Error{
			Kind:    apperror.NotFound,
			Op:      op,
			Message: "resource not found",
		}
	}

	// postgres errors
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return &apperror.Error{
				Kind:    apperror.AlreadyExists,
				Op:      op,
				Message: "resource already exists",
				Err:     err,
			}
		}

		log.Error().
			Str("op", op).
			Str("pg_code", pgErr.Code).
			Str("pg_constraint", pgErr.ConstraintName).
			Str("pg_table", pgErr.TableName).
			Str("pg_detail", pgErr.Detail).
			Err(err).
			Msg("postgres database error")

		return &apperror.Error{
			Kind:    apperror.DatabaseErr,
			Op:      op,
			Message: "internal server error",
			Err:     err,
		}
	}

	// other errors
	return apperror.New(apperror.Internal, op, err).WithMessage("internal server error")
}

// WrapStoreError classifies errors coming back from the redis session store.
func WrapStoreError(op string, err error, log *zerolog.Logger) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}

	if isContextErr(err) {
		return &apperror.Error{
			Kind:    apperror.RequestTimeout,
			Op:      op,
			Message: "request cancelled or timed out",
			Err:     err,
		}
	}

	if errors.Is(err, redis.Nil) {
		return &apperror.Error{
			Kind:    apperror.NotFound,
			Op:      op,
			Message: "session not found or expired",
		}
	}

	if errors.Is(err, redisstore.ErrSessionConflict) {
		return &apperror.Error{
			Kind:    apperror.Conflict,
			Op:      op,
			Message: "session was updated concurrently, retry the request",
			Err:     err,
		}
	}

	log.Error().Str("op", op).Err(err).Msg("session store error")

	return apperror.New(apperror.Dependency, op, err).WithMessage("session store unavailable")
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

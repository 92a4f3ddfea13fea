package services

import (
	"fmt"

	"OdontoSystem/apperrors"
	"OdontoSystem/database"

	"github.com/pkg/errors"
)

// storeError maps data store failures onto the API error taxonomy.
func storeError(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case apperrors.As(err) != nil:
		return err
	case errors.Is(err, database.ErrNotFound):
		return apperrors.NotFound(entity + " not found")
	case errors.Is(err, database.ErrConflict):
		return apperrors.Wrap(apperrors.CodeConflict, err, fmt.Sprintf("%s conflicts with an existing record", entity))
	case errors.Is(err, database.ErrInvalidReference):
		return apperrors.Wrap(apperrors.CodeValidation, err, "referenced record does not exist")
	case errors.Is(err, database.ErrInvalidInput):
		return apperrors.Wrap(apperrors.CodeValidation, err, fmt.Sprintf("invalid %s data", entity))
	case errors.Is(err, database.ErrUnavailable):
		return apperrors.Wrap(apperrors.CodeUnavailable, err, "data store unavailable")
	default:
		return apperrors.Wrap(apperrors.CodeInternal, err, "internal server error")
	}
}

func invalid(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Validation(err.Error())
}

var errEmptyUpdate = apperrors.Validation("no fields to update")

// dropEmpty turns empty strings in the given patch columns into NULL.
func dropEmpty(patch map[string]any, columns ...string) {
	for _, column := range columns {
		switch v := patch[column].(type) {
		case string:
			if v == "" {
				patch[column] = nil
			}
		case fmt.Stringer:
			if v.String() == "" {
				patch[column] = nil
			}
		}
	}
}

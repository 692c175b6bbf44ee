package usecase

import (
	"errors"

	"museum-booking/internal/data/repository"
	"museum-booking/pkg/apperror"
	"museum-booking/pkg/utils"

	"go.uber.org/zap"
)

// fail logs err once and returns what the caller should see: typed
// business errors pass through, everything else becomes Internal.
func fail(log *zap.Logger, op string, err error, fields ...zap.Field) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateActiveBooking):
		err = apperror.ErrAlreadyBooked
	case errors.Is(err, repository.ErrDuplicateUser):
		err = apperror.ErrAccountAlreadyExists
	}

	if appErr, ok := apperror.As(err); ok && appErr.Kind != apperror.KindInternal {
		log.Warn(op+" rejected", append(fields,
			zap.String("code", appErr.Code),
			zap.String("reason", appErr.Message))...)
		return appErr
	}

	log.Error(op+" failed", append(fields, zap.Error(err))...)
	if appErr, ok := apperror.As(err); ok {
		return appErr
	}
	return apperror.Internal(err, op)
}

func invalid(errs map[string]string) error {
	return apperror.Validation(errs, utils.FormatValidationErrors(errs))
}

package service

import (
	"net/http"

	"github.com/go-kratos/kratos/v2/errors"
)

// Error reasons attached to every error the service returns. The HTTP
// status travels in the kratos error code.
const (
	ReasonValidation = "VALIDATION_FAILED"
	ReasonConflict   = "VIDEO_ID_CONFLICT"
	ReasonNotFound   = "VIDEO_NOT_FOUND"
	ReasonStore      = "STORE_FAILURE"
)

func validationError(format string, args ...interface{}) *errors.Error {
	return errors.Newf(http.StatusBadRequest, ReasonValidation, format, args...)
}

// Duplicate ids are a client mistake, so they share 400 with validation.
func conflictError(message string) *errors.Error {
	return errors.New(http.StatusBadRequest, ReasonConflict, message)
}

func notFoundError(message string) *errors.Error {
	return errors.NotFound(ReasonNotFound, message)
}

func storeError(message string, cause error) *errors.Error {
	return errors.InternalServer(ReasonStore, message).WithCause(cause)
}

func IsValidation(err error) bool { return errors.Reason(err) == ReasonValidation }
func IsConflict(err error) bool   { return errors.Reason(err) == ReasonConflict }
func IsNotFound(err error) bool   { return errors.Reason(err) == ReasonNotFound }
func IsStore(err error) bool      { return errors.Reason(err) == ReasonStore }

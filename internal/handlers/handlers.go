package handlers

import (
	"errors"

	"github.com/arriendo-app/api/internal/auth"
	apierrors "github.com/arriendo-app/api/internal/errors"
	"github.com/arriendo-app/api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// authSession is a local alias to keep handler signatures short.
type authSession = auth.Session

// bindError writes the appropriate 400 response for a binding failure.
func bindError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		apierrors.ValidationError(c, validationErrors)
		return
	}
	apierrors.BadRequest(c, "Invalid request body", nil)
}

// serviceError maps service-level sentinel errors onto the HTTP error
// taxonomy. Unrecognized errors become a generic 500.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, "Invalid email or password")
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, "Email is already registered")
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrReasonRequired):
		apierrors.BadRequest(c, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidStateTransition):
		apierrors.InvalidStateTransition(c, err.Error())
	case errors.Is(err, services.ErrPreconditionFailed),
		errors.Is(err, services.ErrUnitUnavailable):
		apierrors.PreconditionFailed(c, err.Error())
	case errors.Is(err, services.ErrInvalidAmount):
		apierrors.UnprocessableEntity(c, apierrors.ErrInvalidAmount, err.Error())
	case errors.Is(err, services.ErrOverpayment):
		apierrors.UnprocessableEntity(c, apierrors.ErrOverpaymentRejected, err.Error())
	case errors.Is(err, services.ErrContractNotPayable):
		apierrors.UnprocessableEntity(c, apierrors.ErrContractNotPayable, err.Error())
	default:
		apierrors.InternalServerError(c, "An unexpected error occurred", err)
	}
}

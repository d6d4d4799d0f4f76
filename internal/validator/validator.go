package validator

import (
	"github.com/go-playground/validator/v10"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

var validate *validator.Validate

func NewValidator() *validator.Validate {
	validate = validator.New()
	_ = validate.RegisterValidation("billing_cycle", validateBillingCycle)
	_ = validate.RegisterValidation("date", validateDate)
	return validate
}

func GetValidator() *validator.Validate {
	return validate
}

func ValidateRequest(req interface{}) error {
	if validate == nil {
		return ierr.NewError("validator not initialized").
			WithHint("Validator must be initialized before using it").
			Mark(ierr.ErrSystem)
	}

	if err := validate.Struct(req); err != nil {
		details := make(map[string]any)
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			for _, err := range validateErrs {
				details[err.Field()] = err.Error()
			}
		}
		return ierr.WithError(err).
			WithHint("Request validation failed").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func validateBillingCycle(fl validator.FieldLevel) bool {
	return types.BillingCycle(fl.Field().String()).Validate() == nil
}

// validateDate accepts anything ParseDate accepts
func validateDate(fl validator.FieldLevel) bool {
	_, err := types.ParseDate(fl.Field().String())
	return err == nil
}

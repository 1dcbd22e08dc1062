package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/SscSPs/trust_ledger_app/internal/apperrors"
	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// validate shares the "binding" tags gin uses, so requests are checked the same way whether they
// arrive over HTTP or from the CLI.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// validationErrors runs struct validation and returns the per-field result, possibly empty.
func validationErrors(s any) *apperrors.ValidationError {
	verr := &apperrors.ValidationError{}
	err := validate.Struct(s)
	if err == nil {
		return verr
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add("request", err.Error())
		return verr
	}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), describeFieldError(fe))
	}
	return verr
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "email":
		return "must be a valid email address"
	default:
		return "failed " + fe.Tag() + " check"
	}
}

// checkAmount enforces positive amounts with at most two fraction digits.
func checkAmount(verr *apperrors.ValidationError, field string, amount decimal.Decimal) {
	if !amount.IsPositive() {
		verr.Add(field, "must be greater than zero")
		return
	}
	if !amount.Equal(amount.Round(2)) {
		verr.Add(field, "must have at most two decimal places")
	}
}

// checkOwners enforces that withdrawals and outgoing transfers name both client and case.
func checkOwners(verr *apperrors.ValidationError, direction domain.Direction, clientID, caseID *string) {
	if !direction.RequiresClientAndCase() {
		return
	}
	if clientID == nil || *clientID == "" {
		verr.Add("clientID", "is required for "+string(direction))
	}
	if caseID == nil || *caseID == "" {
		verr.Add("caseID", "is required for "+string(direction))
	}
}

func checkActor(verr *apperrors.ValidationError, actor domain.Actor) {
	if strings.TrimSpace(actor.UserID) == "" {
		verr.Add("actor", "is required")
	}
}

// errOrNil converts an empty ValidationError into a nil error.
func errOrNil(verr *apperrors.ValidationError) error {
	if verr.HasErrors() {
		return verr
	}
	return nil
}

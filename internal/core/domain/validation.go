package domain

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/SscSPs/currency_conversion_app/internal/apperrors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// validate is the single validator behind every entity invariant in this package.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so reasons match the API payloads.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Decimals are validated through their sign, so `gt=0` means strictly positive.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.Sign()
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		return currencyCodePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("domain: registering currency validation: %v", err))
	}

	v.RegisterStructValidation(conversionStructLevel, Conversion{})
	v.RegisterStructValidation(exchangeRateStructLevel, ExchangeRate{})
	return v
}

// validationFailure converts validator output into an apperrors.ValidationError of the given kind.
func validationFailure(kind error, err error) error {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return apperrors.NewValidationError(kind, apperrors.FieldError{Reason: err.Error()})
	}
	fields := make([]apperrors.FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		fields = append(fields, apperrors.FieldError{Field: fe.Field(), Reason: reasonFor(fe)})
	}
	return apperrors.NewValidationError(kind, fields...)
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "currency":
		return "must be a 3-letter uppercase currency code"
	case "gt":
		return "must be greater than 0"
	case "lt":
		return "must be less than " + fe.Param()
	case "nefield":
		return "must be different from base_currency"
	case "converted":
		return "must equal amount * rate_used rounded to 6 decimal places"
	default:
		return "is invalid"
	}
}

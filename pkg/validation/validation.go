package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

var maxPrice = decimal.RequireFromString("99999999.99")

// FieldError is one failed rule, keyed by the field's wire name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors lists every failed rule in struct order.
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return e[0].Field + ": " + e[0].Message
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(fieldName)
		validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = validate.RegisterValidation("notblank", validators.NotBlank)
		_ = validate.RegisterValidation("price", validPrice)
	})
	return validate
}

// Struct validates s and returns Errors, or nil when every rule passes.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := make(Errors, 0, len(ve))
	for _, fe := range ve {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

// First returns "field: message" for the first failed rule, or the error
// text when err is not a validation failure.
func First(err error) string {
	var errs Errors
	if errors.As(err, &errs) {
		return errs.Error()
	}
	return err.Error()
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "query", "params", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

func decimalValue(v reflect.Value) any {
	if d, ok := v.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

// validPrice accepts a positive amount with at most two decimal places that
// fits NUMERIC(10,2).
func validPrice(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return d.IsPositive() && d.Round(2).Equal(d) && d.LessThanOrEqual(maxPrice)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "price":
		return "must be greater than 0 with at most 2 decimal places"
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}

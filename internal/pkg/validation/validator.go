package validation

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/eduquest/client/internal/pkg/apperrors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON name so messages match the form
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// FieldErrors maps a JSON field name to its first failure message
type FieldErrors map[string]string

// Fields returns the failing field names in a stable order
func (f FieldErrors) Fields() []string {
	out := make([]string, 0, len(f))
	for k := range f {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Struct validates obj against its `validate` tags. Failures come back as a
// *apperrors.CustomError wrapping apperrors.ErrValidationFailed whose Details
// hold the per-field messages.
func Struct(obj interface{}) error {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error())
	}

	fields := FieldErrors{}
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		fields[fe.Field()] = message(fe)
	}

	details := make(map[string]interface{}, len(fields))
	msgs := make([]string, 0, len(fields))
	for _, name := range fields.Fields() {
		details[name] = fields[name]
		msgs = append(msgs, fields[name])
	}
	return apperrors.NewCustomError(apperrors.ErrValidationFailed, strings.Join(msgs, "; ")).
		WithDetails(details).
		WithCode("VAL_001")
}

// Fields extracts per-field messages from an error returned by Struct
func Fields(err error) FieldErrors {
	var ce *apperrors.CustomError
	if !errors.As(err, &ce) || !errors.Is(ce, apperrors.ErrValidationFailed) {
		return nil
	}
	out := FieldErrors{}
	for k, v := range ce.Details {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

func message(e validator.FieldError) string {
	field := label(e.Field())
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Invalid email address"
	case "min":
		if e.Kind() == reflect.String {
			return field + " must be at least " + e.Param() + " characters"
		}
		return field + " must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return field + " must be at most " + e.Param() + " characters"
		}
		return field + " must be at most " + e.Param()
	case "oneof":
		return field + " must be one of: " + e.Param()
	default:
		return field + " validation failed: " + e.Tag()
	}
}

func label(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}

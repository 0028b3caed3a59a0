// Package validation checks inbound payloads against the validate struct tags
// declared on the dto types and renders violations as dotted field paths.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/apperror"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// tagMessages is the default text per rule.
var tagMessages = map[string]string{
	"required": "Required",
	"email":    "Invalid email format",
	"ip":       "Invalid IP address",
	"uuid":     "Invalid uuid",
}

// fieldMessages overrides tagMessages for a specific field and rule.
var fieldMessages = map[string]string{
	"password.min": "Password must be at least 6 characters",
	"ids.min":      "At least one ID is required",
}

var indexPattern = regexp.MustCompile(`\[(\d+)\]`)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Canonical 8-4-4-4-12 form in either case.
	if err := v.RegisterValidation("uuid", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != 36 {
			return false
		}
		_, err := uuid.Parse(s)
		return err == nil
	}); err != nil {
		panic(fmt.Sprintf("validation: register uuid rule: %v", err))
	}
	return &Validator{validate: v}
}

// Struct returns one FieldError per violated constraint, nil when valid.
func (v *Validator) Struct(s interface{}) []apperror.FieldError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []apperror.FieldError{{Field: "", Message: err.Error()}}
	}

	out := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := fieldPath(fe.Namespace())
		out = append(out, apperror.FieldError{Field: field, Message: message(field, fe)})
	}
	return out
}

// Decode unmarshals body into dst. Type mismatches come back as validation
// failures; syntax errors come back as a plain 400 for the generic error path.
func Decode(decoder func([]byte, interface{}) error, body []byte, dst interface{}) error {
	if len(strings.TrimSpace(string(body))) == 0 {
		body = []byte("{}")
	}
	if decoder == nil {
		decoder = json.Unmarshal
	}

	err := decoder(body, dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperror.Validation([]apperror.FieldError{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("Expected %s, received %s", jsonKind(typeErr.Type), typeErr.Value),
		}})
	}
	return apperror.Wrap(apperror.KindBadRequest, "Malformed JSON request body", err)
}

// Merge appends checked to decoded, skipping any entry at or below a field
// that already failed to decode.
func Merge(decoded, checked []apperror.FieldError) []apperror.FieldError {
	out := decoded
	for _, fe := range checked {
		if coveredBy(decoded, fe.Field) {
			continue
		}
		out = append(out, fe)
	}
	return out
}

func coveredBy(decoded []apperror.FieldError, field string) bool {
	for _, d := range decoded {
		if field == d.Field || strings.HasPrefix(field, d.Field+".") {
			return true
		}
	}
	return false
}

// fieldPath drops the root type name and turns "ids[2]" into "ids.2".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		namespace = rest
	}
	return indexPattern.ReplaceAllString(namespace, ".$1")
}

func message(field string, fe validator.FieldError) string {
	key := indexPattern.ReplaceAllString(field, "")
	if i := strings.LastIndex(key, "."); i >= 0 && isDigits(key[i+1:]) {
		key = key[:i]
	}
	if msg, ok := fieldMessages[key+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := tagMessages[fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("Must contain at least %s item(s)", fe.Param())
	default:
		return "Invalid value"
	}
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	default:
		return t.Kind().String()
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

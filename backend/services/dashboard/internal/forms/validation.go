// Package forms decodes and validates the dashboard's mutation payloads. Each form has a typed
// input decoded once at the HTTP boundary; Validate returns every violated rule so nothing
// invalid reaches the API.
package forms

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"greendash/backend/services/dashboard/internal/models"
)

// ErrMalformed wraps payloads that cannot be decoded at all.
var ErrMalformed = errors.New("forms: malformed payload")

// FieldError is one violated rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors lists every violated rule of a form.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v *ValidationErrors) add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

func (v ValidationErrors) err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// AsValidation extracts ValidationErrors from err.
func AsValidation(err error) (ValidationErrors, bool) {
	var v ValidationErrors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// Decode reads a single JSON object into dst, rejecting unknown fields and trailing data.
func Decode(r io.Reader, dst interface{}) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data", ErrMalformed)
	}
	return nil
}

// Number accepts a JSON number or a numeric string, as HTML number inputs submit either.
type Number struct {
	Value float64
	Set   bool
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}
	raw := strings.Trim(string(data), `"`)
	if strings.TrimSpace(raw) == "" {
		*n = Number{}
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !finite(v) {
		return fmt.Errorf("not a number: %q", raw)
	}
	*n = Number{Value: v, Set: true}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Num is a convenience constructor for a set Number.
func Num(v float64) Number {
	return Number{Value: v, Set: true}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(numberValue, Number{})
	mustRegister(v, "finite", func(fl validator.FieldLevel) bool {
		return finite(fl.Field().Float())
	})
	mustRegister(v, "connector", parses(models.ParseConnectorType))
	mustRegister(v, "velocity", parses(models.ParseChargingVelocity))
	mustRegister(v, "spot_state", parses(models.ParseSpotState))
	mustRegister(v, "role", parses(models.ParseRole))
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func parses[T any](parse func(string) (T, error)) validator.Func {
	return func(fl validator.FieldLevel) bool {
		_, err := parse(fl.Field().String())
		return err == nil
	}
}

// numberValue hands the validator a pointer so zero stays distinct from unset.
func numberValue(field reflect.Value) interface{} {
	n, ok := field.Interface().(Number)
	if !ok || !n.Set {
		return nil
	}
	v := n.Value
	return &v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// check runs the struct tags of form and converts failures into ValidationErrors.
func check(form interface{}) ValidationErrors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var failed validator.ValidationErrors
	if !errors.As(err, &failed) {
		return ValidationErrors{{Field: "form", Message: err.Error()}}
	}
	out := make(ValidationErrors, 0, len(failed))
	for _, fe := range failed {
		out.add(fe.Field(), message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "finite":
		return "must be a finite number"
	case "http_url":
		return "must be an http(s) URL"
	case "connector":
		return "is not a known connector type"
	case "velocity":
		return "is not a known charging velocity"
	case "spot_state":
		return "is not a known spot state"
	case "role":
		return "must be USER or OPERATOR"
	}
	return "is invalid"
}

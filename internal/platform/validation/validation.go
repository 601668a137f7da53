// Package validation configures gin's go-playground validator engine and
// turns binding failures into short, client-facing messages.
//
// Field names in messages use the JSON tag of the struct field, so a missing
// leadSource reads "leadSource is required".
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ErrEngineUnavailable is returned when gin is not using go-playground/validator.
var ErrEngineUnavailable = errors.New("validator engine is not go-playground/validator")

var (
	mu    sync.RWMutex
	enums = map[string][]string{}
)

// Setup registers the JSON tag name function and one validator per enum tag on
// gin's default validator. It may be called more than once.
func Setup(enumTags map[string][]string) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return ErrEngineUnavailable
	}
	return register(v, enumTags)
}

func register(v *validator.Validate, enumTags map[string][]string) error {
	v.RegisterTagNameFunc(jsonTagName)

	mu.Lock()
	defer mu.Unlock()
	for tag, allowed := range enumTags {
		if err := v.RegisterValidation(tag, enumValidator(allowed)); err != nil {
			return fmt.Errorf("register %s validator: %w", tag, err)
		}
		enums[tag] = append([]string(nil), allowed...)
	}
	return nil
}

func jsonTagName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func enumValidator(allowed []string) validator.Func {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return func(fl validator.FieldLevel) bool {
		_, ok := set[fl.Field().String()]
		return ok
	}
}

// Message converts an error from ShouldBindJSON into a message safe to return
// to clients.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return strings.Join(msgs, "; ")
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return "Request body is required"
	case errors.As(err, &syntaxErr):
		return "Malformed JSON request body"
	case errors.As(err, &typeErr):
		return fmt.Sprintf("%s has an invalid type", typeErr.Field)
	}
	return "Invalid request body"
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	}

	mu.RLock()
	allowed, ok := enums[fe.Tag()]
	mu.RUnlock()
	if ok {
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", "))
	}
	return field + " is invalid"
}

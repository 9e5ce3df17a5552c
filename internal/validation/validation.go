// Package validation turns request payloads into typed, already-checked values.
// It has no transport dependency: callers decode however they like and hand the
// struct to Struct, which either accepts it or returns an *Error listing every
// offending field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldIssue is one rejected field. Path uses the payload's JSON / query names.
type FieldIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type Error struct {
	Issues []FieldIssue
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.Path + ": " + issue.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewError builds an *Error for a single field.
func NewError(path, message string) *Error {
	return &Error{Issues: []FieldIssue{{Path: path, Message: message}}}
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(fieldName)
	})
	return validate
}

// fieldName prefers the json name, then the form (query/uri) name.
func fieldName(f reflect.StructField) string {
	for _, key := range []string{"json", "form", "uri"} {
		name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Struct validates v against its `validate` tags.
func Struct(v interface{}) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate payload failed: %w", err)
	}

	issues := make([]FieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, FieldIssue{
			Path:    issuePath(fe),
			Message: message(fe),
		})
	}
	return &Error{Issues: issues}
}

// issuePath drops the root struct name: "RegisterInput.email" becomes "email".
func issuePath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	field := label(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		if fe.Kind() == reflect.String || isStringPtr(fe) {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String || isStringPtr(fe) {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "number", "numeric":
		return field + " must be a number"
	default:
		return fmt.Sprintf("%s failed the %s check", field, fe.Tag())
	}
}

func isStringPtr(fe validator.FieldError) bool {
	t := fe.Type()
	return t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.String
}

// label turns "email" or "tags[0]" into a capitalised display name.
func label(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	api "github.com/applytrack/applytrack/api/v1alpha1"
	"github.com/applytrack/applytrack/pkg/location"
)

// stringValue reads string and *string fields alike. A nil pointer reports ok=false.
func stringValue(fl validator.FieldLevel) (string, bool) {
	switch val := fl.Field().Interface().(type) {
	case string:
		return val, true
	case *string:
		if val == nil {
			return "", false
		}
		return *val, true
	default:
		if fl.Field().Kind() != reflect.String {
			return "", false
		}
		return fl.Field().String(), true
	}
}

func notBlankValidator(fl validator.FieldLevel) bool {
	val, ok := stringValue(fl)
	if !ok {
		return false
	}
	return strings.TrimSpace(val) != ""
}

func jobStatusValidator(fl validator.FieldLevel) bool {
	val, ok := stringValue(fl)
	if !ok {
		return false
	}
	return api.JobStatus(val).Valid()
}

func workModeValidator(fl validator.FieldLevel) bool {
	val, ok := stringValue(fl)
	if !ok {
		return false
	}
	return api.WorkMode(val).Valid()
}

func locationValidator(fl validator.FieldLevel) bool {
	val, ok := stringValue(fl)
	if !ok {
		return true
	}
	return location.IsValid(val)
}

func appliedDateValidator(fl validator.FieldLevel) bool {
	val, ok := stringValue(fl)
	if !ok {
		return false
	}
	_, err := ParseAppliedDate(val)
	return err == nil
}

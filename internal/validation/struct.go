package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// custom validation tags
	attendanceStatusTag = "attendance_status"
	isoDateTag          = "isodate"

	attendanceStatuses = map[string]struct{}{
		"present": {},
		"absent":  {},
		"late":    {},
		"excused": {},
	}
)

// validate общий экземпляр validator, безопасен для конкурентного использования
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag names for errors instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(attendanceStatusTag, attendanceStatusValidation)
	_ = v.RegisterValidation(isoDateTag, isoDateValidation)

	return v
}

// Struct проверяет структуру по тегам `validate` и возвращает одну ошибку
// с перечислением всех невалидных полей (по их json-именам)
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validation failed: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case attendanceStatusTag:
		return fmt.Sprintf("%s must be one of present, absent, late, excused", fe.Field())
	case isoDateTag:
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %q check", fe.Field(), fe.Tag())
	}
}

// attendanceStatusValidation only allows known attendance marks.
func attendanceStatusValidation(fl validator.FieldLevel) bool {
	_, ok := attendanceStatuses[fl.Field().String()]
	return ok
}

// isoDateValidation only allows calendar dates like 2024-09-02.
func isoDateValidation(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, fl.Field().String())
	return err == nil
}

package uischema

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-showif/pkg/model"
	"github.com/goliatone/go-showif/pkg/visibility"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		_ = v.RegisterValidation("value_kind", func(fl validator.FieldLevel) bool {
			_, err := visibility.ParseValueKind(fl.Field().String())
			return err == nil
		})

		_ = v.RegisterValidation("comparison", func(fl validator.FieldLevel) bool {
			_, err := visibility.ParseComparison(fl.Field().String())
			return err == nil
		})

		_ = v.RegisterValidation("field_path", func(fl validator.FieldLevel) bool {
			_, err := model.ParsePath(strings.TrimSpace(fl.Field().String()))
			return err == nil
		})

		_ = v.RegisterValidation("field_type", func(fl validator.FieldLevel) bool {
			return model.FieldType(fl.Field().String()).Valid()
		})

		validateInst = v
	})
	return validateInst
}

// convertValidationError reports the first failing field in a yaml-ish
// lower-case namespace, wrapped in sentinel.
func convertValidationError(sentinel, err error) error {
	if ves, ok := err.(validator.ValidationErrors); ok && len(ves) > 0 {
		fe := ves[0]
		return fmt.Errorf("%w: %s failed validation for tag '%s'", sentinel, yamlishFieldName(fe), fe.Tag())
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}

func yamlishFieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		parts[i] = lowerFirst(part)
	}
	return strings.Join(parts, ".")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

package config

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	atriumerrors "github.com/atriumapp/atrium/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	pluginIDPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

// validatorInstance configures and returns the shared validator instance
// used across the config package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("plugin_id", func(fl validator.FieldLevel) bool {
			return pluginIDPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})
	return validateInst
}

// ValidateConfig checks the parsed configuration and reports the first
// offending field with a field-qualified validation error.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return atriumerrors.NewValidationError("", "config is empty", nil)
	}

	if err := validatorInstance().Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if ok := asValidationErrors(err, &fieldErrs); ok && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			field := strings.TrimPrefix(first.Namespace(), "Config.")
			return atriumerrors.NewValidationError(
				strings.ToLower(field),
				fmt.Sprintf("failed '%s' validation", first.Tag()),
				err,
			)
		}
		return atriumerrors.NewValidationError("", err.Error(), err)
	}

	if cfg.Org != nil && cfg.Org.Default != "" && !hasOrganization(*cfg.Org, cfg.Org.Default) {
		return atriumerrors.NewValidationError(
			"org.default",
			fmt.Sprintf("organization '%s' is not declared", cfg.Org.Default),
			nil,
		)
	}

	return nil
}

func hasOrganization(org OrgConfig, id string) bool {
	for _, candidate := range org.Organizations {
		if candidate.ID == id {
			return true
		}
	}
	return false
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	*target = fieldErrs
	return true
}

package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/mythic-mines/internal/domain/fleet"
)

// resourceIDPattern matches catalog resource ids (stone, deep_iron, ...)
var resourceIDPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Validator is a wrapper around go-playground/validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that knows the mining rules:
//   - collect_policy: a policy fleet.ParseCollectPolicy accepts
//   - resource_id: a catalog-style resource id
//
// Errors name fields by their config keys, e.g. simulation.collect_policy.
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	for tag, fn := range map[string]validator.Func{
		"collect_policy": validateCollectPolicy,
		"resource_id":    validateResourceID,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}
	v.RegisterStructValidation(validateDaemon, DaemonConfig{})

	return &Validator{
		validate: v,
	}
}

func validateCollectPolicy(fl validator.FieldLevel) bool {
	_, err := fleet.ParseCollectPolicy(fl.Field().String())
	return err == nil
}

func validateResourceID(fl validator.FieldLevel) bool {
	return resourceIDPattern.MatchString(fl.Field().String())
}

// validateDaemon rejects a pid file that would overwrite the control socket
func validateDaemon(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(DaemonConfig)
	if cfg.PIDFile != "" && cfg.PIDFile == cfg.SocketPath {
		sl.ReportError(cfg.PIDFile, "pid_file", "PIDFile", "ne_socket_path", "")
	}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into readable messages
func (v *Validator) formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrs {
			messages = append(messages, fmt.Sprintf(
				"%s failed validation: %s (value: '%v')",
				configKey(e.Namespace()),
				describeTag(e),
				e.Value(),
			))
		}
		return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
	}
	return err
}

// configKey strips the root struct name: Config.simulation.load_rate -> simulation.load_rate
func configKey(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func describeTag(e validator.FieldError) string {
	switch e.Tag() {
	case "collect_policy":
		return "expected truncate or retain"
	case "resource_id":
		return "resource ids are lowercase letters, digits and underscores"
	case "ne_socket_path":
		return "must differ from daemon.socket_path"
	}
	if e.Param() != "" {
		return e.Tag() + "=" + e.Param()
	}
	return e.Tag()
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	v := NewValidator()
	return v.Validate(cfg)
}

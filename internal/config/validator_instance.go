package config

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	// ip_pattern: dotted IPv4 prefix where the final segment may be a "*"
	// wildcard, e.g. "10.0.1.*", "10.*", or a full exact address.
	ipPatternRegexp = regexp.MustCompile(`^(\d{1,3}\.){0,3}(\d{1,3}|\*)$`)
)

// validatorInstance configures and returns the shared validator used for run
// configuration.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("ip_pattern", func(fl validator.FieldLevel) bool {
			return ipPatternRegexp.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

package env

import (
	"strings"

	"github.com/veedubyou/untracker/src/shared/config/envvar"
)

type Environment string

const (
	Production  Environment = "production"
	Development Environment = "development"
)

// Get reads UNTRACKER_ENV. Anything other than production is treated as a
// development setup talking to local services.
func Get() Environment {
	value := strings.ToLower(envvar.GetOr(envvar.UNTRACKER_ENV, string(Development)))
	if value == string(Production) {
		return Production
	}

	return Development
}

package optionset

import (
	"fmt"
	"strings"
	"time"

	"ffjob/internal/job"
	"ffjob/internal/services"
)

// Set is a named bundle of output options.
type Set struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Options     job.Options `json:"options"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NormalizeName trims a set name and rejects names that cannot be referenced
// from a job document.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: option set name must not be empty", services.ErrConfiguration)
	}
	if strings.ContainsAny(name, " \t\r\n") {
		return "", fmt.Errorf("%w: option set name %q must not contain whitespace", services.ErrConfiguration, name)
	}
	return name, nil
}

func notFound(name string) error {
	return services.Wrap(services.ErrNotFound, "option sets", "resolve", fmt.Sprintf("option set %q does not exist", name), nil)
}

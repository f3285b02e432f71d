package optionset

import (
	"context"

	"ffjob/internal/job"
)

// Static resolves option sets from an in-memory map.
type Static map[string]job.Options

// Resolve satisfies job.Resolver.
func (s Static) Resolve(_ context.Context, name string) (job.Options, error) {
	opts, ok := s[name]
	if !ok {
		return nil, notFound(name)
	}
	return opts.Clone(), nil
}

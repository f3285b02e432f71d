package job

import (
	"context"
	"errors"
	"fmt"

	"ffjob/internal/services"
)

// Resolver looks up named option sets. Implementations return an error
// wrapping services.ErrNotFound when the name is unknown.
type Resolver interface {
	Resolve(ctx context.Context, name string) (Options, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, name string) (Options, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, name string) (Options, error) {
	return f(ctx, name)
}

// ResolveOptionSets returns a copy of j in which every output map that names
// an option set carries the resolved options instead.
func ResolveOptionSets(ctx context.Context, j EncodeJob, resolver Resolver) (EncodeJob, error) {
	out := j.Clone()
	for i := range out.OutputMaps {
		om := &out.OutputMaps[i]
		if !om.HasOptionSet() {
			continue
		}
		field := fmt.Sprintf("output_maps[%d]", i)
		if om.HasOptions() {
			return EncodeJob{}, configError(field, "options and option_set are mutually exclusive")
		}
		if resolver == nil {
			return EncodeJob{}, configError(field, "no resolver available for option set %q", om.OptionSet)
		}
		opts, err := resolver.Resolve(ctx, om.OptionSet)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return EncodeJob{}, fmt.Errorf("%w: %s: option set %q: %w", services.ErrConfiguration, field, om.OptionSet, err)
			}
			return EncodeJob{}, fmt.Errorf("%s: resolve option set %q: %w", field, om.OptionSet, err)
		}
		if opts == nil {
			opts = Options{}
		}
		om.Options = opts.Clone()
		om.OptionSet = ""
	}
	return out, nil
}

package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"

	"ffjob/internal/job"
	"ffjob/internal/services"
)

// ParamSeparator joins nested sub-parameters into one value token, the form
// accepted by options such as -x265-params and -svtav1-params.
const ParamSeparator = ":"

// StreamSuffix renders the per-stream flag suffix, ":v:0" or ":2".
func StreamSuffix(spec job.Specifier, stream int) string {
	if spec == job.SpecifierNone {
		return ":" + strconv.Itoa(stream)
	}
	return ":" + string(spec) + ":" + strconv.Itoa(stream)
}

// OutputArgs flattens one output map into flag tokens. Top-level keys become
// "-<key><suffix>" followed by their value; a nested mapping is joined into a
// single "k=v:k=v" token. Keys are emitted in declaration order.
func OutputArgs(om job.OutputMap) ([]string, error) {
	switch {
	case om.HasOptions() && om.HasOptionSet():
		return nil, fmt.Errorf("%w: options and option_set are mutually exclusive", services.ErrConfiguration)
	case om.HasOptionSet():
		return nil, fmt.Errorf("%w: option set %q has not been resolved", services.ErrConfiguration, om.OptionSet)
	case !om.HasOptions():
		return nil, fmt.Errorf("%w: one of options or option_set is required", services.ErrConfiguration)
	}
	if !om.Specifier.Valid() {
		return nil, fmt.Errorf("%w: unrecognized stream specifier %q", services.ErrConfiguration, string(om.Specifier))
	}
	if om.Stream < 0 {
		return nil, fmt.Errorf("%w: stream index %d must not be negative", services.ErrConfiguration, om.Stream)
	}

	suffix := StreamSuffix(om.Specifier, om.Stream)
	args := make([]string, 0, len(om.Options)*2)
	for _, opt := range om.Options {
		if strings.TrimSpace(opt.Key) == "" {
			return nil, fmt.Errorf("%w: option keys must not be empty", services.ErrConfiguration)
		}
		value := opt.Value.String()
		if opt.Value.IsMapping() {
			joined, err := joinParams(opt.Key, opt.Value.Nested())
			if err != nil {
				return nil, err
			}
			value = joined
		}
		args = append(args, "-"+opt.Key+suffix, value)
	}
	return args, nil
}

func joinParams(key string, params job.Options) (string, error) {
	if len(params) == 0 {
		return "", fmt.Errorf("%w: options.%s: nested options must not be empty", services.ErrConfiguration, key)
	}
	parts := make([]string, 0, len(params))
	for _, param := range params {
		if param.Value.IsMapping() {
			return "", fmt.Errorf("%w: options.%s.%s: nesting deeper than one level is not supported", services.ErrConfiguration, key, param.Key)
		}
		parts = append(parts, param.Key+"="+param.Value.String())
	}
	return strings.Join(parts, ParamSeparator), nil
}

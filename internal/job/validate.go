package job

import (
	"fmt"
	"math"
	"strings"

	"ffjob/internal/services"
)

// MaxOptionDepth is the deepest option nesting the flag flattener supports:
// top-level keys whose values are scalars or a single mapping of scalars.
const MaxOptionDepth = 2

// paramReserved separates nested k=v pairs in the flattened flag value.
const paramReserved = ":="

func configError(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", services.ErrConfiguration, field, fmt.Sprintf(format, args...))
}

// Validate checks the job invariants. Output maps that still reference an
// option set are accepted here; the assembler rejects them until resolved.
func (j EncodeJob) Validate() error {
	if len(j.Sources) == 0 {
		return configError("sources", "at least one source is required")
	}
	seen := make(map[string]int, len(j.Sources))
	for i, source := range j.Sources {
		if strings.TrimSpace(source) == "" {
			return configError(fmt.Sprintf("sources[%d]", i), "path must not be empty")
		}
		if prev, dup := seen[source]; dup {
			return configError(fmt.Sprintf("sources[%d]", i), "duplicate source %q (also sources[%d])", source, prev)
		}
		seen[source] = i
	}

	if len(j.SourceMaps) == 0 {
		return configError("source_maps", "at least one source map is required")
	}
	for i, sm := range j.SourceMaps {
		if err := sm.Check(len(j.Sources)); err != nil {
			return fmt.Errorf("source_maps[%d]: %w", i, err)
		}
	}

	for i, om := range j.OutputMaps {
		if err := om.Check(j.SourceMaps); err != nil {
			return fmt.Errorf("output_maps[%d]: %w", i, err)
		}
	}

	if strings.TrimSpace(j.OutputFile) == "" {
		return configError("output_file", "must not be empty")
	}
	if err := j.InputOptions.Check(); err != nil {
		return fmt.Errorf("input_options: %w", err)
	}
	return nil
}

// Check validates the entry against the number of registered sources.
func (m SourceMap) Check(sourceCount int) error {
	if m.Source < 0 || m.Source >= sourceCount {
		return configError("source", "index %d out of range (%d sources)", m.Source, sourceCount)
	}
	if !m.Specifier.Valid() {
		return configError("specifier", "unrecognized stream specifier %q", string(m.Specifier))
	}
	if m.Stream != nil && *m.Stream < 0 {
		return configError("stream", "index %d must not be negative", *m.Stream)
	}
	return nil
}

// Check validates the entry against the job's source maps.
func (m OutputMap) Check(sourceMaps []SourceMap) error {
	switch {
	case m.HasOptions() && m.HasOptionSet():
		return configError("options", "options and option_set are mutually exclusive")
	case !m.HasOptions() && !m.HasOptionSet():
		return configError("options", "one of options or option_set is required")
	}
	if !m.Specifier.Valid() {
		return configError("specifier", "unrecognized stream specifier %q", string(m.Specifier))
	}
	if m.Stream < 0 {
		return configError("stream", "index %d must not be negative", m.Stream)
	}
	if limit, ok := outputStreamLimit(sourceMaps, m.Specifier); ok && m.Stream >= limit {
		if m.Specifier == SpecifierNone {
			return configError("stream", "index %d out of range (%d mapped streams)", m.Stream, limit)
		}
		return configError("stream", "index %d out of range (%d mapped %s streams)", m.Stream, limit, m.Specifier.CodecType())
	}
	return checkOptions(m.Options, "options", 1)
}

// outputStreamLimit returns how many output streams the specifier can address.
// The count is only known when every source map selects exactly one stream,
// and, for typed lookups, when every source map is typed.
func outputStreamLimit(sourceMaps []SourceMap, spec Specifier) (int, bool) {
	count := 0
	for _, sm := range sourceMaps {
		if !sm.SelectsSingleStream() {
			return 0, false
		}
		if spec == SpecifierNone {
			count++
			continue
		}
		if sm.Specifier == SpecifierNone {
			return 0, false
		}
		if sm.Specifier == spec {
			count++
		}
	}
	return count, true
}

// Check validates option keys and nesting depth in isolation, as stored
// option sets must be valid before any job references them.
func (o Options) Check() error {
	return checkOptions(o, "options", 1)
}

func checkOptions(opts Options, path string, level int) error {
	for _, opt := range opts {
		keyPath := path + "." + opt.Key
		key := strings.TrimSpace(opt.Key)
		if key == "" {
			return configError(path, "option keys must not be empty")
		}
		if key != opt.Key || strings.ContainsAny(key, " \t\r\n") {
			return configError(keyPath, "option keys must not contain whitespace")
		}
		if level == 1 && strings.HasPrefix(key, "-") {
			return configError(keyPath, "option keys are written without the leading dash")
		}
		if level > 1 && strings.ContainsAny(key, paramReserved) {
			return configError(keyPath, "nested keys must not contain ':' or '='")
		}
		if !opt.Value.IsMapping() {
			if level > 1 && strings.ContainsAny(opt.Value.String(), paramReserved) {
				return configError(keyPath, "nested values must not contain ':' or '='")
			}
			continue
		}
		if level >= MaxOptionDepth {
			return configError(keyPath, "nesting deeper than one level is not supported")
		}
		if len(opt.Value.Nested()) == 0 {
			return configError(keyPath, "nested options must not be empty")
		}
		if err := checkOptions(opt.Value.Nested(), keyPath, level+1); err != nil {
			return err
		}
	}
	return nil
}

// Check validates input-scoped options.
func (o InputOptions) Check() error {
	if o.StreamLoop != nil {
		loop := *o.StreamLoop
		if math.IsNaN(loop) || math.IsInf(loop, 0) || loop != math.Trunc(loop) {
			return configError("stream_loop", "must be a whole number, got %v", loop)
		}
		if loop < -1 {
			return configError("stream_loop", "must be -1 (infinite) or greater, got %v", loop)
		}
	}
	return nil
}

package job

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Value is either a scalar option value or a nested mapping of sub-parameters.
type Value struct {
	scalar string
	nested Options
	isMap  bool
}

// Scalar wraps a single option value.
func Scalar(value string) Value {
	return Value{scalar: value}
}

// Mapping wraps a nested, ordered set of sub-parameters.
func Mapping(opts ...Option) Value {
	nested := make(Options, 0, len(opts))
	nested = append(nested, opts...)
	return Value{nested: nested, isMap: true}
}

// IsMapping reports whether the value holds nested sub-parameters.
func (v Value) IsMapping() bool { return v.isMap }

// String returns the scalar value; mappings return "".
func (v Value) String() string { return v.scalar }

// Nested returns the sub-parameters of a mapping value.
func (v Value) Nested() Options { return v.nested }

// Option is a single key/value pair in declaration order.
type Option struct {
	Key   string
	Value Value
}

// Opt is shorthand for a scalar option.
func Opt(key, value string) Option {
	return Option{Key: key, Value: Scalar(value)}
}

// Options is an ordered option mapping. A nil Options means "absent"; an empty
// non-nil Options was declared but carries no keys.
type Options []Option

// Get returns the value stored under key.
func (o Options) Get(key string) (Value, bool) {
	for _, opt := range o {
		if opt.Key == key {
			return opt.Value, true
		}
	}
	return Value{}, false
}

// Keys returns option keys in declaration order.
func (o Options) Keys() []string {
	keys := make([]string, 0, len(o))
	for _, opt := range o {
		keys = append(keys, opt.Key)
	}
	return keys
}

// Depth returns the nesting depth: 0 for empty, 1 for scalars only, 2 when a
// value is a mapping of scalars, and so on.
func (o Options) Depth() int {
	if len(o) == 0 {
		return 0
	}
	depth := 1
	for _, opt := range o {
		if !opt.Value.isMap {
			continue
		}
		if d := opt.Value.nested.Depth() + 1; d > depth {
			depth = d
		}
	}
	return depth
}

// Clone returns a deep copy that preserves nil-ness.
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	out := make(Options, 0, len(o))
	for _, opt := range o {
		cloned := opt
		if opt.Value.isMap {
			cloned.Value.nested = opt.Value.nested.Clone()
		}
		out = append(out, cloned)
	}
	return out
}

// MarshalJSON writes the options as a JSON object in declaration order.
func (o Options) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, opt := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(opt.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		var value []byte
		if opt.Value.isMap {
			value, err = opt.Value.nested.MarshalJSON()
		} else {
			value, err = json.Marshal(opt.Value.scalar)
		}
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a JSON object while keeping key order.
func (o *Options) UnmarshalJSON(data []byte) error {
	if strings.TrimSpace(string(data)) == "null" {
		*o = nil
		return nil
	}
	parsed, err := ParseOptions(data)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// ParseOptions decodes a JSON object into ordered Options. Numbers keep their
// literal text, booleans become "true"/"false", and nested objects become
// mappings. Arrays, nulls and duplicate keys are rejected.
func ParseOptions(raw []byte) (Options, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.New("options: invalid JSON")
	}
	result := gjson.ParseBytes(raw)
	if !result.IsObject() {
		return nil, errors.New("options: expected a JSON object")
	}
	return parseObject(result, "")
}

func parseObject(result gjson.Result, path string) (Options, error) {
	opts := make(Options, 0)
	seen := make(map[string]struct{})
	var parseErr error
	result.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		keyPath := joinKeyPath(path, name)
		if _, dup := seen[name]; dup {
			parseErr = fmt.Errorf("options: duplicate key %q", keyPath)
			return false
		}
		seen[name] = struct{}{}
		v, err := parseValue(value, keyPath)
		if err != nil {
			parseErr = err
			return false
		}
		opts = append(opts, Option{Key: name, Value: v})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return opts, nil
}

func parseValue(value gjson.Result, path string) (Value, error) {
	switch value.Type {
	case gjson.String:
		return Scalar(value.String()), nil
	case gjson.Number:
		return Scalar(value.Raw), nil
	case gjson.True:
		return Scalar("true"), nil
	case gjson.False:
		return Scalar("false"), nil
	case gjson.JSON:
		if value.IsObject() {
			nested, err := parseObject(value, path)
			if err != nil {
				return Value{}, err
			}
			return Value{nested: nested, isMap: true}, nil
		}
		return Value{}, fmt.Errorf("options: %s: arrays are not supported", path)
	default:
		return Value{}, fmt.Errorf("options: %s: null is not a valid option value", path)
	}
}

func joinKeyPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

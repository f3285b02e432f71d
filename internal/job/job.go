package job

// SourceMap selects streams from one source. Its position in EncodeJob.SourceMaps
// is the logical stream index that output maps refer to.
type SourceMap struct {
	// Source is the zero-based index into EncodeJob.Sources.
	Source int
	// Specifier restricts the selection to one stream type.
	Specifier Specifier
	// Stream is the zero-based stream position: within the specifier's type
	// when a specifier is set, otherwise across all streams of the source.
	// Nil selects every stream matching the specifier.
	Stream *int
	// Optional tolerates the stream being absent from the source.
	Optional bool
}

// SelectsSingleStream reports whether the entry names one concrete stream.
func (m SourceMap) SelectsSingleStream() bool {
	return m.Stream != nil
}

// OutputMap attaches options to a mapped stream on the output side.
type OutputMap struct {
	// Specifier scopes Stream to output streams of one type.
	Specifier Specifier
	// Stream is the output stream position, counted per type when a specifier is set.
	Stream int
	// Options are emitted as per-stream flags. Exactly one of Options and
	// OptionSet must be present.
	Options Options
	// OptionSet names an externally stored option bundle.
	OptionSet string
}

// HasOptions reports whether inline options were declared.
func (m OutputMap) HasOptions() bool { return m.Options != nil }

// HasOptionSet reports whether a named option set was declared.
func (m OutputMap) HasOptionSet() bool { return m.OptionSet != "" }

// InputOptions apply to the input list. They are emitted once before the
// first source.
type InputOptions struct {
	StreamLoop  *float64
	RecastMedia bool
	SS          string
	To          string
	T           string
}

// IsZero reports whether no input option is set.
func (o InputOptions) IsZero() bool {
	return o.StreamLoop == nil && !o.RecastMedia && o.SS == "" && o.To == "" && o.T == ""
}

// EncodeJob aggregates everything needed to assemble one ffmpeg invocation.
type EncodeJob struct {
	Sources      []string
	SourceMaps   []SourceMap
	OutputMaps   []OutputMap
	OutputFile   string
	Overwrite    bool
	InputOptions InputOptions
}

// Clone returns a deep copy of the job.
func (j EncodeJob) Clone() EncodeJob {
	out := j
	out.Sources = append([]string(nil), j.Sources...)
	out.SourceMaps = make([]SourceMap, len(j.SourceMaps))
	for i, sm := range j.SourceMaps {
		if sm.Stream != nil {
			stream := *sm.Stream
			sm.Stream = &stream
		}
		out.SourceMaps[i] = sm
	}
	out.OutputMaps = make([]OutputMap, len(j.OutputMaps))
	for i, om := range j.OutputMaps {
		om.Options = om.Options.Clone()
		out.OutputMaps[i] = om
	}
	if j.InputOptions.StreamLoop != nil {
		loop := *j.InputOptions.StreamLoop
		out.InputOptions.StreamLoop = &loop
	}
	return out
}

// Index returns a pointer to v, for SourceMap.Stream literals.
func Index(v int) *int { return &v }

package job

import (
	"encoding/json"
	"fmt"
	"os"
)

type document struct {
	Sources      []string            `json:"sources"`
	SourceMaps   []sourceMapDocument `json:"source_maps"`
	OutputMaps   []outputMapDocument `json:"output_maps"`
	OutputFile   string              `json:"output_file"`
	Overwrite    bool                `json:"overwrite"`
	InputOptions *inputOptionsDoc    `json:"input_options"`
}

type sourceMapDocument struct {
	Source    int    `json:"source"`
	Specifier string `json:"specifier"`
	Stream    *int   `json:"stream"`
	Optional  bool   `json:"optional"`
}

type outputMapDocument struct {
	Specifier string  `json:"specifier"`
	Stream    int     `json:"stream"`
	Options   Options `json:"options"`
	OptionSet string  `json:"option_set"`
}

type inputOptionsDoc struct {
	StreamLoop  *float64 `json:"stream_loop"`
	RecastMedia bool     `json:"recast_media"`
	SS          string   `json:"ss"`
	To          string   `json:"to"`
	T           string   `json:"t"`
}

// LoadFile reads, schema-validates and decodes a job document from disk.
func LoadFile(path string) (EncodeJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return EncodeJob{}, fmt.Errorf("read job document: %w", err)
	}
	return Parse(path, data)
}

// Parse schema-validates and decodes a job document, then checks the model
// invariants. Schema failures are reported as *SchemaError; model failures
// wrap services.ErrConfiguration.
func Parse(source string, data []byte) (EncodeJob, error) {
	if err := ValidateDocument(source, data); err != nil {
		return EncodeJob{}, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return EncodeJob{}, &SchemaError{Source: source, Problems: []string{fmt.Sprintf("decode: %v", err)}}
	}

	j := EncodeJob{
		Sources:    doc.Sources,
		OutputFile: doc.OutputFile,
		Overwrite:  doc.Overwrite,
	}
	for i, sm := range doc.SourceMaps {
		spec, err := ParseSpecifier(sm.Specifier)
		if err != nil {
			return EncodeJob{}, fmt.Errorf("source_maps[%d]: %w", i, err)
		}
		j.SourceMaps = append(j.SourceMaps, SourceMap{
			Source:    sm.Source,
			Specifier: spec,
			Stream:    sm.Stream,
			Optional:  sm.Optional,
		})
	}
	for i, om := range doc.OutputMaps {
		spec, err := ParseSpecifier(om.Specifier)
		if err != nil {
			return EncodeJob{}, fmt.Errorf("output_maps[%d]: %w", i, err)
		}
		j.OutputMaps = append(j.OutputMaps, OutputMap{
			Specifier: spec,
			Stream:    om.Stream,
			Options:   om.Options,
			OptionSet: om.OptionSet,
		})
	}
	if in := doc.InputOptions; in != nil {
		j.InputOptions = InputOptions{
			StreamLoop:  in.StreamLoop,
			RecastMedia: in.RecastMedia,
			SS:          in.SS,
			To:          in.To,
			T:           in.T,
		}
	}

	if err := j.Validate(); err != nil {
		return EncodeJob{}, err
	}
	return j, nil
}

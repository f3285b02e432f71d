package ffmpeg

import (
	"fmt"
	"strconv"

	"ffjob/internal/job"
)

// InputOptionArgs renders input-scoped options. They are emitted once, ahead
// of the whole input list.
func InputOptionArgs(in job.InputOptions) []string {
	args := make([]string, 0, 9)
	if in.StreamLoop != nil {
		args = append(args, "-stream_loop", strconv.FormatFloat(*in.StreamLoop, 'f', -1, 64))
	}
	if in.RecastMedia {
		args = append(args, "-recast_media")
	}
	if in.SS != "" {
		args = append(args, "-ss", in.SS)
	}
	if in.To != "" {
		args = append(args, "-to", in.To)
	}
	if in.T != "" {
		args = append(args, "-t", in.T)
	}
	return args
}

// Assemble builds the ordered ffmpeg argument list for j. It never touches the
// filesystem. On error no tokens are returned.
func Assemble(j job.EncodeJob) ([]string, error) {
	if err := j.Validate(); err != nil {
		return nil, err
	}

	args := make([]string, 0, 16+2*len(j.Sources)+2*len(j.SourceMaps)+4*len(j.OutputMaps))

	// --- Input options ---
	args = append(args, InputOptionArgs(j.InputOptions)...)

	// --- Inputs ---
	for _, source := range j.Sources {
		args = append(args, "-i", source)
	}

	// --- Stream maps ---
	for i, sm := range j.SourceMaps {
		mapArgs, err := MapArgs(sm, len(j.Sources))
		if err != nil {
			return nil, fmt.Errorf("source_maps[%d]: %w", i, err)
		}
		args = append(args, mapArgs...)
	}

	// --- Per-stream output options ---
	for i, om := range j.OutputMaps {
		outArgs, err := OutputArgs(om)
		if err != nil {
			return nil, fmt.Errorf("output_maps[%d]: %w", i, err)
		}
		args = append(args, outArgs...)
	}

	// --- Output ---
	if j.Overwrite {
		args = append(args, "-y")
	}
	args = append(args, j.OutputFile)

	return args, nil
}

package ffmpeg

import (
	"strconv"
	"strings"

	"ffjob/internal/job"
)

// MapSelector renders the stream selector for a source map, e.g. "1:a:0?".
// A specifier counts streams per type; without one the index is the stream's
// position across the whole source.
func MapSelector(sm job.SourceMap) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(sm.Source))
	if sm.Specifier != job.SpecifierNone {
		b.WriteByte(':')
		b.WriteString(string(sm.Specifier))
	}
	if sm.Stream != nil {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(*sm.Stream))
	}
	if sm.Optional {
		b.WriteByte('?')
	}
	return b.String()
}

// MapArgs returns the -map directive for sm after checking it against the
// number of registered sources.
func MapArgs(sm job.SourceMap, sourceCount int) ([]string, error) {
	if err := sm.Check(sourceCount); err != nil {
		return nil, err
	}
	return []string{"-map", MapSelector(sm)}, nil
}

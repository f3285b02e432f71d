package job

import (
	"fmt"
	"strings"

	"ffjob/internal/services"
)

// Specifier is the single-letter ffmpeg stream type code used in map and
// per-stream option suffixes. The zero value means "any stream type".
type Specifier string

const (
	SpecifierNone       Specifier = ""
	SpecifierVideo      Specifier = "v"
	SpecifierAudio      Specifier = "a"
	SpecifierSubtitle   Specifier = "s"
	SpecifierData       Specifier = "d"
	SpecifierAttachment Specifier = "t"
)

var specifierNames = map[string]Specifier{
	"v":           SpecifierVideo,
	"video":       SpecifierVideo,
	"a":           SpecifierAudio,
	"audio":       SpecifierAudio,
	"s":           SpecifierSubtitle,
	"subtitle":    SpecifierSubtitle,
	"subtitles":   SpecifierSubtitle,
	"d":           SpecifierData,
	"data":        SpecifierData,
	"t":           SpecifierAttachment,
	"attachment":  SpecifierAttachment,
	"attachments": SpecifierAttachment,
}

// ParseSpecifier normalizes a stream type name or code. Blank input yields
// SpecifierNone; anything unrecognized is a configuration error.
func ParseSpecifier(raw string) (Specifier, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return SpecifierNone, nil
	}
	if spec, ok := specifierNames[value]; ok {
		return spec, nil
	}
	return SpecifierNone, fmt.Errorf("%w: unrecognized stream specifier %q", services.ErrConfiguration, raw)
}

// Valid reports whether s is SpecifierNone or a known stream type code.
func (s Specifier) Valid() bool {
	switch s {
	case SpecifierNone, SpecifierVideo, SpecifierAudio, SpecifierSubtitle, SpecifierData, SpecifierAttachment:
		return true
	default:
		return false
	}
}

// CodecType returns the ffprobe codec_type matching the specifier, or "" for SpecifierNone.
func (s Specifier) CodecType() string {
	switch s {
	case SpecifierVideo:
		return "video"
	case SpecifierAudio:
		return "audio"
	case SpecifierSubtitle:
		return "subtitle"
	case SpecifierData:
		return "data"
	case SpecifierAttachment:
		return "attachment"
	default:
		return ""
	}
}

func (s Specifier) String() string { return string(s) }

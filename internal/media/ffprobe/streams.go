package ffprobe

import (
	"strconv"
	"strings"
)

// StreamInfo summarizes one stream.
type StreamInfo struct {
	Codec     string `json:"codec"`
	CodecLong string `json:"codec_long,omitempty"`
	// Index is the stream's absolute position in the container.
	Index int `json:"index"`
	// TypeIndex is the stream's position among the streams of the listing it
	// belongs to; see Result.StreamsOfType.
	TypeIndex int    `json:"type_index"`
	Type      string `json:"type"`
	Language  string `json:"language,omitempty"`
	BitRate   int64  `json:"bit_rate,omitempty"`
	Frames    int64  `json:"frames,omitempty"`
	Default   bool   `json:"default"`
	Forced    bool   `json:"forced"`
	Title     string `json:"title,omitempty"`
	Channels  int    `json:"channels,omitempty"`
}

// Info flattens the stream, applying tag fallbacks for bitrate and frame count.
func (s Stream) Info() StreamInfo {
	language, _ := s.Tag("language")
	title, _ := s.Tag("title")
	return StreamInfo{
		Codec:     s.CodecName,
		CodecLong: s.CodecLongName,
		Index:     s.Index,
		Type:      s.CodecType,
		Language:  language,
		BitRate:   s.bitRate(),
		Frames:    s.frames(language),
		Default:   s.Disposition["default"] != 0,
		Forced:    s.Disposition["forced"] != 0,
		Title:     title,
		Channels:  s.Channels,
	}
}

func (s Stream) bitRate() int64 {
	if value := parseCount(s.BitRate); value > 0 {
		return value
	}
	if tag, ok := s.Tag("BPS"); ok {
		return parseCount(tag)
	}
	return 0
}

func (s Stream) frames(language string) int64 {
	if value := parseCount(s.NBReadFrames); value > 0 {
		return value
	}
	if value := parseCount(s.NBFrames); value > 0 {
		return value
	}
	if language != "" {
		if tag, ok := s.Tag("NUMBER_OF_FRAMES-" + language); ok {
			if value := parseCount(tag); value > 0 {
				return value
			}
		}
	}
	if tag, ok := s.Tag("NUMBER_OF_FRAMES"); ok {
		return parseCount(tag)
	}
	return 0
}

// StreamInfos returns every stream in container order. TypeIndex equals the
// absolute index.
func (r Result) StreamInfos() []StreamInfo {
	return r.StreamsOfType("")
}

// StreamsOfType returns the streams whose codec type matches codecType, in
// container order, with TypeIndex renumbered from zero. An empty codecType
// selects every stream.
func (r Result) StreamsOfType(codecType string) []StreamInfo {
	codecType = strings.TrimSpace(codecType)
	infos := make([]StreamInfo, 0, len(r.Streams))
	for _, stream := range r.Streams {
		if codecType != "" && !strings.EqualFold(stream.CodecType, codecType) {
			continue
		}
		info := stream.Info()
		info.TypeIndex = len(infos)
		infos = append(infos, info)
	}
	return infos
}

// Select resolves a stream selection the way ffmpeg's -map does. With a
// codec type, stream counts within that type; without one it counts across
// the container. A nil stream selects every match.
func (r Result) Select(codecType string, stream *int) []StreamInfo {
	candidates := r.StreamsOfType(codecType)
	if stream == nil {
		return candidates
	}
	if *stream < 0 || *stream >= len(candidates) {
		return nil
	}
	return candidates[*stream : *stream+1]
}

// PrimaryVideo returns the first video stream, preferring one flagged as
// default.
func (r Result) PrimaryVideo() (StreamInfo, bool) {
	videos := r.StreamsOfType("video")
	if len(videos) == 0 {
		return StreamInfo{}, false
	}
	for _, video := range videos {
		if video.Default {
			return video, true
		}
	}
	return videos[0], true
}

func parseCount(value string) int64 {
	value = strings.TrimSpace(value)
	if value == "" || value == "N/A" {
		return 0
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

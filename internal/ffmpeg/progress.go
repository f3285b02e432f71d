package ffmpeg

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Progress is a snapshot of a running encode.
type Progress struct {
	Frame     int64
	FPS       float64
	OutTime   time.Duration
	Speed     float64
	TotalSize int64
	Bitrate   string
	Done      bool
}

// MatchStatusFrame extracts the frame counter from classic status lines such
// as "frame=  240 fps= 60 q=28.0 size=...".
var MatchStatusFrame = regexp.MustCompile(`frame=\s*(\d+)`)

var (
	matchStatusTime  = regexp.MustCompile(`time=\s*(\d+):(\d{2}):(\d{2}(?:\.\d+)?)`)
	matchStatusSpeed = regexp.MustCompile(`speed=\s*([\d.]+)x`)
)

// ProgressParser accumulates "-progress" key=value blocks. Each block ends
// with a progress=continue or progress=end line, at which point a snapshot is
// emitted. Legacy status lines emit immediately.
type ProgressParser struct {
	current Progress
}

// Feed consumes one output line and reports whether a snapshot is complete.
func (p *ProgressParser) Feed(line string) (Progress, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Progress{}, false
	}

	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return Progress{}, false
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	// Status lines carry several pairs on one line.
	if key == "frame" && strings.Contains(value, "=") {
		return p.feedStatus(line)
	}

	switch key {
	case "frame":
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			p.current.Frame = n
		}
	case "fps":
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			p.current.FPS = f
		}
	case "out_time_us", "out_time_ms":
		// out_time_ms is misnamed upstream and is microseconds too.
		if n, err := strconv.ParseInt(value, 10, 64); err == nil && n >= 0 {
			p.current.OutTime = time.Duration(n) * time.Microsecond
		}
	case "out_time":
		if d, ok := parseClock(value); ok && p.current.OutTime == 0 {
			p.current.OutTime = d
		}
	case "speed":
		if f, err := strconv.ParseFloat(strings.TrimSuffix(value, "x"), 64); err == nil {
			p.current.Speed = f
		}
	case "total_size":
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			p.current.TotalSize = n
		}
	case "bitrate":
		p.current.Bitrate = value
	case "progress":
		snapshot := p.current
		snapshot.Done = value == "end"
		p.current = Progress{}
		return snapshot, true
	}
	return Progress{}, false
}

func (p *ProgressParser) feedStatus(line string) (Progress, bool) {
	m := MatchStatusFrame.FindStringSubmatch(line)
	if m == nil {
		return Progress{}, false
	}
	frame, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return Progress{}, false
	}
	snapshot := Progress{Frame: frame}
	if tm := matchStatusTime.FindStringSubmatch(line); tm != nil {
		if d, ok := parseClock(tm[1] + ":" + tm[2] + ":" + tm[3]); ok {
			snapshot.OutTime = d
		}
	}
	if sm := matchStatusSpeed.FindStringSubmatch(line); sm != nil {
		if f, err := strconv.ParseFloat(sm[1], 64); err == nil {
			snapshot.Speed = f
		}
	}
	return snapshot, true
}

// parseClock parses HH:MM:SS(.frac).
func parseClock(value string) (time.Duration, bool) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 3 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || seconds < 0 {
		return 0, false
	}
	total := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
	total += time.Duration(seconds * float64(time.Second))
	return total, true
}

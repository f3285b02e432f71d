package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ffjob/internal/config"
	"ffjob/internal/deps"
	"ffjob/internal/job"
	"ffjob/internal/language"
	"ffjob/internal/media/ffprobe"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var (
		streamType  string
		countFrames bool
		asJSON      bool
		raw         bool
	)

	cmd := &cobra.Command{
		Use:   "probe FILE",
		Short: "List the streams of a media file",
		Long: `Run ffprobe on a media file and list its streams with the per-type indexes
that source maps refer to.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			spec, err := job.ParseSpecifier(streamType)
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			binary := deps.ResolveFFprobePath(cfg.FFmpeg.FFprobeBinary, deps.ResolveFFmpegPath(cfg.FFmpeg.Binary))
			result, err := ffprobe.Inspect(cmd.Context(), binary, path, ffprobe.Options{
				CountFrames: countFrames || cfg.Encoding.CountFrames,
			})
			if err != nil {
				return err
			}

			if raw {
				_, err := cmd.OutOrStdout().Write(append(result.RawJSON(), '\n'))
				return err
			}
			streams := result.StreamsOfType(spec.CodecType())
			if asJSON {
				if streams == nil {
					streams = []ffprobe.StreamInfo{}
				}
				return writeJSON(cmd, streams)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderProbe(path, result, streams))
			return nil
		},
	}

	cmd.Flags().StringVarP(&streamType, "type", "t", "", "Only list streams of this type (video, audio, subtitle, data, attachment)")
	cmd.Flags().BoolVar(&countFrames, "count-frames", false, "Decode the file to count frames exactly")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output streams as JSON")
	cmd.Flags().BoolVar(&raw, "raw", false, "Output the unmodified ffprobe JSON")
	cmd.MarkFlagsMutuallyExclusive("json", "raw")
	return cmd
}

func renderProbe(path string, result ffprobe.Result, streams []ffprobe.StreamInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", path)
	fmt.Fprintf(&b, "Format: %s  Duration: %s  Size: %s  Bitrate: %s\n",
		valueOrDash(result.Format.FormatName),
		clockDuration(result.DurationSeconds()),
		humanBytes(result.SizeBytes()),
		humanBitrate(result.BitRate()),
	)
	if len(streams) == 0 {
		b.WriteString("No matching streams\n")
		return b.String()
	}

	rows := make([][]string, 0, len(streams))
	for _, s := range streams {
		rows = append(rows, []string{
			strconv.Itoa(s.Index),
			strconv.Itoa(s.TypeIndex),
			language.Title(s.Type),
			s.Codec,
			language.DisplayName(s.Language),
			valueOrDash(s.Title),
			channelsText(s.Channels),
			humanBitrate(s.BitRate),
			framesText(s.Frames),
			dispositionText(s),
		})
	}
	headers := []string{"#", "Type #", "Type", "Codec", "Language", "Title", "Channels", "Bitrate", "Frames", "Flags"}
	b.WriteString(renderTable(headers, rows, 0, 1, 6, 7, 8))
	b.WriteString("\n")
	return b.String()
}

func dispositionText(s ffprobe.StreamInfo) string {
	var flags []string
	if s.Default {
		flags = append(flags, "default")
	}
	if s.Forced {
		flags = append(flags, "forced")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}

func channelsText(channels int) string {
	if channels <= 0 {
		return "-"
	}
	return strconv.Itoa(channels)
}

func framesText(frames int64) string {
	if frames <= 0 {
		return "-"
	}
	return strconv.FormatInt(frames, 10)
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

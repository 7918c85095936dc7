package util

import (
	"fmt"
	"math"
	"os"
	"strings"

	"clipforge/internal/types"
)

// WriteSrtFile serializes caption segments as a SubRip file. Segments are
// written in the order given with 1-based cue numbers.
func WriteSrtFile(segments []types.CaptionSegment, path string) error {
	var builder strings.Builder
	for i, segment := range segments {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(fmt.Sprintf("%d\n", i+1))
		builder.WriteString(fmt.Sprintf("%s --> %s\n", FormatSrtTimestamp(segment.Start), FormatSrtTimestamp(segment.End)))
		builder.WriteString(strings.TrimSpace(segment.Text))
		builder.WriteString("\n")
	}
	return os.WriteFile(path, []byte(builder.String()), 0o644)
}

// FormatSrtTimestamp renders seconds as HH:MM:SS,mmm.
func FormatSrtTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int(math.Round(seconds * 1000))
	hours := millis / 3600000
	millis -= hours * 3600000
	minutes := millis / 60000
	millis -= minutes * 60000
	secs := millis / 1000
	millis -= secs * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

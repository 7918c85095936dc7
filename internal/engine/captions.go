package engine

import (
	"fmt"
	"strings"
)

// ASS style tables for burned-in captions. Colors are &HAABBGGRR (BGR order,
// alpha first).
var captionColors = map[string]string{
	"white":  "&H00FFFFFF",
	"black":  "&H00000000",
	"yellow": "&H0000FFFF",
	"red":    "&H000000FF",
	"green":  "&H0000FF00",
	"blue":   "&H00FF0000",
	"cyan":   "&H00FFFF00",
	"orange": "&H0000A5FF",
}

var captionSizes = map[string]int{
	"small":  18,
	"medium": 24,
	"large":  32,
	"xlarge": 42,
}

// numpad alignment values
var captionAlignments = map[string]int{
	"bottom":       2,
	"bottom-left":  1,
	"bottom-right": 3,
	"middle":       5,
	"center":       5,
	"top":          8,
	"top-left":     7,
	"top-right":    9,
}

const captionBackColour = "&H80000000" // half-transparent black box

// forceStyle renders the ASS style override string for a caption style.
// Unknown table keys fall back to the defaults (white, medium, bottom);
// only a missing subtitle file fails a caption compile.
func forceStyle(style CaptionStyle) string {
	color, ok := captionColors[style.Color]
	if !ok {
		color = captionColors["white"]
	}
	size, ok := captionSizes[style.Size]
	if !ok {
		size = captionSizes["medium"]
	}
	alignment, ok := captionAlignments[style.Position]
	if !ok {
		alignment = captionAlignments["bottom"]
	}

	parts := []string{
		fmt.Sprintf("FontSize=%d", size),
		fmt.Sprintf("PrimaryColour=%s", color),
		fmt.Sprintf("Alignment=%d", alignment),
	}
	if style.Background {
		parts = append(parts,
			"BorderStyle=4",
			fmt.Sprintf("BackColour=%s", captionBackColour),
			"Outline=0",
		)
	} else {
		parts = append(parts, "BorderStyle=1", "Outline=1", "Shadow=1")
	}
	return strings.Join(parts, ",")
}

// subtitlesStage builds the burn-in stage. The filename is user-controlled
// and goes through the central escaper; the style string is table-controlled
// and is quoted as one token.
func subtitlesStage(params CaptionParams) FilterStage {
	return FilterStage{Name: "subtitles", Args: []FilterArg{
		textArg("filename", params.Path),
		arg("force_style", "'"+forceStyle(params.Style)+"'"),
	}}
}

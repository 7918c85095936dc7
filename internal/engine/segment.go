package engine

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"clipforge/log"
)

// Span is a half-open source time range [Start, End).
type Span struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (s Span) duration() float64 { return s.End - s.Start }

// SegmentPlan lists the source spans retained after removing a clip, in
// source order. The union of the spans is the source minus the removed range.
type SegmentPlan struct {
	Removed        Span    `json:"removed"`
	Spans          []Span  `json:"spans"`
	SourceDuration float64 `json:"sourceDuration"`
}

// OutputDuration is the total duration of the retained spans.
func (p *SegmentPlan) OutputDuration() float64 {
	var total float64
	for _, s := range p.Spans {
		total += s.duration()
	}
	return total
}

// SegmentEditor plans clip removal. It is only invoked for removeClip; every
// other kind goes through the single-stream filter compiler.
type SegmentEditor struct{}

func NewSegmentEditor() *SegmentEditor {
	return &SegmentEditor{}
}

// Plan computes the retained spans for removing [start, end) from a source
// of the given duration. Invalid bounds skip the operation: the plan is nil,
// ok is false and a warning is logged. Removal never hard-fails an edit.
func (e *SegmentEditor) Plan(start, end, duration float64) (*SegmentPlan, bool) {
	if start < 0 || end <= start || start >= duration || duration <= 0 {
		log.GetLogger().Warn("skipping removeClip with invalid bounds",
			zap.Float64("startTime", start),
			zap.Float64("endTime", end),
			zap.Float64("sourceDuration", duration))
		return nil, false
	}
	if end > duration {
		end = duration
	}

	plan := &SegmentPlan{
		Removed:        Span{Start: start, End: end},
		SourceDuration: duration,
	}
	if start > 0 {
		plan.Spans = append(plan.Spans, Span{Start: 0, End: start})
	}
	if end < duration {
		plan.Spans = append(plan.Spans, Span{Start: end, End: duration})
	}
	return plan, true
}

// SegmentGraph is a compiled filter_complex graph with its mapped output
// labels.
type SegmentGraph struct {
	FilterComplex string
	VideoLabel    string
	AudioLabel    string
}

// BuildGraph renders the plan as a trim/concat graph. Each span yields one
// video and one audio chain with timestamps rebased to zero; concat consumes
// them as interleaved [vN][aN] pairs so stream pairing survives.
func (e *SegmentEditor) BuildGraph(plan *SegmentPlan) *SegmentGraph {
	var chains []string
	var concatInputs strings.Builder

	for i, span := range plan.Spans {
		video := renderChain([]FilterStage{
			{Name: "trim", Args: []FilterArg{
				arg("start", fmtSeconds(span.Start)),
				arg("end", fmtSeconds(span.End)),
			}},
			{Name: "setpts", Args: []FilterArg{{Value: "PTS-STARTPTS"}}},
		}, nil)
		audio := renderChain([]FilterStage{
			{Name: "atrim", Args: []FilterArg{
				arg("start", fmtSeconds(span.Start)),
				arg("end", fmtSeconds(span.End)),
			}, Stream: StreamAudio},
			{Name: "asetpts", Args: []FilterArg{{Value: "PTS-STARTPTS"}}, Stream: StreamAudio},
		}, nil)

		chains = append(chains,
			fmt.Sprintf("[0:v]%s[v%d]", video, i),
			fmt.Sprintf("[0:a]%s[a%d]", audio, i),
		)
		concatInputs.WriteString(fmt.Sprintf("[v%d][a%d]", i, i))
	}

	chains = append(chains, fmt.Sprintf("%sconcat=n=%d:v=1:a=1[outv][outa]",
		concatInputs.String(), len(plan.Spans)))

	return &SegmentGraph{
		FilterComplex: strings.Join(chains, ";"),
		VideoLabel:    "[outv]",
		AudioLabel:    "[outa]",
	}
}

// Args assembles the full ffmpeg argument list for the graph.
func (g *SegmentGraph) Args(input, output string) []string {
	return []string{
		"-i", input,
		"-filter_complex", g.FilterComplex,
		"-map", g.VideoLabel,
		"-map", g.AudioLabel,
		"-y", output,
	}
}

package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanMidRemovalKeepsTwoSpans(t *testing.T) {
	e := NewSegmentEditor()

	plan, ok := e.Plan(5, 10, 30)
	require.True(t, ok)
	require.Len(t, plan.Spans, 2)
	assert.Equal(t, Span{Start: 0, End: 5}, plan.Spans[0])
	assert.Equal(t, Span{Start: 10, End: 30}, plan.Spans[1])
	assert.Equal(t, 25.0, plan.OutputDuration())
}

func TestPlanHeadRemovalKeepsTailOnly(t *testing.T) {
	e := NewSegmentEditor()

	plan, ok := e.Plan(0, 10, 30)
	require.True(t, ok)
	require.Len(t, plan.Spans, 1)
	assert.Equal(t, Span{Start: 10, End: 30}, plan.Spans[0])
}

func TestPlanTailRemovalClampsEnd(t *testing.T) {
	e := NewSegmentEditor()

	plan, ok := e.Plan(20, 99, 30)
	require.True(t, ok)
	require.Len(t, plan.Spans, 1)
	assert.Equal(t, Span{Start: 0, End: 20}, plan.Spans[0])
	assert.Equal(t, Span{Start: 20, End: 30}, plan.Removed)
}

func TestPlanInvalidBoundsSkips(t *testing.T) {
	e := NewSegmentEditor()

	tests := []struct {
		name             string
		start, end, dur  float64
	}{
		{"end before start", 10, 5, 30},
		{"end equals start", 5, 5, 30},
		{"negative start", -1, 5, 30},
		{"start beyond source", 40, 50, 30},
		{"zero duration source", 1, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, ok := e.Plan(tt.start, tt.end, tt.dur)
			assert.False(t, ok, "invalid bounds must skip, not error")
			assert.Nil(t, plan)
		})
	}
}

func TestBuildGraphInterleavesStreamPairs(t *testing.T) {
	e := NewSegmentEditor()

	plan, ok := e.Plan(5, 10, 30)
	require.True(t, ok)

	graph := e.BuildGraph(plan)
	fc := graph.FilterComplex

	assert.Contains(t, fc, "[0:v]trim=start=0.000:end=5.000,setpts=PTS-STARTPTS[v0]")
	assert.Contains(t, fc, "[0:a]atrim=start=0.000:end=5.000,asetpts=PTS-STARTPTS[a0]")
	assert.Contains(t, fc, "[0:v]trim=start=10.000:end=30.000,setpts=PTS-STARTPTS[v1]")
	assert.Contains(t, fc, "[0:a]atrim=start=10.000:end=30.000,asetpts=PTS-STARTPTS[a1]")
	assert.Contains(t, fc, "[v0][a0][v1][a1]concat=n=2:v=1:a=1[outv][outa]")

	// pairing order must survive
	assert.Less(t, strings.Index(fc, "[v0][a0]"), strings.Index(fc, "[v1][a1]"))
}

func TestBuildGraphSingleSpan(t *testing.T) {
	e := NewSegmentEditor()

	plan, ok := e.Plan(0, 10, 30)
	require.True(t, ok)

	graph := e.BuildGraph(plan)
	assert.Contains(t, graph.FilterComplex, "concat=n=1:v=1:a=1")
}

func TestGraphArgs(t *testing.T) {
	e := NewSegmentEditor()

	plan, ok := e.Plan(5, 10, 30)
	require.True(t, ok)

	args := e.BuildGraph(plan).Args("in.mp4", "out.mp4")
	assert.Equal(t, "-i", args[0])
	assert.Equal(t, "in.mp4", args[1])
	assert.Equal(t, "-filter_complex", args[2])
	assert.Contains(t, args, "-map")
	assert.Contains(t, args, "[outv]")
	assert.Contains(t, args, "[outa]")
	assert.Equal(t, "out.mp4", args[len(args)-1])
}

package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// StreamKind marks which stream a stage operates on.
type StreamKind uint8

const (
	StreamVideo StreamKind = iota
	StreamAudio
)

// filterEscaper handles every delimiter that can appear inside a filter
// argument value. All stage builders go through it; nothing else escapes.
var filterEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`:`, `\:`,
	`,`, `\,`,
	`;`, `\;`,
	`[`, `\[`,
	`]`, `\]`,
)

var filterUnescaper = strings.NewReplacer(
	`\\`, `\`,
	`\'`, `'`,
	`\:`, `:`,
	`\,`, `,`,
	`\;`, `;`,
	`\[`, `[`,
	`\]`, `]`,
)

// EscapeFilterValue escapes a value for use inside a filter argument.
func EscapeFilterValue(s string) string {
	return filterEscaper.Replace(s)
}

// UnescapeFilterValue reverses EscapeFilterValue.
func UnescapeFilterValue(s string) string {
	return filterUnescaper.Replace(s)
}

// FilterArg is one key=value argument of a filter stage. An empty Key emits
// a positional value.
type FilterArg struct {
	Key   string
	Value string
}

// arg builds a plain argument; the value is emitted as-is.
func arg(key, value string) FilterArg {
	return FilterArg{Key: key, Value: value}
}

// argf builds an argument with a formatted value.
func argf(key, format string, a ...any) FilterArg {
	return FilterArg{Key: key, Value: fmt.Sprintf(format, a...)}
}

// textArg builds an argument whose value is user-supplied text and must be
// escaped.
func textArg(key, value string) FilterArg {
	return FilterArg{Key: key, Value: EscapeFilterValue(value)}
}

// FilterStage is one primitive filter in a chain, e.g. eq or drawtext.
type FilterStage struct {
	Name   string
	Args   []FilterArg
	Stream StreamKind
}

// String serializes the stage as name=k1=v1:k2=v2. An extraArg, when not
// empty, is appended last; the serializer uses it for the temporal gate.
func (s FilterStage) String() string {
	return s.render("")
}

func (s FilterStage) render(extraArg string) string {
	var b strings.Builder
	b.WriteString(s.Name)
	for i, a := range s.Args {
		if i == 0 {
			b.WriteByte('=')
		} else {
			b.WriteByte(':')
		}
		if a.Key != "" {
			b.WriteString(a.Key)
			b.WriteByte('=')
		}
		b.WriteString(a.Value)
	}
	if extraArg != "" {
		if len(s.Args) == 0 {
			b.WriteByte('=')
		} else {
			b.WriteByte(':')
		}
		b.WriteString(extraArg)
	}
	return b.String()
}

// TemporalGate restricts a filter chain to a time window.
type TemporalGate struct {
	Start float64
	End   *float64
}

// Clause renders the enable= argument: between(t,S,E) with both bounds,
// gte(t,S) with only a start.
func (g TemporalGate) Clause() string {
	if g.End != nil {
		return fmt.Sprintf("enable='between(t,%s,%s)'", fmtSeconds(g.Start), fmtSeconds(*g.End))
	}
	return fmt.Sprintf("enable='gte(t,%s)'", fmtSeconds(g.Start))
}

// fmtSeconds formats a timestamp with millisecond precision.
func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

// FilterExpression is a compiled operation on the authoritative path:
// ordered stages per stream, optional input-side seek args and at most one
// temporal gate shared by the whole expression.
type FilterExpression struct {
	Kind        OperationKind
	VideoStages []FilterStage
	AudioStages []FilterStage
	InputArgs   []string
	Gate        *TemporalGate
}

// VideoFilter renders the -vf chain. The gate clause is emitted exactly once,
// on the final stage.
func (e *FilterExpression) VideoFilter() string {
	return renderChain(e.VideoStages, e.Gate)
}

// AudioFilter renders the -af chain. Audio stages are never gated: the gate
// belongs to the video chain and audio filters lack timeline support.
func (e *FilterExpression) AudioFilter() string {
	return renderChain(e.AudioStages, nil)
}

func renderChain(stages []FilterStage, gate *TemporalGate) string {
	if len(stages) == 0 {
		return ""
	}
	parts := make([]string, len(stages))
	for i, s := range stages {
		extra := ""
		if gate != nil && i == len(stages)-1 {
			extra = gate.Clause()
		}
		parts[i] = s.render(extra)
	}
	return strings.Join(parts, ",")
}

// Args assembles the full ffmpeg argument list for this expression.
func (e *FilterExpression) Args(input, output string) []string {
	args := []string{}
	args = append(args, e.InputArgs...)
	args = append(args, "-i", input)
	if vf := e.VideoFilter(); vf != "" {
		args = append(args, "-vf", vf)
	}
	if af := e.AudioFilter(); af != "" {
		args = append(args, "-af", af)
	}
	if len(e.VideoStages) == 0 && len(e.AudioStages) == 0 {
		// pure seek, no re-filtering needed
		args = append(args, "-c", "copy", "-avoid_negative_ts", "make_zero")
	}
	args = append(args, "-y", output)
	return args
}

// GateCount reports how many enable= clauses the serialized expression
// carries.
func (e *FilterExpression) GateCount() int {
	return strings.Count(e.VideoFilter()+e.AudioFilter(), "enable=")
}

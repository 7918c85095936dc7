package dto

// TimeWindow is the wire form of an explicit operation window. End omitted
// means "until the end of the source".
type TimeWindow struct {
	Start float64  `json:"start"`
	End   *float64 `json:"end,omitempty"`
}

// SubmitEditReq queues one edit operation for an authoritative render.
type SubmitEditReq struct {
	InputPath  string         `json:"input_path" binding:"required"`
	OutputPath string         `json:"output_path"`
	Kind       string         `json:"kind" binding:"required"`
	Params     map[string]any `json:"params"`
	Window     *TimeWindow    `json:"window,omitempty"`
}

type SubmitEditResData struct {
	JobId string `json:"job_id"`
}

type SubmitEditRes struct {
	Error int32              `json:"error"`
	Msg   string             `json:"msg"`
	Data  *SubmitEditResData `json:"data"`
}

type GetEditJobReq struct {
	JobId string `form:"jobId" binding:"required"`
}

type GetEditJobResData struct {
	JobId          string `json:"job_id"`
	Kind           string `json:"kind"`
	Status         string `json:"status"`
	StatusMsg      string `json:"status_msg,omitempty"`
	ProcessPercent uint8  `json:"process_percent"`
	InputPath      string `json:"input_path,omitempty"`
	OutputPath     string `json:"output_path,omitempty"`
	FilterExpr     string `json:"filter_expr,omitempty"`
	FailReason     string `json:"fail_reason,omitempty"`
	CreateTime     int64  `json:"create_time"`
}

type GetEditJobRes struct {
	Error int32              `json:"error"`
	Msg   string             `json:"msg"`
	Data  *GetEditJobResData `json:"data"`
}

// PreviewEditReq compiles one operation to a preview URL. The public id is
// derived from the input path when not sent explicitly.
type PreviewEditReq struct {
	PublicId  string         `json:"public_id"`
	InputPath string         `json:"input_path"`
	Kind      string         `json:"kind" binding:"required"`
	Params    map[string]any `json:"params"`
	Window    *TimeWindow    `json:"window,omitempty"`
}

type PreviewEditResData struct {
	Url            string   `json:"url"`
	Transformation string   `json:"transformation"`
	Warnings       []string `json:"warnings,omitempty"`
}

type PreviewEditRes struct {
	Error int32               `json:"error"`
	Msg   string              `json:"msg"`
	Data  *PreviewEditResData `json:"data"`
}

// ResolveEditReq runs one operation through the strategy chain: preview
// first, then the authoritative renderer, then passthrough.
type ResolveEditReq struct {
	InputPath  string         `json:"input_path" binding:"required"`
	OutputPath string         `json:"output_path"`
	PublicId   string         `json:"public_id"`
	Kind       string         `json:"kind" binding:"required"`
	Params     map[string]any `json:"params"`
	Window     *TimeWindow    `json:"window,omitempty"`
}

// StrategyAttempt records one failed strategy before the chain succeeded.
type StrategyAttempt struct {
	Strategy string `json:"strategy"`
	Detail   string `json:"detail"`
}

type ResolveEditResData struct {
	Strategy   string            `json:"strategy"`
	PreviewUrl string            `json:"preview_url,omitempty"`
	OutputPath string            `json:"output_path,omitempty"`
	Attempts   []StrategyAttempt `json:"attempts,omitempty"`
}

type ResolveEditRes struct {
	Error int32               `json:"error"`
	Msg   string              `json:"msg"`
	Data  *ResolveEditResData `json:"data"`
}

type ListTemplatesReq struct {
	Category string `form:"category"`
}

type TemplateSummary struct {
	Id             string `json:"id"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	Description    string `json:"description"`
	OperationCount int    `json:"operation_count"`
}

type ListTemplatesResData struct {
	Templates []TemplateSummary `json:"templates"`
}

// ApplyTemplateReq runs a template against an input. Async runs get a job
// row and report through it; sync runs return the step results directly.
type ApplyTemplateReq struct {
	TemplateId string `json:"template_id" binding:"required"`
	InputPath  string `json:"input_path" binding:"required"`
	Async      bool   `json:"async"`
}

type TemplateStepResult struct {
	Index  int    `json:"index"`
	Kind   string `json:"kind"`
	Status string `json:"status"`
	Output string `json:"output,omitempty"`
	Detail string `json:"detail,omitempty"`
}

type ApplyTemplateResData struct {
	JobId      string               `json:"job_id,omitempty"`
	TemplateId string               `json:"template_id"`
	OutputPath string               `json:"output_path,omitempty"`
	Results    []TemplateStepResult `json:"results,omitempty"`
}

type ApplyTemplateRes struct {
	Error int32                 `json:"error"`
	Msg   string                `json:"msg"`
	Data  *ApplyTemplateResData `json:"data"`
}

type GenerateCaptionsReq struct {
	MediaPath string `json:"media_path" binding:"required"`
	Language  string `json:"language"`
}

type GenerateCaptionsResData struct {
	SubtitlePath string `json:"subtitle_path"`
	SegmentCount int    `json:"segment_count"`
}

type GenerateCaptionsRes struct {
	Error int32                    `json:"error"`
	Msg   string                   `json:"msg"`
	Data  *GenerateCaptionsResData `json:"data"`
}

type WaveformReq struct {
	Path    string `form:"path" binding:"required"`
	Buckets int    `form:"buckets"`
}

// WaveformResData carries one [min,max] sample pair per bucket, normalized
// to -1..1, for timeline drawing.
type WaveformResData struct {
	Path     string       `json:"path"`
	Buckets  int          `json:"buckets"`
	Duration float64      `json:"duration"`
	Peaks    [][2]float64 `json:"peaks"`
}

type WaveformRes struct {
	Error int32            `json:"error"`
	Msg   string           `json:"msg"`
	Data  *WaveformResData `json:"data"`
}

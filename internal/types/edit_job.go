package types

// EditJobStatus tracks an edit job through its lifecycle. Values are
// persisted, do not renumber.
type EditJobStatus uint8

const (
	EditJobStatusQueued EditJobStatus = iota + 1
	EditJobStatusRunning
	EditJobStatusSucceeded
	EditJobStatusFailed
)

func (s EditJobStatus) String() string {
	switch s {
	case EditJobStatusQueued:
		return "queued"
	case EditJobStatusRunning:
		return "running"
	case EditJobStatusSucceeded:
		return "succeeded"
	case EditJobStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s EditJobStatus) IsTerminal() bool {
	return s == EditJobStatusSucceeded || s == EditJobStatusFailed
}

// EditJob is the persisted record of a single edit operation run.
// Params holds the raw operation parameters as JSON; FilterExpr holds the
// compiled ffmpeg arguments for inspection and replay.
type EditJob struct {
	Id         int64         `json:"id" gorm:"primaryKey;autoIncrement"`
	JobId      string        `json:"job_id" gorm:"column:job_id;uniqueIndex;size:64"`
	Kind       string        `json:"kind" gorm:"column:kind;size:32"`
	Params     string        `json:"params" gorm:"column:params;type:text"`
	Status     EditJobStatus `json:"status" gorm:"column:status"`
	StatusMsg  string        `json:"status_msg" gorm:"column:status_msg"`
	ProcessPct uint8         `json:"process_percent" gorm:"column:process_percent"`
	FilterExpr string        `json:"filter_expr" gorm:"column:filter_expr;type:text"`
	InputPath  string        `json:"input_path" gorm:"column:input_path"`
	OutputPath string        `json:"output_path" gorm:"column:output_path"`
	FailReason string        `json:"fail_reason" gorm:"column:fail_reason;type:text"`
	CreateTime int64         `json:"create_time" gorm:"column:create_time;autoCreateTime"`
	UpdateTime int64         `json:"update_time" gorm:"column:update_time;autoUpdateTime"`
}

func (EditJob) TableName() string {
	return "edit_jobs"
}

package handler

import (
	"net/http"
	"time"

	"clipforge/internal/response"
	"clipforge/internal/storage"
	"clipforge/internal/types"
	"clipforge/log"
	apperrors "clipforge/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var progressUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ProgressSocket streams render events for one job over a websocket. Jobs
// that are already terminal get a single synthetic event so late subscribers
// still learn the outcome.
func (h *Handler) ProgressSocket(c *gin.Context) {
	jobId := c.Param("jobId")
	job, err := storage.GetJob(jobId)
	if err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeNotFound, "Job not found", err))
		return
	}

	conn, err := progressUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.GetLogger().Error("ProgressSocket upgrade err", zap.String("jobId", jobId), zap.Error(err))
		return
	}
	defer conn.Close()

	if job.Status.IsTerminal() {
		_ = conn.WriteJSON(terminalEventFor(job))
		return
	}

	events, cancel := h.Service.Progress.Subscribe(jobId)
	defer cancel()

	// Reader goroutine: detects the client going away mid-render.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err = conn.WriteJSON(event); err != nil {
				return
			}
			if event.IsTerminal() {
				return
			}
		}
	}
}

func terminalEventFor(job *types.EditJob) types.RenderEvent {
	event := types.RenderEvent{
		JobId:      job.JobId,
		Kind:       types.RenderEventDone,
		Percent:    100,
		Message:    job.StatusMsg,
		OutputPath: job.OutputPath,
		OccurredAt: time.Now(),
	}
	if job.Status == types.EditJobStatusFailed {
		event.Kind = types.RenderEventError
		event.Percent = float64(job.ProcessPct)
		event.Message = job.FailReason
		event.OutputPath = ""
	}
	return event
}

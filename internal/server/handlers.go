package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meetscribe/meetscribe/internal/analyzer"
	"github.com/meetscribe/meetscribe/internal/notifier"
	"github.com/meetscribe/meetscribe/internal/session"
	"github.com/meetscribe/meetscribe/internal/upload"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type createResponse struct {
	ID    string        `json:"id"`
	State session.State `json:"state"`
}

type meetingResponse struct {
	ID          string        `json:"id"`
	MeetingType string        `json:"meeting_type"`
	State       session.State `json:"state"`
	CreatedAt   time.Time     `json:"created_at"`
	Summary     string        `json:"summary,omitempty"`
	ActionItems []string      `json:"action_items,omitempty"`
	HasReport   bool          `json:"has_report"`
	Error       *errorBody    `json:"error,omitempty"`
	Delivery    *errorBody    `json:"delivery,omitempty"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"notifier": s.ctrl.NotifierEnabled(),
	})
}

// createMeeting accepts the multipart upload and starts a run. Validation
// failures are mapped synchronously; everything downstream is asynchronous
// and observed via polling or the events stream.
func (s *Server) createMeeting(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "file field is required")
		return
	}

	meetingType := analyzer.ParseMeetingType(c.PostForm("meeting_type"))

	data, err := s.readUpload(fileHeader)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "failed to read upload")
		return
	}

	// The run outlives the request; it must not die with the connection.
	runCtx := context.WithoutCancel(c.Request.Context())

	sess, err := s.ctrl.Start(runCtx, session.Upload{
		Filename:    fileHeader.Filename,
		Data:        data,
		MeetingType: meetingType,
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, upload.ErrFileTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		respondError(c, status, session.ErrorKind(err), session.UserMessage(err, s.cfg))
		return
	}

	c.JSON(http.StatusAccepted, createResponse{ID: sess.ID, State: sess.State()})
}

func (s *Server) readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// One byte past the ceiling is enough for the validator to reject it;
	// there is no reason to buffer an arbitrarily large body.
	limit := s.cfg.Limits.MaxFileSizeBytes() + 1
	return io.ReadAll(io.LimitReader(f, limit))
}

func (s *Server) getMeeting(c *gin.Context) {
	sess, err := s.ctrl.Store().Get(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "not_found", "meeting session not found")
		return
	}

	c.JSON(http.StatusOK, s.meetingPayload(sess))
}

func (s *Server) meetingPayload(sess *session.Session) meetingResponse {
	resp := meetingResponse{
		ID:          sess.ID,
		MeetingType: string(sess.MeetingType),
		State:       sess.State(),
		CreatedAt:   sess.CreatedAt,
	}

	if _, ok := sess.Report(); ok {
		resp.HasReport = true
		result := sess.Result()
		resp.Summary = result.Summary
		resp.ActionItems = result.ActionItems
	}

	if err := sess.Err(); err != nil {
		resp.Error = &errorBody{
			Code:    session.ErrorKind(err),
			Message: session.UserMessage(err, s.cfg),
		}
	}
	if err := sess.DeliveryErr(); err != nil {
		resp.Delivery = &errorBody{
			Code:    session.ErrorKind(err),
			Message: session.UserMessage(err, s.cfg),
		}
	}

	return resp
}

// deleteMeeting discards a finished session and everything it holds. Running
// sessions are refused so the pipeline never writes to a discarded run.
func (s *Server) deleteMeeting(c *gin.Context) {
	sess, err := s.ctrl.Store().Get(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "not_found", "meeting session not found")
		return
	}
	if !sess.State().Terminal() {
		respondError(c, http.StatusConflict, "still_processing", "the session is still processing")
		return
	}

	s.ctrl.Store().Delete(sess.ID)
	c.Status(http.StatusNoContent)
}

func (s *Server) downloadReport(c *gin.Context) {
	sess, err := s.ctrl.Store().Get(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "not_found", "meeting session not found")
		return
	}

	data, ok := sess.Report()
	if !ok {
		respondError(c, http.StatusConflict, "not_ready", "the report is not available for this session")
		return
	}

	filename := fmt.Sprintf("meeting_summary_%s.docx", sess.CreatedAt.Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, docxContentType, data)
}

func (s *Server) notify(c *gin.Context) {
	id := c.Param("id")

	err := s.ctrl.Notify(c.Request.Context(), id)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"delivered": true})
	case errors.Is(err, session.ErrSessionNotFound):
		respondError(c, http.StatusNotFound, "not_found", "meeting session not found")
	case errors.Is(err, session.ErrNotReady):
		respondError(c, http.StatusConflict, "not_ready", "the session has no results to deliver yet")
	case errors.Is(err, session.ErrNotifierDisabled):
		respondError(c, http.StatusServiceUnavailable, "delivery_disabled", "no webhook is configured")
	case errors.Is(err, notifier.ErrNothingToSend):
		respondError(c, http.StatusConflict, "nothing_to_send", "the session produced no content to deliver")
	default:
		// Delivery failure is non-fatal: the session stays ready and the
		// report remains downloadable.
		respondError(c, http.StatusBadGateway, session.ErrorKind(err), session.UserMessage(err, s.cfg))
	}
}

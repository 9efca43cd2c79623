package server

import (
	"errors"
	"net/http"

	"github.com/alkime/noteforge/internal/capture"
	"github.com/alkime/noteforge/internal/display"
	"github.com/gin-gonic/gin"
)

func (s *Server) requireRecorder(c *gin.Context) bool {
	if s.recorder == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no recording device configured"})
		return false
	}
	return true
}

func (s *Server) recordingStatus() gin.H {
	state := capture.RecorderIdle
	if s.recorder.IsRecording() {
		state = capture.RecorderRecording
	}
	return gin.H{
		"state":   state.String(),
		"seconds": s.recorder.Seconds(),
	}
}

func (s *Server) handleRecordingStatus(c *gin.Context) {
	if !s.requireRecorder(c) {
		return
	}
	c.JSON(http.StatusOK, s.recordingStatus())
}

func (s *Server) handleRecordingStart(c *gin.Context) {
	if !s.requireRecorder(c) {
		return
	}

	err := s.recorder.Start(c.Request.Context())
	switch {
	case errors.Is(err, capture.ErrAlreadyRecording):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		s.logger.Error("failed to start recording", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  err.Error(),
			"notice": display.NoticeRecordingError,
		})
		return
	}

	c.JSON(http.StatusOK, s.recordingStatus())
}

// handleRecordingStop ends the recording and submits its payload.
func (s *Server) handleRecordingStop(c *gin.Context) {
	if !s.requireRecorder(c) {
		return
	}

	payload, err := s.recorder.Stop(c.Request.Context())
	switch {
	case errors.Is(err, capture.ErrNotRecording):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case errors.Is(err, capture.ErrEmptyPayload):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	case err != nil:
		s.logger.Error("failed to stop recording", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.submit(c, payload)
}

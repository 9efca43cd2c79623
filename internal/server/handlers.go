package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/alkime/noteforge/internal/capture"
	"github.com/alkime/noteforge/internal/display"
	"github.com/gin-gonic/gin"
)

type dataURIRequest struct {
	AudioDataURI string `json:"audioDataUri" binding:"required"`
	Name         string `json:"name"`
}

// handleCreateCapture accepts either a multipart "file" upload or a JSON
// body carrying a base64 data URI, and starts a pipeline run. Bodies arrive
// already capped by limitUploads; the decoded audio must fit MaxUploadBytes.
func (s *Server) handleCreateCapture(c *gin.Context) {
	var (
		payload capture.Payload
		err     error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		payload, err = s.payloadFromForm(c)
	} else {
		payload, err = s.payloadFromDataURI(c)
	}

	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		s.tooLarge(c)
		return
	case err != nil:
		s.logger.Warn("rejected capture", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  err.Error(),
			"notice": display.NoticeFileReadError,
		})
		return
	case int64(payload.Size()) > s.config.MaxUploadBytes:
		s.logger.Warn("upload rejected", "bytes", payload.Size(), "max_bytes", s.config.MaxUploadBytes)
		s.tooLarge(c)
		return
	}

	s.submit(c, payload)
}

func (s *Server) payloadFromForm(c *gin.Context) (capture.Payload, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return capture.Payload{}, err
	}

	f, err := header.Open()
	if err != nil {
		return capture.Payload{}, err
	}
	defer f.Close()

	return capture.FromReader(header.Filename, f, header.Header.Get("Content-Type"))
}

func (s *Server) payloadFromDataURI(c *gin.Context) (capture.Payload, error) {
	var req dataURIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return capture.Payload{}, err
	}

	name := req.Name
	if name == "" {
		name = "upload"
	}

	return capture.ParseDataURI(name, req.AudioDataURI)
}

func (s *Server) submit(c *gin.Context, payload capture.Payload) {
	id, err := s.pipeline.Submit(c.Request.Context(), payload)
	if err != nil {
		s.logger.Error("failed to submit capture", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"captureId": id,
		"mediaType": payload.MediaType(),
		"bytes":     payload.Size(),
	})
}

func (s *Server) tooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, gin.H{
		"error":    "upload too large",
		"maxBytes": s.config.MaxUploadBytes,
	})
}

func (s *Server) handleNotes(c *gin.Context) {
	c.JSON(http.StatusOK, newNotesView(s.pipeline.Snapshot()))
}

// handleEvents streams notes snapshots and notices as server-sent events.
func (s *Server) handleEvents(c *gin.Context) {
	events, cancel := s.pipeline.Subscribe()
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("notes", newNotesView(s.pipeline.Snapshot()))
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(_ io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("notes", newNotesView(ev.Snapshot))
			if ev.Notice != nil {
				c.SSEvent("notice", ev.Notice)
			}
			return true
		case <-ctx.Done():
			return false
		}
	})
}

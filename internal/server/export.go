package server

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/alkime/noteforge/internal/export"
	"github.com/gin-gonic/gin"
)

func (s *Server) currentNotes(c *gin.Context) (export.Notes, bool) {
	notes, err := export.FromSnapshot(s.pipeline.Snapshot(), time.Now())
	if errors.Is(err, export.ErrNothingToExport) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return export.Notes{}, false
	}
	return notes, true
}

// handleExportHTML serves a print-ready page; ?print=1 opens the print dialog.
func (s *Server) handleExportHTML(c *gin.Context) {
	notes, ok := s.currentNotes(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := export.WriteHTML(c.Writer, notes, export.HTMLOptions{AutoPrint: c.Query("print") == "1"}); err != nil {
		s.logger.Error("failed to render export", "error", err)
	}
}

func (s *Server) handleExportMarkdown(c *gin.Context) {
	notes, ok := s.currentNotes(c)
	if !ok {
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.FileName(notes, export.FormatMarkdown)+`"`)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(export.Markdown(notes)))
}

func (s *Server) handleExportDocx(c *gin.Context) {
	notes, ok := s.currentNotes(c)
	if !ok {
		return
	}

	dir, err := os.MkdirTemp("", "noteforge-export-")
	if err != nil {
		s.logger.Error("failed to create temp dir", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	defer os.RemoveAll(dir)

	name := export.FileName(notes, export.FormatDocx)
	path := filepath.Join(dir, name)
	if err := export.WriteDocx(path, notes); err != nil {
		s.logger.Error("failed to write docx export", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	c.FileAttachment(path, name)
}

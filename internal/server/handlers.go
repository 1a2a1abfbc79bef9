package server

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/meetscribe/internal/apperror"
	"github.com/nguyentantai21042004/meetscribe/internal/record"
	"github.com/nguyentantai21042004/meetscribe/internal/summary"
	"github.com/nguyentantai21042004/meetscribe/internal/transcription"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// multipartOverhead is the room left for boundaries and part headers on top
// of the file limit.
const multipartOverhead = 64 << 10

type summarizeRequest struct {
	Transcription string `json:"transcription"`
}

type fileNameResponse struct {
	FileNotFound bool   `json:"file_not_found"`
	FileName     string `json:"file_name"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleTranscribe(c *gin.Context) {
	limit := s.opts.MaxUploadMB << 20
	if c.Request.ContentLength > limit+multipartOverhead {
		s.writeError(c, s.tooLarge())
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeError(c, s.tooLarge())
			return
		}
		s.writeError(c, apperror.Wrap(err, apperror.InvalidInputType, "Missing audio file in form field \"file\"."))
		return
	}
	if fh.Size > limit {
		s.writeError(c, s.tooLarge())
		return
	}

	f, err := fh.Open()
	if err != nil {
		s.writeError(c, apperror.Wrap(err, apperror.Internal, "open upload"))
		return
	}
	defer f.Close()

	text, err := s.transcription.Transcribe(c.Request.Context(), transcription.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        f,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transcription": text})
}

func (s *Server) tooLarge() *apperror.AppError {
	return apperror.Newf(apperror.InvalidInputType, "File too large. Maximum size is %dMB.", s.opts.MaxUploadMB)
}

func (s *Server) handleSummarize(c *gin.Context) {
	res, _, ok := s.summarize(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleSummarizeDocx(c *gin.Context) {
	res, fromRecord, ok := s.summarize(c)
	if !ok {
		return
	}

	// the record names the document only when it supplied the transcript
	title := "Meeting Summary"
	if fromRecord {
		if rec, err := s.store.Load(); err == nil && rec.Filename != "" {
			title = strings.TrimSuffix(rec.Filename, filepath.Ext(rec.Filename))
		}
	}

	data, err := s.summary.Export(c.Request.Context(), title, res)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", title+".docx"))
	c.Data(http.StatusOK, docxContentType, data)
}

// summarize runs the summary for the request body. fromRecord reports that
// the body carried no transcript, so the stored record was used.
func (s *Server) summarize(c *gin.Context) (res *summary.Result, fromRecord bool, ok bool) {
	var req summarizeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body: " + err.Error()})
			return nil, false, false
		}
	}
	fromRecord = strings.TrimSpace(req.Transcription) == ""

	res, err := s.summary.Summarize(c.Request.Context(), req.Transcription)
	if err != nil {
		s.writeError(c, err)
		return nil, false, false
	}
	return res, fromRecord, true
}

func (s *Server) handleFileName(c *gin.Context) {
	rec, err := s.store.Load()
	if err != nil && !errors.Is(err, record.ErrNotFound) {
		s.logger.Warn(c.Request.Context(), "Failed to read transcription record: %v", err)
	}

	name := strings.TrimSpace(rec.Filename)
	c.JSON(http.StatusOK, fileNameResponse{FileNotFound: name == "", FileName: name})
}

// writeError renders err as {"detail": ...} with the status of its kind.
func (s *Server) writeError(c *gin.Context, err error) {
	appErr := apperror.Ensure(err)
	if appErr.HTTPStatus() >= http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(appErr.HTTPStatus(), gin.H{"detail": appErr.Detail()})
}

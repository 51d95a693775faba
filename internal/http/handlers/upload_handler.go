// Syllabus upload HTTP handler.
//
// POST /upload accepts one content source per request: an uploaded file
// (multipart), inline text, or a video URL. It runs the extraction and
// generation pipeline synchronously and returns the study kit as JSON.
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ailearnpro/go-study-backend/internal/domain"
	"github.com/ailearnpro/go-study-backend/internal/extract"
	"github.com/ailearnpro/go-study-backend/internal/studykit"
)

// StudyProcessor runs the extract-generate-save pipeline for one upload.
type StudyProcessor interface {
	Process(ctx context.Context, in extract.Input, userID, topicName string) (domain.StudyKit, error)
}

// UploadHandlers exposes the syllabus upload endpoint.
type UploadHandlers struct {
	svc StudyProcessor
	// dir receives temporary upload files until extraction removes them.
	dir string
}

// NewUploadHandlers constructs UploadHandlers writing temp files to dir.
func NewUploadHandlers(svc StudyProcessor, dir string) *UploadHandlers {
	return &UploadHandlers{svc: svc, dir: dir}
}

// UploadRequest is the non-file part of the upload payload. The same keys
// are accepted as multipart form fields or as a JSON body.
type UploadRequest struct {
	TextInput  string `json:"textInput" form:"textInput"`
	YouTubeURL string `json:"youtubeUrl" form:"youtubeUrl"`
	UserID     string `json:"userId" form:"userId"`
	TopicName  string `json:"topicName" form:"topicName"`
}

// StudyKitResponse is the upload success payload. Absent sections come back
// as empty arrays and a placeholder summary rather than nulls, so clients
// can render without nil checks.
type StudyKitResponse struct {
	Summary string          `json:"summary"`
	Short   []domain.QAPair `json:"short"`
	Medium  []domain.QAPair `json:"medium"`
	Long    []domain.QAPair `json:"long"`
	PYQ     []domain.QAPair `json:"pyq"`
	FAQ     []domain.QAPair `json:"faq"`
}

// newStudyKitResponse fills response defaults for missing kit sections.
func newStudyKitResponse(kit domain.StudyKit) StudyKitResponse {
	resp := StudyKitResponse{
		Summary: kit.Summary,
		Short:   kit.ShortQuestions,
		Medium:  kit.MediumQuestions,
		Long:    kit.LongQuestions,
		PYQ:     kit.PYQs,
		FAQ:     kit.FAQs,
	}
	if resp.Summary == "" {
		resp.Summary = "No summary generated."
	}
	if resp.Short == nil {
		resp.Short = []domain.QAPair{}
	}
	if resp.Medium == nil {
		resp.Medium = []domain.QAPair{}
	}
	if resp.Long == nil {
		resp.Long = []domain.QAPair{}
	}
	if resp.PYQ == nil {
		resp.PYQ = []domain.QAPair{}
	}
	if resp.FAQ == nil {
		resp.FAQ = []domain.QAPair{}
	}
	return resp
}

// Upload godoc
// @ID          uploadSyllabus
// @Summary     Generate a study kit from a syllabus
// @Description Accepts one of {file, textInput, youtubeUrl}, extracts text, and returns generated study material. When userId is present the result is also saved to that user's history.
// @Tags        Upload
// @Accept      multipart/form-data
// @Accept      json
// @Produce     json
//
// @Param       file       formData  file    false  "Syllabus file (text, PDF, or image)"
// @Param       textInput  formData  string  false  "Inline syllabus text"
// @Param       youtubeUrl formData  string  false  "Captioned video URL"
// @Param       userId     formData  string  false  "Account to save history for"
// @Param       topicName  formData  string  false  "Topic label for the history entry"
//
// @Success     200  {object}  handlers.StudyKitResponse
// @Failure     400  {object}  handlers.ErrorResponse  "No content or unusable content"
// @Failure     500  {object}  handlers.ErrorResponse  "Pipeline failure"
// @Router      /upload [post]
func (h *UploadHandlers) Upload(c *gin.Context) {
	var req UploadRequest
	in := extract.Input{}

	ct := c.ContentType()
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := c.ShouldBind(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid form payload")
			return
		}
		if file, err := c.FormFile("file"); err == nil && file != nil {
			path, err := h.saveTemp(c, file)
			if err != nil {
				fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to store upload")
				return
			}
			in.FilePath = path
			in.MIMEType = file.Header.Get("Content-Type")
			in.OriginalName = file.Filename
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return
		}
	}

	in.Text = strings.TrimSpace(req.TextInput)
	in.YouTubeURL = strings.TrimSpace(req.YouTubeURL)

	kit, err := h.svc.Process(c.Request.Context(), in, strings.TrimSpace(req.UserID), strings.TrimSpace(req.TopicName))
	if err != nil {
		h.failPipeline(c, err)
		return
	}
	ok(c, http.StatusOK, newStudyKitResponse(kit))
}

// failPipeline maps pipeline errors to HTTP statuses. Unusable input is the
// client's to fix (400); stage failures are 500s whose code names the stage
// and whose message is forwarded for diagnosability.
func (h *UploadHandlers) failPipeline(c *gin.Context, err error) {
	var (
		gerr *studykit.GenerationFailedError
		serr *extract.SourceError
	)
	switch {
	case errors.Is(err, extract.ErrNoContent):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "No content provided.")
	case errors.Is(err, extract.ErrTooShort):
		fail(c, http.StatusBadRequest, ErrCodeExtractionFailed, "Extracted text is too short or empty.")
	case errors.As(err, &gerr):
		fail(c, http.StatusInternalServerError, ErrCodeGenerationFailed, gerr.Error())
	case errors.As(err, &serr):
		fail(c, http.StatusInternalServerError, ErrCodeExtractionFailed, serr.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// saveTemp writes the multipart file into the upload dir under a
// timestamped name. Extraction removes it when done.
func (h *UploadHandlers) saveTemp(c *gin.Context, file *multipart.FileHeader) (string, error) {
	name := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(file.Filename))
	path := filepath.Join(h.dir, name)
	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return "", err
	}
	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", err
	}
	return path, nil
}

package httpapi

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-parser/internal/batch"
	"resume-parser/internal/export"
	"resume-parser/internal/extract"
	"resume-parser/internal/parser"
	"resume-parser/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the extraction service and batch coordinator.
type Handler struct {
	Svc         *parser.Service
	Coordinator *batch.Coordinator
	MaxFileSize int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *parser.Service, coordinator *batch.Coordinator, maxFileSize int64) *Handler {
	return &Handler{Svc: svc, Coordinator: coordinator, MaxFileSize: maxFileSize}
}

// RegisterRoutes attaches parsing routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/parse", h.parse)
	rg.POST("/parse/file", h.parseFile)
	rg.POST("/batch", h.batch)
}

type parseRequest struct {
	Text string `json:"text"`
}

func (h *Handler) parse(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, parser.ErrorCodeValidation, "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respond.Error(c, http.StatusBadRequest, parser.ErrorCodeValidation, "text is required", nil)
		return
	}

	result, err := h.Svc.Parse(c.Request.Context(), req.Text)
	if err != nil {
		fail(c, err)
		return
	}

	render(c, "resume", result)
}

func (h *Handler) parseFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxFileSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, parser.ErrorCodeValidation, "file is required", nil)
		return
	}

	text, ok := h.extractUpload(c, fileHeader)
	if !ok {
		return
	}

	result, err := h.Svc.Parse(c.Request.Context(), text)
	if err != nil {
		fail(c, err)
		return
	}

	render(c, fileHeader.Filename, result)
}

func (h *Handler) extractUpload(c *gin.Context, fileHeader *multipart.FileHeader) (string, bool) {
	if !extract.Supported(fileHeader.Filename) {
		respond.Error(c, http.StatusUnsupportedMediaType, parser.ErrorCodeUnsupportedFormat, "unsupported file format", gin.H{"supported": extract.SupportedExtensions})
		return "", false
	}
	if fileHeader.Size > h.MaxFileSize {
		respond.Error(c, http.StatusBadRequest, parser.ErrorCodeValidation, "file exceeds the maximum allowed size", nil)
		return "", false
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, parser.ErrorCodeValidation, "unable to read file", nil)
		return "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusBadRequest, parser.ErrorCodeValidation, "file exceeds the maximum allowed size", nil)
			return "", false
		}
		respond.Error(c, http.StatusBadRequest, parser.ErrorCodeValidation, "unable to read file", nil)
		return "", false
	}

	text, err := extract.ExtractTextFromBytes(data, fileHeader.Filename)
	if err != nil {
		fail(c, err)
		return "", false
	}
	return text, true
}

func render(c *gin.Context, fileName string, result parser.ParsedResult) {
	if c.Query("format") == "markdown" {
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(export.Markdown(fileName, result)))
		return
	}
	respond.OK(c, result)
}

func fail(c *gin.Context, err error) {
	code := parser.ErrorCode(err)
	respond.Error(c, statusForCode(code), code, err.Error(), nil)
}

func statusForCode(code string) int {
	switch code {
	case parser.ErrorCodeValidation:
		return http.StatusBadRequest
	case parser.ErrorCodeUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case parser.ErrorCodeCorruptFile:
		return http.StatusUnprocessableEntity
	case parser.ErrorCodeInvalidResponse:
		return http.StatusBadGateway
	case parser.ErrorCodeQuotaExceeded:
		return http.StatusTooManyRequests
	case parser.ErrorCodeTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

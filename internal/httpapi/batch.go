package httpapi

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-parser/internal/batch"
	"resume-parser/internal/extract"
	"resume-parser/internal/parser"
	"resume-parser/internal/shared/server/respond"
)

const maxBatchFiles = 50

func (h *Handler) batch(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxFileSize*maxBatchFiles)

	form, err := c.MultipartForm()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, parser.ErrorCodeValidation, "invalid multipart form", nil)
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		respond.Error(c, http.StatusBadRequest, parser.ErrorCodeValidation, "at least one file is required", nil)
		return
	}
	if len(files) > maxBatchFiles {
		respond.Error(c, http.StatusBadRequest, parser.ErrorCodeValidation, "too many files in one batch", gin.H{"max": maxBatchFiles})
		return
	}

	// Extraction failures become per-file outcomes instead of rejecting the
	// whole upload, matching how the coordinator treats model failures.
	preFailed := make([]*batch.ItemOutcome, len(files))
	items := make([]batch.Item, 0, len(files))
	for i, fileHeader := range files {
		text, failure := h.extractBatchFile(fileHeader)
		if failure != nil {
			preFailed[i] = failure
			continue
		}
		items = append(items, batch.Item{Name: fileHeader.Filename, Text: text})
	}

	run, err := h.Coordinator.Run(c.Request.Context(), items)
	if err != nil {
		fail(c, err)
		return
	}

	respond.OK(c, batch.MergeOutcomes(run, preFailed))
}

var errFileTooLarge = errors.New("file exceeds the maximum allowed size")

func (h *Handler) extractBatchFile(fileHeader *multipart.FileHeader) (string, *batch.ItemOutcome) {
	text, err := readAndExtract(fileHeader, h.MaxFileSize)
	if err != nil {
		code := parser.ErrorCode(err)
		if errors.Is(err, errFileTooLarge) {
			code = parser.ErrorCodeValidation
		}
		return "", &batch.ItemOutcome{
			FileName: fileHeader.Filename,
			Success:  false,
			Error:    err.Error(),
			Code:     code,
		}
	}
	return text, nil
}

func readAndExtract(fileHeader *multipart.FileHeader, maxSize int64) (string, error) {
	if fileHeader.Size > maxSize {
		return "", errFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	return extract.ExtractTextFromBytes(data, fileHeader.Filename)
}

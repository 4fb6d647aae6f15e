package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fasttrackbd/courier/internal/bulk"
)

// maxUploadBytes caps bulk files at 5 MB, same limit the upload form states.
const maxUploadBytes = 5 << 20

type RowImporter interface {
	Import(ctx context.Context, rows [][]string) (bulk.Result, error)
}

type BulkHandler struct {
	importer RowImporter
}

func NewBulkHandler(importer RowImporter) *BulkHandler {
	return &BulkHandler{importer: importer}
}

func (h *BulkHandler) Upload(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")

	if err != nil {
		RespondBadRequest(ctx, "Missing file upload", gin.H{"field": "file"})
		return
	}

	if fileHeader.Size > maxUploadBytes {
		RespondBadRequest(ctx, "File too large (max 5MB)", nil)
		return
	}

	f, err := fileHeader.Open()

	if err != nil {
		RespondInternal(ctx, "Could not read upload")
		return
	}
	defer f.Close()

	rows, err := bulk.ReadRows(f, fileHeader.Filename)

	if err != nil {
		RespondBadRequest(ctx, err.Error(), nil)
		return
	}

	result, err := h.importer.Import(ctx.Request.Context(), rows)

	if err != nil {
		RespondInternal(ctx, "Could not save imported parcels")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":      true,
		"successCount": len(result.Created),
		"errorCount":   len(result.Errors),
		"errors":       result.Errors,
	})
}

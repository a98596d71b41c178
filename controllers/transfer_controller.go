package controllers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/fotos/notify"
	"github.com/cppla/fotos/pdfexport"
	"github.com/cppla/fotos/store"
	"github.com/cppla/fotos/transfer"
	"github.com/cppla/fotos/utils"
)

// maxImportBytes bounds an import upload; exports carry inline images.
const maxImportBytes = 64 << 20

// TransferController handles JSON export/import and the exhibition PDF.
type TransferController struct {
	photos   *store.Collection
	renderer *pdfexport.Renderer
	notifier notify.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewTransferController(photos *store.Collection, notifier notify.Notifier, logger *zap.Logger) *TransferController {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &TransferController{
		photos:   photos,
		renderer: pdfexport.NewRenderer(logger),
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// ExportJSON downloads the whole collection as an export document.
func (t *TransferController) ExportJSON(ctx *gin.Context) {
	now := t.now()
	var buf bytes.Buffer
	if err := transfer.Export(&buf, t.photos.List(), now); err != nil {
		t.logger.Error("export failed", zap.Error(err))
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to export data")
		return
	}
	t.notify(ctx, notify.Exported())
	ctx.Header("Content-Disposition", `attachment; filename="`+transfer.ExportFileName(now)+`"`)
	ctx.Data(http.StatusOK, "application/json", buf.Bytes())
}

// ImportJSON replaces the collection with the valid records of an export
// file. It requires confirm=true; without it nothing changes.
func (t *TransferController) ImportJSON(ctx *gin.Context) {
	if !confirmed(ctx) {
		utils.Error(ctx, http.StatusPreconditionRequired, 42841, "import replaces all data and must be confirmed")
		return
	}

	body, err := importBody(ctx)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "no import file provided")
		return
	}
	defer body.Close()

	res, err := transfer.Import(io.LimitReader(body, maxImportBytes))
	switch {
	case errors.Is(err, transfer.ErrInvalidJSON):
		utils.Error(ctx, http.StatusBadRequest, 40042, "file is not valid JSON")
		return
	case errors.Is(err, transfer.ErrInvalidFormat):
		utils.Error(ctx, http.StatusBadRequest, 40043, "invalid file format")
		return
	case errors.Is(err, transfer.ErrNoValidRecords):
		utils.ErrorWithData(ctx, http.StatusBadRequest, 40044, "no valid photo records", gin.H{"rejected": res.Rejected})
		return
	case err != nil:
		utils.Error(ctx, http.StatusBadRequest, 40045, "failed to read import file")
		return
	}

	t.photos.ReplaceAll(res.Photos)
	t.logger.Info("collection imported",
		zap.Int("imported", len(res.Photos)),
		zap.Int("rejected", len(res.Rejected)),
	)
	t.notify(ctx, notify.Imported())
	utils.Success(ctx, gin.H{
		"imported": len(res.Photos),
		"rejected": res.Rejected,
	})
}

func importBody(ctx *gin.Context) (io.ReadCloser, error) {
	if strings.HasPrefix(ctx.ContentType(), "multipart/") {
		file, _, err := ctx.Request.FormFile("file")
		if err != nil {
			return nil, err
		}
		return file, nil
	}
	if ctx.Request.Body == nil || ctx.Request.Body == http.NoBody || ctx.Request.ContentLength == 0 {
		return nil, errors.New("empty body")
	}
	return ctx.Request.Body, nil
}

// ExportPDF downloads the list of exhibition photos as a PDF.
func (t *TransferController) ExportPDF(ctx *gin.Context) {
	now := t.now()
	var buf bytes.Buffer
	err := t.renderer.Render(&buf, t.photos.List(), now)
	if errors.Is(err, pdfexport.ErrNoExhibitionPhotos) {
		utils.Error(ctx, http.StatusConflict, 40950, "no photos on exhibition to export")
		return
	}
	if err != nil {
		t.logger.Error("pdf export failed", zap.Error(err))
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to export pdf")
		return
	}
	t.notify(ctx, notify.PDFExported())
	ctx.Header("Content-Disposition", `attachment; filename="`+pdfexport.FileName(now)+`"`)
	ctx.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (t *TransferController) notify(ctx *gin.Context, n notify.Notification) {
	if err := t.notifier.Notify(ctx.Request.Context(), n); err != nil {
		t.logger.Debug("notification delivery failed", zap.Error(err))
	}
}

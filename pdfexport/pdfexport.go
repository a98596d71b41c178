// Package pdfexport renders the list of photos on exhibition as a PDF.
package pdfexport

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/nfnt/resize"
	"go.uber.org/zap"

	"github.com/cppla/fotos/models"
	"github.com/cppla/fotos/store"
)

var ErrNoExhibitionPhotos = errors.New("no photos on exhibition to export")

const (
	pageBreakY   = 250.0
	topMargin    = 20.0
	firstEntryY  = 40.0
	leftX        = 20.0
	centerX      = 105.0
	thumbW       = 40.0
	thumbH       = 30.0
	thumbPixelsW = 320
	thumbPixelsH = 240
)

// Renderer writes exhibition PDFs.
type Renderer struct {
	logger *zap.Logger
}

// NewRenderer returns a renderer that logs thumbnail failures to logger.
func NewRenderer(logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{logger: logger}
}

// FileName is the suggested download name for an exhibition PDF.
func FileName(now time.Time) string {
	return "exposicao-" + now.Format("2006-01-02") + ".pdf"
}

// Render writes one entry per exhibition photo, in collection order. Photos
// at home are skipped; if none is on exhibition nothing is written.
func (r *Renderer) Render(w io.Writer, photos []models.PhotoRecord, now time.Time) error {
	_, exhibition := store.PartitionByLocation(photos)
	if len(exhibition) == 0 {
		return ErrNoExhibitionPhotos
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "", 18)
	centered(pdf, tr("Lista de Exposição de Fotos"), 20)
	pdf.SetFont("Helvetica", "", 10)
	centered(pdf, tr("Data: "+models.DateOf(now).Display()), 28)

	y := firstEntryY
	for i, photo := range exhibition {
		if y > pageBreakY {
			pdf.AddPage()
			y = topMargin
		}

		pdf.SetFont("Helvetica", "B", 12)
		pdf.Text(leftX, y, tr(strconv.Itoa(i+1)+". "+photo.Name))

		pdf.SetFont("Helvetica", "", 10)
		y += 7
		pdf.Text(leftX, y, tr("   Tamanho: "+photo.Size.Label()))
		y += 6

		if period, ok := photo.Exhibition(); ok {
			pdf.Text(leftX, y, tr(fmt.Sprintf("   Período: %s - %s", period.Start.Display(), period.End.Display())))
			y += 6
		}

		if photo.Image != "" {
			thumb, err := thumbnail(photo.Image)
			if err != nil {
				r.logger.Debug("thumbnail unavailable", zap.Int64("photo_id", photo.ID), zap.Error(err))
				pdf.Text(leftX, y, tr("   [Imagem não disponível]"))
				y += 10
			} else {
				name := "photo-" + strconv.FormatInt(photo.ID, 10)
				opts := fpdf.ImageOptions{ImageType: "JPG"}
				pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(thumb))
				pdf.ImageOptions(name, leftX, y, thumbW, thumbH, false, opts, 0, "")
				y += 35
			}
		}

		y += 5
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func centered(pdf *fpdf.Fpdf, s string, y float64) {
	pdf.Text(centerX-pdf.GetStringWidth(s)/2, y, s)
}

// thumbnail decodes a data URL image and re-encodes a small JPEG of it.
func thumbnail(dataURL string) ([]byte, error) {
	payload, err := decodeDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	small := resize.Thumbnail(thumbPixelsW, thumbPixelsH, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, small, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeDataURL(s string) ([]byte, error) {
	meta, data, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(meta, "data:") {
		return nil, errors.New("image is not a data URL")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, errors.New("image data URL is not base64")
	}
	return base64.StdEncoding.DecodeString(data)
}

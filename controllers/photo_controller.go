package controllers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/fotos/models"
	"github.com/cppla/fotos/notify"
	"github.com/cppla/fotos/store"
	"github.com/cppla/fotos/utils"
)

// PhotoController manages the photos of the collection and their placement.
type PhotoController struct {
	photos        *store.Collection
	notifier      notify.Notifier
	logger        *zap.Logger
	maxImageBytes int64
	loc           *time.Location
	now           func() time.Time
}

// NewPhotoController creates a new PhotoController instance. Countdowns are
// computed in loc, the zone the exhibition scheduler decides expiry in.
func NewPhotoController(photos *store.Collection, notifier notify.Notifier, maxImageBytes int64, loc *time.Location, logger *zap.Logger) *PhotoController {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &PhotoController{
		photos:        photos,
		notifier:      notifier,
		logger:        logger,
		maxImageBytes: maxImageBytes,
		loc:           loc,
		now:           time.Now,
	}
}

func (p *PhotoController) clock() time.Time {
	return p.now().In(p.loc)
}

type countdownView struct {
	DaysRemaining int    `json:"daysRemaining"`
	Active        bool   `json:"active"`
	Label         string `json:"label"`
}

type photoView struct {
	Photo     models.PhotoRecord `json:"photo"`
	SizeLabel string             `json:"sizeLabel"`
	DateRange string             `json:"dateRange,omitempty"`
	Countdown *countdownView     `json:"countdown,omitempty"`
}

func newPhotoView(p models.PhotoRecord, now time.Time) photoView {
	v := photoView{Photo: p, SizeLabel: p.Size.Label()}
	if period, ok := p.Exhibition(); ok {
		days := period.DaysRemaining(now)
		v.DateRange = period.Start.Display() + " - " + period.End.Display()
		v.Countdown = &countdownView{DaysRemaining: days, Active: days > 0, Label: "Terminada"}
		if days > 0 {
			v.Countdown.Label = fmt.Sprintf("%d dias restantes", days)
		}
	}
	return v
}

func viewsOf(photos []models.PhotoRecord, now time.Time) []photoView {
	views := make([]photoView, 0, len(photos))
	for _, p := range photos {
		views = append(views, newPhotoView(p, now))
	}
	return views
}

// ListPhotos returns the collection split into home and exhibition photos.
func (p *PhotoController) ListPhotos(ctx *gin.Context) {
	now := p.clock()
	home, exhibition := p.photos.Partition()
	utils.Success(ctx, gin.H{
		"home":       viewsOf(home, now),
		"exhibition": viewsOf(exhibition, now),
	})
}

// GetPhoto returns one photo.
func (p *PhotoController) GetPhoto(ctx *gin.Context) {
	id, ok := photoID(ctx)
	if !ok {
		return
	}
	photo, found := p.photos.Get(id)
	if !found {
		utils.Error(ctx, http.StatusNotFound, 40401, "photo not found")
		return
	}
	utils.Success(ctx, newPhotoView(photo, p.clock()))
}

// AddPhoto accepts either a JSON body carrying a data URL image or a
// multipart form with an image file.
func (p *PhotoController) AddPhoto(ctx *gin.Context) {
	var req struct {
		Name  string `json:"name" form:"name"`
		Size  string `json:"size" form:"size" binding:"required"`
		Image string `json:"image"`
	}

	multipart := strings.HasPrefix(ctx.ContentType(), "multipart/")
	var err error
	if multipart {
		err = ctx.ShouldBind(&req)
	} else {
		err = ctx.ShouldBindJSON(&req)
	}
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	if multipart {
		image, code, msg := p.readImageFile(ctx)
		if code != 0 {
			utils.Error(ctx, http.StatusBadRequest, code, msg)
			return
		}
		req.Image = image
	} else if req.Image != "" {
		if code, msg := p.checkDataURL(req.Image); code != 0 {
			utils.Error(ctx, http.StatusBadRequest, code, msg)
			return
		}
	}

	photo, err := p.photos.Add(store.NewPhoto{
		Name:  utils.SanitizeName(req.Name),
		Size:  req.Size,
		Image: req.Image,
	})
	switch {
	case errors.Is(err, store.ErrMissingImage):
		utils.Error(ctx, http.StatusBadRequest, 40011, "please select an image")
		return
	case errors.Is(err, models.ErrInvalidSize):
		utils.Error(ctx, http.StatusBadRequest, 40012, "invalid size")
		return
	case err != nil:
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to add photo")
		return
	}

	p.logger.Info("photo added", zap.Int64("photo_id", photo.ID), zap.String("size", string(photo.Size)))
	p.notify(ctx, notify.PhotoAdded(photo))
	utils.Created(ctx, newPhotoView(photo, p.clock()))
}

// readImageFile loads the "image" form file as a data URL.
func (p *PhotoController) readImageFile(ctx *gin.Context) (string, int, string) {
	file, header, err := ctx.Request.FormFile("image")
	if err != nil {
		return "", 40011, "please select an image"
	}
	defer file.Close()

	if header.Size > p.maxImageBytes {
		return "", 40013, p.tooLargeMessage()
	}
	b, err := io.ReadAll(io.LimitReader(file, p.maxImageBytes+1))
	if err != nil {
		return "", 40014, "failed to read image"
	}
	if int64(len(b)) > p.maxImageBytes {
		return "", 40013, p.tooLargeMessage()
	}
	mt := mimetype.Detect(b)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", 40015, "file is not an image"
	}
	return "data:" + mt.String() + ";base64," + base64.StdEncoding.EncodeToString(b), 0, ""
}

// checkDataURL enforces the upload limits on an inline image.
func (p *PhotoController) checkDataURL(image string) (int, string) {
	meta, data, ok := strings.Cut(image, ",")
	if !ok || !strings.HasPrefix(meta, "data:image/") {
		return 40015, "image must be an image data URL"
	}
	if int64(base64.StdEncoding.DecodedLen(len(data))) > p.maxImageBytes+2 {
		return 40013, p.tooLargeMessage()
	}
	return 0, ""
}

func (p *PhotoController) tooLargeMessage() string {
	return fmt.Sprintf("image too large, max %d bytes", p.maxImageBytes)
}

// DeletePhoto removes a photo. The caller must confirm with confirm=true.
func (p *PhotoController) DeletePhoto(ctx *gin.Context) {
	id, ok := photoID(ctx)
	if !ok {
		return
	}
	if !confirmed(ctx) {
		utils.Error(ctx, http.StatusPreconditionRequired, 42801, "deletion must be confirmed")
		return
	}
	if err := p.photos.Remove(id); err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "photo not found")
		return
	}
	p.logger.Info("photo deleted", zap.Int64("photo_id", id))
	p.notify(ctx, notify.PhotoDeleted(id))
	utils.Success(ctx, gin.H{"message": "photo deleted"})
}

// ScheduleExhibition puts a photo on exhibition for a date range.
func (p *PhotoController) ScheduleExhibition(ctx *gin.Context) {
	id, ok := photoID(ctx)
	if !ok {
		return
	}
	var req struct {
		Start string `json:"start" binding:"required"`
		End   string `json:"end" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}
	start, err := models.ParseDate(req.Start)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid start date")
		return
	}
	end, err := models.ParseDate(req.End)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid end date")
		return
	}

	photo, err := p.photos.ScheduleExhibition(id, start, end)
	var rangeErr *models.InvalidRangeError
	switch {
	case errors.As(err, &rangeErr):
		utils.Error(ctx, http.StatusBadRequest, 40022, "end date cannot be before start date")
		return
	case errors.Is(err, store.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40401, "photo not found")
		return
	case err != nil:
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to schedule exhibition")
		return
	}

	p.logger.Info("exhibition scheduled",
		zap.Int64("photo_id", id),
		zap.String("start", start.String()),
		zap.String("end", end.String()),
	)
	p.notify(ctx, notify.ExhibitionScheduled(photo))
	utils.Success(ctx, newPhotoView(photo, p.clock()))
}

// ReturnHome brings a photo back home, discarding its exhibition period.
func (p *PhotoController) ReturnHome(ctx *gin.Context) {
	id, ok := photoID(ctx)
	if !ok {
		return
	}
	photo, err := p.photos.ReturnHome(id)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "photo not found")
		return
	}
	p.logger.Info("photo returned home", zap.Int64("photo_id", id))
	p.notify(ctx, notify.ReturnedHome(photo))
	utils.Success(ctx, newPhotoView(photo, p.clock()))
}

func (p *PhotoController) notify(ctx *gin.Context, n notify.Notification) {
	if err := p.notifier.Notify(ctx.Request.Context(), n); err != nil {
		p.logger.Debug("notification delivery failed", zap.Error(err))
	}
}

func photoID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid photo id")
		return 0, false
	}
	return id, true
}

func confirmed(ctx *gin.Context) bool {
	v, _ := strconv.ParseBool(ctx.Query("confirm"))
	return v
}

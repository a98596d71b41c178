// Package store holds the photo collection for the lifetime of the process.
//
// A Collection is the single source of truth for rendering, export and the
// exhibition scheduler. Every operation takes the collection lock and runs to
// completion, so callers always observe a consistent snapshot and the
// scheduler never interleaves with user mutations.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/cppla/fotos/models"
)

var (
	ErrNotFound     = errors.New("photo not found")
	ErrMissingImage = errors.New("photo image is required")
)

// NewPhoto carries the user supplied fields of a photo being added.
type NewPhoto struct {
	Name  string
	Size  string
	Image string
}

// Stats aggregates the collection by size category.
type Stats struct {
	Total  int `json:"total"`
	Small  int `json:"small"`
	Medium int `json:"medium"`
	Large  int `json:"large"`
}

// Collection is an ordered, in-memory list of photo records.
type Collection struct {
	mu     sync.Mutex
	photos []models.PhotoRecord
	lastID int64
	now    func() time.Time
}

// Option configures a Collection.
type Option func(*Collection)

// WithClock overrides the time source used for ids and dateAdded.
func WithClock(now func() time.Time) Option {
	return func(c *Collection) {
		if now != nil {
			c.now = now
		}
	}
}

// New returns an empty collection.
func New(opts ...Option) *Collection {
	c := &Collection{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add appends a new photo at home and returns it.
func (c *Collection) Add(in NewPhoto) (models.PhotoRecord, error) {
	if in.Image == "" {
		return models.PhotoRecord{}, ErrMissingImage
	}
	size, err := models.ParseSize(in.Size)
	if err != nil {
		return models.PhotoRecord{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	rec := models.PhotoRecord{
		ID:        c.nextIDLocked(now),
		Name:      in.Name,
		Size:      size,
		Image:     in.Image,
		DateAdded: now.UTC().Truncate(time.Millisecond),
		Placement: models.AtHome(),
	}
	c.photos = append(c.photos, rec)
	return rec, nil
}

// ids derive from the clock but never repeat, even after deletes or imports.
func (c *Collection) nextIDLocked(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id
	return id
}

// Remove deletes the photo with id.
func (c *Collection) Remove(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	c.photos = append(c.photos[:i], c.photos[i+1:]...)
	return nil
}

// ScheduleExhibition puts the photo on exhibition for [start, end], replacing
// any previous period. An invalid range leaves the photo untouched.
func (c *Collection) ScheduleExhibition(id int64, start, end models.Date) (models.PhotoRecord, error) {
	period, err := models.NewExhibitionPeriod(start, end)
	if err != nil {
		return models.PhotoRecord{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return models.PhotoRecord{}, ErrNotFound
	}
	c.photos[i].Placement = models.OnExhibition(period)
	return c.photos[i], nil
}

// ReturnHome brings the photo home and discards its exhibition period.
func (c *Collection) ReturnHome(id int64) (models.PhotoRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return models.PhotoRecord{}, ErrNotFound
	}
	c.photos[i].Placement = models.AtHome()
	return c.photos[i], nil
}

// ReplaceAll swaps the whole collection. Records are expected to be validated
// already; see the transfer package.
func (c *Collection) ReplaceAll(records []models.PhotoRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.photos = append([]models.PhotoRecord(nil), records...)
	for _, rec := range records {
		if rec.ID > c.lastID {
			c.lastID = rec.ID
		}
	}
}

// Get returns the photo with id.
func (c *Collection) Get(id int64) (models.PhotoRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return models.PhotoRecord{}, false
	}
	return c.photos[i], true
}

// List returns a copy of all photos in insertion order.
func (c *Collection) List() []models.PhotoRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.PhotoRecord(nil), c.photos...)
}

// Len returns the number of photos.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.photos)
}

// Partition splits the collection into home and exhibition photos.
func (c *Collection) Partition() (home, exhibition []models.PhotoRecord) {
	return PartitionByLocation(c.List())
}

// CountBySize returns totals by size category.
func (c *Collection) CountBySize() Stats {
	return CountBySize(c.List())
}

// ExpireDue marks every un-notified exhibition that ended before today and
// returns the photos whose flag flipped. Each period flips exactly once.
func (c *Collection) ExpireDue(today models.Date) []models.PhotoRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expired []models.PhotoRecord
	for i := range c.photos {
		period, ok := c.photos[i].Exhibition()
		if !ok || period.Notified || !period.Expired(today) {
			continue
		}
		period.Notified = true
		c.photos[i].Placement = models.OnExhibition(period)
		expired = append(expired, c.photos[i])
	}
	return expired
}

func (c *Collection) indexLocked(id int64) int {
	for i := range c.photos {
		if c.photos[i].ID == id {
			return i
		}
	}
	return -1
}

// PartitionByLocation splits photos by where they are, preserving order.
func PartitionByLocation(photos []models.PhotoRecord) (home, exhibition []models.PhotoRecord) {
	home = []models.PhotoRecord{}
	exhibition = []models.PhotoRecord{}
	for _, p := range photos {
		if p.Placement.IsExhibition() {
			exhibition = append(exhibition, p)
		} else {
			home = append(home, p)
		}
	}
	return home, exhibition
}

// CountBySize totals photos per size category.
func CountBySize(photos []models.PhotoRecord) Stats {
	s := Stats{Total: len(photos)}
	for _, p := range photos {
		switch p.Size {
		case models.SizeSmall:
			s.Small++
		case models.SizeMedium:
			s.Medium++
		case models.SizeLarge:
			s.Large++
		}
	}
	return s
}

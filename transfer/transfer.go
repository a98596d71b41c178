// Package transfer reads and writes collection export files.
//
// An export is a JSON document {photos, exportDate, version} with images
// inline. Import validates every record on its own: malformed ones are
// rejected with a reason instead of leaking into the collection.
package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cppla/fotos/models"
)

// Version is written into every export.
const Version = "1.0"

var (
	ErrInvalidJSON   = errors.New("file is not valid JSON")
	ErrInvalidFormat = errors.New("invalid export format: photos list missing")
	// ErrNoValidRecords is returned when a non-empty photos list has no
	// acceptable record; importing it would silently wipe the collection.
	ErrNoValidRecords = errors.New("no valid photo records in file")
)

// Document is the export file layout.
type Document struct {
	Photos     []models.PhotoRecord `json:"photos"`
	ExportDate time.Time            `json:"exportDate"`
	Version    string               `json:"version"`
}

// Rejected describes a record left out of an import.
type Rejected struct {
	Index  int    `json:"index"`
	ID     int64  `json:"id,omitempty"`
	Reason string `json:"reason"`
}

// Result is the outcome of decoding an export file.
type Result struct {
	Photos     []models.PhotoRecord `json:"-"`
	Rejected   []Rejected           `json:"rejected"`
	Version    string               `json:"version,omitempty"`
	ExportDate *time.Time           `json:"exportDate,omitempty"`
}

// Export writes photos as an indented export document.
func Export(w io.Writer, photos []models.PhotoRecord, now time.Time) error {
	if photos == nil {
		photos = []models.PhotoRecord{}
	}
	doc := Document{
		Photos:     photos,
		ExportDate: now.UTC().Truncate(time.Millisecond),
		Version:    Version,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// ExportFileName is the suggested download name for a JSON export.
func ExportFileName(now time.Time) string {
	return "inventario-fotos-" + now.Format("2006-01-02") + ".json"
}

type envelope struct {
	Photos     json.RawMessage `json:"photos"`
	ExportDate string          `json:"exportDate"`
	Version    string          `json:"version"`
}

// Import decodes an export file. Structural problems fail the whole import;
// record level problems are collected in Result.Rejected.
func Import(r io.Reader) (Result, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("read import: %w", err)
	}
	if !json.Valid(raw) {
		return Result{}, ErrInvalidJSON
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Result{}, ErrInvalidFormat
	}
	var items []json.RawMessage
	if len(env.Photos) == 0 || json.Unmarshal(env.Photos, &items) != nil || items == nil {
		return Result{}, ErrInvalidFormat
	}

	res := Result{
		Photos:   make([]models.PhotoRecord, 0, len(items)),
		Rejected: []Rejected{},
		Version:  env.Version,
	}
	if t, err := time.Parse(time.RFC3339Nano, env.ExportDate); err == nil {
		res.ExportDate = &t
	}

	seen := make(map[int64]bool, len(items))
	for i, item := range items {
		var rec models.PhotoRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			res.Rejected = append(res.Rejected, Rejected{Index: i, ID: peekID(item), Reason: err.Error()})
			continue
		}
		if seen[rec.ID] {
			res.Rejected = append(res.Rejected, Rejected{Index: i, ID: rec.ID, Reason: "duplicate id"})
			continue
		}
		seen[rec.ID] = true
		res.Photos = append(res.Photos, rec)
	}

	if len(items) > 0 && len(res.Photos) == 0 {
		return res, ErrNoValidRecords
	}
	return res, nil
}

func peekID(item json.RawMessage) int64 {
	var v struct {
		ID int64 `json:"id"`
	}
	_ = json.Unmarshal(item, &v)
	return v.ID
}

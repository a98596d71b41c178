package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Size is the print size category of a photo. Values keep the wire codes of
// existing export files.
type Size string

const (
	SizeSmall  Size = "pequeno"
	SizeMedium Size = "medio"
	SizeLarge  Size = "grande"
)

// Location is where a photo is kept.
type Location string

const (
	LocationHome       Location = "Casa"
	LocationExhibition Location = "Exposição"
)

var (
	ErrInvalidSize     = errors.New("invalid size")
	ErrInvalidLocation = errors.New("invalid location")
	// ErrInvalidRecord wraps every schema violation found while decoding a photo.
	ErrInvalidRecord = errors.New("invalid photo record")
)

// ParseSize accepts the stored codes and their English names.
func ParseSize(s string) (Size, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pequeno", "small":
		return SizeSmall, nil
	case "medio", "médio", "medium":
		return SizeMedium, nil
	case "grande", "large":
		return SizeLarge, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSize, s)
}

// Label is the human readable size name.
func (s Size) Label() string {
	switch s {
	case SizeSmall:
		return "Pequeno"
	case SizeMedium:
		return "Médio"
	case SizeLarge:
		return "Grande"
	}
	return string(s)
}

// ParseLocation accepts the stored names and their English names.
func ParseLocation(s string) (Location, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "casa", "home":
		return LocationHome, nil
	case "exposição", "exposicao", "exhibition":
		return LocationExhibition, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLocation, s)
}

// PhotoRecord is one photo of the collection.
type PhotoRecord struct {
	ID        int64
	Name      string
	Size      Size
	Image     string // data URL, opaque
	DateAdded time.Time
	Placement Placement
}

// Location is a shorthand for Placement.Location.
func (p PhotoRecord) Location() Location { return p.Placement.Location() }

// Exhibition is a shorthand for Placement.Exhibition.
func (p PhotoRecord) Exhibition() (ExhibitionPeriod, bool) { return p.Placement.Exhibition() }

type photoOut struct {
	ID         int64             `json:"id"`
	Name       string            `json:"name"`
	Size       Size              `json:"size"`
	Location   Location          `json:"location"`
	Image      string            `json:"image"`
	DateAdded  time.Time         `json:"dateAdded"`
	Exhibition *ExhibitionPeriod `json:"exhibition"`
}

func (p PhotoRecord) MarshalJSON() ([]byte, error) {
	out := photoOut{
		ID:        p.ID,
		Name:      p.Name,
		Size:      p.Size,
		Location:  p.Location(),
		Image:     p.Image,
		DateAdded: p.DateAdded,
	}
	if period, ok := p.Exhibition(); ok {
		out.Exhibition = &period
	}
	return json.Marshal(out)
}

type photoIn struct {
	ID         *int64    `json:"id"`
	Name       *string   `json:"name"`
	Size       string    `json:"size"`
	Location   string    `json:"location"`
	Image      string    `json:"image"`
	DateAdded  string    `json:"dateAdded"`
	Exhibition *periodIn `json:"exhibition"`
}

type periodIn struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Notified bool   `json:"notified"`
}

// UnmarshalJSON decodes and validates one record. Every failure wraps
// ErrInvalidRecord and names the offending field.
func (p *PhotoRecord) UnmarshalJSON(b []byte) error {
	var in photoIn
	if err := json.Unmarshal(b, &in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if in.ID == nil || *in.ID <= 0 {
		return fmt.Errorf("%w: id must be a positive integer", ErrInvalidRecord)
	}
	if in.Name == nil {
		return fmt.Errorf("%w: name is missing", ErrInvalidRecord)
	}
	size, err := ParseSize(in.Size)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	loc, err := ParseLocation(in.Location)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if strings.TrimSpace(in.Image) == "" {
		return fmt.Errorf("%w: image is missing", ErrInvalidRecord)
	}
	added, err := time.Parse(time.RFC3339Nano, in.DateAdded)
	if err != nil {
		return fmt.Errorf("%w: dateAdded: %v", ErrInvalidRecord, err)
	}

	placement := AtHome()
	switch {
	case loc == LocationHome && in.Exhibition != nil:
		return fmt.Errorf("%w: home photo carries an exhibition period", ErrInvalidRecord)
	case loc == LocationExhibition && in.Exhibition == nil:
		return fmt.Errorf("%w: exhibition photo has no period", ErrInvalidRecord)
	case in.Exhibition != nil:
		start, err := ParseDate(in.Exhibition.Start)
		if err != nil {
			return fmt.Errorf("%w: exhibition start: %v", ErrInvalidRecord, err)
		}
		end, err := ParseDate(in.Exhibition.End)
		if err != nil {
			return fmt.Errorf("%w: exhibition end: %v", ErrInvalidRecord, err)
		}
		period, err := NewExhibitionPeriod(start, end)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
		period.Notified = in.Exhibition.Notified
		placement = OnExhibition(period)
	}

	*p = PhotoRecord{
		ID:        *in.ID,
		Name:      *in.Name,
		Size:      size,
		Image:     in.Image,
		DateAdded: added,
		Placement: placement,
	}
	return nil
}

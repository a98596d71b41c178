package models

import (
	"fmt"
	"math"
	"time"
)

// ExhibitionPeriod is the inclusive date range a photo spends on display.
type ExhibitionPeriod struct {
	Start    Date `json:"start"`
	End      Date `json:"end"`
	Notified bool `json:"notified"`
}

// InvalidRangeError reports an exhibition whose end precedes its start.
type InvalidRangeError struct {
	Start Date
	End   Date
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("exhibition end %s is before start %s", e.End, e.Start)
}

// NewExhibitionPeriod validates the range and returns an un-notified period.
func NewExhibitionPeriod(start, end Date) (ExhibitionPeriod, error) {
	if end.Before(start) {
		return ExhibitionPeriod{}, &InvalidRangeError{Start: start, End: end}
	}
	return ExhibitionPeriod{Start: start, End: end}, nil
}

// Expired reports whether today is strictly after the last exhibition day.
func (p ExhibitionPeriod) Expired(today Date) bool {
	return today.After(p.End)
}

// DaysRemaining is the countdown shown next to an exhibition photo. It is
// computed against wall-clock now, so a period ending today already reads 0
// once midnight has passed, while Expired only flips the following day.
func (p ExhibitionPeriod) DaysRemaining(now time.Time) int {
	left := p.End.Midnight(now.Location()).Sub(now)
	return int(math.Ceil(float64(left) / float64(24*time.Hour)))
}

// Placement is where a photo currently is: at home, or on exhibition with a
// period. The zero value is at home.
type Placement struct {
	period *ExhibitionPeriod
}

// AtHome returns the home placement.
func AtHome() Placement { return Placement{} }

// OnExhibition returns an exhibition placement carrying p.
func OnExhibition(p ExhibitionPeriod) Placement {
	return Placement{period: &p}
}

// Location names the placement.
func (p Placement) Location() Location {
	if p.period != nil {
		return LocationExhibition
	}
	return LocationHome
}

// Exhibition returns the exhibition period, if any.
func (p Placement) Exhibition() (ExhibitionPeriod, bool) {
	if p.period == nil {
		return ExhibitionPeriod{}, false
	}
	return *p.period, true
}

// IsExhibition reports whether the photo is on exhibition.
func (p Placement) IsExhibition() bool { return p.period != nil }

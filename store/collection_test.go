package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cppla/fotos/models"
)

const img = "data:image/png;base64,iVBORw0KGgo="

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func mustAdd(t *testing.T, c *Collection, name, size string) models.PhotoRecord {
	t.Helper()
	p, err := c.Add(NewPhoto{Name: name, Size: size, Image: img})
	if err != nil {
		t.Fatalf("Add(%q): %v", name, err)
	}
	return p
}

func TestAddPlacesPhotoAtHome(t *testing.T) {
	now := time.Date(2024, time.January, 2, 10, 30, 0, 123456789, time.UTC)
	c := New(WithClock(fixedClock(now)))

	p := mustAdd(t, c, "Farol", "grande")
	if p.ID != now.UnixMilli() {
		t.Fatalf("id = %d, want %d", p.ID, now.UnixMilli())
	}
	if p.Location() != models.LocationHome || p.Placement.IsExhibition() {
		t.Fatalf("new photo must be at home")
	}
	if !p.DateAdded.Equal(now.Truncate(time.Millisecond)) {
		t.Fatalf("dateAdded = %v", p.DateAdded)
	}
	if c.Len() != 1 {
		t.Fatalf("len = %d", c.Len())
	}
}

func TestAddValidation(t *testing.T) {
	c := New()
	if _, err := c.Add(NewPhoto{Name: "x", Size: "pequeno"}); !errors.Is(err, ErrMissingImage) {
		t.Fatalf("err = %v, want ErrMissingImage", err)
	}
	if _, err := c.Add(NewPhoto{Name: "x", Size: "enorme", Image: img}); !errors.Is(err, models.ErrInvalidSize) {
		t.Fatalf("err = %v, want ErrInvalidSize", err)
	}
	if c.Len() != 0 {
		t.Fatalf("failed adds must not change the collection")
	}
}

func TestIDsStayUniqueWithinOneMillisecond(t *testing.T) {
	c := New(WithClock(fixedClock(time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC))))
	a := mustAdd(t, c, "a", "pequeno")
	b := mustAdd(t, c, "b", "pequeno")
	if b.ID <= a.ID {
		t.Fatalf("ids not increasing: %d then %d", a.ID, b.ID)
	}
}

func TestAddMediumIncrementsMediumCount(t *testing.T) {
	c := New()
	mustAdd(t, c, "a", "pequeno")
	before := c.CountBySize()

	mustAdd(t, c, "b", "medio")
	after := c.CountBySize()

	if after.Medium != before.Medium+1 {
		t.Fatalf("medium %d -> %d", before.Medium, after.Medium)
	}
	if after.Small != before.Small || after.Large != before.Large || after.Total != before.Total+1 {
		t.Fatalf("other counts moved: %+v -> %+v", before, after)
	}
}

func TestScheduleExhibition(t *testing.T) {
	c := New()
	p := mustAdd(t, c, "a", "pequeno")

	got, err := c.ScheduleExhibition(p.ID, models.NewDate(2024, time.March, 1), models.NewDate(2024, time.March, 5))
	if err != nil {
		t.Fatal(err)
	}
	period, ok := got.Exhibition()
	if !ok || got.Location() != models.LocationExhibition || period.Notified {
		t.Fatalf("scheduled photo = %+v", got)
	}
	stored, _ := c.Get(p.ID)
	if !stored.Placement.IsExhibition() {
		t.Fatalf("schedule not stored")
	}
}

func TestScheduleInvalidRangeLeavesStateUnchanged(t *testing.T) {
	c := New()
	p := mustAdd(t, c, "a", "pequeno")
	before := c.List()

	_, err := c.ScheduleExhibition(p.ID, models.NewDate(2024, time.March, 5), models.NewDate(2024, time.March, 1))
	var rangeErr *models.InvalidRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("err = %v", err)
	}
	after := c.List()
	if len(after) != len(before) || after[0].Placement.IsExhibition() {
		t.Fatalf("state changed: %+v", after)
	}

	// an existing period survives a rejected reschedule
	if _, err := c.ScheduleExhibition(p.ID, models.NewDate(2024, time.April, 1), models.NewDate(2024, time.April, 2)); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ScheduleExhibition(p.ID, models.NewDate(2024, time.May, 5), models.NewDate(2024, time.May, 1)); err == nil {
		t.Fatalf("expected range error")
	}
	stored, _ := c.Get(p.ID)
	period, _ := stored.Exhibition()
	if period.End != models.NewDate(2024, time.April, 2) {
		t.Fatalf("period = %+v", period)
	}
}

func TestScheduleUnknownPhoto(t *testing.T) {
	c := New()
	_, err := c.ScheduleExhibition(42, models.NewDate(2024, time.March, 1), models.NewDate(2024, time.March, 5))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestReturnHome(t *testing.T) {
	c := New()
	home := mustAdd(t, c, "home", "pequeno")
	shown := mustAdd(t, c, "shown", "grande")
	if _, err := c.ScheduleExhibition(shown.ID, models.NewDate(2024, time.March, 1), models.NewDate(2024, time.March, 5)); err != nil {
		t.Fatal(err)
	}

	for _, id := range []int64{home.ID, shown.ID} {
		p, err := c.ReturnHome(id)
		if err != nil {
			t.Fatal(err)
		}
		if p.Location() != models.LocationHome {
			t.Fatalf("photo %d at %s", id, p.Location())
		}
		if _, ok := p.Exhibition(); ok {
			t.Fatalf("photo %d kept a period", id)
		}
	}
	if _, err := c.ReturnHome(1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestRemove(t *testing.T) {
	c := New()
	a := mustAdd(t, c, "a", "pequeno")
	b := mustAdd(t, c, "b", "medio")

	if err := c.Remove(a.ID); err != nil {
		t.Fatal(err)
	}
	if err := c.Remove(a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second remove err = %v", err)
	}
	list := c.List()
	if len(list) != 1 || list[0].ID != b.ID {
		t.Fatalf("list = %+v", list)
	}
}

func TestPartitionPreservesOrder(t *testing.T) {
	c := New()
	a := mustAdd(t, c, "a", "pequeno")
	b := mustAdd(t, c, "b", "pequeno")
	d := mustAdd(t, c, "d", "pequeno")
	if _, err := c.ScheduleExhibition(b.ID, models.NewDate(2024, time.March, 1), models.NewDate(2024, time.March, 5)); err != nil {
		t.Fatal(err)
	}

	home, exhibition := c.Partition()
	if len(home) != 2 || home[0].ID != a.ID || home[1].ID != d.ID {
		t.Fatalf("home = %+v", home)
	}
	if len(exhibition) != 1 || exhibition[0].ID != b.ID {
		t.Fatalf("exhibition = %+v", exhibition)
	}

	emptyHome, emptyExhibition := New().Partition()
	if emptyHome == nil || emptyExhibition == nil {
		t.Fatalf("empty partitions must be non-nil")
	}
}

func TestExpireDueFlipsOnce(t *testing.T) {
	c := New()
	p := mustAdd(t, c, "a", "pequeno")
	if _, err := c.ScheduleExhibition(p.ID, models.NewDate(2024, time.January, 1), models.NewDate(2024, time.January, 10)); err != nil {
		t.Fatal(err)
	}

	if got := c.ExpireDue(models.NewDate(2024, time.January, 10)); len(got) != 0 {
		t.Fatalf("expired on its last day: %+v", got)
	}
	got := c.ExpireDue(models.NewDate(2024, time.January, 11))
	if len(got) != 1 || got[0].ID != p.ID {
		t.Fatalf("expired = %+v", got)
	}
	period, _ := got[0].Exhibition()
	if !period.Notified {
		t.Fatalf("returned record must carry the flipped flag")
	}
	if again := c.ExpireDue(models.NewDate(2024, time.January, 12)); len(again) != 0 {
		t.Fatalf("expired twice: %+v", again)
	}

	stored, _ := c.Get(p.ID)
	if stored.Location() != models.LocationExhibition {
		t.Fatalf("expiry must not move the photo home")
	}
}

func TestReplaceAllKeepsIDsMonotonic(t *testing.T) {
	now := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	c := New(WithClock(fixedClock(now)))
	future := models.PhotoRecord{ID: now.UnixMilli() + 1000, Name: "imported", Size: models.SizeSmall, Image: img}
	c.ReplaceAll([]models.PhotoRecord{future})

	p := mustAdd(t, c, "new", "pequeno")
	if p.ID <= future.ID {
		t.Fatalf("new id %d collides with imported %d", p.ID, future.ID)
	}
	if c.Len() != 2 {
		t.Fatalf("len = %d", c.Len())
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = c.Add(NewPhoto{Name: "x", Size: "grande", Image: img})
		}()
		go func() {
			defer wg.Done()
			c.ExpireDue(models.NewDate(2030, time.January, 1))
			_ = c.CountBySize()
		}()
	}
	wg.Wait()

	seen := map[int64]bool{}
	for _, p := range c.List() {
		if seen[p.ID] {
			t.Fatalf("duplicate id %d", p.ID)
		}
		seen[p.ID] = true
	}
	if c.CountBySize().Large != 20 {
		t.Fatalf("stats = %+v", c.CountBySize())
	}
}

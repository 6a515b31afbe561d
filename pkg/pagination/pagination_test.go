package pagination

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taeyang999/xposconnect-sub000/pkg/db/dbtest"
)

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{0: DefaultLimit, -3: DefaultLimit, 10: 10, MaxLimit + 50: MaxLimit}
	for in, want := range cases {
		if got := NormalizeLimit(in); got != want {
			t.Fatalf("NormalizeLimit(%d)=%d want %d", in, got, want)
		}
	}
	if LimitWithBuffer(10) != 11 {
		t.Fatal("expected buffer of one row")
	}
}

func TestCursorRoundTrip(t *testing.T) {
	c := Cursor{CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 5, time.UTC), ID: uuid.New()}
	parsed, err := ParseCursor(EncodeCursor(c))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !parsed.CreatedAt.Equal(c.CreatedAt) || parsed.ID != c.ID {
		t.Fatalf("cursor mismatch %+v vs %+v", parsed, c)
	}
}

func TestParseCursorErrors(t *testing.T) {
	if c, err := ParseCursor("  "); c != nil || err != nil {
		t.Fatalf("blank cursor should be nil, got %v %v", c, err)
	}
	for _, raw := range []string{"%%%", "bm9waXBl", EncodeCursor(Cursor{}) + "x"} {
		if _, err := ParseCursor(raw); !errors.Is(err, ErrInvalidCursor) {
			t.Fatalf("ParseCursor(%q) expected ErrInvalidCursor, got %v", raw, err)
		}
	}
}

func TestTrim(t *testing.T) {
	rows := []int{1, 2, 3}
	cursorOf := func(v int) Cursor { return Cursor{CreatedAt: time.Unix(int64(v), 0)} }

	page, next := Trim(rows, 2, cursorOf)
	if len(page) != 2 || next == nil || next.CreatedAt.Unix() != 2 {
		t.Fatalf("unexpected trim result %v %v", page, next)
	}

	page, next = Trim(rows, 5, cursorOf)
	if len(page) != 3 || next != nil {
		t.Fatalf("expected full page without cursor, got %v %v", page, next)
	}
}

type pageRow struct {
	ID        uuid.UUID `gorm:"type:text;primaryKey"`
	CreatedAt time.Time
}

func TestNewestWalksEveryRowOnce(t *testing.T) {
	db := dbtest.New(t)
	if err := db.AutoMigrate(&pageRow{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		// two rows share a timestamp to exercise the id tie break
		if err := db.Create(&pageRow{ID: uuid.New(), CreatedAt: base.Add(time.Duration(i/2) * time.Minute)}).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	seen := map[uuid.UUID]bool{}
	var cursor *Cursor
	for pages := 0; pages < 10; pages++ {
		var rows []pageRow
		if err := db.Scopes(Newest(cursor)).Limit(LimitWithBuffer(2)).Find(&rows).Error; err != nil {
			t.Fatalf("page: %v", err)
		}
		page, next := Trim(rows, 2, func(r pageRow) Cursor { return Cursor{CreatedAt: r.CreatedAt, ID: r.ID} })
		for _, r := range page {
			if seen[r.ID] {
				t.Fatalf("row %s returned twice", r.ID)
			}
			seen[r.ID] = true
		}
		if next == nil {
			break
		}
		cursor = next
	}
	if len(seen) != 5 {
		t.Fatalf("expected all 5 rows across pages, saw %d", len(seen))
	}
}

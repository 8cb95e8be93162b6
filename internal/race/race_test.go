package race

import (
	"testing"
	"time"

	"github.com/pfrederiksen/racecard/internal/venue"
)

func TestNewQuery(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		venue     string
		race      string
		wantError bool
		wantKey   string
	}{
		{name: "label form", date: "20250501", venue: "京都", race: "11R", wantKey: "20250501_08_11"},
		{name: "bare number", date: "20251102", venue: "東京", race: "3", wantKey: "20251102_05_03"},
		{name: "dashed date", date: "2025-05-01", venue: "小倉", race: "12", wantKey: "20250501_10_12"},
		{name: "bad date", date: "2025051", venue: "京都", race: "1", wantError: true},
		{name: "unknown venue", date: "20250501", venue: "大井", race: "1", wantError: true},
		{name: "race zero", date: "20250501", venue: "京都", race: "0", wantError: true},
		{name: "race thirteen", date: "20250501", venue: "京都", race: "13R", wantError: true},
		{name: "race garbage", date: "20250501", venue: "京都", race: "R", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := NewQuery(tt.date, tt.venue, tt.race)
			if tt.wantError {
				if err == nil {
					t.Errorf("NewQuery() expected error, got %+v", q)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewQuery() unexpected error: %v", err)
			}
			if q.Key() != tt.wantKey {
				t.Errorf("Key() = %q, want %q", q.Key(), tt.wantKey)
			}
		})
	}
}

func TestQuery_Renderings(t *testing.T) {
	v, _ := venue.Lookup("京都")
	q := Query{Date: time.Date(2025, 5, 1, 0, 0, 0, 0, time.Local), Venue: v, Race: 7}

	if got := q.YMD(); got != "20250501" {
		t.Errorf("YMD() = %q", got)
	}
	if got := q.RacePadded(); got != "07" {
		t.Errorf("RacePadded() = %q", got)
	}
	if got := q.RaceBare(); got != "7" {
		t.Errorf("RaceBare() = %q", got)
	}
	if got := q.RaceLabel(); got != "7R" {
		t.Errorf("RaceLabel() = %q", got)
	}
	if got := q.String(); got != "20250501 京都 7R" {
		t.Errorf("String() = %q", got)
	}
}

func TestQuery_ValidateRejectsMismatchedVenue(t *testing.T) {
	q := Query{
		Date:  time.Date(2025, 5, 1, 0, 0, 0, 0, time.Local),
		Venue: venue.Venue{Name: "京都", Code: "05"},
		Race:  1,
	}
	if err := q.Validate(); err == nil {
		t.Error("Validate() accepted a venue whose code does not match its name")
	}
}

func TestCard_Filename(t *testing.T) {
	c := &Card{Metadata: Metadata{Date: "20250501", Venue: "京都", RaceLabel: "11R"}}
	if got := c.Filename(); got != "20250501_京都_11R.xlsx" {
		t.Errorf("Filename() = %q", got)
	}
}

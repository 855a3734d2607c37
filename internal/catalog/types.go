package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Day is a festival day.
type Day string

const (
	Thursday Day = "Thursday"
	Friday   Day = "Friday"
	Saturday Day = "Saturday"
	Sunday   Day = "Sunday"
)

// DayOrder is the canonical order in which festival days are presented and
// tie-broken.
var DayOrder = []Day{Thursday, Friday, Saturday, Sunday}

// Index returns the position of d in DayOrder, or -1 if d is not a festival day.
func (d Day) Index() int {
	for i, day := range DayOrder {
		if day == d {
			return i
		}
	}
	return -1
}

// Valid reports whether d is one of the festival days.
func (d Day) Valid() bool {
	return d.Index() >= 0
}

// ParseDay parses a day name. Full names and three-letter abbreviations are
// accepted in any case.
func ParseDay(s string) (Day, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return "", fmt.Errorf("empty day")
	}
	for _, day := range DayOrder {
		full := strings.ToLower(string(day))
		if name == full || name == full[:3] {
			return day, nil
		}
	}
	return "", fmt.Errorf("unknown day %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Day) UnmarshalText(text []byte) error {
	day, err := ParseDay(string(text))
	if err != nil {
		return err
	}
	*d = day
	return nil
}

// TimeOfDay is a wall-clock time in minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses an "HH:MM" wall-clock time.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || len(mm) != 2 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return TimeOfDay(h*60 + m), nil
}

// String renders t as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// MarshalText implements encoding.TextMarshaler.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TimeOfDay) UnmarshalText(text []byte) error {
	v, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Item is an immutable lineup entry: one performance on one stage.
type Item struct {
	// ID uniquely identifies the performance
	ID string `json:"id"`

	// Day is the festival day the performance takes place on
	Day Day `json:"day"`

	// Date is the calendar date, for display only
	Date string `json:"date,omitempty"`

	// Stage is where the performance takes place
	Stage string `json:"stage"`

	// Artist is the performing artist
	Artist string `json:"artist"`

	// Start and End bound the set on Day; End is always after Start
	Start TimeOfDay `json:"startTime"`
	End   TimeOfDay `json:"endTime"`

	// Attributes holds display-only fields from the lineup file
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Duration returns the length of the set in minutes.
func (i Item) Duration() int {
	return int(i.End - i.Start)
}

// Validate checks that the item is well formed.
func (i Item) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("missing id")
	}
	if !i.Day.Valid() {
		return fmt.Errorf("concert %s: unknown day %q", i.ID, i.Day)
	}
	if i.End <= i.Start {
		return fmt.Errorf("concert %s: end %s is not after start %s", i.ID, i.End, i.Start)
	}
	return nil
}

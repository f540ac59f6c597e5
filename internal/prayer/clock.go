package prayer

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/smokyabdulrahman/miqat/internal/astro"
)

const minutesPerDay = 24 * 60

// Clock is a time of day in whole minutes since midnight, in [0, 1440).
type Clock int

// ClockFromHours wraps h into a day and rounds it to the nearest minute. A
// value that rounds up to 24:00 becomes 00:00.
func ClockFromHours(h float64) Clock {
	m := int(math.Round(astro.Normalize24(h) * 60))
	return Clock(m % minutesPerDay)
}

// ParseClock parses "HH:MM", ignoring a trailing suffix such as " (BST)".
func ParseClock(raw string) (Clock, error) {
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, " "); idx != -1 {
		s = s[:idx]
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time format: %q", raw)
	}

	var hour, min int
	if _, err := fmt.Sscanf(parts[0], "%d", &hour); err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", raw, err)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &min); err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", raw, err)
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return 0, fmt.Errorf("time out of range: %q", raw)
	}

	return Clock(hour*60 + min), nil
}

// Add shifts c by min minutes, wrapping around midnight.
func (c Clock) Add(min int) Clock {
	m := (int(c) + min) % minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return Clock(m)
}

// Hour returns the hour field.
func (c Clock) Hour() int { return int(c) / 60 }

// Minute returns the minute field.
func (c Clock) Minute() int { return int(c) % 60 }

// String formats c as HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Format renders c with a time layout such as "15:04" or "3:04 PM".
func (c Clock) Format(layout string) string {
	return time.Date(2000, time.January, 1, c.Hour(), c.Minute(), 0, 0, time.UTC).Format(layout)
}

// On returns the clock time on date's calendar day in loc.
func (c Clock) On(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour(), c.Minute(), 0, 0, loc)
}

// DiffMinutes returns the signed distance from c to other, taking the
// shorter way around midnight.
func (c Clock) DiffMinutes(other Clock) int {
	d := (int(other) - int(c)) % minutesPerDay
	if d > minutesPerDay/2 {
		d -= minutesPerDay
	} else if d < -minutesPerDay/2 {
		d += minutesPerDay
	}
	return d
}

// MarshalText encodes c as HH:MM.
func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes an HH:MM value.
func (c *Clock) UnmarshalText(b []byte) error {
	v, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

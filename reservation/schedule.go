package reservation

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Window is a closed interval of clock time expressed in minutes since midnight.
type Window struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Service windows used when the settings do not override them.
var (
	DefaultLunch  = Window{Start: 12 * 60, End: 14*60 + 30}
	DefaultDinner = Window{Start: 19 * 60, End: 22*60 + 30}
)

var ErrInvalidWindow = errors.New("invalid service window")

// Contains reports whether minutes falls inside the window, both ends included.
func (w Window) Contains(minutes int) bool {
	return minutes >= w.Start && minutes <= w.End
}

// String renders the window the way it is shown to guests, e.g. "12h00-14h30".
func (w Window) String() string {
	return fmt.Sprintf("%02dh%02d-%02dh%02d", w.Start/60, w.Start%60, w.End/60, w.End%60)
}

// ParseWindow builds a window from two "HH:MM" values.
func ParseWindow(opens, closes string) (Window, error) {
	start, err := parseClock(opens)
	if err != nil {
		return Window{}, fmt.Errorf("%w: open %q", ErrInvalidWindow, opens)
	}
	end, err := parseClock(closes)
	if err != nil {
		return Window{}, fmt.Errorf("%w: close %q", ErrInvalidWindow, closes)
	}
	w := Window{Start: int(start / time.Minute), End: int(end / time.Minute)}
	if w.End < w.Start {
		return Window{}, fmt.Errorf("%w: %s closes before it opens", ErrInvalidWindow, w)
	}
	return w, nil
}

// Schedule is the set of service windows a reservation time must fall into.
type Schedule struct {
	Windows []Window `json:"windows"`
}

func DefaultSchedule() Schedule {
	return Schedule{Windows: []Window{DefaultLunch, DefaultDinner}}
}

// ContainsOffset is Contains for a time of day that may carry seconds:
// 14:30:59 is past a window closing at 14:30.
func (w Window) ContainsOffset(offset time.Duration) bool {
	return offset >= time.Duration(w.Start)*time.Minute && offset <= time.Duration(w.End)*time.Minute
}

// Opens and Closes render the window bounds as "15:04".
func (w Window) Opens() string  { return fmt.Sprintf("%02d:%02d", w.Start/60, w.Start%60) }
func (w Window) Closes() string { return fmt.Sprintf("%02d:%02d", w.End/60, w.End%60) }

// Allows reports whether minutes falls inside any of the windows.
func (s Schedule) Allows(minutes int) bool {
	for _, w := range s.Windows {
		if w.Contains(minutes) {
			return true
		}
	}
	return false
}

// AllowsOffset reports whether a time of day falls inside any of the windows.
func (s Schedule) AllowsOffset(offset time.Duration) bool {
	for _, w := range s.Windows {
		if w.ContainsOffset(offset) {
			return true
		}
	}
	return false
}

// Describe joins the windows for display: "12h00-14h30 et 19h00-22h30".
func (s Schedule) Describe() string {
	parts := make([]string, 0, len(s.Windows))
	for _, w := range s.Windows {
		parts = append(parts, w.String())
	}
	if len(parts) <= 1 {
		return strings.Join(parts, "")
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " et " + parts[len(parts)-1]
}

// parseClock accepts "15:04" and "15:04:05" and returns the offset from midnight.
func parseClock(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"15:04", "15:04:05"} {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", raw)
}

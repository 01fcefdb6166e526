package derive

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay reads "HH:MM". Trailing text after the minutes, such as a
// " (WIB)" zone suffix, is ignored.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}

	hourString, minuteString, found := strings.Cut(s, ":")
	if !found {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}

	hour, err := strconv.Atoi(hourString)
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q", s)
	}

	minute, err := strconv.Atoi(minuteString)
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q", s)
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

type Countdown struct {
	Target  time.Time
	Hours   int
	Minutes int
}

func (c Countdown) String() string {
	return fmt.Sprintf("%dh %dm", c.Hours, c.Minutes)
}

// IftarCountdown targets today's iftar in now's location, or tomorrow's once
// today's has passed.
func IftarCountdown(iftar TimeOfDay, now time.Time) Countdown {
	target := time.Date(now.Year(), now.Month(), now.Day(), iftar.Hour, iftar.Minute, 0, 0, now.Location())
	if target.Before(now) {
		target = target.AddDate(0, 0, 1)
	}

	diff := target.Sub(now)
	return Countdown{
		Target:  target,
		Hours:   int(diff / time.Hour),
		Minutes: int((diff % time.Hour) / time.Minute),
	}
}

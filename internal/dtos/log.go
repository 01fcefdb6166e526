package dtos

import (
	"time"

	"github.com/goccy/go-json"
)

const DateLayout = "2006-01-02"

// DateKey is a calendar date in YYYY-MM-DD form.
type DateKey string

func DateKeyOf(t time.Time) DateKey {
	return DateKey(t.Format(DateLayout))
}

func (d DateKey) Time(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, string(d), loc)
}

// AddDays returns the key n days away. An unparsable key is returned as is.
func (d DateKey) AddDays(n int) DateKey {
	t, err := d.Time(time.UTC)
	if err != nil {
		return d
	}
	return DateKeyOf(t.AddDate(0, 0, n))
}

type FastingLog struct {
	Date      DateKey `json:"date"`
	IsFasting bool    `json:"isFasting"`
}

type PrayerName string

const (
	Fajr    PrayerName = "fajr"
	Dhuhr   PrayerName = "dhuhr"
	Asr     PrayerName = "asr"
	Maghrib PrayerName = "maghrib"
	Isha    PrayerName = "isha"
)

var PrayerNames = []PrayerName{Fajr, Dhuhr, Asr, Maghrib, Isha}

func IsPrayerName(name string) bool {
	for _, v := range PrayerNames {
		if string(v) == name {
			return true
		}
	}
	return false
}

type PrayerLog struct {
	Date    DateKey `json:"date"`
	Fajr    bool    `json:"fajr"`
	Dhuhr   bool    `json:"dhuhr"`
	Asr     bool    `json:"asr"`
	Maghrib bool    `json:"maghrib"`
	Isha    bool    `json:"isha"`
}

func (p PrayerLog) Flag(name PrayerName) bool {
	switch name {
	case Fajr:
		return p.Fajr
	case Dhuhr:
		return p.Dhuhr
	case Asr:
		return p.Asr
	case Maghrib:
		return p.Maghrib
	case Isha:
		return p.Isha
	}
	return false
}

func (p PrayerLog) Apply(update PrayerLogUpdate) PrayerLog {
	p.Date = update.Date
	switch update.Name {
	case Fajr:
		p.Fajr = update.Value
	case Dhuhr:
		p.Dhuhr = update.Value
	case Asr:
		p.Asr = update.Value
	case Maghrib:
		p.Maghrib = update.Value
	case Isha:
		p.Isha = update.Value
	}
	return p
}

// Completed counts the flags that are set.
func (p PrayerLog) Completed() int {
	n := 0
	for _, name := range PrayerNames {
		if p.Flag(name) {
			n++
		}
	}
	return n
}

// PrayerLogUpdate carries a single flag change. It encodes as
// {"date": ..., "<name>": value} so the receiver merges it into the day.
type PrayerLogUpdate struct {
	Date  DateKey
	Name  PrayerName
	Value bool
}

func (u PrayerLogUpdate) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"date":         u.Date,
		string(u.Name): u.Value,
	})
}

const MaxQuranPages = 604

type QuranLog struct {
	Date      DateKey `json:"date"`
	PagesRead int     `json:"pagesRead"`
}

type TodayLogs struct {
	Date    DateKey    `json:"date"`
	Fasting FastingLog `json:"fasting"`
	Prayer  PrayerLog  `json:"prayer"`
	Quran   QuranLog   `json:"quran"`
}

type QuranRequest struct {
	PagesRead *int `json:"pagesRead" validate:"required"`
}

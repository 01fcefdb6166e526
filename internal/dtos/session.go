package dtos

type Language string

const (
	Arabic  Language = "ar"
	English Language = "en"
)

type LanguageRequest struct {
	Language string `json:"language" validate:"required,oneof=ar en"`
}

type SnapshotResponse struct {
	Language    Language     `json:"language"`
	Today       TodayLogs    `json:"today"`
	Stats       *Stats       `json:"stats"`
	PrayerTimes *PrayerTimes `json:"prayerTimes"`
	RamadanDay  int          `json:"ramadanDay,omitempty"`
	Countdown   string       `json:"countdown,omitempty"`
	Error       string       `json:"error,omitempty"`
}

package dtos

type PrayerTimes struct {
	SuhoorEnd  string `json:"suhoorEnd"`
	IftarTime  string `json:"iftarTime"`
	RamadanDay int    `json:"ramadanDay"`
}

// Day is the Ramadan day, reading a missing value as the first day.
func (p PrayerTimes) Day() int {
	if p.RamadanDay < 1 {
		return 1
	}
	return p.RamadanDay
}

type PrayerTimesRequest struct {
	Latitude  string `json:"latitude" validate:"required,latitude"`
	Longitude string `json:"longitude" validate:"required,longitude"`
}

type CountdownResponse struct {
	IftarTime string `json:"iftarTime"`
	Hours     int    `json:"hours"`
	Minutes   int    `json:"minutes"`
	Text      string `json:"text"`
}

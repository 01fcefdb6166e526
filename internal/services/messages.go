package services

import "github.com/mdayat/nur-ramadan/internal/dtos"

type message int

const (
	msgEnterLocation message = iota
	msgInvalidLocation
	msgFetchTimesFailed
)

var messages = map[dtos.Language]map[message]string{
	dtos.Arabic: {
		msgEnterLocation:    "أدخل الموقع أولاً",
		msgInvalidLocation:  "الموقع غير صالح",
		msgFetchTimesFailed: "فشل في جلب المواقيت",
	},
	dtos.English: {
		msgEnterLocation:    "Enter location first",
		msgInvalidLocation:  "Invalid location",
		msgFetchTimesFailed: "Failed to fetch times",
	},
}

func localize(lang dtos.Language, msg message) string {
	if table, ok := messages[lang]; ok {
		return table[msg]
	}
	return messages[dtos.Arabic][msg]
}

package derive

import "github.com/mdayat/nur-ramadan/internal/dtos"

// LocalStats projects the stored logs into the aggregate the remote service
// would compute. TotalPoints has no local equivalent and stays nil.
func LocalStats(fasting []dtos.FastingLog, prayer []dtos.PrayerLog, today dtos.DateKey) dtos.Stats {
	var stats dtos.Stats

	fasted := make(map[dtos.DateKey]bool, len(fasting))
	for _, log := range fasting {
		if log.IsFasting {
			fasted[log.Date] = true
		}
	}
	stats.FastingDays = len(fasted)

	for _, log := range prayer {
		stats.PrayersCompleted += log.Completed()
	}

	stats.CurrentStreak = FastingStreak(fasted, today)
	return stats
}

// FastingStreak counts consecutive fasted days ending today. A day that has
// not been logged yet does not break a streak that ran through yesterday.
func FastingStreak(fasted map[dtos.DateKey]bool, today dtos.DateKey) int {
	day := today
	if !fasted[day] {
		day = day.AddDays(-1)
	}

	streak := 0
	for fasted[day] {
		streak++
		day = day.AddDays(-1)
	}

	return streak
}

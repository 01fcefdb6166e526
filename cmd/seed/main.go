package main

import (
	"context"
	"time"

	"github.com/mdayat/nur-ramadan/configs"
	"github.com/mdayat/nur-ramadan/internal/app"
	"github.com/mdayat/nur-ramadan/internal/dtos"
	"github.com/mdayat/nur-ramadan/internal/persistence"
	"github.com/mdayat/nur-ramadan/internal/retryutil"
	"github.com/rs/zerolog/log"
)

const seedDays = 10

func main() {
	env, err := configs.LoadEnv()
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	logger := configs.NewLogger(env)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	loc, err := env.Location()
	if err != nil {
		logger.Fatal().Err(err).Send()
	}

	store, db, err := app.OpenStore(ctx, env)
	if err != nil {
		logger.Fatal().Err(err).Send()
	}
	defer store.Close()
	if db != nil {
		defer db.Conn.Close()
	}

	// Seeding only touches the device store, so the local adapter is used
	// regardless of MODE.
	adapter := persistence.NewLocalAdapter(store, nil)
	today := dtos.DateKeyOf(time.Now().In(loc))

	for i := seedDays; i >= 1; i-- {
		date := today.AddDays(-i)

		// Seed "fasting_<date>" keys, skipping every fourth day
		err := retryutil.RetryWithoutData(func() error {
			return adapter.SaveFastingLog(ctx, dtos.FastingLog{Date: date, IsFasting: i%4 != 0})
		})

		if err != nil {
			logger.Fatal().Err(err).Str("date", string(date)).Msg("failed to seed fasting log")
		}

		// Seed "prayer_<date>" keys with a varying number of prayers
		for j, name := range dtos.PrayerNames {
			if j > i%len(dtos.PrayerNames) {
				break
			}

			// The merge runs through the store's Update, which retries on its own
			err := adapter.SavePrayerLog(ctx, dtos.PrayerLogUpdate{Date: date, Name: name, Value: true})
			if err != nil {
				logger.Fatal().Err(err).Str("date", string(date)).Msg("failed to seed prayer log")
			}
		}
	}

	stats, err := adapter.Stats(ctx, today)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to read seeded stats")
	}

	logger.Info().
		Int("days", seedDays).
		Int("fasting_days", stats.FastingDays).
		Int("prayers_completed", stats.PrayersCompleted).
		Int("current_streak", stats.CurrentStreak).
		Msg("successfully seeded local history")
}

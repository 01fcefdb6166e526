// Package persistence hides whether the daily logs live on the remote service
// or in the device store. Both implementations satisfy Adapter and are chosen
// once at startup.
package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mdayat/nur-ramadan/configs"
	"github.com/mdayat/nur-ramadan/internal/dtos"
	"github.com/mdayat/nur-ramadan/internal/kvstore"
)

const (
	TokenKey    = "nur_token"
	LanguageKey = "nur_lang"
	QuranKey    = "quran_pages"

	prayerPrefix  = "prayer_"
	fastingPrefix = "fasting_"
)

var ErrPrayerTimesUnavailable = errors.New("prayer times are not available offline")

type Adapter interface {
	Mode() configs.Mode
	Stats(ctx context.Context, today dtos.DateKey) (*dtos.Stats, error)
	Duas(ctx context.Context) ([]dtos.Dua, error)

	// The log readers may return the whole history or only today's entry;
	// callers select by date either way.
	FastingLogs(ctx context.Context, today dtos.DateKey) ([]dtos.FastingLog, error)
	PrayerLogs(ctx context.Context, today dtos.DateKey) ([]dtos.PrayerLog, error)
	QuranLogs(ctx context.Context, today dtos.DateKey) ([]dtos.QuranLog, error)

	SaveFastingLog(ctx context.Context, log dtos.FastingLog) error
	// SavePrayerLog merges the single changed flag into the stored day.
	SavePrayerLog(ctx context.Context, update dtos.PrayerLogUpdate) error
	SaveQuranLog(ctx context.Context, log dtos.QuranLog) error

	PrayerTimes(ctx context.Context, lat, lng string) (dtos.PrayerTimes, error)
}

// EnsureToken returns the installation's session token, generating and
// persisting one on first use.
func EnsureToken(ctx context.Context, kv kvstore.Store) (string, error) {
	token, ok, err := kv.Get(ctx, TokenKey)
	if err != nil {
		return "", fmt.Errorf("failed to read session token: %w", err)
	}

	if ok && token != "" {
		return token, nil
	}

	token = uuid.NewString()
	if err := kv.Set(ctx, TokenKey, token); err != nil {
		return "", fmt.Errorf("failed to persist session token: %w", err)
	}

	return token, nil
}

package persistence

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/mdayat/nur-ramadan/configs"
	"github.com/mdayat/nur-ramadan/internal/derive"
	"github.com/mdayat/nur-ramadan/internal/dtos"
	"github.com/mdayat/nur-ramadan/internal/kvstore"
)

type localAdapter struct {
	kv   kvstore.Store
	duas []dtos.Dua
}

// NewLocalAdapter keeps everything in the device store and serves the given
// bundled catalog. Store errors are returned as they are; nothing here is
// transient.
func NewLocalAdapter(kv kvstore.Store, duas []dtos.Dua) Adapter {
	return &localAdapter{kv: kv, duas: duas}
}

func (l localAdapter) Mode() configs.Mode {
	return configs.Disconnected
}

func (l localAdapter) Stats(ctx context.Context, today dtos.DateKey) (*dtos.Stats, error) {
	fastingByDate, err := listEntries[dtos.FastingLog](ctx, l.kv, fastingPrefix)
	if err != nil {
		return nil, err
	}

	fasting := make([]dtos.FastingLog, 0, len(fastingByDate))
	for date, log := range fastingByDate {
		log.Date = date
		fasting = append(fasting, log)
	}

	prayerByDate, err := listEntries[dtos.PrayerLog](ctx, l.kv, prayerPrefix)
	if err != nil {
		return nil, err
	}

	prayer := make([]dtos.PrayerLog, 0, len(prayerByDate))
	for date, log := range prayerByDate {
		log.Date = date
		prayer = append(prayer, log)
	}

	stats := derive.LocalStats(fasting, prayer, today)
	return &stats, nil
}

func (l localAdapter) Duas(_ context.Context) ([]dtos.Dua, error) {
	return append([]dtos.Dua(nil), l.duas...), nil
}

func (l localAdapter) FastingLogs(ctx context.Context, today dtos.DateKey) ([]dtos.FastingLog, error) {
	logs, err := getEntry[dtos.FastingLog](ctx, l.kv, fastingPrefix+string(today))
	for i := range logs {
		logs[i].Date = today
	}
	return logs, err
}

func (l localAdapter) PrayerLogs(ctx context.Context, today dtos.DateKey) ([]dtos.PrayerLog, error) {
	logs, err := getEntry[dtos.PrayerLog](ctx, l.kv, prayerPrefix+string(today))
	for i := range logs {
		logs[i].Date = today
	}
	return logs, err
}

// QuranLogs reads the single page counter, which is not tied to a date, and
// reports it as today's.
func (l localAdapter) QuranLogs(ctx context.Context, today dtos.DateKey) ([]dtos.QuranLog, error) {
	value, ok, err := l.kv.Get(ctx, QuranKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", QuranKey, err)
	}

	if !ok {
		return nil, nil
	}

	pages, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", QuranKey, err)
	}

	return []dtos.QuranLog{{Date: today, PagesRead: pages}}, nil
}

func (l localAdapter) SaveFastingLog(ctx context.Context, log dtos.FastingLog) error {
	value, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("failed to encode fasting log: %w", err)
	}

	key := fastingPrefix + string(log.Date)
	if err := l.kv.Set(ctx, key, string(value)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// SavePrayerLog merges explicitly; the device store only replaces values.
func (l localAdapter) SavePrayerLog(ctx context.Context, update dtos.PrayerLogUpdate) error {
	key := prayerPrefix + string(update.Date)
	err := l.kv.Update(ctx, key, func(current string, ok bool) (string, error) {
		var log dtos.PrayerLog
		if ok {
			if err := json.Unmarshal([]byte(current), &log); err != nil {
				return "", fmt.Errorf("failed to decode %s: %w", key, err)
			}
		}

		value, err := json.Marshal(log.Apply(update))
		if err != nil {
			return "", fmt.Errorf("failed to encode prayer log: %w", err)
		}
		return string(value), nil
	})

	if err != nil {
		return fmt.Errorf("failed to update %s: %w", key, err)
	}
	return nil
}

func (l localAdapter) SaveQuranLog(ctx context.Context, log dtos.QuranLog) error {
	if err := l.kv.Set(ctx, QuranKey, strconv.Itoa(log.PagesRead)); err != nil {
		return fmt.Errorf("failed to write %s: %w", QuranKey, err)
	}
	return nil
}

func (l localAdapter) PrayerTimes(_ context.Context, _, _ string) (dtos.PrayerTimes, error) {
	return dtos.PrayerTimes{}, ErrPrayerTimesUnavailable
}

func getEntry[T any](ctx context.Context, kv kvstore.Store, key string) ([]T, error) {
	value, ok, err := kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	if !ok {
		return nil, nil
	}

	var entry T
	if err := json.Unmarshal([]byte(value), &entry); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}

	return []T{entry}, nil
}

// listEntries decodes every entry under prefix, keyed by the date suffix of
// its key. Entries written without a date field still count.
func listEntries[T any](ctx context.Context, kv kvstore.Store, prefix string) (map[dtos.DateKey]T, error) {
	keys, err := kv.Keys(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s keys: %w", prefix, err)
	}

	entries := make(map[dtos.DateKey]T, len(keys))
	for _, key := range keys {
		entry, err := getEntry[T](ctx, kv, key)
		if err != nil {
			return nil, err
		}

		if len(entry) == 1 {
			entries[dtos.DateKey(strings.TrimPrefix(key, prefix))] = entry[0]
		}
	}

	return entries, nil
}

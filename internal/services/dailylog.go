package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mdayat/nur-ramadan/internal/derive"
	"github.com/mdayat/nur-ramadan/internal/dtos"
	"github.com/mdayat/nur-ramadan/internal/fetchutil"
	"github.com/mdayat/nur-ramadan/internal/persistence"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var ErrUnknownPrayer = errors.New("unknown prayer name")

// DailyLogServicer resolves and mutates today's entries of the three
// trackers. It keeps no state: callers pass in what they last loaded.
type DailyLogServicer interface {
	LoadToday(ctx context.Context, today dtos.DateKey) (dtos.TodayLogs, error)
	ToggleFasting(ctx context.Context, current dtos.TodayLogs) error
	TogglePrayer(ctx context.Context, current dtos.TodayLogs, name dtos.PrayerName) error
	SetQuranPages(ctx context.Context, pages int) error
	AddQuranPage(ctx context.Context, current dtos.TodayLogs) error
	ResetQuranPages(ctx context.Context) error
}

type dailyLog struct {
	adapter persistence.Adapter
	clock   Clock
}

func NewDailyLogService(adapter persistence.Adapter, clock Clock) DailyLogServicer {
	return &dailyLog{
		adapter: adapter,
		clock:   clock,
	}
}

func (d dailyLog) today() dtos.DateKey {
	return dtos.DateKeyOf(d.clock.Now())
}

// currentFor drops state loaded on a previous day.
func currentFor(current dtos.TodayLogs, today dtos.DateKey) dtos.TodayLogs {
	if current.Date != today {
		return emptyToday(today)
	}
	return current
}

func emptyToday(today dtos.DateKey) dtos.TodayLogs {
	return dtos.TodayLogs{
		Date:    today,
		Fasting: dtos.FastingLog{Date: today},
		Prayer:  dtos.PrayerLog{Date: today},
		Quran:   dtos.QuranLog{Date: today},
	}
}

func selectEntry[T any](entries []T, today dtos.DateKey, date func(T) dtos.DateKey, zero T) T {
	for _, entry := range entries {
		if date(entry) == today {
			return entry
		}
	}
	return zero
}

// LoadToday fetches the three collections concurrently. A transient failure
// leaves that tracker at its zero value.
func (d dailyLog) LoadToday(ctx context.Context, today dtos.DateKey) (dtos.TodayLogs, error) {
	logger := log.Ctx(ctx).With().Str("date", string(today)).Logger()
	result := emptyToday(today)

	var g errgroup.Group
	g.Go(func() error {
		logs, err := fetchutil.Fetch("fasting logs", func() ([]dtos.FastingLog, error) {
			return d.adapter.FastingLogs(ctx, today)
		}).OrEmpty(logger, nil)

		result.Fasting = selectEntry(logs, today, func(l dtos.FastingLog) dtos.DateKey { return l.Date }, result.Fasting)
		return err
	})

	g.Go(func() error {
		logs, err := fetchutil.Fetch("prayer logs", func() ([]dtos.PrayerLog, error) {
			return d.adapter.PrayerLogs(ctx, today)
		}).OrEmpty(logger, nil)

		result.Prayer = selectEntry(logs, today, func(l dtos.PrayerLog) dtos.DateKey { return l.Date }, result.Prayer)
		return err
	})

	g.Go(func() error {
		logs, err := fetchutil.Fetch("quran logs", func() ([]dtos.QuranLog, error) {
			return d.adapter.QuranLogs(ctx, today)
		}).OrEmpty(logger, nil)

		result.Quran = selectEntry(logs, today, func(l dtos.QuranLog) dtos.DateKey { return l.Date }, result.Quran)
		result.Quran.PagesRead = derive.ClampPages(result.Quran.PagesRead)
		return err
	})

	if err := g.Wait(); err != nil {
		return dtos.TodayLogs{}, err
	}

	return result, nil
}

func (d dailyLog) ToggleFasting(ctx context.Context, current dtos.TodayLogs) error {
	today := d.today()
	current = currentFor(current, today)

	return d.adapter.SaveFastingLog(ctx, dtos.FastingLog{
		Date:      today,
		IsFasting: !current.Fasting.IsFasting,
	})
}

func (d dailyLog) TogglePrayer(ctx context.Context, current dtos.TodayLogs, name dtos.PrayerName) error {
	if !dtos.IsPrayerName(string(name)) {
		return fmt.Errorf("%w: %q", ErrUnknownPrayer, name)
	}

	today := d.today()
	current = currentFor(current, today)

	return d.adapter.SavePrayerLog(ctx, dtos.PrayerLogUpdate{
		Date:  today,
		Name:  name,
		Value: !current.Prayer.Flag(name),
	})
}

func (d dailyLog) SetQuranPages(ctx context.Context, pages int) error {
	return d.adapter.SaveQuranLog(ctx, dtos.QuranLog{
		Date:      d.today(),
		PagesRead: derive.ClampPages(pages),
	})
}

// AddQuranPage increments the stored count rather than the cached one, since
// the device counter is not reset at midnight. The cached value is used only
// when the remote read fails.
func (d dailyLog) AddQuranPage(ctx context.Context, current dtos.TodayLogs) error {
	today := d.today()
	current = currentFor(current, today)

	logs, err := d.adapter.QuranLogs(ctx, today)
	if err != nil && !fetchutil.IsTransient(err) {
		return fmt.Errorf("failed to read quran pages: %w", err)
	}

	if err == nil {
		current.Quran = selectEntry(logs, today, func(l dtos.QuranLog) dtos.DateKey { return l.Date }, dtos.QuranLog{Date: today})
	}

	return d.SetQuranPages(ctx, current.Quran.PagesRead+1)
}

func (d dailyLog) ResetQuranPages(ctx context.Context) error {
	return d.SetQuranPages(ctx, 0)
}

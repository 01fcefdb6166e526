package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mdayat/nur-ramadan/configs"
	"github.com/mdayat/nur-ramadan/internal/derive"
	"github.com/mdayat/nur-ramadan/internal/dtos"
	"github.com/mdayat/nur-ramadan/internal/fetchutil"
	"github.com/mdayat/nur-ramadan/internal/kvstore"
	"github.com/mdayat/nur-ramadan/internal/persistence"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var (
	ErrMissingCoordinates  = errors.New("missing coordinates")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// SessionServicer is the surface the REST handlers and the CLI drive.
type SessionServicer interface {
	Mode() configs.Mode
	Load(ctx context.Context) error
	ToggleFasting(ctx context.Context) error
	TogglePrayer(ctx context.Context, name string) error
	SetQuranPages(ctx context.Context, pages int) error
	AddQuranPage(ctx context.Context) error
	ResetQuranPages(ctx context.Context) error
	FetchPrayerTimes(ctx context.Context, lat, lng string) error
	Countdown() (derive.Countdown, bool)
	PrayerTimes() (dtos.PrayerTimes, bool)
	Stats() *dtos.Stats
	Today() dtos.TodayLogs
	Duas(filter derive.DuaFilter) []dtos.Dua
	Zakat(wealth float64) derive.Zakat
	Language() dtos.Language
	SetLanguage(ctx context.Context, language string) error
	Snapshot() dtos.SnapshotResponse
	Close()
}

// Session owns everything the screen shows for one activation: the loaded
// aggregates, today's logs and the prayer-times snapshot with its countdown.
// Loads and mutations run one at a time.
type Session struct {
	configs  configs.Configs
	adapter  persistence.Adapter
	kv       kvstore.Store
	dailyLog DailyLogServicer
	clock    Clock
	ticker   *CountdownTicker

	opMu    sync.Mutex
	timesMu sync.Mutex

	mu          sync.Mutex
	language    dtos.Language
	stats       *dtos.Stats
	duas        []dtos.Dua
	today       dtos.TodayLogs
	prayerTimes *dtos.PrayerTimes
	inlineError string
}

func NewSession(configs configs.Configs, adapter persistence.Adapter, kv kvstore.Store, clock Clock) *Session {
	return &Session{
		configs:  configs,
		adapter:  adapter,
		kv:       kv,
		dailyLog: NewDailyLogService(adapter, clock),
		clock:    clock,
		ticker:   NewCountdownTicker(clock),
		language: dtos.Arabic,
		duas:     []dtos.Dua{},
	}
}

func (s *Session) Mode() configs.Mode {
	return s.adapter.Mode()
}

// Load fetches stats, duas and today's logs concurrently and publishes them
// together. Transient remote failures leave that source empty; device store
// failures abort the load.
func (s *Session) Load(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	return s.load(ctx)
}

func (s *Session) load(ctx context.Context) error {
	logger := log.Ctx(ctx).With().Str("mode", string(s.adapter.Mode())).Logger()
	today := dtos.DateKeyOf(s.clock.Now())

	var (
		stats    *dtos.Stats
		duas     []dtos.Dua
		logs     dtos.TodayLogs
		language dtos.Language
	)

	var g errgroup.Group
	g.Go(func() (err error) {
		stats, err = fetchutil.Fetch("stats", func() (*dtos.Stats, error) {
			return s.adapter.Stats(ctx, today)
		}).OrEmpty(logger, nil)
		return err
	})

	g.Go(func() (err error) {
		duas, err = fetchutil.Fetch("duas", func() ([]dtos.Dua, error) {
			return s.adapter.Duas(ctx)
		}).OrEmpty(logger, []dtos.Dua{})
		return err
	})

	g.Go(func() (err error) {
		logs, err = s.dailyLog.LoadToday(ctx, today)
		return err
	})

	g.Go(func() error {
		value, ok, err := s.kv.Get(ctx, persistence.LanguageKey)
		if err != nil {
			return fmt.Errorf("failed to read language preference: %w", err)
		}

		language = dtos.Arabic
		if ok && (dtos.Language(value) == dtos.English || dtos.Language(value) == dtos.Arabic) {
			language = dtos.Language(value)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Caller().Msg("failed to load session")
		return err
	}

	if duas == nil {
		duas = []dtos.Dua{}
	}

	s.mu.Lock()
	s.stats = stats
	s.duas = duas
	s.today = logs
	s.language = language
	s.mu.Unlock()

	logger.Info().Str("date", string(today)).Int("duas", len(duas)).Bool("stats", stats != nil).Msg("successfully loaded session")
	return nil
}

// mutate applies f to the last loaded state and then reloads, so the session
// shows what the adapter accepted. A rejected remote write is logged and
// simply does not show up after the reload.
func (s *Session) mutate(ctx context.Context, operation string, f func(current dtos.TodayLogs) error) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	logger := log.Ctx(ctx).With().Str("operation", operation).Logger()

	s.mu.Lock()
	current := s.today
	s.mu.Unlock()

	if err := f(current); err != nil {
		if !fetchutil.IsTransient(err) {
			logger.Error().Err(err).Caller().Msg("failed to persist mutation")
			return fmt.Errorf("failed to %s: %w", operation, err)
		}
		logger.Warn().Err(err).Msg("mutation not accepted by remote service")
	}

	return s.load(ctx)
}

func (s *Session) ToggleFasting(ctx context.Context) error {
	return s.mutate(ctx, "toggle fasting", func(current dtos.TodayLogs) error {
		return s.dailyLog.ToggleFasting(ctx, current)
	})
}

func (s *Session) TogglePrayer(ctx context.Context, name string) error {
	if !dtos.IsPrayerName(name) {
		return fmt.Errorf("%w: %q", ErrUnknownPrayer, name)
	}

	return s.mutate(ctx, "toggle prayer", func(current dtos.TodayLogs) error {
		return s.dailyLog.TogglePrayer(ctx, current, dtos.PrayerName(name))
	})
}

func (s *Session) SetQuranPages(ctx context.Context, pages int) error {
	return s.mutate(ctx, "set quran pages", func(dtos.TodayLogs) error {
		return s.dailyLog.SetQuranPages(ctx, pages)
	})
}

func (s *Session) AddQuranPage(ctx context.Context) error {
	return s.mutate(ctx, "add quran page", func(current dtos.TodayLogs) error {
		return s.dailyLog.AddQuranPage(ctx, current)
	})
}

func (s *Session) ResetQuranPages(ctx context.Context) error {
	return s.mutate(ctx, "reset quran pages", func(dtos.TodayLogs) error {
		return s.dailyLog.ResetQuranPages(ctx)
	})
}

// FetchPrayerTimes validates the coordinates before any network call. Its
// failures are the only remote failures surfaced to the user, as a localized
// inline message in the snapshot. Concurrent fetches run one at a time, so
// the stored snapshot and the running countdown always belong together.
func (s *Session) FetchPrayerTimes(ctx context.Context, lat, lng string) error {
	s.timesMu.Lock()
	defer s.timesMu.Unlock()

	logger := log.Ctx(ctx).With().Logger()

	if lat == "" || lng == "" {
		s.setInlineError(msgEnterLocation)
		return ErrMissingCoordinates
	}

	req := dtos.PrayerTimesRequest{Latitude: lat, Longitude: lng}
	if err := s.configs.Validate.Struct(req); err != nil {
		s.setInlineError(msgInvalidLocation)
		return fmt.Errorf("%w: %v", ErrInvalidCoordinates, err)
	}

	s.mu.Lock()
	s.inlineError = ""
	s.mu.Unlock()

	times, err := s.adapter.PrayerTimes(ctx, lat, lng)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to fetch prayer times")
		s.setInlineError(msgFetchTimesFailed)
		return fmt.Errorf("failed to fetch prayer times: %w", err)
	}

	s.mu.Lock()
	s.prayerTimes = &times
	s.mu.Unlock()

	if err := s.ticker.Start(times); err != nil {
		logger.Warn().Err(err).Str("iftar_time", times.IftarTime).Msg("countdown stopped")
	}

	return nil
}

func (s *Session) setInlineError(msg message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inlineError = localize(s.language, msg)
}

func (s *Session) Countdown() (derive.Countdown, bool) {
	return s.ticker.Current()
}

func (s *Session) PrayerTimes() (dtos.PrayerTimes, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prayerTimes == nil {
		return dtos.PrayerTimes{}, false
	}
	return *s.prayerTimes, true
}

func (s *Session) Stats() *dtos.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stats == nil {
		return nil
	}
	stats := *s.stats
	return &stats
}

func (s *Session) Today() dtos.TodayLogs {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.today
}

func (s *Session) Duas(filter derive.DuaFilter) []dtos.Dua {
	s.mu.Lock()
	defer s.mu.Unlock()

	return derive.FilterDuas(s.duas, filter)
}

func (s *Session) Zakat(wealth float64) derive.Zakat {
	return derive.CalculateZakat(wealth, s.configs.Env.GoldPricePerGram)
}

func (s *Session) Language() dtos.Language {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.language
}

func (s *Session) SetLanguage(ctx context.Context, language string) error {
	lang := dtos.Language(language)
	if lang != dtos.Arabic && lang != dtos.English {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}

	if err := s.kv.Set(ctx, persistence.LanguageKey, language); err != nil {
		log.Ctx(ctx).Error().Err(err).Caller().Msg("failed to persist language preference")
		return fmt.Errorf("failed to persist language preference: %w", err)
	}

	s.mu.Lock()
	s.language = lang
	s.mu.Unlock()
	return nil
}

func (s *Session) Snapshot() dtos.SnapshotResponse {
	s.mu.Lock()
	snapshot := dtos.SnapshotResponse{
		Language: s.language,
		Today:    s.today,
		Error:    s.inlineError,
	}

	if s.stats != nil {
		stats := *s.stats
		snapshot.Stats = &stats
	}

	if s.prayerTimes != nil {
		times := *s.prayerTimes
		snapshot.PrayerTimes = &times
		snapshot.RamadanDay = times.Day()
	}
	s.mu.Unlock()

	if countdown, ok := s.ticker.Current(); ok {
		snapshot.Countdown = countdown.String()
	}

	return snapshot
}

// Close stops the countdown. The session must not be used afterwards.
func (s *Session) Close() {
	s.ticker.Stop()
}

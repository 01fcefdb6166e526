package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mdayat/nur-ramadan/configs"
	"github.com/mdayat/nur-ramadan/internal/derive"
	"github.com/mdayat/nur-ramadan/internal/dtos"
	"github.com/mdayat/nur-ramadan/internal/kvstore"
	"github.com/mdayat/nur-ramadan/internal/persistence"
	"github.com/mdayat/nur-ramadan/internal/remote"
	"github.com/mdayat/nur-ramadan/internal/remote/remotetest"
)

var testNow = time.Date(2026, 3, 1, 13, 0, 0, 0, time.FixedZone("WIB", 7*60*60))

const testToday = dtos.DateKey("2026-03-01")

func testConfigs() configs.Configs {
	return configs.Configs{
		Env:      configs.Env{GoldPricePerGram: derive.DefaultGoldPricePerGram},
		Validate: configs.NewValidate(),
	}
}

func newConnectedSession(t *testing.T) (*Session, *remotetest.Server, *fakeClock) {
	t.Helper()

	server := remotetest.NewServer()
	t.Cleanup(server.Close)

	kv := kvstore.NewMemoryStore()
	token, err := persistence.EnsureToken(context.TODO(), kv)
	if err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}

	clock := newFakeClock(testNow)
	adapter := persistence.NewRemoteAdapter(remote.NewClient(server.URL, token, 5*time.Second))
	session := NewSession(testConfigs(), adapter, kv, clock)
	t.Cleanup(session.Close)

	return session, server, clock
}

func newDisconnectedSession(t *testing.T) (*Session, *kvstore.MemoryStore, *fakeClock) {
	t.Helper()

	kv := kvstore.NewMemoryStore()
	clock := newFakeClock(testNow)
	duas := []dtos.Dua{
		{Id: "1", TextAr: "اللهم لك صمت", Category: dtos.CategoryIftar},
		{Id: "2", TextAr: "أصبحنا", Category: dtos.CategoryMorning},
	}

	session := NewSession(testConfigs(), persistence.NewLocalAdapter(kv, duas), kv, clock)
	t.Cleanup(session.Close)

	return session, kv, clock
}

func requestCount(server *remotetest.Server) int {
	var n int
	server.Seed(func(s *remotetest.Server) { n = s.Requests })
	return n
}

func TestConnectedSession(t *testing.T) {
	ctx := context.TODO()
	session, server, _ := newConnectedSession(t)

	totalPoints := 120
	server.Seed(func(s *remotetest.Server) {
		s.Stats = &dtos.Stats{TotalPoints: &totalPoints, CurrentStreak: 3, FastingDays: 3, PrayersCompleted: 14}
		s.Duas = []dtos.Dua{{Id: "1", TextAr: "فطر", Category: dtos.CategoryIftar}}
		s.Prayer["2026-02-28"] = map[string]any{"date": "2026-02-28", "isha": true}
	})

	t.Run("Load/Absent entries are zero values", func(t *testing.T) {
		if err := session.Load(ctx); err != nil {
			t.Fatalf("wasn't expecting error, got: %v", err)
		}

		expected := dtos.TodayLogs{
			Date:    testToday,
			Fasting: dtos.FastingLog{Date: testToday},
			Prayer:  dtos.PrayerLog{Date: testToday},
			Quran:   dtos.QuranLog{Date: testToday},
		}
		if diff := cmp.Diff(expected, session.Today()); diff != "" {
			t.Error(diff)
		}

		if stats := session.Stats(); stats == nil || *stats.TotalPoints != 120 {
			t.Errorf("expected remote stats, got %+v", stats)
		}
	})

	t.Run("ToggleFasting/Reloads accepted value", func(t *testing.T) {
		if err := session.ToggleFasting(ctx); err != nil {
			t.Fatalf("wasn't expecting error, got: %v", err)
		}

		if !session.Today().Fasting.IsFasting {
			t.Errorf("expected fasting after toggle")
		}

		if err := session.ToggleFasting(ctx); err != nil {
			t.Fatalf("wasn't expecting error, got: %v", err)
		}

		if session.Today().Fasting.IsFasting {
			t.Errorf("expected not fasting after second toggle")
		}
	})

	t.Run("TogglePrayer/Keeps other flags", func(t *testing.T) {
		server.Seed(func(s *remotetest.Server) {
			s.Prayer[testToday] = map[string]any{"date": string(testToday), "fajr": true}
		})

		if err := session.TogglePrayer(ctx, "dhuhr"); err != nil {
			t.Fatalf("wasn't expecting error, got: %v", err)
		}

		expected := dtos.PrayerLog{Date: testToday, Fajr: true, Dhuhr: true}
		if diff := cmp.Diff(expected, session.Today().Prayer); diff != "" {
			t.Error(diff)
		}
	})

	t.Run("TogglePrayer/Unknown name", func(t *testing.T) {
		before := requestCount(server)

		if err := session.TogglePrayer(ctx, "tahajjud"); !errors.Is(err, ErrUnknownPrayer) {
			t.Fatalf("expected ErrUnknownPrayer, got: %v", err)
		}

		if requestCount(server) != before {
			t.Errorf("expected no remote call")
		}
	})

	t.Run("SetQuranPages/Clamps", func(t *testing.T) {
		table := []struct{ input, expected int }{{610, 604}, {-5, 0}, {20, 20}}
		for _, v := range table {
			input, expected := v.input, v.expected
			if err := session.SetQuranPages(ctx, input); err != nil {
				t.Fatalf("wasn't expecting error, got: %v", err)
			}

			var stored int
			server.Seed(func(s *remotetest.Server) { stored = s.Quran[testToday].PagesRead })
			if stored != expected {
				t.Errorf("SetQuranPages(%d): expected stored %d, got %d", input, expected, stored)
			}
		}
	})

	t.Run("AddQuranPage/Increments and caps", func(t *testing.T) {
		if err := session.AddQuranPage(ctx); err != nil {
			t.Fatalf("wasn't expecting error, got: %v", err)
		}

		if pages := session.Today().Quran.PagesRead; pages != 21 {
			t.Errorf("expected 21 pages, got %d", pages)
		}

		session.SetQuranPages(ctx, 604)
		session.AddQuranPage(ctx)
		if pages := session.Today().Quran.PagesRead; pages != 604 {
			t.Errorf("expected 604 pages, got %d", pages)
		}

		session.ResetQuranPages(ctx)
		if pages := session.Today().Quran.PagesRead; pages != 0 {
			t.Errorf("expected 0 pages, got %d", pages)
		}
	})

	t.Run("ToggleFasting/Failed write shows no change", func(t *testing.T) {
		server.Fail("POST /logs/fasting", http.StatusInternalServerError)
		defer server.Fail("POST /logs/fasting", 0)

		if err := session.ToggleFasting(ctx); err != nil {
			t.Fatalf("wasn't expecting error, got: %v", err)
		}

		if session.Today().Fasting.IsFasting {
			t.Errorf("expected failed toggle not to be reflected")
		}
	})

	t.Run("Load/Partial failure", func(t *testing.T) {
		server.Fail("GET /content/duas", http.StatusInternalServerError)
		defer server.Fail("GET /content/duas", 0)

		if err := session.Load(ctx); err != nil {
			t.Fatalf("wasn't expecting error, got: %v", err)
		}

		if session.Stats() == nil {
			t.Errorf("expected stats to be populated")
		}

		if duas := session.Duas(derive.DuaFilter{}); len(duas) != 0 {
			t.Errorf("expected empty dua list, got %d", len(duas))
		}

		if session.Today().Prayer.Fajr != true {
			t.Errorf("expected prayer log to survive the dua failure")
		}
	})

	t.Run("Load/Everything failing still succeeds", func(t *testing.T) {
		for _, route := range []string{"GET /stats", "GET /logs/fasting", "GET /logs/prayer", "GET /logs/quran"} {
			server.Fail(route, http.StatusBadGateway)
			defer server.Fail(route, 0)
		}

		if err := session.Load(ctx); err != nil {
			t.Fatalf("wasn't expecting error, got: %v", err)
		}

		if session.Stats() != nil {
			t.Errorf("expected nil stats")
		}

		if session.Today().Prayer.Fajr {
			t.Errorf("expected empty prayer log")
		}
	})
}

func TestFetchPrayerTimes(t *testing.T) {
	ctx := context.TODO()
	session, server, clock := newConnectedSession(t)
	server.Seed(func(s *remotetest.Server) {
		s.PrayerTimes = dtos.PrayerTimes{SuhoorEnd: "04:31", IftarTime: "18:30"}
	})

	t.Run("FetchPrayerTimes/Missing coordinates", func(t *testing.T) {
		before := requestCount(server)

		if err := session.FetchPrayerTimes(ctx, "", "106.8"); !errors.Is(err, ErrMissingCoordinates) {
			t.Fatalf("expected ErrMissingCoordinates, got: %v", err)
		}

		if requestCount(server) != before {
			t.Errorf("expected no remote call")
		}

		if msg := session.Snapshot().Error; msg != "أدخل الموقع أولاً" {
			t.Errorf("unexpected inline error %q", msg)
		}
	})

	t.Run("FetchPrayerTimes/Invalid coordinates", func(t *testing.T) {
		if err := session.FetchPrayerTimes(ctx, "95", "106.8"); !errors.Is(err, ErrInvalidCoordinates) {
			t.Fatalf("expected ErrInvalidCoordinates, got: %v", err)
		}
	})

	t.Run("FetchPrayerTimes/Remote failure is surfaced", func(t *testing.T) {
		if err := session.SetLanguage(ctx, "en"); err != nil {
			t.Fatalf("wasn't expecting error, got: %v", err)
		}

		server.Fail("GET /prayer/today", http.StatusInternalServerError)
		defer server.Fail("GET /prayer/today", 0)

		if err := session.FetchPrayerTimes(ctx, "-6.175110", "106.865036"); err == nil {
			t.Fatalf("expected error")
		}

		if msg := session.Snapshot().Error; msg != "Failed to fetch times" {
			t.Errorf("unexpected inline error %q", msg)
		}
	})

	t.Run("FetchPrayerTimes/Success starts countdown", func(t *testing.T) {
		if err := session.FetchPrayerTimes(ctx, "-6.175110", "106.865036"); err != nil {
			t.Fatalf("wasn't expecting error, got: %v", err)
		}

		snapshot := session.Snapshot()
		if snapshot.Error != "" {
			t.Errorf("expected inline error to be cleared, got %q", snapshot.Error)
		}

		if snapshot.RamadanDay != 1 {
			t.Errorf("expected missing ramadan day to read as 1, got %d", snapshot.RamadanDay)
		}

		if snapshot.Countdown != "5h 30m" {
			t.Errorf("expected 5h 30m, got %q", snapshot.Countdown)
		}

		clock.Advance(t, 6*time.Hour)
		eventually(t, func() bool {
			return session.Snapshot().Countdown == "23h 30m"
		})
	})

	t.Run("Close/Stops countdown", func(t *testing.T) {
		session.Close()

		if _, ok := session.Countdown(); ok {
			t.Errorf("expected countdown to be cleared")
		}
	})
}

func TestDisconnectedSession(t *testing.T) {
	ctx := context.TODO()
	session, kv, clock := newDisconnectedSession(t)

	t.Run("Load/Bundled catalog", func(t *testing.T) {
		if err := session.Load(ctx); err != nil {
			t.Fatalf("wasn't expecting error, got: %v", err)
		}

		duas := session.Duas(derive.DuaFilter{Category: dtos.CategoryIftar})
		if len(duas) != 1 || duas[0].Id != "1" {
			t.Errorf("unexpected iftar duas: %+v", duas)
		}
	})

	t.Run("TogglePrayer/Merges before write", func(t *testing.T) {
		kv.Set(ctx, "prayer_2026-03-01", `{"date":"2026-03-01","fajr":true}`)

		if err := session.TogglePrayer(ctx, "dhuhr"); err != nil {
			t.Fatalf("wasn't expecting error, got: %v", err)
		}

		expected := dtos.PrayerLog{Date: testToday, Fajr: true, Dhuhr: true}
		if diff := cmp.Diff(expected, session.Today().Prayer); diff != "" {
			t.Error(diff)
		}
	})

	t.Run("SetQuranPages/Stored under quran_pages", func(t *testing.T) {
		if err := session.SetQuranPages(ctx, 610); err != nil {
			t.Fatalf("wasn't expecting error, got: %v", err)
		}

		if value, _, _ := kv.Get(ctx, persistence.QuranKey); value != "604" {
			t.Errorf("expected 604, got %q", value)
		}
	})

	t.Run("AddQuranPage/Count carries across midnight", func(t *testing.T) {
		defer clock.Set(testNow)

		kv.Set(ctx, persistence.QuranKey, "300")
		if err := session.Load(ctx); err != nil {
			t.Fatalf("wasn't expecting error, got: %v", err)
		}

		clock.Set(testNow.AddDate(0, 0, 1))
		if err := session.AddQuranPage(ctx); err != nil {
			t.Fatalf("wasn't expecting error, got: %v", err)
		}

		if value, _, _ := kv.Get(ctx, persistence.QuranKey); value != "301" {
			t.Errorf("expected 301, got %q", value)
		}

		if pages := session.Today().Quran.PagesRead; pages != 301 {
			t.Errorf("expected 301 pages, got %d", pages)
		}
	})

	t.Run("Stats/Local projection", func(t *testing.T) {
		clock.Set(testNow.AddDate(0, 0, -1))
		if err := session.ToggleFasting(ctx); err != nil {
			t.Fatalf("wasn't expecting error, got: %v", err)
		}

		clock.Set(testNow)
		if err := session.ToggleFasting(ctx); err != nil {
			t.Fatalf("wasn't expecting error, got: %v", err)
		}

		expected := &dtos.Stats{CurrentStreak: 2, FastingDays: 2, PrayersCompleted: 2}
		if diff := cmp.Diff(expected, session.Stats()); diff != "" {
			t.Error(diff)
		}
	})

	t.Run("FetchPrayerTimes/Unavailable offline", func(t *testing.T) {
		if err := session.FetchPrayerTimes(ctx, "-6.175110", "106.865036"); !errors.Is(err, persistence.ErrPrayerTimesUnavailable) {
			t.Fatalf("expected ErrPrayerTimesUnavailable, got: %v", err)
		}
	})

	t.Run("SetLanguage/Persists", func(t *testing.T) {
		if err := session.SetLanguage(ctx, "fr"); !errors.Is(err, ErrUnsupportedLanguage) {
			t.Fatalf("expected ErrUnsupportedLanguage, got: %v", err)
		}

		if err := session.SetLanguage(ctx, "en"); err != nil {
			t.Fatalf("wasn't expecting error, got: %v", err)
		}

		if value, _, _ := kv.Get(ctx, persistence.LanguageKey); value != "en" {
			t.Errorf("expected en, got %q", value)
		}

		if err := session.Load(ctx); err != nil {
			t.Fatalf("wasn't expecting error, got: %v", err)
		}

		if session.Language() != dtos.English {
			t.Errorf("expected language to survive reload")
		}
	})
}

type failingStore struct {
	*kvstore.MemoryStore
	err error
}

func (f failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, f.err
}

func TestDisconnectedSessionStoreFailure(t *testing.T) {
	failure := errors.New("disk i/o error")
	kv := failingStore{MemoryStore: kvstore.NewMemoryStore(), err: failure}
	session := NewSession(testConfigs(), persistence.NewLocalAdapter(kv, nil), kv, newFakeClock(testNow))
	defer session.Close()

	if err := session.Load(context.TODO()); !errors.Is(err, failure) {
		t.Fatalf("expected store failure to be returned, got: %v", err)
	}
}

func TestFetchPrayerTimesConcurrent(t *testing.T) {
	ctx := context.TODO()
	session, server, clock := newConnectedSession(t)
	server.Seed(func(s *remotetest.Server) {
		s.PrayerTimes = dtos.PrayerTimes{SuhoorEnd: "04:31", IftarTime: "18:30", RamadanDay: 3}
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := session.FetchPrayerTimes(ctx, "-6.175110", "106.865036"); err != nil {
				t.Errorf("wasn't expecting error, got: %v", err)
			}
		}()
	}
	wg.Wait()

	clock.mu.Lock()
	running := clock.tickers - clock.stopped
	clock.mu.Unlock()

	if running != 1 {
		t.Errorf("expected exactly one running countdown, got %d", running)
	}

	if snapshot := session.Snapshot(); snapshot.Countdown != "5h 30m" || snapshot.RamadanDay != 3 {
		t.Errorf("unexpected snapshot %+v", snapshot)
	}
}

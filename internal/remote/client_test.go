package remote

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mdayat/nur-ramadan/internal/dtos"
	"github.com/mdayat/nur-ramadan/internal/fetchutil"
	"github.com/mdayat/nur-ramadan/internal/remote/remotetest"
)

func TestClient(t *testing.T) {
	ctx := context.TODO()
	server := remotetest.NewServer()
	defer server.Close()

	client := NewClient(server.URL+"/", "token-123", 5*time.Second)
	today := dtos.DateKey("2026-03-01")

	t.Run("PostPrayerLog/Merges partial updates", func(t *testing.T) {
		for _, name := range []dtos.PrayerName{dtos.Fajr, dtos.Dhuhr} {
			err := client.PostPrayerLog(ctx, dtos.PrayerLogUpdate{Date: today, Name: name, Value: true})
			if err != nil {
				t.Fatalf("wasn't expecting error, got: %v", err)
			}
		}

		logs, err := client.PrayerLogs(ctx)
		if err != nil {
			t.Fatalf("wasn't expecting error, got: %v", err)
		}

		expected := []dtos.PrayerLog{{Date: today, Fajr: true, Dhuhr: true}}
		if diff := cmp.Diff(expected, logs); diff != "" {
			t.Error(diff)
		}
	})

	t.Run("Stats/Null body", func(t *testing.T) {
		stats, err := client.Stats(ctx)
		if err != nil {
			t.Fatalf("wasn't expecting error, got: %v", err)
		}

		if stats != nil {
			t.Errorf("expected nil stats, got %+v", stats)
		}
	})

	t.Run("PrayerToday/Success", func(t *testing.T) {
		server.Seed(func(s *remotetest.Server) {
			s.PrayerTimes = dtos.PrayerTimes{SuhoorEnd: "04:31", IftarTime: "18:02", RamadanDay: 11}
		})

		times, err := client.PrayerToday(ctx, "-6.175110", "106.865036")
		if err != nil {
			t.Fatalf("wasn't expecting error, got: %v", err)
		}

		if times.IftarTime != "18:02" || times.Day() != 11 {
			t.Errorf("unexpected prayer times: %+v", times)
		}
	})

	t.Run("Duas/Server error is transient", func(t *testing.T) {
		server.Fail("GET /content/duas", http.StatusInternalServerError)
		defer server.Fail("GET /content/duas", 0)

		_, err := client.Duas(ctx)
		if !fetchutil.IsTransient(err) {
			t.Fatalf("expected transient error, got: %v", err)
		}
	})

	t.Run("Bearer token on every call", func(t *testing.T) {
		for _, token := range server.Tokens() {
			if token != "token-123" {
				t.Fatalf("expected bearer token-123, got %q", token)
			}
		}
	})
}

func TestClientUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "token", time.Second)
	if _, err := client.FastingLogs(context.TODO()); !fetchutil.IsTransient(err) {
		t.Fatalf("expected transient error, got: %v", err)
	}
}

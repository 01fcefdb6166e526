// Package remote is the HTTP client for the prayer-times, content and stats
// service. Every failure comes back as a *fetchutil.FetchError.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/mdayat/nur-ramadan/internal/dtos"
	"github.com/mdayat/nur-ramadan/internal/fetchutil"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, source, method, path string, reqBody, resBody any) error {
	var buf bytes.Buffer
	if reqBody != nil {
		if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
			return &fetchutil.FetchError{Source: source, Err: fmt.Errorf("failed to encode request body: %w", err)}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return &fetchutil.FetchError{Source: source, Err: err}
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return &fetchutil.FetchError{Source: source, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &fetchutil.FetchError{Source: source, StatusCode: res.StatusCode}
	}

	if resBody == nil {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(resBody); err != nil {
		return &fetchutil.FetchError{Source: source, Err: fmt.Errorf("failed to decode response body: %w", err)}
	}

	return nil
}

func (c *Client) Stats(ctx context.Context) (*dtos.Stats, error) {
	var stats *dtos.Stats
	if err := c.do(ctx, "stats", http.MethodGet, "/stats", nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (c *Client) Duas(ctx context.Context) ([]dtos.Dua, error) {
	var duas []dtos.Dua
	if err := c.do(ctx, "duas", http.MethodGet, "/content/duas", nil, &duas); err != nil {
		return nil, err
	}
	return duas, nil
}

func (c *Client) FastingLogs(ctx context.Context) ([]dtos.FastingLog, error) {
	var logs []dtos.FastingLog
	if err := c.do(ctx, "fasting logs", http.MethodGet, "/logs/fasting", nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (c *Client) PrayerLogs(ctx context.Context) ([]dtos.PrayerLog, error) {
	var logs []dtos.PrayerLog
	if err := c.do(ctx, "prayer logs", http.MethodGet, "/logs/prayer", nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (c *Client) QuranLogs(ctx context.Context) ([]dtos.QuranLog, error) {
	var logs []dtos.QuranLog
	if err := c.do(ctx, "quran logs", http.MethodGet, "/logs/quran", nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (c *Client) PostFastingLog(ctx context.Context, log dtos.FastingLog) error {
	return c.do(ctx, "fasting logs", http.MethodPost, "/logs/fasting", log, nil)
}

// PostPrayerLog sends only the changed flag. The service merges it into the
// stored day.
func (c *Client) PostPrayerLog(ctx context.Context, update dtos.PrayerLogUpdate) error {
	return c.do(ctx, "prayer logs", http.MethodPost, "/logs/prayer", update, nil)
}

func (c *Client) PostQuranLog(ctx context.Context, log dtos.QuranLog) error {
	return c.do(ctx, "quran logs", http.MethodPost, "/logs/quran", log, nil)
}

func (c *Client) PrayerToday(ctx context.Context, lat, lng string) (dtos.PrayerTimes, error) {
	query := url.Values{}
	query.Set("lat", lat)
	query.Set("lng", lng)

	var times dtos.PrayerTimes
	if err := c.do(ctx, "prayer times", http.MethodGet, "/prayer/today?"+query.Encode(), nil, &times); err != nil {
		return dtos.PrayerTimes{}, err
	}
	return times, nil
}

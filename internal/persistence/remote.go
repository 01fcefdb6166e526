package persistence

import (
	"context"

	"github.com/mdayat/nur-ramadan/configs"
	"github.com/mdayat/nur-ramadan/internal/dtos"
)

type RemoteClient interface {
	Stats(ctx context.Context) (*dtos.Stats, error)
	Duas(ctx context.Context) ([]dtos.Dua, error)
	FastingLogs(ctx context.Context) ([]dtos.FastingLog, error)
	PrayerLogs(ctx context.Context) ([]dtos.PrayerLog, error)
	QuranLogs(ctx context.Context) ([]dtos.QuranLog, error)
	PostFastingLog(ctx context.Context, log dtos.FastingLog) error
	PostPrayerLog(ctx context.Context, update dtos.PrayerLogUpdate) error
	PostQuranLog(ctx context.Context, log dtos.QuranLog) error
	PrayerToday(ctx context.Context, lat, lng string) (dtos.PrayerTimes, error)
}

type remoteAdapter struct {
	client RemoteClient
}

// NewRemoteAdapter reads and writes through the remote service. Its errors are
// transient *fetchutil.FetchError values.
func NewRemoteAdapter(client RemoteClient) Adapter {
	return &remoteAdapter{client: client}
}

func (r remoteAdapter) Mode() configs.Mode {
	return configs.Connected
}

func (r remoteAdapter) Stats(ctx context.Context, _ dtos.DateKey) (*dtos.Stats, error) {
	return r.client.Stats(ctx)
}

func (r remoteAdapter) Duas(ctx context.Context) ([]dtos.Dua, error) {
	return r.client.Duas(ctx)
}

func (r remoteAdapter) FastingLogs(ctx context.Context, _ dtos.DateKey) ([]dtos.FastingLog, error) {
	return r.client.FastingLogs(ctx)
}

func (r remoteAdapter) PrayerLogs(ctx context.Context, _ dtos.DateKey) ([]dtos.PrayerLog, error) {
	return r.client.PrayerLogs(ctx)
}

func (r remoteAdapter) QuranLogs(ctx context.Context, _ dtos.DateKey) ([]dtos.QuranLog, error) {
	return r.client.QuranLogs(ctx)
}

func (r remoteAdapter) SaveFastingLog(ctx context.Context, log dtos.FastingLog) error {
	return r.client.PostFastingLog(ctx, log)
}

func (r remoteAdapter) SavePrayerLog(ctx context.Context, update dtos.PrayerLogUpdate) error {
	return r.client.PostPrayerLog(ctx, update)
}

func (r remoteAdapter) SaveQuranLog(ctx context.Context, log dtos.QuranLog) error {
	return r.client.PostQuranLog(ctx, log)
}

func (r remoteAdapter) PrayerTimes(ctx context.Context, lat, lng string) (dtos.PrayerTimes, error) {
	return r.client.PrayerToday(ctx, lat, lng)
}

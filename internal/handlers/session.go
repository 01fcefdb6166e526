package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mdayat/nur-ramadan/configs"
	"github.com/mdayat/nur-ramadan/internal/derive"
	"github.com/mdayat/nur-ramadan/internal/dtos"
	"github.com/mdayat/nur-ramadan/internal/fetchutil"
	"github.com/mdayat/nur-ramadan/internal/httputil"
	"github.com/mdayat/nur-ramadan/internal/persistence"
	"github.com/mdayat/nur-ramadan/internal/services"
	"github.com/rs/zerolog/log"
)

type SessionHandler interface {
	GetToday(res http.ResponseWriter, req *http.Request)
	ToggleFasting(res http.ResponseWriter, req *http.Request)
	TogglePrayer(res http.ResponseWriter, req *http.Request)
	SetQuranPages(res http.ResponseWriter, req *http.Request)
	AddQuranPage(res http.ResponseWriter, req *http.Request)
	ResetQuranPages(res http.ResponseWriter, req *http.Request)
	FetchPrayerTimes(res http.ResponseWriter, req *http.Request)
	GetCountdown(res http.ResponseWriter, req *http.Request)
	GetZakat(res http.ResponseWriter, req *http.Request)
	GetDuas(res http.ResponseWriter, req *http.Request)
	GetStats(res http.ResponseWriter, req *http.Request)
	SetLanguage(res http.ResponseWriter, req *http.Request)
}

type session struct {
	configs configs.Configs
	service services.SessionServicer
}

func NewSessionHandler(configs configs.Configs, service services.SessionServicer) SessionHandler {
	return &session{
		configs: configs,
		service: service,
	}
}

// statusCodeOf maps session errors onto HTTP status codes. Anything that is
// not a validation or remote failure is a local-store failure.
func statusCodeOf(err error) int {
	switch {
	case errors.Is(err, services.ErrUnknownPrayer),
		errors.Is(err, services.ErrMissingCoordinates),
		errors.Is(err, services.ErrInvalidCoordinates),
		errors.Is(err, services.ErrUnsupportedLanguage):
		return http.StatusBadRequest
	case errors.Is(err, persistence.ErrPrayerTimesUnavailable):
		return http.StatusServiceUnavailable
	case fetchutil.IsTransient(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s session) sendSnapshot(res http.ResponseWriter, req *http.Request, msg string) {
	logger := log.Ctx(req.Context()).With().Logger()

	params := httputil.SendSuccessResponseParams{
		StatusCode: http.StatusOK,
		ResBody:    s.service.Snapshot(),
	}

	if err := httputil.SendSuccessResponse(res, params); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusInternalServerError).Msg("failed to send success response")
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger.Info().Int("status_code", http.StatusOK).Msg(msg)
}

func (s session) GetToday(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	if req.URL.Query().Get("reload") == "true" {
		if err := s.service.Load(ctx); err != nil {
			statusCode := statusCodeOf(err)
			logger.Error().Err(err).Caller().Int("status_code", statusCode).Msg("failed to reload session")
			http.Error(res, http.StatusText(statusCode), statusCode)
			return
		}
	}

	s.sendSnapshot(res, req, "successfully got today")
}

func (s session) ToggleFasting(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	if err := s.service.ToggleFasting(ctx); err != nil {
		statusCode := statusCodeOf(err)
		logger.Error().Err(err).Caller().Int("status_code", statusCode).Msg("failed to toggle fasting")
		http.Error(res, http.StatusText(statusCode), statusCode)
		return
	}

	s.sendSnapshot(res, req, "successfully toggled fasting")
}

func (s session) TogglePrayer(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	prayerName := chi.URLParam(req, "prayerName")
	if err := s.configs.Validate.Var(prayerName, "required,prayername"); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusBadRequest).Msg("invalid prayer name")
		http.Error(res, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := s.service.TogglePrayer(ctx, prayerName); err != nil {
		statusCode := statusCodeOf(err)
		logger.Error().Err(err).Caller().Int("status_code", statusCode).Msg("failed to toggle prayer")
		http.Error(res, http.StatusText(statusCode), statusCode)
		return
	}

	s.sendSnapshot(res, req, "successfully toggled prayer")
}

func (s session) SetQuranPages(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	var reqBody dtos.QuranRequest
	if err := httputil.DecodeAndValidate(req, s.configs.Validate, &reqBody); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusBadRequest).Msg("invalid request body")
		http.Error(res, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := s.service.SetQuranPages(ctx, *reqBody.PagesRead); err != nil {
		statusCode := statusCodeOf(err)
		logger.Error().Err(err).Caller().Int("status_code", statusCode).Msg("failed to set quran pages")
		http.Error(res, http.StatusText(statusCode), statusCode)
		return
	}

	s.sendSnapshot(res, req, "successfully set quran pages")
}

func (s session) AddQuranPage(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	if err := s.service.AddQuranPage(ctx); err != nil {
		statusCode := statusCodeOf(err)
		logger.Error().Err(err).Caller().Int("status_code", statusCode).Msg("failed to add quran page")
		http.Error(res, http.StatusText(statusCode), statusCode)
		return
	}

	s.sendSnapshot(res, req, "successfully added quran page")
}

func (s session) ResetQuranPages(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	if err := s.service.ResetQuranPages(ctx); err != nil {
		statusCode := statusCodeOf(err)
		logger.Error().Err(err).Caller().Int("status_code", statusCode).Msg("failed to reset quran pages")
		http.Error(res, http.StatusText(statusCode), statusCode)
		return
	}

	s.sendSnapshot(res, req, "successfully reset quran pages")
}

// FetchPrayerTimes leaves the localized failure message in the snapshot, so
// clients can show it next to the location form.
func (s session) FetchPrayerTimes(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	var reqBody struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	}

	if err := httputil.DecodeAndValidate(req, s.configs.Validate, &reqBody); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusBadRequest).Msg("invalid request body")
		http.Error(res, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := s.service.FetchPrayerTimes(ctx, reqBody.Latitude, reqBody.Longitude); err != nil {
		statusCode := statusCodeOf(err)
		logger.Error().Err(err).Caller().Int("status_code", statusCode).Msg("failed to fetch prayer times")
		http.Error(res, http.StatusText(statusCode), statusCode)
		return
	}

	s.sendSnapshot(res, req, "successfully fetched prayer times")
}

func (s session) GetCountdown(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	countdown, ok := s.service.Countdown()
	times, hasTimes := s.service.PrayerTimes()
	if !ok || !hasTimes {
		logger.Error().Err(errors.New("no running countdown")).Caller().Int("status_code", http.StatusNotFound).Send()
		http.Error(res, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	params := httputil.SendSuccessResponseParams{
		StatusCode: http.StatusOK,
		ResBody: dtos.CountdownResponse{
			IftarTime: times.IftarTime,
			Hours:     countdown.Hours,
			Minutes:   countdown.Minutes,
			Text:      countdown.String(),
		},
	}

	if err := httputil.SendSuccessResponse(res, params); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusInternalServerError).Msg("failed to send success response")
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger.Info().Int("status_code", http.StatusOK).Msg("successfully got countdown")
}

func (s session) GetZakat(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	zakat := s.service.Zakat(derive.ParseWealth(req.URL.Query().Get("wealth")))
	params := httputil.SendSuccessResponseParams{
		StatusCode: http.StatusOK,
		ResBody: dtos.ZakatResponse{
			Wealth:    zakat.Wealth,
			Nisab:     zakat.Nisab,
			Wajib:     zakat.Wajib,
			AmountDue: zakat.AmountDue,
		},
	}

	if err := httputil.SendSuccessResponse(res, params); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusInternalServerError).Msg("failed to send success response")
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger.Info().Int("status_code", http.StatusOK).Msg("successfully calculated zakat")
}

func (s session) GetDuas(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	filter := derive.DuaFilter{
		Search:   req.URL.Query().Get("search"),
		Category: dtos.DuaCategory(req.URL.Query().Get("category")),
	}

	params := httputil.SendSuccessResponseParams{
		StatusCode: http.StatusOK,
		ResBody:    s.service.Duas(filter),
	}

	if err := httputil.SendSuccessResponse(res, params); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusInternalServerError).Msg("failed to send success response")
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger.Info().Int("status_code", http.StatusOK).Msg("successfully got duas")
}

func (s session) GetStats(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	stats := s.service.Stats()
	if stats == nil {
		res.WriteHeader(http.StatusNoContent)
		logger.Info().Int("status_code", http.StatusNoContent).Msg("no stats available")
		return
	}

	params := httputil.SendSuccessResponseParams{
		StatusCode: http.StatusOK,
		ResBody:    stats,
	}

	if err := httputil.SendSuccessResponse(res, params); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusInternalServerError).Msg("failed to send success response")
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger.Info().Int("status_code", http.StatusOK).Msg("successfully got stats")
}

func (s session) SetLanguage(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	var reqBody dtos.LanguageRequest
	if err := httputil.DecodeAndValidate(req, s.configs.Validate, &reqBody); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusBadRequest).Msg("invalid request body")
		http.Error(res, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := s.service.SetLanguage(ctx, reqBody.Language); err != nil {
		statusCode := statusCodeOf(err)
		logger.Error().Err(err).Caller().Int("status_code", statusCode).Msg("failed to set language")
		http.Error(res, http.StatusText(statusCode), statusCode)
		return
	}

	s.sendSnapshot(res, req, "successfully set language")
}

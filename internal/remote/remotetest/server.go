// Package remotetest provides an in-memory stand-in for the remote service.
package remotetest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/mdayat/nur-ramadan/internal/dtos"
)

type Server struct {
	*httptest.Server

	mu          sync.Mutex
	failures    map[string]int
	tokens      []string
	Stats       *dtos.Stats
	Duas        []dtos.Dua
	Fasting     map[dtos.DateKey]dtos.FastingLog
	Prayer      map[dtos.DateKey]map[string]any
	Quran       map[dtos.DateKey]dtos.QuranLog
	PrayerTimes dtos.PrayerTimes
	Requests    int
}

func NewServer() *Server {
	s := &Server{
		failures: make(map[string]int),
		Fasting:  make(map[dtos.DateKey]dtos.FastingLog),
		Prayer:   make(map[dtos.DateKey]map[string]any),
		Quran:    make(map[dtos.DateKey]dtos.QuranLog),
	}

	router := chi.NewRouter()
	router.Use(s.intercept)
	router.Get("/stats", s.getStats)
	router.Get("/content/duas", s.getDuas)
	router.Get("/logs/fasting", s.getFasting)
	router.Post("/logs/fasting", s.postFasting)
	router.Get("/logs/prayer", s.getPrayer)
	router.Post("/logs/prayer", s.postPrayer)
	router.Get("/logs/quran", s.getQuran)
	router.Post("/logs/quran", s.postQuran)
	router.Get("/prayer/today", s.getPrayerToday)

	s.Server = httptest.NewServer(router)
	return s
}

// Fail makes requests matching "METHOD /path" answer with status. Status 0
// clears the failure.
func (s *Server) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if status == 0 {
		delete(s.failures, route)
		return
	}
	s.failures[route] = status
}

// Seed mutates the stored state under the server lock.
func (s *Server) Seed(fn func(s *Server)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

func (s *Server) Tokens() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.tokens...)
}

func (s *Server) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		s.Requests++
		s.tokens = append(s.tokens, strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer "))
		status, failing := s.failures[req.Method+" "+req.URL.Path]
		s.mu.Unlock()

		if failing {
			http.Error(res, http.StatusText(status), status)
			return
		}

		next.ServeHTTP(res, req)
	})
}

func (s *Server) send(res http.ResponseWriter, body any) {
	res.Header().Set("Content-Type", "application/json")
	json.NewEncoder(res).Encode(body)
}

func (s *Server) getStats(res http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send(res, s.Stats)
}

func (s *Server) getDuas(res http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send(res, s.Duas)
}

func (s *Server) getFasting(res http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs := make([]dtos.FastingLog, 0, len(s.Fasting))
	for _, log := range s.Fasting {
		logs = append(logs, log)
	}
	s.send(res, logs)
}

func (s *Server) postFasting(res http.ResponseWriter, req *http.Request) {
	var log dtos.FastingLog
	if err := json.NewDecoder(req.Body).Decode(&log); err != nil {
		http.Error(res, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.Fasting[log.Date] = log
	s.mu.Unlock()
	res.WriteHeader(http.StatusCreated)
}

func (s *Server) getPrayer(res http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs := make([]map[string]any, 0, len(s.Prayer))
	for _, log := range s.Prayer {
		logs = append(logs, log)
	}
	s.send(res, logs)
}

// postPrayer merges the partial body into the stored day.
func (s *Server) postPrayer(res http.ResponseWriter, req *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(res, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	date, _ := body["date"].(string)
	s.mu.Lock()
	stored, ok := s.Prayer[dtos.DateKey(date)]
	if !ok {
		stored = make(map[string]any)
		s.Prayer[dtos.DateKey(date)] = stored
	}
	for key, value := range body {
		stored[key] = value
	}
	s.mu.Unlock()
	res.WriteHeader(http.StatusCreated)
}

func (s *Server) getQuran(res http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs := make([]dtos.QuranLog, 0, len(s.Quran))
	for _, log := range s.Quran {
		logs = append(logs, log)
	}
	s.send(res, logs)
}

func (s *Server) postQuran(res http.ResponseWriter, req *http.Request) {
	var log dtos.QuranLog
	if err := json.NewDecoder(req.Body).Decode(&log); err != nil {
		http.Error(res, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.Quran[log.Date] = log
	s.mu.Unlock()
	res.WriteHeader(http.StatusCreated)
}

func (s *Server) getPrayerToday(res http.ResponseWriter, req *http.Request) {
	if req.URL.Query().Get("lat") == "" || req.URL.Query().Get("lng") == "" {
		http.Error(res, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.send(res, s.PrayerTimes)
}

package handlers

import (
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/mdayat/nur-ramadan/configs"
	"github.com/mdayat/nur-ramadan/internal/middlewares"
	"github.com/mdayat/nur-ramadan/internal/services"
)

func NewRestHandler(configs configs.Configs, service services.SessionServicer) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.CleanPath)
	router.Use(chiMiddleware.RealIP)
	router.Use(middlewares.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(httprate.LimitByIP(100, 1*time.Minute))

	options := cors.Options{
		AllowedOrigins:   strings.Split(configs.Env.AllowedOrigins, ","),
		AllowedMethods:   []string{"GET", "PUT", "POST", "DELETE", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"User-Agent", "Content-Type", "Accept", "Accept-Encoding", "Accept-Language", "Cache-Control", "Connection", "Host", "Origin", "Referer"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           300,
	}
	router.Use(cors.Handler(options))
	router.Use(chiMiddleware.Heartbeat("/ping"))

	sessionHandler := NewSessionHandler(configs, service)
	router.Get("/today", sessionHandler.GetToday)
	router.Post("/today/fasting", sessionHandler.ToggleFasting)
	router.Post("/today/prayers/{prayerName}", sessionHandler.TogglePrayer)
	router.Put("/today/quran", sessionHandler.SetQuranPages)
	router.Post("/today/quran/increment", sessionHandler.AddQuranPage)
	router.Delete("/today/quran", sessionHandler.ResetQuranPages)
	router.Post("/prayer-times", sessionHandler.FetchPrayerTimes)
	router.Get("/countdown", sessionHandler.GetCountdown)
	router.Get("/zakat", sessionHandler.GetZakat)
	router.Get("/duas", sessionHandler.GetDuas)
	router.Get("/stats", sessionHandler.GetStats)
	router.Put("/settings/language", sessionHandler.SetLanguage)

	return router
}

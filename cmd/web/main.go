package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mdayat/nur-ramadan/configs"
	"github.com/mdayat/nur-ramadan/internal/app"
	"github.com/mdayat/nur-ramadan/internal/handlers"
	"github.com/rs/zerolog/log"
)

func main() {
	env, err := configs.LoadEnv()
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	logger := configs.NewLogger(env)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	nur, err := app.Open(ctx, env)
	if err != nil {
		logger.Fatal().Err(err).Send()
	}
	defer nur.Close()

	server := &http.Server{
		Addr:    env.ListenAddr,
		Handler: handlers.NewRestHandler(nur.Configs, nur.Session),
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shut down server")
		}
	}()

	logger.Info().Str("addr", env.ListenAddr).Str("mode", string(env.Mode)).Msg("listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Send()
	}
}

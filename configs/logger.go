package configs

import (
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger configures the global zerolog logger and returns a child logger
// that reports callers. With LOG_FILE set, output also goes to a rotated file.
func NewLogger(env Env) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
		return filepath.Base(file) + ":" + strconv.Itoa(line)
	}

	var writer io.Writer = os.Stderr
	if env.LogFile != "" {
		writer = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   env.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}

	log.Logger = zerolog.New(writer).With().Timestamp().Logger()
	return log.With().Caller().Logger()
}

package common

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// SetupLogging routes the standard logger through a tint handler. The level
// comes from LOG_LEVEL (debug, info, warn, error), colour is off with NO_COLOR.
func SetupLogging() {
	level := slog.LevelInfo
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			level = slog.LevelInfo
		}
	}
	_, noColor := os.LookupEnv("NO_COLOR")
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    noColor,
	})))
	log.SetFlags(0)
}

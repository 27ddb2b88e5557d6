package logger

import (
	"io"
	"log"
	"log/slog"
	"os"

	"typegame/iternal/config"
)

// MustInitLogger собирает slog логгер по конфигу: local - текст с debug,
// prod - json с info. Если указан файл, пишем и туда и в stdout
func MustInitLogger(cfg *config.Config) *slog.Logger {
	var out io.Writer = os.Stdout
	if cfg.Log.FilePath != "" {
		file, err := os.OpenFile(cfg.Log.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatal("cannot open log file: ", err)
		}
		out = io.MultiWriter(os.Stdout, file)
	}

	var handler slog.Handler
	switch cfg.Env {
	case "prod":
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.New(handler)
}

// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/doggy-date/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup points the global logger at stderr, and at a rotating file when
// cfg.File is set. The returned closer flushes the file sink.
func Setup(cfg config.LoggingConfig, stderr io.Writer) (io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var console io.Writer = stderr
	if cfg.Format != "json" {
		console = zerolog.ConsoleWriter{Out: stderr}
	}

	var closer io.Closer = nopCloser{}
	out := console

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		opts := []rotatelogs.Option{rotatelogs.WithLinkName(cfg.File)}
		if cfg.MaxAge > 0 {
			opts = append(opts, rotatelogs.WithMaxAge(cfg.MaxAge))
		}
		if cfg.RotationTime > 0 {
			opts = append(opts, rotatelogs.WithRotationTime(cfg.RotationTime))
		}
		rl, err := rotatelogs.New(cfg.File+".%Y%m%d", opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		closer = rl
		out = zerolog.MultiLevelWriter(console, rl)
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return closer, nil
}

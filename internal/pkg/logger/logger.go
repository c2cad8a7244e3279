// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Init 配置全局 zerolog，所有日志都带上 service 字段。
func Init(serviceName, level string) {
	var w io.Writer = os.Stderr
	if os.Getenv("LOG_PRETTY") == "1" {
		w = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	InitWithWriter(serviceName, level, w)
}

// InitWithWriter is Init for tests and tools that want the output elsewhere.
func InitWithWriter(serviceName, level string, w io.Writer) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(ParseLevel(level))
	zlog.Logger = zerolog.New(w).With().Timestamp().Str("service", serviceName).Logger()
}

// ParseLevel 解析失败时退回 info。
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Ctx 返回 context 中的 logger；没有注入时退回全局 logger。
func Ctx(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
			return l
		}
	}
	return &zlog.Logger
}

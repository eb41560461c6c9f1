// Package log 提供基于 zerolog 的结构化日志。
//
// 约束：日志默认写 stderr；stdout 只留给 report JSON。
package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config 描述全局 logger 的配置。
type Config struct {
	Level  string    // 可选："debug" / "info" / "warn" ...；为空时读 LOG_LEVEL，再退化为 warn
	Output io.Writer // 可选：默认 os.Stderr
}

var (
	mu   sync.RWMutex
	base = newLogger(Config{})
)

// Configure 替换全局 logger。CLI 在读取配置之后调用一次；测试可用它把输出导向 buffer。
func Configure(cfg Config) {
	l := newLogger(cfg)
	mu.Lock()
	base = l
	mu.Unlock()
}

func newLogger(cfg Config) zerolog.Logger {
	level := zerolog.WarnLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil {
			level = parsed
		}
	} else if env := os.Getenv("LOG_LEVEL"); env != "" {
		if parsed, err := zerolog.ParseLevel(env); err == nil {
			level = parsed
		}
	}
	zerolog.TimeFieldFormat = time.RFC3339

	w := cfg.Output
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(w).Level(level).With().
		Timestamp().
		Str("service", "movielab").
		Logger()
}

// Base 返回当前的全局 logger。
func Base() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// WithComponent 返回带 component 字段的子 logger。
func WithComponent(component string) zerolog.Logger {
	return Base().With().Str("component", component).Logger()
}

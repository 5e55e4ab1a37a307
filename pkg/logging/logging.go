// Package logging 基于 zap 构建进程级 Logger。
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config 是日志配置。
type Config struct {
	Level  string            `koanf:"level"`  // debug / info / warn / error
	Format string            `koanf:"format"` // json / console
	Fields map[string]string `koanf:"fields"` // 每条日志附带的常量字段
}

// DefaultConfig 返回生产环境默认配置：info 级别、JSON 输出。
func DefaultConfig() Config {
	return Config{Level: "info", Format: "json"}
}

// Validate 校验级别与格式。
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(levelOrDefault(c.Level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	switch c.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid log format %q (supported: json, console)", c.Format)
	}
	return nil
}

// New 创建写 stdout 的 Logger。
func New(cfg Config) (*zap.Logger, error) {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter 创建写到指定 writer 的 Logger（测试中写入 buffer）。
func NewWithWriter(cfg Config, w io.Writer) (*zap.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, _ := zapcore.ParseLevel(levelOrDefault(cfg.Level))

	core := zapcore.NewCore(newEncoder(cfg.Format), zapcore.AddSync(w), level)
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	if len(cfg.Fields) > 0 {
		fields := make([]zap.Field, 0, len(cfg.Fields))
		for k, v := range cfg.Fields {
			fields = append(fields, zap.String(k, v))
		}
		logger = logger.With(fields...)
	}
	return logger, nil
}

func newEncoder(format string) zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if format == "console" {
		return zapcore.NewConsoleEncoder(encoderCfg)
	}
	return zapcore.NewJSONEncoder(encoderCfg)
}

func levelOrDefault(level string) string {
	level = strings.TrimSpace(strings.ToLower(level))
	if level == "" {
		return "info"
	}
	return level
}

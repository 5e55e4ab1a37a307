package pipeline

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rushteam/tripkit/core"
)

// LoggingHook 以 Debug 级别记录每个 Node 的输出数量与耗时，出错时记录 Warn。
type LoggingHook struct {
	Logger *zap.Logger

	starts sync.Map // hookKey -> time.Time
}

type hookKey struct {
	rctx *core.RankContext
	node string
}

// NewLoggingHook 创建日志 Hook；logger 为 nil 时使用 zap.NewNop()。
func NewLoggingHook(logger *zap.Logger) *LoggingHook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingHook{Logger: logger}
}

func (h *LoggingHook) BeforeNode(_ context.Context, rctx *core.RankContext, node Node, items []*core.Item) ([]*core.Item, error) {
	h.starts.Store(hookKey{rctx: rctx, node: node.Name()}, time.Now())
	return items, nil
}

func (h *LoggingHook) AfterNode(_ context.Context, rctx *core.RankContext, node Node, items []*core.Item, err error) ([]*core.Item, error) {
	fields := []zap.Field{
		zap.String("node", node.Name()),
		zap.String("kind", string(node.Kind())),
		zap.Int("items", len(items)),
	}
	if v, ok := h.starts.LoadAndDelete(hookKey{rctx: rctx, node: node.Name()}); ok {
		fields = append(fields, zap.Duration("elapsed", time.Since(v.(time.Time))))
	}
	if rctx != nil {
		fields = append(fields, zap.String("scene", rctx.Scene))
	}
	if err != nil {
		h.Logger.Warn("pipeline node failed", append(fields, zap.Error(err))...)
		return items, err
	}
	h.Logger.Debug("pipeline node done", fields...)
	return items, nil
}

package run

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/John-Robertt/movielab/internal/config"
	"github.com/John-Robertt/movielab/internal/domain"
)

// Observer 用于把“运行阶段/条目结果”从核心执行流程中解耦出来。
//
// 约束：run 包只负责发事件，不做任何输出（避免污染 stdout 的 JSON 契约）。
type Observer interface {
	// OnStart 在 ExecuteWithObserver 开始时调用。
	OnStart(eff config.EffectiveConfig)
	// OnPhaseDone 在阶段结束时调用（用于输出阶段统计与耗时）。
	OnPhaseDone(name string, fields map[string]any, dur time.Duration)
	// OnSourceDone 在每个 catalog 文件加载完成（成功或失败）时调用。
	OnSourceDone(src domain.SourceResult)
	// OnOpDone 在每个分析操作完成时调用。
	OnOpDone(idx, total int, res domain.OpResult, dur time.Duration)
}

type nopObserver struct{}

func (nopObserver) OnStart(config.EffectiveConfig) {}
func (nopObserver) OnPhaseDone(string, map[string]any, time.Duration) {}
func (nopObserver) OnSourceDone(domain.SourceResult) {}
func (nopObserver) OnOpDone(int, int, domain.OpResult, time.Duration) {}

// LogObserver 把事件写成结构化日志（debug 记录过程，warn 记录失败）。
type LogObserver struct {
	L zerolog.Logger
}

func (o LogObserver) OnStart(eff config.EffectiveConfig) {
	o.L.Debug().
		Str("path", eff.Path).
		Bool("is_dir", eff.IsDir).
		Str("format", eff.Format).
		Strs("ops", eff.Ops).
		Msg("run started")
}

func (o LogObserver) OnPhaseDone(name string, fields map[string]any, dur time.Duration) {
	o.L.Debug().Str("phase", name).Fields(fields).Dur("took", dur).Msg("phase done")
}

func (o LogObserver) OnSourceDone(src domain.SourceResult) {
	if src.Status == domain.StatusFailed {
		o.L.Warn().
			Str("file", src.File).
			Str("error_code", src.ErrorCode).
			Str("error_msg", src.ErrorMsg).
			Msg("catalog failed")
		return
	}
	o.L.Debug().Str("file", src.File).Str("format", src.Format).Int("movies", src.Movies).Msg("catalog loaded")
}

func (o LogObserver) OnOpDone(idx, total int, res domain.OpResult, dur time.Duration) {
	if res.Status == domain.StatusFailed {
		o.L.Warn().Str("op", res.Op).Str("error_code", res.ErrorCode).Msg("op failed")
		return
	}
	o.L.Debug().Int("idx", idx).Int("total", total).Str("op", res.Op).Dur("took", dur).Msg("op done")
}

package run

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/John-Robertt/movielab/internal/analytics"
	"github.com/John-Robertt/movielab/internal/catalog"
	"github.com/John-Robertt/movielab/internal/config"
	"github.com/John-Robertt/movielab/internal/domain"
	"github.com/John-Robertt/movielab/internal/scan"
)

// opFunc 把某个分析函数包装成统一签名；返回 nil 表示“无结果”（JSON null）。
type opFunc func(movies []domain.Movie) any

var ops = map[string]opFunc{
	domain.OpDirectors:           func(ms []domain.Movie) any { return analytics.AllDirectors(ms) },
	domain.OpSpielbergDrama:      func(ms []domain.Movie) any { return analytics.HowManyMovies(ms) },
	domain.OpScoresAverage:       func(ms []domain.Movie) any { return analytics.ScoresAverage(ms) },
	domain.OpDramaScore:          func(ms []domain.Movie) any { return analytics.DramaMoviesScore(ms) },
	domain.OpOrderByYear:         func(ms []domain.Movie) any { return analytics.OrderByYear(ms) },
	domain.OpOrderAlphabetically: func(ms []domain.Movie) any { return analytics.OrderAlphabetically(ms) },
	domain.OpHoursToMinutes:      func(ms []domain.Movie) any { return analytics.TurnHoursToMinutes(ms) },
	domain.OpBestYear: func(ms []domain.Movie) any {
		s, ok := analytics.BestYearAvg(ms)
		if !ok {
			return nil
		}
		return s
	},
}

// Execute 执行一次 run，并返回对外稳定的 Report。
func Execute(ctx context.Context, eff config.EffectiveConfig, reg catalog.Registry) domain.Report {
	return ExecuteWithObserver(ctx, eff, reg, nil)
}

// ExecuteWithObserver 与 Execute 相同，但允许传入 Observer 以输出阶段信息（由上层决定是否启用）。
//
// 错误尽量“降级”为条目级失败：单个 catalog 解码失败不影响其他 catalog 与后续分析。
// 扫描失败或 ctx 取消时不再执行分析操作。
func ExecuteWithObserver(ctx context.Context, eff config.EffectiveConfig, reg catalog.Registry, obs Observer) domain.Report {
	if obs == nil {
		obs = nopObserver{}
	}
	obs.OnStart(eff)

	rr := domain.Report{
		Path:      eff.Path,
		StartedAt: time.Now().UTC(),
		Sources:   make([]domain.SourceResult, 0, 8),
		Results:   make([]domain.OpResult, 0, len(eff.Ops)),
	}
	finish := func() domain.Report {
		rr.FinishedAt = time.Now().UTC()
		rr.Finalize()
		return rr
	}

	scanStarted := time.Now()
	files, err := catalogFiles(eff, reg)
	if err != nil {
		rr.Sources = append(rr.Sources, syntheticFailed(domain.ErrCodeScanFailed, fmt.Sprintf("扫描失败：%v", err)))
		return finish()
	}
	obs.OnPhaseDone("scan", map[string]any{"files": len(files)}, time.Since(scanStarted))

	loadStarted := time.Now()
	movies := make([]domain.Movie, 0, 64)
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			rr.Sources = append(rr.Sources, syntheticFailed(domain.ErrCodeCanceled, fmt.Sprintf("已取消：%v", err)))
			return finish()
		}

		ms, used, err := catalog.LoadFile(reg, f.abs, eff.Format)
		src := domain.SourceResult{
			File:   f.rel,
			Format: used,
			Movies: len(ms),
			Status: domain.StatusOK,
		}
		if err != nil {
			src.Status = domain.StatusFailed
			src.ErrorCode = domain.ErrCodeLoadFailed
			src.ErrorMsg = err.Error()
			var ce *catalog.Error
			if errors.As(err, &ce) {
				src.ErrorCode = ce.ErrorCode()
			}
		}
		rr.Sources = append(rr.Sources, src)
		obs.OnSourceDone(src)
		movies = append(movies, ms...)
	}
	obs.OnPhaseDone("load", map[string]any{
		"sources": len(files),
		"movies":  len(movies),
	}, time.Since(loadStarted))

	for i, name := range eff.Ops {
		if err := ctx.Err(); err != nil {
			rr.Sources = append(rr.Sources, syntheticFailed(domain.ErrCodeCanceled, fmt.Sprintf("已取消：%v", err)))
			return finish()
		}

		opStarted := time.Now()
		res := runOp(name, movies)
		rr.Results = append(rr.Results, res)
		obs.OnOpDone(i+1, len(eff.Ops), res, time.Since(opStarted))
	}

	return finish()
}

func runOp(name string, movies []domain.Movie) domain.OpResult {
	fn, ok := ops[name]
	if !ok {
		return domain.OpResult{
			Op:        name,
			Status:    domain.StatusFailed,
			ErrorCode: domain.ErrCodeUnknownOp,
			ErrorMsg:  fmt.Sprintf("未知 op：%q", name),
		}
	}
	return domain.OpResult{
		Op:     name,
		Value:  fn(movies),
		Status: domain.StatusOK,
	}
}

type catalogFile struct {
	abs string
	rel string
}

// catalogFiles 列出本次要加载的 catalog 文件。
// - Path 是文件：只加载它本身（rel 为文件名）
// - Path 是目录：扫描目录；显式指定 format 时只收该格式的扩展名
func catalogFiles(eff config.EffectiveConfig, reg catalog.Registry) ([]catalogFile, error) {
	if !eff.IsDir {
		return []catalogFile{{abs: eff.Path, rel: filepath.Base(eff.Path)}}, nil
	}

	exts := reg.Extensions()
	if eff.Format != "" {
		d, ok := reg.Get(eff.Format)
		if !ok {
			return nil, fmt.Errorf("未知格式：%q", eff.Format)
		}
		exts = d.Extensions()
	}

	found, err := scan.ScanCatalogs(eff.Path, exts, eff.ExcludeDirs)
	if err != nil {
		return nil, err
	}
	out := make([]catalogFile, 0, len(found))
	for _, f := range found {
		out = append(out, catalogFile{abs: f.AbsPath, rel: f.RelPath})
	}
	return out, nil
}

func syntheticFailed(code, msg string) domain.SourceResult {
	return domain.SourceResult{
		File:      "",
		Format:    "",
		Status:    domain.StatusFailed,
		ErrorCode: code,
		ErrorMsg:  msg,
	}
}

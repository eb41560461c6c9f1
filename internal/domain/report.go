package domain

import (
	"encoding/json"
	"sort"
	"time"
)

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

const (
	ErrCodeConfigNotFound    = "config_not_found"
	ErrCodeConfigInvalid     = "config_invalid"
	ErrCodeConfigMissingPath = "config_missing_path"
	ErrCodeScanFailed        = "scan_failed"
	ErrCodeLoadFailed        = "load_failed"
	ErrCodeDecodeFailed      = "decode_failed"
	ErrCodeUnknownOp         = "unknown_op"
	ErrCodeCanceled          = "canceled"
)

// Report 是对外稳定输出（report.json / stdout JSON）的结构。
type Report struct {
	Path string `json:"path"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary ReportSummary  `json:"summary"`
	Sources []SourceResult `json:"sources"`
	Results []OpResult     `json:"results"`
}

type ReportSummary struct {
	Sources int `json:"sources"`
	Movies  int `json:"movies"`
	Ops     int `json:"ops"`
	Failed  int `json:"failed"`
}

// SourceResult 描述一个 catalog 文件的加载结果。
type SourceResult struct {
	File   string `json:"file"`
	Format string `json:"format"`
	Movies int    `json:"movies"`

	Status    string `json:"status"`
	ErrorCode string `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`
}

// OpResult 是一次分析操作的结果。Value 为 nil 时编码为 JSON null（例如空输入的 best-year）。
type OpResult struct {
	Op    string `json:"op"`
	Value any    `json:"value"`

	Status    string `json:"status"`
	ErrorCode string `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`
}

// Finalize 做三件事：
// 1) 时间统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z）
// 2) sources 稳定排序：按 file 字典序；file=="" 的合成条目排在最后
// 3) summary 由 sources/results 计算得出
//
// results 保持调用方给定的顺序（即 op 的执行顺序）。
func (r *Report) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	if r.Sources == nil {
		r.Sources = []SourceResult{}
	}
	if r.Results == nil {
		r.Results = []OpResult{}
	}

	sort.SliceStable(r.Sources, func(i, j int) bool {
		a := r.Sources[i].File
		b := r.Sources[j].File
		if a == "" {
			return false
		}
		if b == "" {
			return true
		}
		return a < b
	})

	var s ReportSummary
	for _, src := range r.Sources {
		if src.File != "" {
			s.Sources++
		}
		if src.Status == StatusFailed {
			s.Failed++
			continue
		}
		s.Movies += src.Movies
	}
	for _, op := range r.Results {
		s.Ops++
		if op.Status == StatusFailed {
			s.Failed++
		}
	}
	r.Summary = s
}

// MarshalJSON 仅用于集中约束输出的稳定性（避免未来不小心引入非确定字段）。
func (r Report) MarshalJSON() ([]byte, error) {
	type Alias Report
	return json.Marshal(Alias(r))
}

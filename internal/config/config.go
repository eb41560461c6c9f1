package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/John-Robertt/movielab/internal/domain"
)

// FileName 是配置文件名（固定）。
const FileName = "movielab.json"

const (
	// ErrCodeNotFound 表示无参运行但 cwd 下没有 movielab.json。
	ErrCodeNotFound = domain.ErrCodeConfigNotFound
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = domain.ErrCodeConfigInvalid
	// ErrCodeMissingPath 表示无参运行但配置文件缺少 path 字段。
	ErrCodeMissingPath = domain.ErrCodeConfigMissingPath
)

// Formats 是可以显式指定的 catalog 格式（与 catalog 子包的 Name 一致）。
var Formats = []string{"json", "yaml", "html"}

// CLIArgs 只包含 CLI 暴露的入口（path/format/op/report），并保留“是否显式指定”的信息。
// 这能保证覆盖优先级可实现：例如 --report=false 必须能覆盖 config.report=true。
type CLIArgs struct {
	Path string

	Format    string
	FormatSet bool

	Ops    []string
	OpsSet bool

	Report    bool
	ReportSet bool
}

// FileConfig 对应 movielab.json 的解析结构。
type FileConfig struct {
	Path        string   `json:"path"`
	Format      string   `json:"format"`
	Ops         []string `json:"ops"`
	Report      *bool    `json:"report"`
	ExcludeDirs []string `json:"exclude_dirs"`
	LogLevel    string   `json:"log_level"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	// Path 是 catalog 文件或目录（clean + absolute）。
	Path string
	// Root 是 Path 所在目录（Path 本身是目录时即 Path）；report 写入 <Root>/cache/report.json。
	Root  string
	IsDir bool

	Format string // 空串表示按扩展名推断
	Ops    []string
	Report bool

	ExcludeDirs []string
	LogLevel    string // 空串表示未配置
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeMissingPath:
		return fmt.Sprintf("%s：配置文件 %q 缺少必填字段 path", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 发现并读取配置文件，然后与 CLI 参数合并为最终配置。
//
// 发现规则（固定）：
// 1) CLI 提供 path：尝试读取 <dir>/movielab.json（可选）；dir 为 path 本身（目录）或其父目录（文件）
// 2) CLI 未提供 path：必须读取 <cwd>/movielab.json（必选），且其中必须包含 path
//
// 覆盖优先级（固定）：
// - path：CLI path > config path
// - format / ops / report：CLI > config > 默认（按扩展名推断 / 全部操作 / false）
// - 其他字段：仅由 config 控制（CLI 不暴露）
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	if strings.TrimSpace(cli.Path) != "" {
		// CLI 给了 path：配置文件可选，位置固定在 path 所在目录。
		absPath := absCleanFrom(cwdAbs, cli.Path)
		root, isDir := rootOf(absPath)
		cfgPath := filepath.Join(root, FileName)

		fc, _, err := readFileConfig(cfgPath)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
		}
		return merge(absPath, root, isDir, cli, fc, cfgPath)
	}

	// CLI 没给 path：必须读取 <cwd>/movielab.json，且其中必须包含 path。
	cfgPath := filepath.Join(cwdAbs, FileName)
	fc, exists, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	if !exists {
		return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: cfgPath, Err: os.ErrNotExist}
	}
	if strings.TrimSpace(fc.Path) == "" {
		return EffectiveConfig{}, &Error{Code: ErrCodeMissingPath, Path: cfgPath}
	}

	absPath := absCleanFrom(cwdAbs, fc.Path)
	root, isDir := rootOf(absPath)
	return merge(absPath, root, isDir, cli, fc, cfgPath)
}

func merge(absPath, root string, isDir bool, cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	// format：CLI > config > 空（按扩展名推断）
	format := strings.ToLower(strings.TrimSpace(fc.Format))
	if cli.FormatSet {
		format = strings.ToLower(strings.TrimSpace(cli.Format))
		if format == "" {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("format 不能为空")}
		}
	}
	if err := validateFormat(format); err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	// ops：CLI > config > 全部
	ops := append([]string(nil), domain.AllOps...)
	if cli.OpsSet {
		ops = normOps(cli.Ops)
	} else if len(fc.Ops) > 0 {
		ops = normOps(fc.Ops)
	}
	if len(ops) == 0 {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("ops 不能为空")}
	}
	for _, op := range ops {
		if !domain.IsOp(op) {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("未知 op：%q（可选：%s）", op, strings.Join(domain.AllOps, "|"))}
		}
	}

	// report：CLI > config > 默认 false
	report := false
	if cli.ReportSet {
		report = cli.Report
	} else if fc.Report != nil {
		report = *fc.Report
	}

	// log_level 未配置时保持空串，由 internal/log 读 LOG_LEVEL 再退化为 warn。
	logLevel := strings.ToLower(strings.TrimSpace(fc.LogLevel))
	if logLevel != "" {
		if _, err := zerolog.ParseLevel(logLevel); err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("log_level 无效：%w", err)}
		}
	}

	return EffectiveConfig{
		Path:        absPath,
		Root:        root,
		IsDir:       isDir,
		Format:      format,
		Ops:         ops,
		Report:      report,
		ExcludeDirs: append([]string(nil), fc.ExcludeDirs...),
		LogLevel:    logLevel,
	}, nil
}

func validateFormat(f string) error {
	if f == "" {
		return nil
	}
	for _, x := range Formats {
		if f == x {
			return nil
		}
	}
	return fmt.Errorf("format 只能是 %s，实际是 %q", strings.Join(Formats, "|"), f)
}

// normOps 去空白、去重，保持输入顺序。
func normOps(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// rootOf 返回 p 所在目录：p 是已存在的普通文件时取父目录，否则视 p 为目录。
// 不存在的路径也按目录处理，由扫描阶段报告具体错误。
func rootOf(p string) (root string, isDir bool) {
	fi, err := os.Stat(p)
	if err == nil && !fi.IsDir() {
		return filepath.Dir(p), false
	}
	return p, true
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
// - p 若已是绝对路径：直接 Clean
// - p 若是相对路径：Join(base, p) 后 Clean
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并解析 JSON 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}

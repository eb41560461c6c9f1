package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/John-Robertt/movielab/internal/domain"
)

const (
	StageResolve = "resolve"
	StageRead    = "read"
	StageDecode  = "decode"
)

// Error 是 catalog 加载阶段的可追溯错误。
// 上层据此把失败归类为 load_failed / decode_failed，并写入 report。
type Error struct {
	File   string
	Format string // 可能为空（resolve 阶段失败时）
	Stage  string // StageResolve / StageRead / StageDecode
	Err    error
}

func (e *Error) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("file=%s stage=%s: %v", e.File, e.Stage, e.Err)
	}
	return fmt.Sprintf("file=%s format=%s stage=%s: %v", e.File, e.Format, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorCode 把 Error 的阶段映射为 report 的 error_code。
func (e *Error) ErrorCode() string {
	if e.Stage == StageDecode {
		return domain.ErrCodeDecodeFailed
	}
	return domain.ErrCodeLoadFailed
}

// Resolve 选出处理 path 的 decoder：显式 format 优先，否则按扩展名推断。
func Resolve(reg Registry, path, format string) (Decoder, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "" {
		d, ok := reg.Get(format)
		if !ok {
			return nil, fmt.Errorf("未知格式：%q（可选：%s）", format, strings.Join(reg.Names(), "|"))
		}
		return d, nil
	}

	ext := filepath.Ext(path)
	d, ok := reg.ForExt(ext)
	if !ok {
		return nil, fmt.Errorf("无法从扩展名 %q 推断格式（可用 --format 指定）", ext)
	}
	return d, nil
}

// LoadFile 读取并解码单个 catalog 文件。
//
// 返回值：
// - movies：解码得到的记录（保持文件内顺序）
// - used：实际使用的 decoder name
func LoadFile(reg Registry, path, format string) (movies []domain.Movie, used string, err error) {
	d, err := Resolve(reg, path, format)
	if err != nil {
		return nil, "", &Error{File: path, Stage: StageResolve, Err: err}
	}
	used = d.Name()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, used, &Error{File: path, Format: used, Stage: StageRead, Err: err}
	}

	movies, err = d.Decode(b)
	if err != nil {
		return nil, used, &Error{File: path, Format: used, Stage: StageDecode, Err: err}
	}
	if movies == nil {
		movies = []domain.Movie{}
	}
	return movies, used, nil
}

// Package fsx 负责把 report 原子写入 <root>/cache/。
package fsx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// 测试替换它来模拟 rename 失败。
var renameFunc = os.Rename

// PathTypeConflictError 表示 report 目标路径已被非普通文件占用（例如同名目录）。
type PathTypeConflictError struct {
	Path string
	Got  string
}

func (e *PathTypeConflictError) Error() string {
	return fmt.Sprintf("report 路径 %q 已被 %s 占用", e.Path, e.Got)
}

func IsPathTypeConflict(err error) bool {
	var e *PathTypeConflictError
	return errors.As(err, &e)
}

// WriteFileAtomic 把 data 写到 dir/name：先写同目录的 "."+name+".tmp-*"，再 rename 覆盖。
// dir 不存在时创建；读者要么看到旧 report，要么看到完整的新 report。
// 临时文件以 '.' 开头，catalog 扫描会跳过它。
func WriteFileAtomic(dir, name string, data []byte) error {
	dir = filepath.Clean(dir)
	dst := filepath.Join(dir, name)

	fi, err := os.Lstat(dst)
	switch {
	case err == nil && fi.IsDir():
		return &PathTypeConflictError{Path: dst, Got: "目录"}
	case err == nil && !fi.Mode().IsRegular():
		return &PathTypeConflictError{Path: dst, Got: fi.Mode().Type().String()}
	case err != nil && !os.IsNotExist(err):
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	// os.File.Write 写不完时一定返回 error。
	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := renameFunc(tmpName, dst); err != nil {
		return err
	}

	_ = syncDir(dir)
	return nil
}

// syncDir 让 rename 落盘；失败不影响结果。Windows 不支持目录 Sync，直接跳过。
func syncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}

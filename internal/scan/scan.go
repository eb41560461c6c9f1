package scan

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// configFileName 与 config.FileName 保持一致（scan 不依赖 config 包）。
const configFileName = "movielab.json"

// CatalogFile 描述一次扫描得到的 catalog 文件（只做 stat，不读内容）。
type CatalogFile struct {
	AbsPath string
	RelPath string
	Ext     string // 小写，例如 ".json"
}

// ScanCatalogs 扫描 root 下扩展名在 exts 中的文件，并应用目录排除规则。
//
// 规则（硬约束）：
// - 永久排除：<root>/cache/（report 输出目录）
// - excludeDirs：来自配置文件，均视为相对 root 的路径（若是绝对路径，则按绝对路径处理）
// - 以 '.' 开头的文件与目录一律跳过（例如原子写入残留的临时文件）
// - 根目录下的配置文件 movielab.json 不是 catalog，跳过
func ScanCatalogs(root string, exts []string, excludeDirs []string) ([]CatalogFile, error) {
	root = filepath.Clean(root)
	excluded := buildExcluded(root, excludeDirs)

	want := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		want[strings.ToLower(e)] = struct{}{}
	}

	files := make([]CatalogFile, 0, 16)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if isExcluded(path, excluded) || (path != root && strings.HasPrefix(d.Name(), ".")) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if filepath.Dir(path) == root && d.Name() == configFileName {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		if _, ok := want[ext]; !ok {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		files = append(files, CatalogFile{
			AbsPath: path,
			RelPath: rel,
			Ext:     ext,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 强制稳定输出，避免不同平台/文件系统行为差异带来的不确定性。
	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

func buildExcluded(root string, excludeDirs []string) []string {
	excluded := make([]string, 0, 1+len(excludeDirs))
	excluded = append(excluded, filepath.Join(root, "cache"))

	for _, x := range excludeDirs {
		x = strings.TrimSpace(x)
		if x == "" {
			continue
		}
		if filepath.IsAbs(x) {
			excluded = append(excluded, filepath.Clean(x))
			continue
		}
		// x 是相对路径：相对 root。
		excluded = append(excluded, filepath.Clean(filepath.Join(root, x)))
	}

	sort.Strings(excluded)
	return excluded
}

func isExcluded(path string, excluded []string) bool {
	path = filepath.Clean(path)
	for _, base := range excluded {
		if isUnder(path, base) {
			return true
		}
	}
	return false
}

func isUnder(path, base string) bool {
	if path == base {
		return true
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(path, base+sep)
}

package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Registry 是 decoder 的只读注册表（按 name 与扩展名索引）。
// decoder 数量极小，用 map 做 O(1) 查找即可。
type Registry struct {
	byName map[string]Decoder
	byExt  map[string]Decoder
}

func NewRegistry(decoders ...Decoder) (Registry, error) {
	byName := make(map[string]Decoder, len(decoders))
	byExt := make(map[string]Decoder, len(decoders)*2)
	for _, d := range decoders {
		if d == nil {
			return Registry{}, fmt.Errorf("decoder 不能为空")
		}
		name := strings.ToLower(strings.TrimSpace(d.Name()))
		if name == "" {
			return Registry{}, fmt.Errorf("decoder.Name 不能为空")
		}
		if _, ok := byName[name]; ok {
			return Registry{}, fmt.Errorf("重复的 decoder：%q", name)
		}
		byName[name] = d

		for _, ext := range d.Extensions() {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			if prev, ok := byExt[ext]; ok {
				return Registry{}, fmt.Errorf("扩展名 %q 同时注册给 %q 与 %q", ext, prev.Name(), name)
			}
			byExt[ext] = d
		}
	}
	return Registry{byName: byName, byExt: byExt}, nil
}

func (r Registry) Get(name string) (Decoder, bool) {
	if r.byName == nil {
		return nil, false
	}
	name = strings.ToLower(strings.TrimSpace(name))
	d, ok := r.byName[name]
	return d, ok
}

// ForExt 按扩展名（例如 ".yml"）查找 decoder。
func (r Registry) ForExt(ext string) (Decoder, bool) {
	if r.byExt == nil {
		return nil, false
	}
	d, ok := r.byExt[strings.ToLower(strings.TrimSpace(ext))]
	return d, ok
}

// Names 返回已注册的 decoder 名（已排序）。
func (r Registry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for n := range r.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Extensions 返回已注册的扩展名（已排序），供扫描阶段过滤文件。
func (r Registry) Extensions() []string {
	out := make([]string, 0, len(r.byExt))
	for e := range r.byExt {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

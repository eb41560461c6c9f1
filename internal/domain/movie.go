package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// Movie 是一条电影记录（外部输入，本系统不拥有它）。
//
// 约束：
// - 所有分析函数都只读 Movie，绝不原地修改
// - Score 缺失时为 nil；读取请走 ScoreValue（统一把缺失归零）
type Movie struct {
	Title    string   `json:"title" yaml:"title"`
	Director string   `json:"director" yaml:"director"`
	Genre    Genre    `json:"genre" yaml:"genre"`
	Year     int      `json:"year" yaml:"year"`
	Score    *float64 `json:"score,omitempty" yaml:"score,omitempty"`
	Duration string   `json:"duration" yaml:"duration"`
}

// ScoreValue 返回可参与计算的分数：缺失、NaN、±Inf 一律视为 0。
func (m Movie) ScoreValue() float64 {
	if m.Score == nil {
		return 0
	}
	v := *m.Score
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// TimedMovie 与 Movie 相同，只是 Duration 已换算为分钟数。
type TimedMovie struct {
	Title    string   `json:"title"`
	Director string   `json:"director"`
	Genre    Genre    `json:"genre"`
	Year     int      `json:"year"`
	Score    *float64 `json:"score,omitempty"`
	Duration int      `json:"duration"`
}

// Genre 是有序的类型标签列表。
//
// 数据源里既有 ["Crime","Drama"] 这种列表，也有 "Crime, Drama" 这种合并字符串；
// 解码时两种形态都接受，字符串形态保留为单个元素（不做拆分）。
type Genre []string

// Contains 判断 label 是否出现在任一标签中（子串匹配）。
// 这样 "Drama" 能同时命中列表元素 "Drama" 与合并字符串 "Crime, Drama"。
func (g Genre) Contains(label string) bool {
	for _, s := range g {
		if strings.Contains(s, label) {
			return true
		}
	}
	return false
}

func (g *Genre) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*g = fromString(one)
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("genre 必须是字符串或字符串数组：%w", err)
	}
	*g = Genre(many)
	return nil
}

func (g *Genre) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		var one string
		if err := n.Decode(&one); err != nil {
			return err
		}
		*g = fromString(one)
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := n.Decode(&many); err != nil {
			return err
		}
		*g = Genre(many)
		return nil
	default:
		return fmt.Errorf("genre 必须是字符串或字符串列表（line %d）", n.Line)
	}
}

func fromString(s string) Genre {
	if strings.TrimSpace(s) == "" {
		return Genre{}
	}
	return Genre{s}
}

// MarshalJSON 把 nil 输出为 []，缺少 genre 的记录与空列表在 report 里形态一致。
func (g Genre) MarshalJSON() ([]byte, error) {
	if g == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(g))
}

// Clone 返回独立的副本（nil 也返回空列表），避免派生记录与原记录共享底层数组。
func (g Genre) Clone() Genre {
	return append(Genre{}, g...)
}

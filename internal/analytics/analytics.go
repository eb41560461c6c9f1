// Package analytics 是一组针对电影记录的纯函数：聚合、过滤、排序、格式换算。
//
// 约束（所有函数共同遵守）：
// - 不修改输入切片及其中的记录；返回值是新分配的
// - 不持有任何包级可变状态，可被多个 goroutine 同时调用
// - 不返回 error：缺失的数值归零，空输入返回约定的默认值
package analytics

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SpielbergName 是 HowManyMovies 统计的导演（精确匹配）。
const SpielbergName = "Steven Spielberg"

// DramaGenre 是 HowManyMovies / DramaMoviesScore 使用的类型标签。
const DramaGenre = "Drama"

// AlphabeticalLimit 是 OrderAlphabetically 返回的最大条数。
const AlphabeticalLimit = 20

// round2 把 v 四舍五入到 2 位小数。
// 走 decimal 而不是 math.Round(v*100)/100，避免 1.005 这类二进制表示误差。
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// formatScore 输出至多 2 位小数且去掉尾随 0 的文本（8.50 -> "8.5"，8.00 -> "8"）。
func formatScore(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}

// newCollator 每次调用新建：collate.Collator 内部带缓冲区，不能跨 goroutine 共享。
func newCollator() *collate.Collator {
	return collate.New(language.Und)
}

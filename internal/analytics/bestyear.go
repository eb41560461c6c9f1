package analytics

import (
	"fmt"

	"github.com/John-Robertt/movielab/internal/domain"
)

type yearAcc struct {
	total float64
	count int
}

// BestYearAvg 按年份分组求平均分，返回平均分最高的年份描述。
//
// - 年份按 int 分组与比较（不是字符串），平均分相同时取较小的年份
// - 平均分最多保留 2 位小数并去掉尾随 0；舍入规则同 ScoresAverage（1.005 -> "1.01"）
// - 空输入返回 ("", false)
func BestYearAvg(movies []domain.Movie) (string, bool) {
	if len(movies) == 0 {
		return "", false
	}

	byYear := make(map[int]*yearAcc, 16)
	for _, m := range movies {
		acc, ok := byYear[m.Year]
		if !ok {
			acc = &yearAcc{}
			byYear[m.Year] = acc
		}
		acc.total += m.ScoreValue()
		acc.count++
	}

	var (
		bestYear int
		bestAvg  float64
		found    bool
	)
	for year, acc := range byYear {
		avg := acc.total / float64(acc.count)
		if !found || avg > bestAvg || (avg == bestAvg && year < bestYear) {
			bestYear, bestAvg, found = year, avg, true
		}
	}

	return fmt.Sprintf("The best year was %d with an average score of %s", bestYear, formatScore(bestAvg)), true
}

package domain

// 分析操作名（CLI --op / 配置 ops / report results[].op 共用）。
const (
	OpDirectors           = "directors"
	OpSpielbergDrama      = "spielberg-drama"
	OpScoresAverage       = "scores-average"
	OpDramaScore          = "drama-score"
	OpOrderByYear         = "order-by-year"
	OpOrderAlphabetically = "order-alphabetically"
	OpHoursToMinutes      = "hours-to-minutes"
	OpBestYear            = "best-year"
)

// AllOps 是默认执行的全部操作，顺序即 report 中 results 的顺序。
var AllOps = []string{
	OpDirectors,
	OpSpielbergDrama,
	OpScoresAverage,
	OpDramaScore,
	OpOrderByYear,
	OpOrderAlphabetically,
	OpHoursToMinutes,
	OpBestYear,
}

// IsOp 判断 name 是否为已知操作名（大小写敏感）。
func IsOp(name string) bool {
	for _, op := range AllOps {
		if op == name {
			return true
		}
	}
	return false
}

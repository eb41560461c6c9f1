package analytics

import "github.com/John-Robertt/movielab/internal/domain"

// ScoresAverage 返回全部电影的平均分（2 位小数）。
// 缺失的分数按 0 计入，且仍计入分母；空输入返回 0。
// 舍入基于 float 的最短十进制表示（6.975 -> 6.98），与按二进制值舍入的 toFixed 可能差 0.01。
func ScoresAverage(movies []domain.Movie) float64 {
	return averageScore(movies)
}

// DramaMoviesScore 返回 Drama 类电影的平均分（2 位小数）；没有 Drama 电影时返回 0。
func DramaMoviesScore(movies []domain.Movie) float64 {
	drama := make([]domain.Movie, 0, len(movies))
	for _, m := range movies {
		if m.Genre.Contains(DramaGenre) {
			drama = append(drama, m)
		}
	}
	return averageScore(drama)
}

func averageScore(movies []domain.Movie) float64 {
	if len(movies) == 0 {
		return 0
	}
	var total float64
	for _, m := range movies {
		total += m.ScoreValue()
	}
	return round2(total / float64(len(movies)))
}

package analytics

import "github.com/John-Robertt/movielab/internal/domain"

// AllDirectors 返回所有导演名（按首次出现的顺序去重）。
// 空输入返回空切片（非 nil），便于 JSON 输出为 []。
func AllDirectors(movies []domain.Movie) []string {
	seen := make(map[string]struct{}, len(movies))
	out := make([]string, 0, len(movies))
	for _, m := range movies {
		if _, ok := seen[m.Director]; ok {
			continue
		}
		seen[m.Director] = struct{}{}
		out = append(out, m.Director)
	}
	return out
}

// HowManyMovies 统计 Steven Spielberg 执导且类型包含 Drama 的电影数。
func HowManyMovies(movies []domain.Movie) int {
	n := 0
	for _, m := range movies {
		if m.Director == SpielbergName && m.Genre.Contains(DramaGenre) {
			n++
		}
	}
	return n
}

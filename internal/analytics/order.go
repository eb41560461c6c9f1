package analytics

import (
	"sort"
	"strings"

	"github.com/John-Robertt/movielab/internal/domain"
)

// OrderByYear 返回按年份升序排列的新切片；同年按标题（忽略大小写）排序。
// 排序稳定：年份与标题都相同的记录保持输入顺序。输入切片不变。
func OrderByYear(movies []domain.Movie) []domain.Movie {
	out := make([]domain.Movie, len(movies))
	copy(out, movies)

	// 预先算好小写标题，避免比较函数里反复分配。
	lower := make(map[string]string, len(out))
	for _, m := range out {
		if _, ok := lower[m.Title]; !ok {
			lower[m.Title] = strings.ToLower(m.Title)
		}
	}

	col := newCollator()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return col.CompareString(lower[out[i].Title], lower[out[j].Title]) < 0
	})
	return out
}

// OrderAlphabetically 返回按标题排序后的前 AlphabeticalLimit 个标题。
func OrderAlphabetically(movies []domain.Movie) []string {
	titles := make([]string, 0, len(movies))
	for _, m := range movies {
		titles = append(titles, m.Title)
	}

	col := newCollator()
	sort.SliceStable(titles, func(i, j int) bool {
		return col.CompareString(titles[i], titles[j]) < 0
	})

	if len(titles) > AlphabeticalLimit {
		titles = titles[:AlphabeticalLimit]
	}
	return titles
}

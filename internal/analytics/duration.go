package analytics

import (
	"strings"

	"github.com/John-Robertt/movielab/internal/domain"
)

// TurnHoursToMinutes 把每条记录的 "<H>h <M>min" 时长换算为分钟数，返回新记录。
//
// 解析是宽松的（不是格式校验器）：
// - 含 "h"：第一个 "h" 之前的前导整数是小时数，解析不出则为 0
// - 含 "min"：第一个 "h" 之后（没有 "h" 时取整串）去掉 "min" 并 trim，前导整数是分钟数，解析不出则为 0
// - 其他字段原样复制（Genre 复制一份，不与输入共享）
func TurnHoursToMinutes(movies []domain.Movie) []domain.TimedMovie {
	out := make([]domain.TimedMovie, 0, len(movies))
	for _, m := range movies {
		out = append(out, domain.TimedMovie{
			Title:    m.Title,
			Director: m.Director,
			Genre:    m.Genre.Clone(),
			Year:     m.Year,
			Score:    cloneScore(m.Score),
			Duration: DurationMinutes(m.Duration),
		})
	}
	return out
}

// DurationMinutes 解析单个时长文本，规则见 TurnHoursToMinutes。
func DurationMinutes(s string) int {
	hours, minutes := 0, 0

	hourPart, rest, hasH := strings.Cut(s, "h")
	if hasH {
		hours = leadingInt(hourPart)
		// 与 split('h')[1] 对齐：只取到下一个 "h" 之前。
		rest, _, _ = strings.Cut(rest, "h")
	} else {
		rest = s
	}

	if strings.Contains(s, "min") {
		minutes = leadingInt(strings.TrimSpace(strings.Replace(rest, "min", "", 1)))
	}
	return hours*60 + minutes
}

// leadingInt 取 s（去掉前导空白后）开头的十进制整数，允许一个正负号。
// 没有数字时返回 0。已读到的值超过 214748364 后不再读入后续数字（最多约 10 位），
// 所以 "99999999999" 得到 999999999，不做报错。
func leadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\n\r")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		if n > (1<<31)/10 {
			break
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		return -n
	}
	return n
}

func cloneScore(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

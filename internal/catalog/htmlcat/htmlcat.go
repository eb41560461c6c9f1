package htmlcat

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/movielab/internal/domain"
)

// Decoder 从 HTML 表格解析 catalog。
//
// 约定：
// - 优先使用 table.movies，不存在时回退到文档中的第一个 table
// - 列由表头 th 的文本决定（大小写/空白不敏感，支持少量别名）；
//   单元格上的 data-field 属性优先于表头
// - genre 单元格里有 li / span.genre 时按列表解析，否则整格文本作为一个标签
// - score 为空表示缺失；year/score 非空但无法解析时报错（带行号）
//
// goquery 不执行 JS，因此只适用于服务端渲染好的静态页面。
type Decoder struct{}

func (Decoder) Name() string { return "html" }

func (Decoder) Extensions() []string { return []string{".html", ".htm"} }

func (Decoder) Decode(b []byte) ([]domain.Movie, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, errors.New("内容为空")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	table := doc.Find("table.movies").First()
	if table.Length() == 0 {
		table = doc.Find("table").First()
	}
	if table.Length() == 0 {
		return nil, errors.New("未找到 table")
	}

	var columns []string
	table.Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		ths := tr.Find("th")
		if ths.Length() == 0 {
			return true
		}
		ths.Each(func(_ int, th *goquery.Selection) {
			columns = append(columns, fieldName(th.Text()))
		})
		return false
	})

	movies := make([]domain.Movie, 0, 32)
	var rowErr error
	table.Find("tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		tds := tr.Find("td")
		if tds.Length() == 0 {
			return true
		}

		var m domain.Movie
		tds.EachWithBreak(func(j int, td *goquery.Selection) bool {
			field := ""
			if v, ok := td.Attr("data-field"); ok {
				field = fieldName(v)
			} else if j < len(columns) {
				field = columns[j]
			}
			if err := setField(&m, field, td); err != nil {
				rowErr = fmt.Errorf("第 %d 行 %s：%w", i+1, field, err)
				return false
			}
			return true
		})
		if rowErr != nil {
			return false
		}
		movies = append(movies, m)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	return movies, nil
}

func setField(m *domain.Movie, field string, td *goquery.Selection) error {
	text := normSpace(td.Text())
	switch field {
	case "title":
		m.Title = text
	case "director":
		m.Director = text
	case "genre":
		m.Genre = genreOf(td, text)
	case "year":
		if text == "" {
			return nil
		}
		y, err := strconv.Atoi(text)
		if err != nil {
			return fmt.Errorf("无效年份 %q", text)
		}
		m.Year = y
	case "score":
		if text == "" {
			return nil
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return fmt.Errorf("无效分数 %q", text)
		}
		m.Score = &v
	case "duration":
		m.Duration = text
	}
	// 未知列直接忽略。
	return nil
}

func genreOf(td *goquery.Selection, text string) domain.Genre {
	items := td.Find("li, span.genre")
	if items.Length() == 0 {
		if text == "" {
			return domain.Genre{}
		}
		return domain.Genre{text}
	}
	g := make(domain.Genre, 0, items.Length())
	items.Each(func(_ int, s *goquery.Selection) {
		if t := normSpace(s.Text()); t != "" {
			g = append(g, t)
		}
	})
	return g
}

// fieldName 把表头/属性文本归一化为字段名。
func fieldName(s string) string {
	s = strings.ToLower(normSpace(s))
	s = strings.TrimSuffix(s, ":")
	switch s {
	case "title", "name", "movie":
		return "title"
	case "director", "directed by":
		return "director"
	case "genre", "genres":
		return "genre"
	case "year", "released":
		return "year"
	case "score", "rating", "rate":
		return "score"
	case "duration", "runtime", "length":
		return "duration"
	default:
		return s
	}
}

func normSpace(s string) string { return strings.Join(strings.Fields(s), " ") }

package analytics

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/John-Robertt/movielab/internal/domain"
)

func score(v float64) *float64 { return &v }

func sampleMovies() []domain.Movie {
	return []domain.Movie{
		{Title: "The Shawshank Redemption", Director: "Frank Darabont", Genre: domain.Genre{"Crime", "Drama"}, Year: 1994, Score: score(9.3), Duration: "2h 22min"},
		{Title: "Schindler's List", Director: "Steven Spielberg", Genre: domain.Genre{"Biography", "Drama", "History"}, Year: 1993, Score: score(8.9), Duration: "3h 15min"},
		{Title: "Jurassic Park", Director: "Steven Spielberg", Genre: domain.Genre{"Adventure", "Sci-Fi"}, Year: 1993, Score: score(8.1), Duration: "2h 7min"},
		{Title: "The Green Mile", Director: "Frank Darabont", Genre: domain.Genre{"Crime, Drama, Fantasy"}, Year: 1999, Duration: "3h 9min"},
		{Title: "Saving Private Ryan", Director: "Steven Spielberg", Genre: domain.Genre{"Drama, War"}, Year: 1998, Score: score(8.6), Duration: "2h 49min"},
	}
}

func TestAllDirectors_FirstOccurrenceOrderNoDuplicates(t *testing.T) {
	got := AllDirectors(sampleMovies())
	want := []string{"Frank Darabont", "Steven Spielberg"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("AllDirectors 不一致 (-want +got):\n%s", diff)
	}
}

func TestAllDirectors_EmptyIsEmptySlice(t *testing.T) {
	got := AllDirectors(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("期望非 nil 空切片，实际 %#v", got)
	}
}

func TestHowManyMovies(t *testing.T) {
	ms := sampleMovies()
	// Schindler's List（列表成员）+ Saving Private Ryan（合并字符串）。
	if got := HowManyMovies(ms); got != 2 {
		t.Fatalf("期望 2，实际 %d", got)
	}

	ms = append(ms,
		domain.Movie{Title: "Munich", Director: "steven spielberg", Genre: domain.Genre{"Drama"}},
		domain.Movie{Title: "Lincoln", Director: "Steven Spielberg", Genre: domain.Genre{"Biography", "Drama"}},
	)
	// 导演名必须精确匹配。
	if got := HowManyMovies(ms); got != 3 {
		t.Fatalf("期望 3，实际 %d", got)
	}

	if got := HowManyMovies(nil); got != 0 {
		t.Fatalf("空输入期望 0，实际 %d", got)
	}
}

func TestScoresAverage(t *testing.T) {
	cases := []struct {
		name   string
		movies []domain.Movie
		want   float64
	}{
		{"empty", nil, 0},
		{"two scores", []domain.Movie{{Score: score(8)}, {Score: score(6)}}, 7},
		{"missing counts toward divisor", []domain.Movie{{Score: score(8)}, {}}, 4},
		{"rounded to 2 decimals", []domain.Movie{{Score: score(8)}, {Score: score(7)}, {Score: score(7)}}, 7.33},
		{"half rounds up", []domain.Movie{{Score: score(1.005)}}, 1.01},
		{"shortest decimal rounds up", []domain.Movie{{Score: score(6.975)}}, 6.98},
		{"sample", sampleMovies(), 6.98},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ScoresAverage(tc.movies); got != tc.want {
				t.Fatalf("ScoresAverage=%v，期望 %v", got, tc.want)
			}
		})
	}
}

func TestDramaMoviesScore(t *testing.T) {
	// Drama：9.3, 8.9, 0（缺失）, 8.6 -> 26.8/4 = 6.7
	if got := DramaMoviesScore(sampleMovies()); got != 6.7 {
		t.Fatalf("期望 6.7，实际 %v", got)
	}

	noDrama := []domain.Movie{{Genre: domain.Genre{"Comedy"}, Score: score(9)}}
	if got := DramaMoviesScore(noDrama); got != 0 {
		t.Fatalf("没有 Drama 时期望 0，实际 %v", got)
	}
	if got := DramaMoviesScore(nil); got != 0 {
		t.Fatalf("空输入期望 0，实际 %v", got)
	}
}

func TestOrderByYear_SortedStableAndInputUntouched(t *testing.T) {
	in := []domain.Movie{
		{Title: "b", Year: 2001},
		{Title: "C", Year: 2000},
		{Title: "a", Year: 2001},
		{Title: "B", Year: 2000},
		{Title: "x", Year: 1999, Director: "first"},
		{Title: "x", Year: 1999, Director: "second"},
	}
	before := append([]domain.Movie(nil), in...)

	got := OrderByYear(in)

	var titles []string
	for _, m := range got {
		titles = append(titles, m.Title)
	}
	if diff := cmp.Diff([]string{"x", "x", "B", "C", "a", "b"}, titles); diff != "" {
		t.Fatalf("排序不一致 (-want +got):\n%s", diff)
	}
	if got[0].Director != "first" || got[1].Director != "second" {
		t.Fatalf("相同年份+标题必须保持输入顺序：%q %q", got[0].Director, got[1].Director)
	}
	if diff := cmp.Diff(before, in); diff != "" {
		t.Fatalf("输入被修改 (-before +after):\n%s", diff)
	}
}

func TestOrderByYear_CaseInsensitiveTitles(t *testing.T) {
	in := []domain.Movie{
		{Title: "alien", Year: 1979},
		{Title: "Apocalypse Now", Year: 1979},
		{Title: "ALL THAT JAZZ", Year: 1979},
	}
	got := OrderByYear(in)
	want := []string{"alien", "ALL THAT JAZZ", "Apocalypse Now"}
	for i := range want {
		if got[i].Title != want[i] {
			t.Fatalf("got[%d]=%q，期望 %q", i, got[i].Title, want[i])
		}
	}
}

func TestOrderAlphabetically(t *testing.T) {
	got := OrderAlphabetically(sampleMovies())
	want := []string{"Jurassic Park", "Saving Private Ryan", "Schindler's List", "The Green Mile", "The Shawshank Redemption"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("OrderAlphabetically 不一致 (-want +got):\n%s", diff)
	}
}

func TestOrderAlphabetically_LimitTwenty(t *testing.T) {
	var in []domain.Movie
	for c := 'z'; c >= 'a'; c-- {
		in = append(in, domain.Movie{Title: string(c)})
	}
	got := OrderAlphabetically(in)
	if len(got) != AlphabeticalLimit {
		t.Fatalf("期望 %d 条，实际 %d", AlphabeticalLimit, len(got))
	}
	if got[0] != "a" || got[19] != "t" {
		t.Fatalf("期望 a..t，实际 %q..%q", got[0], got[19])
	}
	if in[0].Title != "z" {
		t.Fatalf("输入被修改：%q", in[0].Title)
	}

	if got := OrderAlphabetically(nil); len(got) != 0 {
		t.Fatalf("空输入期望空结果，实际 %v", got)
	}
}

func TestDurationMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"2h 30min", 150},
		{"1h", 60},
		{"45min", 45},
		{"3h 9min", 189},
		{"0h 59min", 59},
		{"", 0},
		{"h min", 0},
		{"xh 10min", 10},
		{"2h abcmin", 120},
		{"garbage", 0},
		{"99999999999h", 999999999 * 60},
	}
	for _, tc := range cases {
		if got := DurationMinutes(tc.in); got != tc.want {
			t.Fatalf("DurationMinutes(%q)=%d，期望 %d", tc.in, got, tc.want)
		}
	}
}

func TestTurnHoursToMinutes_NewRecordsOtherFieldsUnchanged(t *testing.T) {
	in := sampleMovies()[:2]
	got := TurnHoursToMinutes(in)

	want := []domain.TimedMovie{
		{Title: "The Shawshank Redemption", Director: "Frank Darabont", Genre: domain.Genre{"Crime", "Drama"}, Year: 1994, Score: score(9.3), Duration: 142},
		{Title: "Schindler's List", Director: "Steven Spielberg", Genre: domain.Genre{"Biography", "Drama", "History"}, Year: 1993, Score: score(8.9), Duration: 195},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("TurnHoursToMinutes 不一致 (-want +got):\n%s", diff)
	}

	// 派生记录与输入互不影响。
	got[0].Genre[0] = "Changed"
	*got[0].Score = 1
	if in[0].Genre[0] != "Crime" || *in[0].Score != 9.3 {
		t.Fatalf("派生记录与输入共享了数据：%+v", in[0])
	}
	if in[0].Duration != "2h 22min" {
		t.Fatalf("输入 duration 被修改：%q", in[0].Duration)
	}
}

func TestTurnHoursToMinutes_MissingGenreBecomesEmptyList(t *testing.T) {
	got := TurnHoursToMinutes([]domain.Movie{{Title: "A", Duration: "1h"}})
	if got[0].Genre == nil || len(got[0].Genre) != 0 {
		t.Fatalf("缺少 genre 时应为空列表，实际 %#v", got[0].Genre)
	}
}

func TestBestYearAvg(t *testing.T) {
	if got, ok := BestYearAvg(nil); ok || got != "" {
		t.Fatalf("空输入期望 (\"\", false)，实际 (%q, %v)", got, ok)
	}

	cases := []struct {
		name   string
		movies []domain.Movie
		want   string
	}{
		{
			"highest average wins",
			[]domain.Movie{{Year: 2000, Score: score(8)}, {Year: 2000, Score: score(6)}, {Year: 2001, Score: score(10)}},
			"The best year was 2001 with an average score of 10",
		},
		{
			"tie picks smaller year numerically",
			[]domain.Movie{{Year: 10, Score: score(8)}, {Year: 2, Score: score(8)}, {Year: 1999, Score: score(8)}},
			"The best year was 2 with an average score of 8",
		},
		{
			"trailing zero stripped",
			[]domain.Movie{{Year: 2010, Score: score(8)}, {Year: 2010, Score: score(9)}},
			"The best year was 2010 with an average score of 8.5",
		},
		{
			"rounded to 2 decimals",
			[]domain.Movie{{Year: 2010, Score: score(8)}, {Year: 2010, Score: score(7)}, {Year: 2010, Score: score(7)}},
			"The best year was 2010 with an average score of 7.33",
		},
		{
			"missing score counts as zero",
			[]domain.Movie{{Year: 1990, Score: score(9)}, {Year: 1990}, {Year: 1991, Score: score(5)}},
			"The best year was 1991 with an average score of 5",
		},
		{
			"all zero",
			[]domain.Movie{{Year: 2005}, {Year: 2004}},
			"The best year was 2004 with an average score of 0",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := BestYearAvg(tc.movies)
			if !ok {
				t.Fatalf("期望 ok=true")
			}
			if got != tc.want {
				t.Fatalf("BestYearAvg=%q，期望 %q", got, tc.want)
			}
		})
	}
}

package jsoncat

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/John-Robertt/movielab/internal/domain"
)

func TestDecode_ArrayAndWrapped(t *testing.T) {
	score := 8.3
	want := []domain.Movie{
		{Title: "Jaws", Director: "Steven Spielberg", Genre: domain.Genre{"Adventure", "Thriller"}, Year: 1975, Score: &score, Duration: "2h 4min"},
		{Title: "Duel", Director: "Steven Spielberg", Genre: domain.Genre{"Action, Thriller"}, Year: 1971, Duration: "1h 30min"},
	}
	body := `[
		{"title":"Jaws","director":"Steven Spielberg","genre":["Adventure","Thriller"],"year":1975,"score":8.3,"duration":"2h 4min"},
		{"title":"Duel","director":"Steven Spielberg","genre":"Action, Thriller","year":1971,"duration":"1h 30min"}
	]`

	for name, in := range map[string]string{
		"array":   body,
		"wrapped": `{"movies":` + body + `}`,
	} {
		t.Run(name, func(t *testing.T) {
			got, err := Decoder{}.Decode([]byte(in))
			if err != nil {
				t.Fatalf("不期望错误：%v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("解码结果不一致 (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	for _, in := range []string{"", "   ", `"x"`, `{"films":[]}`, `[{"year":"nope"}]`, `[`} {
		if _, err := (Decoder{}).Decode([]byte(in)); err == nil {
			t.Fatalf("期望 %q 报错", in)
		}
	}
}

func TestDecode_EmptyArray(t *testing.T) {
	got, err := Decoder{}.Decode([]byte(`{"movies":[]}`))
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(got) != 0 {
		t.Fatalf("期望 0 条，实际 %d", len(got))
	}
}

package jsoncat

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/John-Robertt/movielab/internal/domain"
)

// Decoder 解码 JSON catalog。
//
// 接受两种顶层形态：
// - [ {movie}, ... ]
// - { "movies": [ {movie}, ... ] }
type Decoder struct{}

func (Decoder) Name() string { return "json" }

func (Decoder) Extensions() []string { return []string{".json"} }

func (Decoder) Decode(b []byte) ([]domain.Movie, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, errors.New("内容为空")
	}

	switch b[0] {
	case '[':
		var ms []domain.Movie
		if err := json.Unmarshal(b, &ms); err != nil {
			return nil, err
		}
		return ms, nil
	case '{':
		var wrap struct {
			Movies *[]domain.Movie `json:"movies"`
		}
		if err := json.Unmarshal(b, &wrap); err != nil {
			return nil, err
		}
		if wrap.Movies == nil {
			return nil, errors.New(`顶层对象缺少 "movies" 字段`)
		}
		return *wrap.Movies, nil
	default:
		return nil, fmt.Errorf("顶层必须是数组或对象，实际以 %q 开头", b[0])
	}
}

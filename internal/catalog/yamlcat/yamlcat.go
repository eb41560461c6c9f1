package yamlcat

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/John-Robertt/movielab/internal/domain"
)

// Decoder 解码 YAML catalog，顶层形态与 jsoncat 一致（序列，或带 movies 键的映射）。
type Decoder struct{}

func (Decoder) Name() string { return "yaml" }

func (Decoder) Extensions() []string { return []string{".yaml", ".yml"} }

func (Decoder) Decode(b []byte) ([]domain.Movie, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, errors.New("内容为空")
	}

	var root yaml.Node
	if err := yaml.Unmarshal(b, &root); err != nil {
		return nil, err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errors.New("不是有效的 YAML 文档")
	}
	top := root.Content[0]

	switch top.Kind {
	case yaml.SequenceNode:
		var ms []domain.Movie
		if err := top.Decode(&ms); err != nil {
			return nil, err
		}
		return ms, nil
	case yaml.MappingNode:
		var wrap struct {
			Movies *[]domain.Movie `yaml:"movies"`
		}
		if err := top.Decode(&wrap); err != nil {
			return nil, err
		}
		if wrap.Movies == nil {
			return nil, errors.New(`顶层映射缺少 "movies" 键`)
		}
		return *wrap.Movies, nil
	default:
		return nil, fmt.Errorf("顶层必须是序列或映射（line %d）", top.Line)
	}
}

package catalog

import "github.com/John-Robertt/movielab/internal/domain"

// Decoder 把“数据源格式差异”限制在各自的子包内；上层只依赖统一接口与稳定的 domain.Movie。
//
// 约束：
// - Decode 必须是纯函数：相同输入 => 相同输出
// - Decode 不做文件 IO（读取由 Load 统一完成）
// - Extensions 返回小写、带 '.' 的扩展名，用于按文件名推断格式
type Decoder interface {
	Name() string
	Extensions() []string
	Decode(b []byte) ([]domain.Movie, error)
}

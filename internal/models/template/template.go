package template

import (
	"fmt"
)

// Template 表示一个数据集审核模板的定义
// 这是核心元数据结构，描述了某类数据集（如"Illumina测序"、"10x单细胞"等）
// 必须提供哪些规范字段，上传的列数据需要绑定到这些字段上
type Template struct {
	ID     string  `bson:"_id" json:"id"`       // 模板唯一标识符，同时用作API路径参数
	Name   string  `bson:"name" json:"name"`    // 用于UI显示的友好名称
	Fields []Field `bson:"fields" json:"fields"` // 模板包含的所有规范字段定义，顺序固定
}

// Validate 验证模板定义是否有效
// 在加载模板时会调用此方法进行验证
func (t *Template) Validate() error {
	// 检查模板标识
	if t.ID == "" {
		return fmt.Errorf("模板ID不能为空")
	}
	if t.Name == "" {
		return fmt.Errorf("模板名称不能为空")
	}

	// 检查是否有字段定义
	if len(t.Fields) == 0 {
		return fmt.Errorf("模板必须至少有一个字段")
	}

	// 检查字段名称是否重复
	fieldNames := make(map[string]bool)
	for _, field := range t.Fields {
		if _, exists := fieldNames[field.Name]; exists {
			return fmt.Errorf("字段名称 '%s' 重复", field.Name)
		}
		fieldNames[field.Name] = true

		// 验证字段定义
		if err := field.Validate(); err != nil {
			return fmt.Errorf("字段 '%s' 无效: %w", field.Name, err)
		}
	}

	return nil
}

// FieldByName 按名称查找字段定义
// 第二个返回值表示字段是否存在
func (t *Template) FieldByName(name string) (Field, bool) {
	for _, field := range t.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// RequiredFields 返回所有必须映射的字段，保持声明顺序
func (t *Template) RequiredFields() []Field {
	var required []Field
	for _, field := range t.Fields {
		if field.Required {
			required = append(required, field)
		}
	}
	return required
}

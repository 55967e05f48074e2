package template

import (
	"fmt"
)

// FieldType 表示规范字段的数据类型
// 这决定了验证规则如何检查该字段绑定列的样本值
type FieldType string

// 支持的字段类型
// 每种类型有特定的验证逻辑
const (
	FieldTypeString  FieldType = "String"  // 普通文本
	FieldTypeInteger FieldType = "Integer" // 整数
	FieldTypeNumber  FieldType = "Number"  // 浮点数
	FieldTypeDate    FieldType = "Date"    // 日期（格式为 YYYY-MM-DD）
	FieldTypeEnum    FieldType = "Enum"    // 枚举选项
)

// Field 表示模板中的一个规范字段定义
// 描述数据集中单个属性的所有元信息，加载后不可变
type Field struct {
	Name     string    `bson:"name" json:"name"`         // 字段规范名称，模板内唯一
	Type     FieldType `bson:"type" json:"type"`         // 字段数据类型
	Required bool      `bson:"required" json:"required"` // 是否必须映射
	Category string    `bson:"category" json:"category"` // 字段分组，仅用于展示
	HelpText string    `bson:"help_text" json:"helpText"` // 字段说明

	// Match 是自动映射时的候选列名别名
	// 列名与字段名或任一别名规范化后相同即视为匹配
	Match []string `bson:"match,omitempty" json:"match,omitempty"`

	// Min/Max 声明数值字段的样本值期望区间
	// 仅对 Integer/Number 类型生效，nil 表示该侧不限
	Min *float64 `bson:"min,omitempty" json:"min,omitempty"`
	Max *float64 `bson:"max,omitempty" json:"max,omitempty"`

	// LinkKey 标记该字段为跨文件关联键
	// 其绑定列的样本值需要在关联数据源中找到对应记录
	LinkKey bool `bson:"link_key,omitempty" json:"linkKey,omitempty"`
}

// Validate 验证字段定义是否有效
func (f *Field) Validate() error {
	// 检查字段名称
	if f.Name == "" {
		return fmt.Errorf("字段名称不能为空")
	}

	// 验证字段类型
	switch f.Type {
	case FieldTypeString, FieldTypeInteger, FieldTypeNumber, FieldTypeDate, FieldTypeEnum:
		// 有效的字段类型
	default:
		return fmt.Errorf("字段类型 '%s' 无效", f.Type)
	}

	// 区间声明只允许出现在数值类型上
	if (f.Min != nil || f.Max != nil) && f.Type != FieldTypeInteger && f.Type != FieldTypeNumber {
		return fmt.Errorf("字段 '%s' 不是数值类型，不能声明取值区间", f.Name)
	}

	// 区间上下界不能颠倒
	if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
		return fmt.Errorf("字段 '%s' 的取值区间无效: 下界 %v 大于上界 %v", f.Name, *f.Min, *f.Max)
	}

	return nil
}

// IsNumeric 判断字段是否为数值类型
func (f *Field) IsNumeric() bool {
	return f.Type == FieldTypeInteger || f.Type == FieldTypeNumber
}

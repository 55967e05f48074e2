package mapping

import (
	"fmt"
	"strings"

	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/models/source"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/models/template"
)

// UnknownFieldError 表示绑定操作引用了模板中不存在的字段
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("字段 '%s' 不在模板中", e.Field)
}

// UnknownColumnError 表示绑定操作引用了数据源中不存在的列
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("列 '%s' 不在数据源中", e.Column)
}

// Binding 表示单个规范字段的绑定状态
// 未绑定用 Mapped=false 显式表示，核心逻辑中不使用哨兵字符串
type Binding struct {
	Column string `json:"column,omitempty"` // 绑定的源文件列名
	Mapped bool   `json:"mapped"`           // 是否已绑定
}

// Mapping 表示规范字段名到源文件列的绑定集合
// 键集合始终与模板的字段名完全一致：未绑定的字段也有显式条目
type Mapping map[string]Binding

// New 为模板创建初始映射，所有字段均为未绑定状态
func New(tpl template.Template) Mapping {
	m := make(Mapping, len(tpl.Fields))
	for _, field := range tpl.Fields {
		m[field.Name] = Binding{}
	}
	return m
}

// clone 复制映射
// 所有修改操作都在副本上进行，调用方持有的映射不会被改动
func (m Mapping) clone() Mapping {
	next := make(Mapping, len(m))
	for field, binding := range m {
		next[field] = binding
	}
	return next
}

// SetBinding 将字段绑定到数据源的指定列，返回更新后的映射
// 字段不在模板中返回 UnknownFieldError，列不在数据源中返回 UnknownColumnError
// 失败时不产生任何修改
func SetBinding(m Mapping, tpl template.Template, src source.ParsedSource, field, column string) (Mapping, error) {
	if _, ok := tpl.FieldByName(field); !ok {
		return nil, &UnknownFieldError{Field: field}
	}
	if !src.HasColumn(column) {
		return nil, &UnknownColumnError{Column: column}
	}

	next := m.clone()
	next[field] = Binding{Column: column, Mapped: true}
	return next, nil
}

// ClearBinding 解除字段的绑定，返回更新后的映射
// 字段不在模板中返回 UnknownFieldError
func ClearBinding(m Mapping, tpl template.Template, field string) (Mapping, error) {
	if _, ok := tpl.FieldByName(field); !ok {
		return nil, &UnknownFieldError{Field: field}
	}

	next := m.clone()
	next[field] = Binding{}
	return next, nil
}

// Completeness 表示必填字段的映射完成情况
type Completeness struct {
	RequiredTotal  int  `json:"requiredTotal"`  // 必填字段总数
	RequiredMapped int  `json:"requiredMapped"` // 已绑定的必填字段数
	IsComplete     bool `json:"isComplete"`     // 是否全部绑定
	Progress       int  `json:"progress"`       // 完成百分比，0-100
}

// ValidateCompleteness 检查必填字段的映射完成度
// 没有必填字段时视为100%完成
func ValidateCompleteness(m Mapping, tpl template.Template) Completeness {
	result := Completeness{}
	for _, field := range tpl.Fields {
		if !field.Required {
			continue
		}
		result.RequiredTotal++
		if m[field.Name].Mapped {
			result.RequiredMapped++
		}
	}

	if result.RequiredTotal == 0 {
		result.IsComplete = true
		result.Progress = 100
		return result
	}

	result.IsComplete = result.RequiredMapped == result.RequiredTotal
	result.Progress = result.RequiredMapped * 100 / result.RequiredTotal
	return result
}

// FindDuplicateBindings 查找被多个字段绑定的列
// 返回列名到字段名列表的映射，只包含被至少两个字段绑定的列
// 字段名列表保持模板字段声明顺序，结果确定
func FindDuplicateBindings(m Mapping, tpl template.Template) map[string][]string {
	byColumn := make(map[string][]string)
	for _, field := range tpl.Fields {
		binding := m[field.Name]
		if binding.Mapped {
			byColumn[binding.Column] = append(byColumn[binding.Column], field.Name)
		}
	}

	duplicates := make(map[string][]string)
	for column, fields := range byColumn {
		if len(fields) > 1 {
			duplicates[column] = fields
		}
	}
	return duplicates
}

// NormalizeName 规范化字段名或列名用于自动匹配
// 忽略大小写以及空格、连字符、下划线等分隔符差异
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, sep := range []string{" ", "-", "_", ".", "/"} {
		name = strings.ReplaceAll(name, sep, "")
	}
	return name
}

// MatchesField 判断列名是否与字段名或其别名匹配
func MatchesField(field template.Field, column string) bool {
	normalized := NormalizeName(column)
	if normalized == NormalizeName(field.Name) {
		return true
	}
	for _, alias := range field.Match {
		if normalized == NormalizeName(alias) {
			return true
		}
	}
	return false
}

// AutoMap 根据名称和别名自动生成初始映射
// 按模板字段声明顺序匹配，每个源列最多被绑定一次
// 未匹配到的字段保持未绑定状态，由用户手工调整
func AutoMap(tpl template.Template, src source.ParsedSource) Mapping {
	m := New(tpl)
	used := make(map[string]bool)

	for _, field := range tpl.Fields {
		for _, column := range src.Columns {
			if used[column] {
				continue
			}
			if MatchesField(field, column) {
				m[field.Name] = Binding{Column: column, Mapped: true}
				used[column] = true
				break
			}
		}
	}

	return m
}

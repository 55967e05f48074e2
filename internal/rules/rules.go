package rules

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/mapping"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/models/template"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/models/validation"
)

// dateLayout 是日期字段的规范格式 YYYY-MM-DD
const dateLayout = "2006-01-02"

// checkRequiredFields 检查必填字段是否全部绑定
// 未绑定的必填字段是blocker级问题，会阻止导出
func checkRequiredFields(ctx *evalContext) []validation.Issue {
	var issues []validation.Issue
	for _, field := range ctx.tpl.Fields {
		if !field.Required || ctx.m[field.Name].Mapped {
			continue
		}
		issues = append(issues, validation.Issue{
			ID:          "REQ-" + field.Name,
			Severity:    validation.SeverityBlocker,
			Row:         0,
			Column:      field.Name,
			RuleID:      RuleRequiredFieldMissing,
			Description: fmt.Sprintf("必填规范字段 '%s' 尚未绑定。", field.Name),
			Context:     fmt.Sprintf("请将 '%s' 绑定到文件中的一列。", field.Name),
		})
	}
	return issues
}

// checkDuplicateBindings 检查被多个字段绑定的源列
// 同一列绑定多个字段通常是误操作，但也可能是有意为之，因此只是warning
func checkDuplicateBindings(ctx *evalContext) []validation.Issue {
	duplicates := mapping.FindDuplicateBindings(ctx.m, ctx.tpl)

	// 按列在绑定中首次出现的顺序输出，保证结果确定
	var issues []validation.Issue
	seen := make(map[string]bool)
	for _, field := range ctx.tpl.Fields {
		binding := ctx.m[field.Name]
		if !binding.Mapped || seen[binding.Column] {
			continue
		}
		seen[binding.Column] = true

		fields, ok := duplicates[binding.Column]
		if !ok {
			continue
		}
		issues = append(issues, validation.Issue{
			ID:          "DUP-" + binding.Column,
			Severity:    validation.SeverityWarning,
			Row:         0,
			Column:      binding.Column,
			RuleID:      RuleDuplicateColumnMap,
			Description: fmt.Sprintf("源列 '%s' 被绑定到多个规范字段: %s。", binding.Column, strings.Join(fields, ", ")),
			Context:     "请确认是否有意为之，如非必要请调整绑定。",
		})
	}
	return issues
}

// checkValueRanges 检查数值字段绑定列的样本值
// 声明了取值区间的数值字段，样本值无法解析或超出区间都会被标记
func checkValueRanges(ctx *evalContext) []validation.Issue {
	var issues []validation.Issue
	for _, field := range ctx.tpl.Fields {
		binding := ctx.m[field.Name]
		if !binding.Mapped || !field.IsNumeric() {
			continue
		}
		if field.Min == nil && field.Max == nil {
			continue
		}

		for i, raw := range ctx.src.Samples(binding.Column) {
			value := strings.TrimSpace(raw)
			if value == "" {
				continue
			}

			row := i + 1
			parsed, err := strconv.ParseFloat(value, 64)
			if err != nil {
				issues = append(issues, validation.Issue{
					ID:          fmt.Sprintf("RANGE-%s-%d", field.Name, row),
					Severity:    validation.SeverityWarning,
					Row:         row,
					Column:      binding.Column,
					RuleID:      RuleValueRange,
					Description: fmt.Sprintf("值 '%s' 不是有效数值。", value),
					Context:     fmt.Sprintf("字段 '%s' 期望数值类型，请检查该行数据。", field.Name),
				})
				continue
			}

			if (field.Min != nil && parsed < *field.Min) || (field.Max != nil && parsed > *field.Max) {
				issues = append(issues, validation.Issue{
					ID:          fmt.Sprintf("RANGE-%s-%d", field.Name, row),
					Severity:    validation.SeverityWarning,
					Row:         row,
					Column:      binding.Column,
					RuleID:      RuleValueRange,
					Description: fmt.Sprintf("值 %s 超出期望区间 (%s)。", value, rangeText(field)),
					Context:     "请核实测量值，若该值确实有效请调整模板的期望区间。",
				})
			}
		}
	}
	return issues
}

// rangeText 生成取值区间的展示文本
func rangeText(field template.Field) string {
	switch {
	case field.Min != nil && field.Max != nil:
		return fmt.Sprintf("%v-%v", *field.Min, *field.Max)
	case field.Min != nil:
		return fmt.Sprintf(">=%v", *field.Min)
	default:
		return fmt.Sprintf("<=%v", *field.Max)
	}
}

// checkDateFormats 检查日期字段绑定列的样本值格式
// 规范格式为 YYYY-MM-DD，不匹配的样本值被标记
func checkDateFormats(ctx *evalContext) []validation.Issue {
	var issues []validation.Issue
	for _, field := range ctx.tpl.Fields {
		binding := ctx.m[field.Name]
		if !binding.Mapped || field.Type != template.FieldTypeDate {
			continue
		}

		for i, raw := range ctx.src.Samples(binding.Column) {
			value := strings.TrimSpace(raw)
			if value == "" {
				continue
			}

			if _, err := time.Parse(dateLayout, value); err != nil {
				row := i + 1
				issues = append(issues, validation.Issue{
					ID:          fmt.Sprintf("DATE-%s-%d", field.Name, row),
					Severity:    validation.SeverityWarning,
					Row:         row,
					Column:      binding.Column,
					RuleID:      RuleDateFormat,
					Description: fmt.Sprintf("日期格式无效，期望 YYYY-MM-DD，实际为 '%s'。", value),
					Context:     "请将日期修改为规范格式，例如 2023-03-15。",
				})
			}
		}
	}
	return issues
}

// checkCrossModalLinks 检查跨文件关联键
// 关联键字段绑定列的每个样本值都应在关联数据源的对应列中出现
// 未提供关联数据源或找不到对应列时，该规则不产生问题
func checkCrossModalLinks(ctx *evalContext) []validation.Issue {
	if ctx.linked == nil {
		return nil
	}

	var issues []validation.Issue
	for _, field := range ctx.tpl.Fields {
		binding := ctx.m[field.Name]
		if !binding.Mapped || !field.LinkKey {
			continue
		}

		// 在关联数据源中按名称找到对照列
		linkedColumn := ""
		for _, column := range ctx.linked.Columns {
			if mapping.MatchesField(field, column) ||
				mapping.NormalizeName(column) == mapping.NormalizeName(binding.Column) {
				linkedColumn = column
				break
			}
		}
		if linkedColumn == "" {
			continue
		}

		// 对照列样本值集合
		known := make(map[string]bool)
		for _, value := range ctx.linked.Samples(linkedColumn) {
			known[strings.TrimSpace(value)] = true
		}

		for i, raw := range ctx.src.Samples(binding.Column) {
			value := strings.TrimSpace(raw)
			if value == "" || known[value] {
				continue
			}
			row := i + 1
			issues = append(issues, validation.Issue{
				ID:          fmt.Sprintf("LINK-%s-%d", field.Name, row),
				Severity:    validation.SeverityWarning,
				Row:         row,
				Column:      binding.Column,
				RuleID:      RuleCrossModalLink,
				Description: fmt.Sprintf("关联键 '%s' 在数据源 '%s' 中没有对应记录。", value, ctx.linked.SourceID),
				Context:     "该值在当前文件中存在但在关联文件中缺失，可能是孤立记录或拼写错误。",
			})
		}
	}
	return issues
}

// checkMetadataSuggestions 给出非阻断的元数据完善建议
// 可选字段未绑定但存在名称匹配且未被占用的源列时，提示用户建立绑定
func checkMetadataSuggestions(ctx *evalContext) []validation.Issue {
	// 已被任一字段占用的列不再参与建议
	used := make(map[string]bool)
	for _, binding := range ctx.m {
		if binding.Mapped {
			used[binding.Column] = true
		}
	}

	var issues []validation.Issue
	for _, field := range ctx.tpl.Fields {
		if field.Required || ctx.m[field.Name].Mapped {
			continue
		}

		for _, column := range ctx.src.Columns {
			if used[column] || !mapping.MatchesField(field, column) {
				continue
			}
			issues = append(issues, validation.Issue{
				ID:          "META-" + field.Name,
				Severity:    validation.SeverityInfo,
				Row:         0,
				Column:      column,
				RuleID:      RuleMetadataSuggestion,
				Description: fmt.Sprintf("列 '%s' 看起来对应可选字段 '%s'，建议建立绑定以便后续筛选和分组。", column, field.Name),
				Context:     field.HelpText,
			})
			break
		}
	}
	return issues
}

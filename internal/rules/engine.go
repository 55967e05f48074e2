package rules

import (
	"sort"

	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/mapping"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/models/source"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/models/template"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/models/validation"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/registry"
)

// 规则标识，作为UI过滤的稳定键，不得在规则类型间复用
const (
	RuleRequiredFieldMissing  = "REQUIRED_FIELD_MISSING"
	RuleDuplicateColumnMap    = "DUPLICATE_COLUMN_MAPPING"
	RuleValueRange            = "VALUE_RANGE"
	RuleDateFormat            = "DATE_FORMAT"
	RuleCrossModalLink        = "CROSS_MODAL_LINK"
	RuleMetadataSuggestion    = "METADATA_SUGGESTION"
	RuleSystemError           = "SYSTEM_ERROR"
)

// Input 表示一次验证的完整输入
// 模板和数据源通过ID引用，由引擎负责解析
type Input struct {
	TemplateID string          `json:"templateId"`
	SourceID   string          `json:"sourceId"`
	Mapping    mapping.Mapping `json:"mapping"`

	// LinkedSourceID 显式指定跨文件关联规则的对照数据源
	// 为空表示没有关联数据源，跨文件规则不产生问题
	LinkedSourceID string `json:"linkedSourceId,omitempty"`
}

// evalContext 表示解析完成后的单次验证上下文
type evalContext struct {
	tpl    template.Template
	src    source.ParsedSource
	m      mapping.Mapping
	linked *source.ParsedSource
}

// ruleFunc 表示单条规则的求值函数
// 每条规则独立产出零个或多个问题，严重级别由规则类型固定
type ruleFunc func(ctx *evalContext) []validation.Issue

// battery 是规则的固定声明顺序
// 问题按此顺序输出，同一规则内按行号升序排列
var battery = []ruleFunc{
	checkRequiredFields,
	checkDuplicateBindings,
	checkValueRanges,
	checkDateFormats,
	checkCrossModalLinks,
	checkMetadataSuggestions,
}

// Engine 验证规则引擎
// 对 (数据源, 模板, 映射) 三元组求值，产出分级问题列表
// 求值是确定且完整的：除模板或数据源无法解析外，所有规则都会执行
type Engine struct {
	templates *registry.TemplateRegistry
	sources   *registry.SourceRegistry
}

// NewEngine 创建规则引擎
func NewEngine(templates *registry.TemplateRegistry, sources *registry.SourceRegistry) *Engine {
	return &Engine{
		templates: templates,
		sources:   sources,
	}
}

// Evaluate 执行一次完整验证
// 模板或数据源无法解析时只产出一个 SYSTEM_ERROR 问题并跳过其余规则，
// 这是唯一允许的短路：没有模式和数据时其余规则没有意义
func (e *Engine) Evaluate(input Input) validation.Result {
	ctx := &evalContext{m: input.Mapping}

	tpl, tplErr := e.templates.GetTemplate(input.TemplateID)
	src, srcErr := e.sources.GetSource(input.SourceID)
	if tplErr != nil || srcErr != nil {
		return validation.NewResult([]validation.Issue{{
			ID:          "VAL-000",
			Severity:    validation.SeverityBlocker,
			Row:         0,
			Column:      "N/A",
			RuleID:      RuleSystemError,
			Description: "验证所需的模板或解析数据无法解析。",
			Context:     "请确认已上传文件并选择了有效模板。",
		}})
	}
	ctx.tpl = tpl
	ctx.src = src

	// 关联数据源是可选输入，无法解析时跨文件规则不产生问题
	if input.LinkedSourceID != "" {
		if linked, err := e.sources.GetSource(input.LinkedSourceID); err == nil {
			ctx.linked = &linked
		}
	}

	var issues []validation.Issue
	for _, rule := range battery {
		found := rule(ctx)
		// 同一规则内按行号升序输出，保证结果可复现
		sort.SliceStable(found, func(i, j int) bool {
			return found[i].Row < found[j].Row
		})
		issues = append(issues, found...)
	}

	return validation.NewResult(issues)
}

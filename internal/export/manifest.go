package export

import (
	"fmt"
	"time"

	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/models/template"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/run"
)

// FieldBinding 表示导出清单中单个字段的最终绑定
type FieldBinding struct {
	Field    string `json:"field"`            // 规范字段名
	Column   string `json:"column,omitempty"` // 绑定的源列名
	Mapped   bool   `json:"mapped"`           // 是否已绑定
	Required bool   `json:"required"`         // 是否必填
}

// Manifest 表示一次审核流程的导出清单
// 这是交给下游导出环节的全部信息：就绪标志和最终映射
// 实际的文件打包由外部系统完成
type Manifest struct {
	RunID        string         `json:"runId"`
	TemplateID   string         `json:"templateId"`
	TemplateName string         `json:"templateName"`
	SourceID     string         `json:"sourceId"`
	GeneratedAt  time.Time      `json:"generatedAt"`
	Ready        bool           `json:"ready"`
	Bindings     []FieldBinding `json:"bindings"` // 按模板字段声明顺序
	BlockerCount int            `json:"blockerCount"`
	WarningCount int            `json:"warningCount"`
	InfoCount    int            `json:"infoCount"`
}

// BuildManifest 根据流程状态生成导出清单
// 要求流程已有活动映射和验证结果，否则无法构成有意义的清单
func BuildManifest(r *run.Run, tpl template.Template) (*Manifest, error) {
	if r.Active == nil {
		return nil, fmt.Errorf("流程还没有活动映射，无法生成导出清单")
	}
	if r.LastValidation == nil {
		return nil, fmt.Errorf("流程还没有验证结果，无法生成导出清单")
	}

	manifest := &Manifest{
		RunID:        r.ID,
		TemplateID:   tpl.ID,
		TemplateName: tpl.Name,
		SourceID:     r.Active.SourceID,
		GeneratedAt:  time.Now(),
		Ready:        r.LastValidation.Ready(),
		BlockerCount: r.LastValidation.BlockerCount,
		WarningCount: r.LastValidation.WarningCount,
		InfoCount:    r.LastValidation.InfoCount,
	}

	for _, field := range tpl.Fields {
		binding := r.Active.Mapping[field.Name]
		manifest.Bindings = append(manifest.Bindings, FieldBinding{
			Field:    field.Name,
			Column:   binding.Column,
			Mapped:   binding.Mapped,
			Required: field.Required,
		})
	}

	return manifest, nil
}

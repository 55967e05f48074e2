package export

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/mapping"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/models/template"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/models/validation"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/run"
)

func testTemplate() template.Template {
	return template.Template{
		ID:   "export-test-v1",
		Name: "Export Test v1",
		Fields: []template.Field{
			{Name: "Sample_ID", Type: template.FieldTypeString, Required: true},
			{Name: "Notes", Type: template.FieldTypeString},
		},
	}
}

func testRun(result *validation.Result) *run.Run {
	tpl := testTemplate()
	m := mapping.New(tpl)
	m["Sample_ID"] = mapping.Binding{Column: "SampleID", Mapped: true}

	return &run.Run{
		ID:    "run-1",
		Stage: run.StageExport,
		Active: &run.ActiveMapping{
			SourceID:   "src-1",
			TemplateID: tpl.ID,
			Mapping:    m,
		},
		LastValidation: result,
	}
}

func TestBuildManifest(t *testing.T) {
	result := validation.NewResult([]validation.Issue{
		{ID: "META-Notes", Severity: validation.SeverityInfo, RuleID: "METADATA_SUGGESTION"},
	})
	r := testRun(&result)

	manifest, err := BuildManifest(r, testTemplate())
	assert.NoError(t, err)

	assert.Equal(t, "run-1", manifest.RunID)
	assert.Equal(t, "src-1", manifest.SourceID)
	assert.True(t, manifest.Ready, "没有blocker时清单应标记为就绪")
	assert.Equal(t, 0, manifest.BlockerCount)
	assert.Equal(t, 1, manifest.InfoCount)

	// 绑定列表按模板字段声明顺序
	assert.Len(t, manifest.Bindings, 2)
	assert.Equal(t, FieldBinding{Field: "Sample_ID", Column: "SampleID", Mapped: true, Required: true}, manifest.Bindings[0])
	assert.Equal(t, FieldBinding{Field: "Notes", Mapped: false}, manifest.Bindings[1])
}

func TestBuildManifestNotReadyWithBlockers(t *testing.T) {
	result := validation.NewResult([]validation.Issue{
		{ID: "REQ-Sample_ID", Severity: validation.SeverityBlocker, RuleID: "REQUIRED_FIELD_MISSING"},
	})
	r := testRun(&result)

	manifest, err := BuildManifest(r, testTemplate())
	assert.NoError(t, err)
	assert.False(t, manifest.Ready, "存在blocker时清单不应标记为就绪")
	assert.Equal(t, 1, manifest.BlockerCount)
}

func TestBuildManifestRequiresState(t *testing.T) {
	result := validation.NewResult(nil)
	r := testRun(&result)

	noMapping := *r
	noMapping.Active = nil
	_, err := BuildManifest(&noMapping, testTemplate())
	assert.Error(t, err, "没有活动映射时不能生成清单")

	noValidation := *r
	noValidation.LastValidation = nil
	_, err = BuildManifest(&noValidation, testTemplate())
	assert.Error(t, err, "没有验证结果时不能生成清单")
}

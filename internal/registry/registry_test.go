package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/models/source"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/models/template"
)

func validTemplate(id string) template.Template {
	return template.Template{
		ID:   id,
		Name: "测试模板 " + id,
		Fields: []template.Field{
			{Name: "Sample_ID", Type: template.FieldTypeString, Required: true},
		},
	}
}

func TestTemplateRegistryLookup(t *testing.T) {
	registry, err := NewTemplateRegistry([]template.Template{
		validTemplate("tpl-a"),
		validTemplate("tpl-b"),
	})
	assert.NoError(t, err)

	tpl, err := registry.GetTemplate("tpl-a")
	assert.NoError(t, err)
	assert.Equal(t, "tpl-a", tpl.ID)

	_, err = registry.GetTemplate("tpl-ghost")
	assert.ErrorIs(t, err, ErrNotFound, "查询不存在的模板应返回ErrNotFound")
}

func TestTemplateRegistryPreservesOrder(t *testing.T) {
	registry, err := NewTemplateRegistry([]template.Template{
		validTemplate("tpl-c"),
		validTemplate("tpl-a"),
		validTemplate("tpl-b"),
	})
	assert.NoError(t, err)

	list := registry.ListTemplates()
	assert.Len(t, list, 3)
	assert.Equal(t, "tpl-c", list[0].ID, "列表应保持加载顺序")
	assert.Equal(t, "tpl-a", list[1].ID)
	assert.Equal(t, "tpl-b", list[2].ID)
}

func TestTemplateRegistryRejectsDuplicateID(t *testing.T) {
	_, err := NewTemplateRegistry([]template.Template{
		validTemplate("tpl-a"),
		validTemplate("tpl-a"),
	})
	assert.Error(t, err, "模板ID重复时加载应失败")
}

func TestTemplateRegistryRejectsInvalidTemplate(t *testing.T) {
	bad := validTemplate("tpl-bad")
	bad.Fields = append(bad.Fields, template.Field{Name: "Sample_ID", Type: template.FieldTypeString})

	_, err := NewTemplateRegistry([]template.Template{bad})
	assert.Error(t, err, "字段名重复的模板应导致加载失败")
}

func TestSeedTemplatesLoad(t *testing.T) {
	registry, err := NewTemplateRegistry(template.SeedTemplates())
	assert.NoError(t, err, "内置模板必须全部通过校验")
	assert.Len(t, registry.ListTemplates(), 3)
}

func TestSourceRegistryLifecycle(t *testing.T) {
	registry := NewSourceRegistry()

	src := source.ParsedSource{
		SourceID: "src-1",
		FileName: "samples.csv",
		Columns:  []string{"SampleID"},
	}
	assert.NoError(t, registry.AddSource(src))

	got, err := registry.GetSource("src-1")
	assert.NoError(t, err)
	assert.Equal(t, "samples.csv", got.FileName)

	assert.Error(t, registry.AddSource(src), "重复注册同一SourceID应失败")
	assert.Len(t, registry.ListSources(), 1)

	assert.NoError(t, registry.RemoveSource("src-1"))
	_, err = registry.GetSource("src-1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, registry.RemoveSource("src-1"), ErrNotFound, "重复移除应返回ErrNotFound")
}

func TestSourceRegistryRejectsInvalidSource(t *testing.T) {
	registry := NewSourceRegistry()

	err := registry.AddSource(source.ParsedSource{SourceID: "src-bad", Columns: []string{"A", "A"}})
	assert.Error(t, err, "列名重复的数据源不应被注册")
}

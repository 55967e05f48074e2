package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/models/source"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/models/template"
)

// testTemplate 构造测试用模板，包含两个必填字段和一个可选字段
func testTemplate() template.Template {
	return template.Template{
		ID:   "test-v1",
		Name: "Test Template",
		Fields: []template.Field{
			{Name: "Sample_ID", Type: template.FieldTypeString, Required: true, Match: []string{"SampleID"}},
			{Name: "Library_ID", Type: template.FieldTypeString, Required: true, Match: []string{"LibraryName"}},
			{Name: "Patient_ID", Type: template.FieldTypeString, Required: false, Match: []string{"PatientIdentifier"}},
		},
	}
}

// testSource 构造测试用数据源
func testSource() source.ParsedSource {
	return source.ParsedSource{
		SourceID: "src-1",
		Columns:  []string{"SampleID", "LibraryName", "PatientIdentifier", "Notes"},
		SampleValues: map[string][]string{
			"SampleID":    {"S001", "S002"},
			"LibraryName": {"LIB001", "LIB002"},
		},
	}
}

func TestNewMapping(t *testing.T) {
	tpl := testTemplate()
	m := New(tpl)

	// 键集合与模板字段完全一致，全部显式未绑定
	assert.Len(t, m, 3, "映射条目数应等于模板字段数")
	for _, field := range tpl.Fields {
		binding, exists := m[field.Name]
		assert.True(t, exists, "字段 '%s' 应有显式条目", field.Name)
		assert.False(t, binding.Mapped, "初始映射不应有已绑定字段")
	}
}

func TestSetBinding(t *testing.T) {
	tpl := testTemplate()
	src := testSource()
	m := New(tpl)

	next, err := SetBinding(m, tpl, src, "Sample_ID", "SampleID")
	assert.NoError(t, err, "合法绑定应成功")
	assert.True(t, next["Sample_ID"].Mapped)
	assert.Equal(t, "SampleID", next["Sample_ID"].Column)

	// 原映射不应被修改
	assert.False(t, m["Sample_ID"].Mapped, "SetBinding不应修改调用方持有的映射")
}

func TestSetBindingUnknownField(t *testing.T) {
	tpl := testTemplate()
	src := testSource()
	m := New(tpl)

	_, err := SetBinding(m, tpl, src, "Ghost_Field", "SampleID")
	assert.Error(t, err)

	var unknownField *UnknownFieldError
	assert.ErrorAs(t, err, &unknownField, "应返回UnknownFieldError")
	assert.Equal(t, "Ghost_Field", unknownField.Field)
}

func TestSetBindingUnknownColumn(t *testing.T) {
	tpl := testTemplate()
	src := testSource()
	m := New(tpl)

	_, err := SetBinding(m, tpl, src, "Sample_ID", "GhostColumn")
	assert.Error(t, err)

	var unknownColumn *UnknownColumnError
	assert.ErrorAs(t, err, &unknownColumn, "应返回UnknownColumnError")
	assert.Equal(t, "GhostColumn", unknownColumn.Column)
}

func TestClearBinding(t *testing.T) {
	tpl := testTemplate()
	src := testSource()
	m := New(tpl)

	m, err := SetBinding(m, tpl, src, "Sample_ID", "SampleID")
	assert.NoError(t, err)

	next, err := ClearBinding(m, tpl, "Sample_ID")
	assert.NoError(t, err)
	assert.False(t, next["Sample_ID"].Mapped, "解除绑定后字段应为未绑定状态")
	assert.True(t, m["Sample_ID"].Mapped, "ClearBinding不应修改调用方持有的映射")

	_, err = ClearBinding(m, tpl, "Ghost_Field")
	var unknownField *UnknownFieldError
	assert.ErrorAs(t, err, &unknownField)
}

func TestValidateCompleteness(t *testing.T) {
	tpl := testTemplate()
	src := testSource()

	// 只绑定一个必填字段
	m := New(tpl)
	m, err := SetBinding(m, tpl, src, "Sample_ID", "SampleID")
	assert.NoError(t, err)

	result := ValidateCompleteness(m, tpl)
	assert.Equal(t, 2, result.RequiredTotal)
	assert.Equal(t, 1, result.RequiredMapped)
	assert.False(t, result.IsComplete)
	assert.Equal(t, 50, result.Progress)

	// 绑定全部必填字段
	m, err = SetBinding(m, tpl, src, "Library_ID", "LibraryName")
	assert.NoError(t, err)

	result = ValidateCompleteness(m, tpl)
	assert.Equal(t, 2, result.RequiredMapped)
	assert.True(t, result.IsComplete, "必填字段全部绑定后应为完成状态")
	assert.Equal(t, 100, result.Progress)
}

func TestValidateCompletenessNoRequired(t *testing.T) {
	// 没有必填字段时视为100%完成
	tpl := template.Template{
		ID:   "optional-only",
		Name: "Optional Only",
		Fields: []template.Field{
			{Name: "Notes", Type: template.FieldTypeString, Required: false},
		},
	}

	result := ValidateCompleteness(New(tpl), tpl)
	assert.Equal(t, 0, result.RequiredTotal)
	assert.True(t, result.IsComplete)
	assert.Equal(t, 100, result.Progress)
}

func TestFindDuplicateBindings(t *testing.T) {
	tpl := testTemplate()
	src := testSource()

	m := New(tpl)
	m, _ = SetBinding(m, tpl, src, "Sample_ID", "SampleID")
	m, _ = SetBinding(m, tpl, src, "Patient_ID", "SampleID")
	m, _ = SetBinding(m, tpl, src, "Library_ID", "LibraryName")

	duplicates := FindDuplicateBindings(m, tpl)
	assert.Len(t, duplicates, 1, "只有被多个字段绑定的列才应出现")
	assert.Equal(t, []string{"Sample_ID", "Patient_ID"}, duplicates["SampleID"],
		"字段名列表应保持模板声明顺序")
}

func TestFindDuplicateBindingsEmpty(t *testing.T) {
	tpl := testTemplate()
	src := testSource()

	m := New(tpl)
	m, _ = SetBinding(m, tpl, src, "Sample_ID", "SampleID")

	assert.Empty(t, FindDuplicateBindings(m, tpl), "没有重复绑定时结果应为空")
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "sampleid", NormalizeName("Sample_ID"))
	assert.Equal(t, "sampleid", NormalizeName("sample id"))
	assert.Equal(t, "sampleid", NormalizeName("Sample-ID"))
	assert.Equal(t, "sampleid", NormalizeName("  SampleID  "))
}

func TestAutoMap(t *testing.T) {
	tpl := testTemplate()
	src := testSource()

	m := AutoMap(tpl, src)

	assert.Equal(t, "SampleID", m["Sample_ID"].Column, "应通过别名匹配到SampleID列")
	assert.Equal(t, "LibraryName", m["Library_ID"].Column)
	assert.Equal(t, "PatientIdentifier", m["Patient_ID"].Column)
}

func TestAutoMapNoDoubleBinding(t *testing.T) {
	// 两个字段匹配同一列时，只有声明在前的字段获得绑定
	tpl := template.Template{
		ID:   "collide-v1",
		Name: "Collide",
		Fields: []template.Field{
			{Name: "First", Type: template.FieldTypeString, Match: []string{"Shared"}},
			{Name: "Second", Type: template.FieldTypeString, Match: []string{"Shared"}},
		},
	}
	src := source.ParsedSource{
		SourceID: "src-2",
		Columns:  []string{"Shared"},
	}

	m := AutoMap(tpl, src)
	assert.True(t, m["First"].Mapped, "声明在前的字段应获得绑定")
	assert.False(t, m["Second"].Mapped, "同一列不应被自动绑定两次")
}

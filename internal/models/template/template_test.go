package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldValidate(t *testing.T) {
	min, max := 1.0, 100.0

	valid := Field{Name: "Concentration_ng_ul", Type: FieldTypeNumber, Min: &min, Max: &max}
	assert.NoError(t, valid.Validate())

	noName := Field{Type: FieldTypeString}
	assert.Error(t, noName.Validate(), "字段名称为空应校验失败")

	badType := Field{Name: "X", Type: FieldType("Decimal")}
	assert.Error(t, badType.Validate(), "未知字段类型应校验失败")

	rangeOnString := Field{Name: "X", Type: FieldTypeString, Min: &min}
	assert.Error(t, rangeOnString.Validate(), "非数值类型不能声明取值区间")

	inverted := Field{Name: "X", Type: FieldTypeInteger, Min: &max, Max: &min}
	assert.Error(t, inverted.Validate(), "下界大于上界应校验失败")
}

func TestTemplateValidate(t *testing.T) {
	tpl := Template{
		ID:   "test-v1",
		Name: "Test v1",
		Fields: []Field{
			{Name: "Sample_ID", Type: FieldTypeString, Required: true},
			{Name: "Read_Length", Type: FieldTypeInteger},
		},
	}
	assert.NoError(t, tpl.Validate())

	noID := tpl
	noID.ID = ""
	assert.Error(t, noID.Validate(), "模板ID为空应校验失败")

	noFields := tpl
	noFields.Fields = nil
	assert.Error(t, noFields.Validate(), "没有字段的模板应校验失败")

	duplicated := tpl
	duplicated.Fields = []Field{
		{Name: "Sample_ID", Type: FieldTypeString},
		{Name: "Sample_ID", Type: FieldTypeString},
	}
	assert.Error(t, duplicated.Validate(), "字段名重复应校验失败")

	badField := tpl
	badField.Fields = []Field{{Name: "X", Type: FieldType("Blob")}}
	assert.Error(t, badField.Validate(), "无效字段应导致模板校验失败")
}

func TestFieldByName(t *testing.T) {
	tpl := Template{
		ID:   "test-v1",
		Name: "Test v1",
		Fields: []Field{
			{Name: "Sample_ID", Type: FieldTypeString, Required: true},
		},
	}

	field, ok := tpl.FieldByName("Sample_ID")
	assert.True(t, ok)
	assert.True(t, field.Required)

	_, ok = tpl.FieldByName("Ghost")
	assert.False(t, ok)
}

func TestRequiredFieldsKeepDeclarationOrder(t *testing.T) {
	tpl := Template{
		ID:   "test-v1",
		Name: "Test v1",
		Fields: []Field{
			{Name: "A", Type: FieldTypeString, Required: true},
			{Name: "B", Type: FieldTypeString},
			{Name: "C", Type: FieldTypeString, Required: true},
		},
	}

	required := tpl.RequiredFields()
	assert.Len(t, required, 2)
	assert.Equal(t, "A", required[0].Name)
	assert.Equal(t, "C", required[1].Name)
}

func TestSeedTemplates(t *testing.T) {
	templates := SeedTemplates()
	assert.Len(t, templates, 3)

	ids := make(map[string]Template)
	for _, tpl := range templates {
		assert.NoError(t, tpl.Validate(), "内置模板 '%s' 必须有效", tpl.ID)
		ids[tpl.ID] = tpl
	}

	illumina, exists := ids["illumina-ngs-v1"]
	assert.True(t, exists)
	assert.Len(t, illumina.Fields, 10)

	// 跨文件关联键
	blockID, ok := illumina.FieldByName("Block_ID")
	assert.True(t, ok)
	assert.True(t, blockID.LinkKey, "Illumina模板的Block_ID应为关联键")

	// 数值区间
	concentration, ok := illumina.FieldByName("Concentration_ng_ul")
	assert.True(t, ok)
	assert.NotNil(t, concentration.Min)
	assert.NotNil(t, concentration.Max)

	_, exists = ids["10x-single-cell-v1"]
	assert.True(t, exists)
	_, exists = ids["geomx-spatial-v1"]
	assert.True(t, exists)
}

package csv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// writeCSV 在临时目录写入测试用CSV文件
func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte(content), 0644)
	assert.NoError(t, err)
	return path
}

func TestParseBasicFile(t *testing.T) {
	path := writeCSV(t, "samples.csv",
		"SampleID,PatientIdentifier,MaterialType\n"+
			"S001,PT-01,FFPE\n"+
			"S002,PT-02,Blood\n"+
			"S003,PT-03,FFPE\n")

	parsed, err := NewParser(NewOptions(path)).Parse()
	assert.NoError(t, err)

	assert.NotEmpty(t, parsed.SourceID, "解析结果应分配唯一SourceID")
	assert.Equal(t, "samples.csv", parsed.FileName)
	assert.Equal(t, []string{"SampleID", "PatientIdentifier", "MaterialType"}, parsed.Columns)
	assert.Equal(t, 3, parsed.RowCount)
	assert.Equal(t, []string{"S001", "S002", "S003"}, parsed.Samples("SampleID"))
}

func TestParsePreviewRowsCap(t *testing.T) {
	path := writeCSV(t, "big.csv",
		"SampleID\nS001\nS002\nS003\nS004\nS005\nS006\nS007\n")

	options := NewOptions(path)
	options.PreviewRows = 3

	parsed, err := NewParser(options).Parse()
	assert.NoError(t, err)

	assert.Equal(t, 7, parsed.RowCount, "行数统计应覆盖全部数据行")
	assert.Len(t, parsed.Samples("SampleID"), 3, "样本值数量不应超过预览上限")
}

func TestParseSkipRows(t *testing.T) {
	path := writeCSV(t, "annotated.csv",
		"# exported 2024-01-15\n"+
			"# instrument NovaSeq\n"+
			"SampleID,Platform\n"+
			"S001,NovaSeq\n")

	options := NewOptions(path)
	options.SkipRows = 2

	parsed, err := NewParser(options).Parse()
	assert.NoError(t, err)
	assert.Equal(t, []string{"SampleID", "Platform"}, parsed.Columns)
	assert.Equal(t, 1, parsed.RowCount)
}

func TestParseWithoutHeader(t *testing.T) {
	path := writeCSV(t, "raw.csv", "S001,FFPE\nS002,Blood\n")

	options := NewOptions(path)
	options.HasHeader = false

	parsed, err := NewParser(options).Parse()
	assert.NoError(t, err)
	assert.Equal(t, []string{"Column1", "Column2"}, parsed.Columns, "无表头时应生成默认列名")
	assert.Equal(t, []string{"S001", "S002"}, parsed.Samples("Column1"))
}

func TestParseNormalizesHeaders(t *testing.T) {
	path := writeCSV(t, "messy.csv",
		" Sample ID ,DNA.Concentration,Sample ID,\n"+
			"S001,12.5,S001b,x\n")

	parsed, err := NewParser(NewOptions(path)).Parse()
	assert.NoError(t, err)

	assert.Equal(t, []string{"Sample_ID", "DNA_Concentration", "Sample_ID_2", "Untitled"}, parsed.Columns,
		"列名应规范化且重复列名追加序号")
}

func TestParseHeaderDedupeAvoidsExistingNames(t *testing.T) {
	// 重命名结果不应与文件中已有的列名再次冲突
	path := writeCSV(t, "clash.csv", "a_2,a,a\n1,2,3\n")

	parsed, err := NewParser(NewOptions(path)).Parse()
	assert.NoError(t, err)
	assert.Equal(t, []string{"a_2", "a", "a_3"}, parsed.Columns,
		"追加序号后与已有列冲突时应继续递增")
}

func TestParseSemicolonDelimiter(t *testing.T) {
	path := writeCSV(t, "euro.csv", "SampleID;Platform\nS001;NovaSeq\n")

	options := NewOptions(path)
	options.Delimiter = ";"

	parsed, err := NewParser(options).Parse()
	assert.NoError(t, err)
	assert.Equal(t, []string{"SampleID", "Platform"}, parsed.Columns)
}

func TestParseShortRowsPadSamples(t *testing.T) {
	path := writeCSV(t, "ragged.csv",
		"SampleID,Platform\n"+
			"S001,NovaSeq\n"+
			"S002\n")

	parsed, err := NewParser(NewOptions(path)).Parse()
	assert.NoError(t, err)
	assert.Equal(t, []string{"NovaSeq", ""}, parsed.Samples("Platform"), "短行缺失的列应补空字符串")
}

func TestParseRejectsEmptyFile(t *testing.T) {
	path := writeCSV(t, "empty.csv", "")

	_, err := NewParser(NewOptions(path)).Parse()
	assert.Error(t, err, "空文件应解析失败")
}

func TestOptionsValidate(t *testing.T) {
	missing := NewOptions(filepath.Join(t.TempDir(), "ghost.csv"))
	assert.Error(t, missing.Validate(), "文件不存在应校验失败")

	wrongExt := NewOptions(writeCSV(t, "data.txt", "a,b\n"))
	assert.Error(t, wrongExt.Validate(), "非.csv扩展名应校验失败")

	valid := NewOptions(writeCSV(t, "data.csv", "a,b\n"))
	assert.NoError(t, valid.Validate())

	valid.SkipRows = -1
	assert.Error(t, valid.Validate(), "跳过行数为负应校验失败")
}

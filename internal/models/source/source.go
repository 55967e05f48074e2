package source

import (
	"fmt"
)

// ParsedSource 表示一个已解析完成的上传数据集
// 只保留列名和每列的少量样本值预览，不保存完整数据
// 由上传解析环节创建，注册后不可变，数据源被移除时销毁
type ParsedSource struct {
	SourceID     string              `json:"sourceId"`     // 数据源唯一标识符
	FileName     string              `json:"fileName"`     // 原始文件名，仅用于展示
	Columns      []string            `json:"columns"`      // 列名列表，保持文件中的顺序
	SampleValues map[string][]string `json:"sampleValues"` // 列名到样本值序列的映射
	RowCount     int                 `json:"rowCount"`     // 文件的数据总行数
}

// Validate 验证解析结果是否有效
// 在注册到数据源注册表之前调用
func (s *ParsedSource) Validate() error {
	if s.SourceID == "" {
		return fmt.Errorf("数据源ID不能为空")
	}

	if len(s.Columns) == 0 {
		return fmt.Errorf("数据源必须至少有一列")
	}

	// 检查列名是否重复
	seen := make(map[string]bool)
	for _, column := range s.Columns {
		if column == "" {
			return fmt.Errorf("列名不能为空")
		}
		if seen[column] {
			return fmt.Errorf("列名 '%s' 重复", column)
		}
		seen[column] = true
	}

	// 样本值只能属于已声明的列
	for column := range s.SampleValues {
		if !seen[column] {
			return fmt.Errorf("样本值引用了未声明的列 '%s'", column)
		}
	}

	return nil
}

// HasColumn 判断数据源是否包含指定列
func (s *ParsedSource) HasColumn(name string) bool {
	for _, column := range s.Columns {
		if column == name {
			return true
		}
	}
	return false
}

// Samples 返回指定列的样本值序列
// 列不存在或没有样本时返回空切片
func (s *ParsedSource) Samples(column string) []string {
	return s.SampleValues[column]
}

package csv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Options 定义CSV文件的解析配置
type Options struct {
	FilePath    string `json:"filePath"`    // CSV文件路径
	Delimiter   string `json:"delimiter"`   // 分隔符，默认为逗号
	HasHeader   bool   `json:"hasHeader"`   // 是否有表头
	SkipRows    int    `json:"skipRows"`    // 跳过起始行数
	PreviewRows int    `json:"previewRows"` // 每列保留的样本值数量
}

// NewOptions 创建CSV解析配置，使用默认值
func NewOptions(filePath string) *Options {
	return &Options{
		FilePath:    filePath,
		Delimiter:   ",",
		HasHeader:   true,
		SkipRows:    0,
		PreviewRows: 5,
	}
}

// Validate 验证解析配置的有效性
func (o *Options) Validate() error {
	// 检查文件路径
	if o.FilePath == "" {
		return errors.New("文件路径不能为空")
	}

	// 验证文件是否存在
	info, err := os.Stat(o.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("文件不存在: %s", o.FilePath)
		}
		return fmt.Errorf("无法访问文件: %w", err)
	}

	// 确保是文件而不是目录
	if info.IsDir() {
		return errors.New("路径指向的是目录，而不是文件")
	}

	// 验证文件扩展名
	ext := strings.ToLower(filepath.Ext(o.FilePath))
	if ext != ".csv" {
		return fmt.Errorf("不支持的文件类型，期望 .csv，实际为 %s", ext)
	}

	// 验证分隔符
	if len(o.Delimiter) == 0 {
		return errors.New("分隔符不能为空")
	}

	// 验证跳过行数
	if o.SkipRows < 0 {
		return errors.New("跳过行数不能为负数")
	}

	// 验证样本数量
	if o.PreviewRows <= 0 {
		return errors.New("样本值数量必须大于0")
	}

	return nil
}

// GetDelimiterRune 返回分隔符的rune表示
func (o *Options) GetDelimiterRune() rune {
	if len(o.Delimiter) == 0 {
		return ','
	}
	return rune(o.Delimiter[0])
}

package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/models/source"
)

// Parser CSV文件解析器
// 只提取列名和每列的少量样本值，不保留完整数据
type Parser struct {
	options *Options
}

// NewParser 创建一个新的CSV解析器
func NewParser(options *Options) *Parser {
	return &Parser{
		options: options,
	}
}

// Parse 解析CSV文件，返回可注册的数据源
func (p *Parser) Parse() (*source.ParsedSource, error) {
	// 首先验证解析配置
	if err := p.options.Validate(); err != nil {
		return nil, fmt.Errorf("解析配置无效: %w", err)
	}

	// 打开文件
	file, err := os.Open(p.options.FilePath)
	if err != nil {
		return nil, fmt.Errorf("无法打开文件: %w", err)
	}
	defer file.Close()

	// 创建CSV读取器
	reader := csv.NewReader(file)
	reader.Comma = p.options.GetDelimiterRune()
	reader.LazyQuotes = true // 允许宽松的引号处理
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // 允许行字段数不一致，由验证规则处理

	// 跳过指定的行数
	for i := 0; i < p.options.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("文件行数少于需要跳过的行数")
			}
			return nil, fmt.Errorf("跳过行时出错: %w", err)
		}
	}

	// 读取标题行
	var headers []string
	if p.options.HasHeader {
		headers, err = reader.Read()
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("文件为空，缺少标题行")
			}
			return nil, fmt.Errorf("读取标题行失败: %w", err)
		}
		// 规范化标题并保证唯一
		headers = normalizeHeaders(headers)
	}

	// 逐行读取，只保留前几行作为样本值
	samples := make(map[string][]string)
	rowCount := 0
	for {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("读取数据行失败: %w", err)
		}

		// 如果没有标题行，用第一行的列数生成默认标题
		if headers == nil {
			headers = make([]string, len(row))
			for i := range headers {
				headers[i] = fmt.Sprintf("Column%d", i+1)
			}
		}

		if rowCount < p.options.PreviewRows {
			for i, header := range headers {
				value := ""
				if i < len(row) {
					value = strings.TrimSpace(row[i])
				}
				samples[header] = append(samples[header], value)
			}
		}
		rowCount++
	}

	if len(headers) == 0 {
		return nil, fmt.Errorf("文件为空，无法提取列信息")
	}

	parsed := &source.ParsedSource{
		SourceID:     uuid.New().String(),
		FileName:     filepath.Base(p.options.FilePath),
		Columns:      headers,
		SampleValues: samples,
		RowCount:     rowCount,
	}

	if err := parsed.Validate(); err != nil {
		return nil, fmt.Errorf("解析结果无效: %w", err)
	}

	return parsed, nil
}

// normalizeHeaders 规范化列标题并消除重复
func normalizeHeaders(headers []string) []string {
	seen := make(map[string]int)
	result := make([]string, len(headers))
	for i, header := range headers {
		header = normalizeHeader(header)
		// 重复列名追加序号，保证列名在数据源内唯一
		// 追加后的名字也可能与已有列冲突，递增序号直到唯一
		if _, exists := seen[header]; exists {
			base := header
			suffix := seen[base] + 1
			for {
				header = fmt.Sprintf("%s_%d", base, suffix)
				if _, taken := seen[header]; !taken {
					break
				}
				suffix++
			}
			seen[base] = suffix
		}
		seen[header] = 1
		result[i] = header
	}
	return result
}

// normalizeHeader 规范化单个列标题
func normalizeHeader(header string) string {
	// 去除前后空白
	header = strings.TrimSpace(header)

	// 如果为空，使用默认值
	if header == "" {
		return "Untitled"
	}

	// 替换特殊字符为下划线
	for _, c := range []string{" ", "-", ".", "/", "\\", ":", ";"} {
		header = strings.ReplaceAll(header, c, "_")
	}

	return header
}

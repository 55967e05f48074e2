package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/models/template"
)

// MySQLStore 提供MySQL模板存储功能
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore 创建新的MySQL模板存储
// dsn 格式: user:password@tcp(host:port)/database
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("MySQL DSN不能为空")
	}

	// 连接MySQL数据库
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("连接MySQL数据库失败: %w", err)
	}

	// 测试连接
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("MySQL数据库无响应: %w", err)
	}

	store := &MySQLStore{db: db}

	// 确保模板表存在
	if err := store.ensureTable(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// ensureTable 确保模板表存在
func (s *MySQLStore) ensureTable() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS templates (
		id VARCHAR(128) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		fields JSON NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("创建模板表失败: %w", err)
	}
	return nil
}

// LoadTemplates 从MySQL加载全部模板定义
func (s *MySQLStore) LoadTemplates(ctx context.Context) ([]template.Template, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, fields FROM templates ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("查询模板列表失败: %w", err)
	}
	defer rows.Close()

	var templates []template.Template
	for rows.Next() {
		var tpl template.Template
		var fieldsJSON string
		if err := rows.Scan(&tpl.ID, &tpl.Name, &fieldsJSON); err != nil {
			return nil, fmt.Errorf("读取模板记录失败: %w", err)
		}
		if err := json.Unmarshal([]byte(fieldsJSON), &tpl.Fields); err != nil {
			return nil, fmt.Errorf("解析模板 '%s' 的字段定义失败: %w", tpl.ID, err)
		}
		templates = append(templates, tpl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历模板记录失败: %w", err)
	}

	return templates, nil
}

// SaveTemplates 将模板定义写入MySQL，按ID覆盖已有记录
func (s *MySQLStore) SaveTemplates(ctx context.Context, templates []template.Template) error {
	for _, tpl := range templates {
		if err := tpl.Validate(); err != nil {
			return fmt.Errorf("模板 '%s' 无效: %w", tpl.ID, err)
		}

		fieldsJSON, err := json.Marshal(tpl.Fields)
		if err != nil {
			return fmt.Errorf("序列化模板 '%s' 的字段定义失败: %w", tpl.ID, err)
		}

		_, err = s.db.ExecContext(ctx,
			`INSERT INTO templates (id, name, fields) VALUES (?, ?, ?)
			 ON DUPLICATE KEY UPDATE name = VALUES(name), fields = VALUES(fields)`,
			tpl.ID, tpl.Name, string(fieldsJSON))
		if err != nil {
			return fmt.Errorf("写入模板 '%s' 失败: %w", tpl.ID, err)
		}
	}

	return nil
}

// Close 关闭连接
func (s *MySQLStore) Close() error {
	return s.db.Close()
}

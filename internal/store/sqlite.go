package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/models/template"
)

// SQLiteStore 提供SQLite模板存储功能
// 模板的字段列表以JSON形式存放在单列中，结构简单且读写都是整体操作
type SQLiteStore struct {
	db       *sql.DB
	filePath string
}

// NewSQLiteStore 创建新的SQLite模板存储
func NewSQLiteStore(filePath string) (*SQLiteStore, error) {
	if filePath == "" {
		return nil, fmt.Errorf("SQLite文件路径不能为空")
	}

	// 连接SQLite数据库
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, fmt.Errorf("连接SQLite数据库失败: %w", err)
	}

	// 测试连接
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("SQLite数据库无响应: %w", err)
	}

	store := &SQLiteStore{
		db:       db,
		filePath: filePath,
	}

	// 确保模板表存在
	if err := store.ensureTable(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// ensureTable 确保模板表存在
func (s *SQLiteStore) ensureTable() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS templates (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		fields TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("创建模板表失败: %w", err)
	}
	return nil
}

// LoadTemplates 从SQLite加载全部模板定义
func (s *SQLiteStore) LoadTemplates(ctx context.Context) ([]template.Template, error) {
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

// SaveTemplates 将模板定义写入SQLite，按ID覆盖已有记录
func (s *SQLiteStore) SaveTemplates(ctx context.Context, templates []template.Template) error {
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
			 ON CONFLICT(id) DO UPDATE SET name = excluded.name, fields = excluded.fields`,
			tpl.ID, tpl.Name, string(fieldsJSON))
		if err != nil {
			return fmt.Errorf("写入模板 '%s' 失败: %w", tpl.ID, err)
		}
	}

	return nil
}

// Close 关闭连接
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

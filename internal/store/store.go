package store

import (
	"context"
	"fmt"
	"time"

	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/config"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/models/template"
)

// TemplateStore 定义模板存储的统一接口
// 模板由外部系统管理，进程启动时一次性加载到只读注册表
type TemplateStore interface {
	// LoadTemplates 加载全部模板定义
	LoadTemplates(ctx context.Context) ([]template.Template, error)

	// SaveTemplates 写入模板定义，已存在的按ID覆盖
	// 供种子工具使用，服务进程本身不会调用
	SaveTemplates(ctx context.Context, templates []template.Template) error

	// Close 释放存储连接
	Close() error
}

// SeedStore 内置模板存储
// 不依赖任何外部数据库，返回代码中定义的种子模板
type SeedStore struct{}

// NewSeedStore 创建内置模板存储
func NewSeedStore() *SeedStore {
	return &SeedStore{}
}

// LoadTemplates 返回内置种子模板
func (s *SeedStore) LoadTemplates(ctx context.Context) ([]template.Template, error) {
	return template.SeedTemplates(), nil
}

// SaveTemplates 内置存储不支持写入
func (s *SeedStore) SaveTemplates(ctx context.Context, templates []template.Template) error {
	return fmt.Errorf("内置模板存储不支持写入")
}

// Close 内置存储无需释放资源
func (s *SeedStore) Close() error {
	return nil
}

// NewFromConfig 根据配置创建模板存储
func NewFromConfig(cfg *config.Config) (TemplateStore, error) {
	switch cfg.Templates.Store {
	case "", "seed":
		return NewSeedStore(), nil
	case "mongodb":
		return NewMongoStore(cfg.Templates.URI, cfg.Templates.Database, cfg.Templates.Collection, time.Duration(cfg.Templates.Timeout)*time.Second)
	case "mysql":
		return NewMySQLStore(cfg.Templates.DSN)
	case "sqlite":
		return NewSQLiteStore(cfg.Templates.DSN)
	default:
		return nil, fmt.Errorf("不支持的模板存储类型: %s", cfg.Templates.Store)
	}
}

package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/models/source"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/models/template"
)

// ErrNotFound 表示按ID查找的对象不存在
// 调用方应视为当前操作失败，而不是系统级错误
var ErrNotFound = errors.New("不存在")

// TemplateRegistry 保存所有可用的审核模板
// 模板在进程启动时一次性加载，之后只读，查询无副作用
type TemplateRegistry struct {
	templates map[string]template.Template
	order     []string // 保持加载顺序，列表查询结果稳定
}

// NewTemplateRegistry 创建模板注册表并加载给定模板
// 任何一个模板定义无效都会导致加载失败
func NewTemplateRegistry(templates []template.Template) (*TemplateRegistry, error) {
	registry := &TemplateRegistry{
		templates: make(map[string]template.Template),
	}

	for _, tpl := range templates {
		if err := tpl.Validate(); err != nil {
			return nil, fmt.Errorf("加载模板 '%s' 失败: %w", tpl.ID, err)
		}
		if _, exists := registry.templates[tpl.ID]; exists {
			return nil, fmt.Errorf("模板ID '%s' 重复", tpl.ID)
		}
		registry.templates[tpl.ID] = tpl
		registry.order = append(registry.order, tpl.ID)
	}

	return registry, nil
}

// GetTemplate 根据ID获取模板定义
func (r *TemplateRegistry) GetTemplate(id string) (template.Template, error) {
	tpl, exists := r.templates[id]
	if !exists {
		return template.Template{}, fmt.Errorf("模板 '%s' %w", id, ErrNotFound)
	}
	return tpl, nil
}

// ListTemplates 按加载顺序列出所有模板定义
func (r *TemplateRegistry) ListTemplates() []template.Template {
	result := make([]template.Template, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.templates[id])
	}
	return result
}

// SourceRegistry 保存所有已解析的上传数据源
// 数据源注册后不可变，移除时整体销毁
type SourceRegistry struct {
	sources map[string]source.ParsedSource
	mutex   sync.RWMutex
}

// NewSourceRegistry 创建空的数据源注册表
func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{
		sources: make(map[string]source.ParsedSource),
	}
}

// AddSource 注册一个解析完成的数据源
func (r *SourceRegistry) AddSource(src source.ParsedSource) error {
	if err := src.Validate(); err != nil {
		return fmt.Errorf("数据源无效: %w", err)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.sources[src.SourceID]; exists {
		return fmt.Errorf("数据源ID '%s' 已存在", src.SourceID)
	}
	r.sources[src.SourceID] = src
	return nil
}

// GetSource 根据ID获取数据源
func (r *SourceRegistry) GetSource(id string) (source.ParsedSource, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	src, exists := r.sources[id]
	if !exists {
		return source.ParsedSource{}, fmt.Errorf("数据源 '%s' %w", id, ErrNotFound)
	}
	return src, nil
}

// ListSources 列出所有已注册的数据源
func (r *SourceRegistry) ListSources() []source.ParsedSource {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]source.ParsedSource, 0, len(r.sources))
	for _, src := range r.sources {
		result = append(result, src)
	}
	return result
}

// RemoveSource 移除数据源
// 数据源不存在时返回 ErrNotFound
func (r *SourceRegistry) RemoveSource(id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.sources[id]; !exists {
		return fmt.Errorf("数据源 '%s' %w", id, ErrNotFound)
	}
	delete(r.sources, id)
	return nil
}

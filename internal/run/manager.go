package run

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/mapping"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/registry"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/rules"
)

// runEntry 表示一个被管理的流程
// 每个流程有自己的互斥锁，同一流程的修改串行执行，不同流程互不影响
type runEntry struct {
	run *Run
	mu  sync.Mutex
}

// Manager 管理所有审核流程
// 流程是系统中唯一的可变对象，所有修改都必须通过 Update 进入
type Manager struct {
	runs            map[string]*runEntry
	mutex           sync.RWMutex
	templates       *registry.TemplateRegistry
	engine          *rules.Engine
	sources         *registry.SourceRegistry
	idleTimeout     time.Duration // 流程空闲超时时间
	cleanupInterval time.Duration // 过期流程清理间隔
}

// NewManager 创建流程管理器
// 启动后台goroutine定期清理长时间无活动的流程
func NewManager(templates *registry.TemplateRegistry, engine *rules.Engine, sources *registry.SourceRegistry, idleTimeout, cleanupInterval time.Duration) *Manager {
	manager := &Manager{
		runs:            make(map[string]*runEntry),
		templates:       templates,
		engine:          engine,
		sources:         sources,
		idleTimeout:     idleTimeout,
		cleanupInterval: cleanupInterval,
	}

	// 启动定期清理过期流程的goroutine
	go manager.cleanup()

	return manager
}

// CreateRun 创建新的审核流程，初始阶段为上传
func (m *Manager) CreateRun() *Run {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := time.Now()
	r := &Run{
		ID:         uuid.New().String(),
		Stage:      StageUpload,
		CreatedAt:  now,
		LastActive: now,
	}
	m.runs[r.ID] = &runEntry{run: r}

	return r.snapshot()
}

// GetRun 获取流程状态的拷贝
func (m *Manager) GetRun(id string) (*Run, error) {
	entry, err := m.entry(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.run.snapshot(), nil
}

// ListRuns 列出所有活动流程的拷贝
func (m *Manager) ListRuns() []*Run {
	m.mutex.RLock()
	entries := make([]*runEntry, 0, len(m.runs))
	for _, entry := range m.runs {
		entries = append(entries, entry)
	}
	m.mutex.RUnlock()

	result := make([]*Run, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		result = append(result, entry.run.snapshot())
		entry.mu.Unlock()
	}
	return result
}

// Update 在流程自身的锁内执行修改函数
// fn 返回错误时修改视为失败，但fn已做出的变更不会回滚，
// 因此fn必须先完成所有检查再修改状态
func (m *Manager) Update(id string, fn func(*Run) error) (*Run, error) {
	entry, err := m.entry(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := fn(entry.run); err != nil {
		return nil, err
	}
	entry.run.LastActive = time.Now()
	return entry.run.snapshot(), nil
}

// Advance 推进流程到目标阶段
// 每个阶段有自己的准入条件，条件不满足时流程状态保持不变：
//   - map:      至少有一个数据源且已选择模板
//   - validate: 必填字段全部绑定，成功后执行验证并保存结果
//   - export:   最近一次验证没有blocker级问题
func (m *Manager) Advance(id string, target Stage) (*Run, error) {
	return m.Update(id, func(r *Run) error {
		if err := r.checkTransition(target); err != nil {
			return err
		}

		// 原地重入是幂等操作，不重复执行准入检查
		if target == r.Stage {
			return nil
		}

		switch target {
		case StageMap:
			if len(r.SourceIDs) == 0 {
				return ErrNoSource
			}
			if r.Active == nil {
				return ErrNoActiveMapping
			}

		case StageValidate:
			if r.Active == nil {
				return ErrNoActiveMapping
			}
			tpl, err := m.templates.GetTemplate(r.Active.TemplateID)
			if err != nil {
				return err
			}
			completeness := mapping.ValidateCompleteness(r.Active.Mapping, tpl)
			if !completeness.IsComplete {
				return fmt.Errorf("%w: %d/%d", ErrMappingIncomplete, completeness.RequiredMapped, completeness.RequiredTotal)
			}

			result := m.engine.Evaluate(rules.Input{
				TemplateID:     r.Active.TemplateID,
				SourceID:       r.Active.SourceID,
				Mapping:        r.Active.Mapping,
				LinkedSourceID: r.LinkedSourceID,
			})
			r.LastValidation = &result

		case StageExport:
			if r.LastValidation == nil {
				return ErrNotValidated
			}
			if r.LastValidation.BlockerCount > 0 {
				return &ExportBlockedError{Blockers: r.LastValidation.BlockerCount}
			}
		}

		r.Stage = target
		return nil
	})
}

// Revalidate 重新执行验证并替换上一次的结果，不改变流程阶段
// 供验证阶段反复修正数据后重新检查使用
func (m *Manager) Revalidate(id string) (*Run, error) {
	return m.Update(id, func(r *Run) error {
		if r.Active == nil {
			return ErrNoActiveMapping
		}
		tpl, err := m.templates.GetTemplate(r.Active.TemplateID)
		if err != nil {
			return err
		}
		completeness := mapping.ValidateCompleteness(r.Active.Mapping, tpl)
		if !completeness.IsComplete {
			return fmt.Errorf("%w: %d/%d", ErrMappingIncomplete, completeness.RequiredMapped, completeness.RequiredTotal)
		}

		result := m.engine.Evaluate(rules.Input{
			TemplateID:     r.Active.TemplateID,
			SourceID:       r.Active.SourceID,
			Mapping:        r.Active.Mapping,
			LinkedSourceID: r.LinkedSourceID,
		})
		r.LastValidation = &result
		return nil
	})
}

// Reset 将流程恢复到初始状态，总是成功
// 流程引用的解析数据源随之销毁，重置后不再可查
func (m *Manager) Reset(id string) (*Run, error) {
	return m.Update(id, func(r *Run) error {
		m.releaseSources(r.SourceIDs)
		r.Reset()
		return nil
	})
}

// CloseRun 关闭并删除流程，连同其引用的解析数据源
func (m *Manager) CloseRun(id string) error {
	m.mutex.Lock()
	entry, exists := m.runs[id]
	if !exists {
		m.mutex.Unlock()
		return fmt.Errorf("流程 '%s' %w", id, registry.ErrNotFound)
	}
	delete(m.runs, id)
	m.mutex.Unlock()

	entry.mu.Lock()
	sourceIDs := append([]string(nil), entry.run.SourceIDs...)
	entry.mu.Unlock()
	m.releaseSources(sourceIDs)
	return nil
}

// releaseSources 从数据源注册表中销毁流程引用的解析结果
// 数据源ID是每次上传生成的，流程不再引用后没有其他入口能访问它们
func (m *Manager) releaseSources(sourceIDs []string) {
	for _, sourceID := range sourceIDs {
		_ = m.sources.RemoveSource(sourceID)
	}
}

// entry 查找流程条目
func (m *Manager) entry(id string) (*runEntry, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	entry, exists := m.runs[id]
	if !exists {
		return nil, fmt.Errorf("流程 '%s' %w", id, registry.ErrNotFound)
	}
	return entry, nil
}

// cleanup 定期清理长时间无活动的流程
func (m *Manager) cleanup() {
	if m.cleanupInterval <= 0 {
		return
	}

	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		m.mutex.Lock()
		now := time.Now()
		for id, entry := range m.runs {
			entry.mu.Lock()
			expired := now.Sub(entry.run.LastActive) > m.idleTimeout
			var sourceIDs []string
			if expired {
				sourceIDs = append([]string(nil), entry.run.SourceIDs...)
			}
			entry.mu.Unlock()
			if expired {
				delete(m.runs, id)
				m.releaseSources(sourceIDs)
			}
		}
		m.mutex.Unlock()
	}
}

package run

import (
	"errors"
	"time"

	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/mapping"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/models/validation"
)

// 阶段推进的前置条件错误
var (
	ErrNoSource          = errors.New("流程中还没有可用的数据源")
	ErrNoActiveMapping   = errors.New("尚未选择数据源和模板")
	ErrMappingIncomplete = errors.New("必填字段尚未全部绑定")
	ErrNotValidated      = errors.New("尚未执行验证")
)

// ActiveMapping 表示流程当前正在编辑的映射
// 一个流程同一时刻只有一个 (数据源, 模板) 组合的活动映射
type ActiveMapping struct {
	SourceID   string          `json:"sourceId"`
	TemplateID string          `json:"templateId"`
	Mapping    mapping.Mapping `json:"mapping"`
}

// Run 表示一次完整的审核流程
// 从上传到导出的全部可变状态都集中在这里，修改必须经过 Manager 串行化
type Run struct {
	ID             string             `json:"id"`
	Stage          Stage              `json:"stage"`
	SourceIDs      []string           `json:"sourceIds"`                // 已注册数据源，保持加入顺序
	Active         *ActiveMapping     `json:"activeMapping,omitempty"`  // 当前活动映射
	LinkedSourceID string             `json:"linkedSourceId,omitempty"` // 跨文件关联对照数据源
	LastValidation *validation.Result `json:"lastValidation,omitempty"` // 最近一次验证结果
	CreatedAt      time.Time          `json:"createdAt"`
	LastActive     time.Time          `json:"lastActive"`
}

// AttachSource 将数据源加入流程
func (r *Run) AttachSource(sourceID string) {
	for _, id := range r.SourceIDs {
		if id == sourceID {
			return
		}
	}
	r.SourceIDs = append(r.SourceIDs, sourceID)
}

// DetachSource 将数据源移出流程
// 若活动映射或关联数据源引用了它，一并清除
func (r *Run) DetachSource(sourceID string) {
	kept := r.SourceIDs[:0]
	for _, id := range r.SourceIDs {
		if id != sourceID {
			kept = append(kept, id)
		}
	}
	r.SourceIDs = kept

	if r.Active != nil && r.Active.SourceID == sourceID {
		r.Active = nil
		r.LastValidation = nil
	}
	if r.LinkedSourceID == sourceID {
		r.LinkedSourceID = ""
	}
}

// HasSource 判断数据源是否属于该流程
func (r *Run) HasSource(sourceID string) bool {
	for _, id := range r.SourceIDs {
		if id == sourceID {
			return true
		}
	}
	return false
}

// checkTransition 校验阶段跳转是否合法
// 允许原地重入（幂等）或前进一步，其余全部拒绝且状态不变
func (r *Run) checkTransition(target Stage) error {
	if target == r.Stage || target == r.Stage+1 {
		return nil
	}
	return &InvalidTransitionError{From: r.Stage, To: target}
}

// Reset 将流程恢复到初始空状态
// 从任意阶段都可以调用，总是成功
func (r *Run) Reset() {
	r.Stage = StageUpload
	r.SourceIDs = nil
	r.Active = nil
	r.LinkedSourceID = ""
	r.LastValidation = nil
}

// snapshot 返回流程状态的深拷贝
// Manager 对外只暴露拷贝，避免调用方绕过串行化直接修改内部状态
func (r *Run) snapshot() *Run {
	copied := *r

	copied.SourceIDs = append([]string(nil), r.SourceIDs...)

	if r.Active != nil {
		active := *r.Active
		active.Mapping = make(mapping.Mapping, len(r.Active.Mapping))
		for field, binding := range r.Active.Mapping {
			active.Mapping[field] = binding
		}
		copied.Active = &active
	}

	if r.LastValidation != nil {
		result := *r.LastValidation
		result.Issues = append([]validation.Issue(nil), r.LastValidation.Issues...)
		copied.LastValidation = &result
	}

	return &copied
}

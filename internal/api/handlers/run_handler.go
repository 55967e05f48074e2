package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/export"
	ingest "github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/ingest/csv"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/mapping"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/registry"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/run"
)

// unmappedSentinel 是HTTP边界上表示"未绑定"的哨兵值
// 仅在请求和响应的序列化中出现，核心逻辑使用显式的绑定状态
const unmappedSentinel = "unmapped"

// RunHandler 处理审核流程相关请求
type RunHandler struct {
	runs        *run.Manager
	templates   *registry.TemplateRegistry
	sources     *registry.SourceRegistry
	previewRows int
}

// NewRunHandler 创建新的流程处理器
func NewRunHandler(runs *run.Manager, templates *registry.TemplateRegistry, sources *registry.SourceRegistry, previewRows int) *RunHandler {
	return &RunHandler{
		runs:        runs,
		templates:   templates,
		sources:     sources,
		previewRows: previewRows,
	}
}

// respondError 将错误翻译为HTTP状态码并输出统一的失败响应
// 错误分类是固定的：找不到对象是404，导出被阻止是409，其余都是调用方输入问题
func respondError(c *gin.Context, err error) {
	status := http.StatusBadRequest

	var blocked *run.ExportBlockedError
	switch {
	case errors.Is(err, registry.ErrNotFound):
		status = http.StatusNotFound
	case errors.As(err, &blocked):
		c.JSON(http.StatusConflict, gin.H{
			"success":  false,
			"error":    err.Error(),
			"blockers": blocked.Blockers,
		})
		return
	}

	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

// CreateRun 创建新的审核流程
func (h *RunHandler) CreateRun(c *gin.Context) {
	r := h.runs.CreateRun()
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"run":     r,
	})
}

// ListRuns 列出所有活动流程
func (h *RunHandler) ListRuns(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"runs":    h.runs.ListRuns(),
	})
}

// GetRun 获取流程当前状态
func (h *RunHandler) GetRun(c *gin.Context) {
	r, err := h.runs.GetRun(c.Param("runId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"run":     r,
	})
}

// ResetRun 将流程恢复到初始状态
func (h *RunHandler) ResetRun(c *gin.Context) {
	r, err := h.runs.Reset(c.Param("runId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"run":     r,
	})
}

// CloseRun 关闭并删除流程
func (h *RunHandler) CloseRun(c *gin.Context) {
	if err := h.runs.CloseRun(c.Param("runId")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "流程已关闭",
	})
}

// AddSourceRequest 注册数据源请求
type AddSourceRequest struct {
	FilePath  string `json:"filePath" binding:"required"`
	Delimiter string `json:"delimiter"`
	HasHeader *bool  `json:"hasHeader"`
	SkipRows  int    `json:"skipRows"`
}

// AddSource 解析CSV文件并将数据源加入流程
func (h *RunHandler) AddSource(c *gin.Context) {
	var req AddSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "无效的请求参数: " + err.Error()})
		return
	}

	options := ingest.NewOptions(req.FilePath)
	options.PreviewRows = h.previewRows
	if req.Delimiter != "" {
		options.Delimiter = req.Delimiter
	}
	if req.HasHeader != nil {
		options.HasHeader = *req.HasHeader
	}
	options.SkipRows = req.SkipRows

	parser := ingest.NewParser(options)
	parsed, err := parser.Parse()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "解析CSV文件失败: " + err.Error()})
		return
	}

	if err := h.sources.AddSource(*parsed); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "注册数据源失败: " + err.Error()})
		return
	}

	r, err := h.runs.Update(c.Param("runId"), func(r *run.Run) error {
		r.AttachSource(parsed.SourceID)
		return nil
	})
	if err != nil {
		// 流程不存在时回收刚注册的数据源
		_ = h.sources.RemoveSource(parsed.SourceID)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"source":  parsed,
		"run":     r,
	})
}

// RemoveSource 将数据源移出流程并销毁解析结果
func (h *RunHandler) RemoveSource(c *gin.Context) {
	sourceID := c.Param("sourceId")

	r, err := h.runs.Update(c.Param("runId"), func(r *run.Run) error {
		if !r.HasSource(sourceID) {
			return fmt.Errorf("数据源 '%s' %w", sourceID, registry.ErrNotFound)
		}
		r.DetachSource(sourceID)
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.sources.RemoveSource(sourceID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"run":     r,
	})
}

// SelectMappingRequest 选择映射目标请求
type SelectMappingRequest struct {
	SourceID       string `json:"sourceId" binding:"required"`
	TemplateID     string `json:"templateId" binding:"required"`
	AutoMap        bool   `json:"autoMap"`
	LinkedSourceID string `json:"linkedSourceId"`
}

// SelectMapping 为流程选择 (数据源, 模板) 组合并初始化映射
// autoMap 为真时按名称和别名自动生成初始绑定
func (h *RunHandler) SelectMapping(c *gin.Context) {
	var req SelectMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "无效的请求参数: " + err.Error()})
		return
	}

	tpl, err := h.templates.GetTemplate(req.TemplateID)
	if err != nil {
		respondError(c, err)
		return
	}
	src, err := h.sources.GetSource(req.SourceID)
	if err != nil {
		respondError(c, err)
		return
	}

	r, err := h.runs.Update(c.Param("runId"), func(r *run.Run) error {
		if !r.HasSource(req.SourceID) {
			return fmt.Errorf("数据源 '%s' 不属于该流程", req.SourceID)
		}
		if req.LinkedSourceID != "" && !r.HasSource(req.LinkedSourceID) {
			return fmt.Errorf("关联数据源 '%s' 不属于该流程", req.LinkedSourceID)
		}

		m := mapping.New(tpl)
		if req.AutoMap {
			m = mapping.AutoMap(tpl, src)
		}

		r.Active = &run.ActiveMapping{
			SourceID:   req.SourceID,
			TemplateID: req.TemplateID,
			Mapping:    m,
		}
		r.LinkedSourceID = req.LinkedSourceID
		// 换了映射目标后，上一次的验证结果不再有效
		r.LastValidation = nil
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"run":     r,
	})
}

// SetBindingRequest 调整单个绑定请求
// column 为空或为 "unmapped" 表示解除绑定
type SetBindingRequest struct {
	Field  string `json:"field" binding:"required"`
	Column string `json:"column"`
}

// SetBinding 调整活动映射中单个字段的绑定
func (h *RunHandler) SetBinding(c *gin.Context) {
	var req SetBindingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "无效的请求参数: " + err.Error()})
		return
	}

	r, err := h.runs.Update(c.Param("runId"), func(r *run.Run) error {
		if r.Active == nil {
			return run.ErrNoActiveMapping
		}

		tpl, err := h.templates.GetTemplate(r.Active.TemplateID)
		if err != nil {
			return err
		}

		var next mapping.Mapping
		if req.Column == "" || req.Column == unmappedSentinel {
			next, err = mapping.ClearBinding(r.Active.Mapping, tpl, req.Field)
		} else {
			src, srcErr := h.sources.GetSource(r.Active.SourceID)
			if srcErr != nil {
				return srcErr
			}
			next, err = mapping.SetBinding(r.Active.Mapping, tpl, src, req.Field, req.Column)
		}
		if err != nil {
			return err
		}

		r.Active.Mapping = next
		// 绑定变化后，上一次的验证结果不再有效
		r.LastValidation = nil
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"run":     r,
	})
}

// GetCompleteness 获取活动映射的必填字段完成度
func (h *RunHandler) GetCompleteness(c *gin.Context) {
	r, err := h.runs.GetRun(c.Param("runId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if r.Active == nil {
		respondError(c, run.ErrNoActiveMapping)
		return
	}

	tpl, err := h.templates.GetTemplate(r.Active.TemplateID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"completeness": mapping.ValidateCompleteness(r.Active.Mapping, tpl),
	})
}

// GetDuplicates 获取活动映射中被多个字段绑定的列
func (h *RunHandler) GetDuplicates(c *gin.Context) {
	r, err := h.runs.GetRun(c.Param("runId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if r.Active == nil {
		respondError(c, run.ErrNoActiveMapping)
		return
	}

	tpl, err := h.templates.GetTemplate(r.Active.TemplateID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"duplicates": mapping.FindDuplicateBindings(r.Active.Mapping, tpl),
	})
}

// AdvanceRequest 阶段推进请求
type AdvanceRequest struct {
	Target string `json:"target" binding:"required"`
}

// Advance 推进流程到目标阶段
func (h *RunHandler) Advance(c *gin.Context) {
	var req AdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "无效的请求参数: " + err.Error()})
		return
	}

	target, err := run.ParseStage(req.Target)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	r, err := h.runs.Advance(c.Param("runId"), target)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"run":     r,
	})
}

// Validate 重新执行验证，替换上一次的结果
func (h *RunHandler) Validate(c *gin.Context) {
	r, err := h.runs.Revalidate(c.Param("runId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"validation": r.LastValidation,
		"run":        r,
	})
}

// Export 生成导出清单
// 还有blocker级问题时返回409并携带数量，供前端展示
func (h *RunHandler) Export(c *gin.Context) {
	r, err := h.runs.GetRun(c.Param("runId"))
	if err != nil {
		respondError(c, err)
		return
	}

	if r.LastValidation == nil {
		respondError(c, run.ErrNotValidated)
		return
	}
	if r.LastValidation.BlockerCount > 0 {
		respondError(c, &run.ExportBlockedError{Blockers: r.LastValidation.BlockerCount})
		return
	}

	tpl, err := h.templates.GetTemplate(r.Active.TemplateID)
	if err != nil {
		respondError(c, err)
		return
	}

	manifest, err := export.BuildManifest(r, tpl)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"manifest": manifest,
	})
}

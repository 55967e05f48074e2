package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/registry"
)

// TemplateHandler 处理模板相关请求
type TemplateHandler struct {
	templates *registry.TemplateRegistry
}

// NewTemplateHandler 创建新的模板处理器
func NewTemplateHandler(templates *registry.TemplateRegistry) *TemplateHandler {
	return &TemplateHandler{
		templates: templates,
	}
}

// ListTemplates 列出所有审核模板
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"templates": h.templates.ListTemplates(),
	})
}

// GetTemplate 获取单个审核模板
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	id := c.Param("templateId")

	tpl, err := h.templates.GetTemplate(id)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "获取模板失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"template": tpl,
	})
}

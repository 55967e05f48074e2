package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/api/handlers"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/registry"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/run"
)

// SetupRoutes 配置所有API路由
func SetupRoutes(router *gin.Engine, templates *registry.TemplateRegistry, sources *registry.SourceRegistry, runs *run.Manager, previewRows int) {
	// 使用gin-contrib/cors库配置CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "Accept", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 健康检查路由
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	templateHandler := handlers.NewTemplateHandler(templates)
	runHandler := handlers.NewRunHandler(runs, templates, sources, previewRows)

	api := router.Group("/api")
	{
		// 模板相关路由，只读
		templateRoutes := api.Group("/templates")
		{
			templateRoutes.GET("", templateHandler.ListTemplates)
			templateRoutes.GET("/:templateId", templateHandler.GetTemplate)
		}

		// 审核流程相关路由
		runRoutes := api.Group("/runs")
		{
			runRoutes.POST("", runHandler.CreateRun)
			runRoutes.GET("", runHandler.ListRuns)
			runRoutes.GET("/:runId", runHandler.GetRun)
			runRoutes.DELETE("/:runId", runHandler.CloseRun)
			runRoutes.POST("/:runId/reset", runHandler.ResetRun)

			// 数据源管理
			runRoutes.POST("/:runId/sources", runHandler.AddSource)
			runRoutes.DELETE("/:runId/sources/:sourceId", runHandler.RemoveSource)

			// 映射编辑
			runRoutes.PUT("/:runId/mapping", runHandler.SelectMapping)
			runRoutes.PATCH("/:runId/mapping/bindings", runHandler.SetBinding)
			runRoutes.GET("/:runId/mapping/completeness", runHandler.GetCompleteness)
			runRoutes.GET("/:runId/mapping/duplicates", runHandler.GetDuplicates)

			// 阶段推进与验证
			runRoutes.POST("/:runId/advance", runHandler.Advance)
			runRoutes.POST("/:runId/validate", runHandler.Validate)

			// 导出清单
			runRoutes.GET("/:runId/export", runHandler.Export)
		}
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/config"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/registry"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/routes"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/rules"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/run"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/store"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 创建模板存储并一次性加载模板
	templateStore, err := store.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("创建模板存储失败: %v", err)
	}
	defer templateStore.Close()

	log.Printf("正在从 %s 存储加载模板...", cfg.Templates.Store)
	templates, err := templateStore.LoadTemplates(context.Background())
	if err != nil {
		log.Fatalf("加载模板失败: %v", err)
	}
	if len(templates) == 0 {
		log.Fatalf("模板存储为空，请先运行种子工具写入模板")
	}

	templateRegistry, err := registry.NewTemplateRegistry(templates)
	if err != nil {
		log.Fatalf("初始化模板注册表失败: %v", err)
	}
	log.Printf("已加载 %d 个审核模板", len(templates))

	// 初始化数据源注册表、规则引擎和流程管理器
	sourceRegistry := registry.NewSourceRegistry()
	engine := rules.NewEngine(templateRegistry, sourceRegistry)
	manager := run.NewManager(
		templateRegistry,
		engine,
		sourceRegistry,
		time.Duration(cfg.Run.IdleTimeout)*time.Minute,
		time.Duration(cfg.Run.CleanupInterval)*time.Minute,
	)

	// 设置Gin模式
	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()

	// 设置API路由
	routes.SetupRoutes(router, templateRegistry, sourceRegistry, manager, cfg.Ingest.PreviewRows)

	// 启动HTTP服务器
	go func() {
		if err := router.Run(cfg.Server.Address); err != nil {
			log.Fatalf("启动服务器失败: %v", err)
		}
	}()

	log.Printf("服务器已启动，监听地址: %s", cfg.Server.Address)

	// 等待中断信号优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("正在关闭服务器...")
}

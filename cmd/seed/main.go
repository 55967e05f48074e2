package main

import (
	"context"
	"log"

	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/config"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/models/template"
	"github.com/sadafaamer-creator/Multiomic-Data-Orchestrator-new/internal/store"
)

// 种子工具：将内置审核模板写入配置指定的外部模板存储
// 已存在的模板按ID覆盖，可以重复执行
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	if cfg.Templates.Store == "" || cfg.Templates.Store == "seed" {
		log.Fatalf("当前配置使用内置模板，无需写入外部存储")
	}

	templateStore, err := store.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("创建模板存储失败: %v", err)
	}
	defer templateStore.Close()

	templates := template.SeedTemplates()
	log.Printf("正在向 %s 存储写入 %d 个模板...", cfg.Templates.Store, len(templates))

	if err := templateStore.SaveTemplates(context.Background(), templates); err != nil {
		log.Fatalf("写入模板失败: %v", err)
	}

	for _, tpl := range templates {
		log.Printf("已写入模板: %s (%s)", tpl.Name, tpl.ID)
	}
	log.Println("模板写入完成")
}

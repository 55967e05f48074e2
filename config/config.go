package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config 包含应用程序的所有配置
type Config struct {
	// Server 包含HTTP服务器配置
	Server struct {
		Address string `mapstructure:"address"` // 服务器监听地址，如 :8080
		Mode    string `mapstructure:"mode"`    // Gin模式: debug, release, test
	} `mapstructure:"server"`

	// Templates 包含模板存储配置
	// 模板在进程启动时一次性加载，运行期间只读
	Templates struct {
		Store string `mapstructure:"store"` // 模板存储类型: seed, mongodb, mysql, sqlite
		URI   string `mapstructure:"uri"`   // MongoDB连接URI
		DSN   string `mapstructure:"dsn"`   // MySQL DSN 或 SQLite 文件路径

		Database   string `mapstructure:"database"`   // MongoDB数据库名称
		Collection string `mapstructure:"collection"` // MongoDB集合名称
		Timeout    int    `mapstructure:"timeout"`    // 连接超时，单位秒
	} `mapstructure:"templates"`

	// Ingest 包含CSV解析配置
	Ingest struct {
		PreviewRows int `mapstructure:"preview_rows"` // 每列保留的样本值数量
	} `mapstructure:"ingest"`

	// Run 包含审核流程会话配置
	Run struct {
		IdleTimeout     int `mapstructure:"idle_timeout"`     // 流程空闲超时，单位分钟
		CleanupInterval int `mapstructure:"cleanup_interval"` // 过期流程清理间隔，单位分钟
	} `mapstructure:"run"`
}

// Load 从配置文件加载配置
func Load() (*Config, error) {
	// 设置默认值
	setDefaults()

	// 设置配置文件名
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// 添加配置文件路径
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("../config")

	// 读取环境变量
	viper.AutomaticEnv()

	// 读取配置文件，找不到时只使用默认值
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	return &config, nil
}

// setDefaults 设置配置默认值
func setDefaults() {
	// 服务器默认设置
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.mode", "release")

	// 模板存储默认设置：使用内置种子模板，不依赖外部数据库
	viper.SetDefault("templates.store", "seed")
	viper.SetDefault("templates.uri", "mongodb://localhost:27017/?directConnection=true")
	viper.SetDefault("templates.dsn", "")
	viper.SetDefault("templates.database", "multiomic_orchestrator")
	viper.SetDefault("templates.collection", "templates")
	viper.SetDefault("templates.timeout", 20) // 20秒

	// CSV解析默认设置
	viper.SetDefault("ingest.preview_rows", 5)

	// 流程会话默认设置
	viper.SetDefault("run.idle_timeout", 30)     // 30分钟
	viper.SetDefault("run.cleanup_interval", 30) // 30分钟
}

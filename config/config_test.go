package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	assert.NoError(t, err, "没有配置文件时应使用默认值")

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "seed", cfg.Templates.Store)
	assert.Equal(t, 5, cfg.Ingest.PreviewRows)

	// 超时配置是不带单位的整数，使用处按秒/分钟换算
	assert.Equal(t, 20, cfg.Templates.Timeout)
	assert.Equal(t, 30, cfg.Run.IdleTimeout)
	assert.Equal(t, 30, cfg.Run.CleanupInterval)
}

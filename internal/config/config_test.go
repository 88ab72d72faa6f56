package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewDefaultConfig 测试默认配置
func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultAddr, cfg.Redis.Addr)
	assert.Equal(t, DefaultPageSize, cfg.Browse.PageSize)
	assert.Equal(t, DefaultSeparator, cfg.Browse.Separator)
	assert.Equal(t, DefaultScanFloor, cfg.Browse.ScanFloor)
}

// TestConfig_Validate 测试配置校验
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"默认配置合法", func(c *Config) {}, false},
		{"缺少地址", func(c *Config) { c.Redis.Addr = "" }, true},
		{"负数 DB", func(c *Config) { c.Redis.DB = -1 }, true},
		{"页大小过小", func(c *Config) { c.Browse.PageSize = 1 }, true},
		{"页大小过大", func(c *Config) { c.Browse.PageSize = MaxPageSize + 1 }, true},
		{"非法扫描下限", func(c *Config) { c.Browse.ScanFloor = 0 }, true},
		{"负数限速", func(c *Config) { c.Browse.ScanRate = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestManager_Load 测试配置文件加载
func TestManager_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keyscope.yaml")

	content := []byte(`
redis:
  addr: "10.0.0.5:6380"
  db: 3
browse:
  page_size: 500
  separator: "/"
`)
	require.NoError(t, os.WriteFile(path, content, 0644))

	m := NewManager()
	cfg, err := m.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5:6380", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 500, cfg.Browse.PageSize)
	assert.Equal(t, "/", cfg.Browse.Separator)
	// 未设置的字段应填充默认值
	assert.Equal(t, DefaultPoolSize, cfg.Redis.PoolSize)
	assert.Equal(t, DefaultScanFloor, cfg.Browse.ScanFloor)
}

// TestManager_Load_Invalid 测试非法配置
func TestManager_Load_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("redis: [not a map]"), 0644))

	m := NewManager()
	_, err := m.Load(path)
	assert.Error(t, err)
}

// TestManager_Load_NoFile 没有配置文件时返回默认配置
func TestManager_Load_NoFile(t *testing.T) {
	m := &Manager{searchPaths: []string{filepath.Join(t.TempDir(), "missing.yaml")}}
	cfg, err := m.Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAddr, cfg.Redis.Addr)
}

// Package config 提供 keyscope 的配置加载与校验
package config

import (
	"fmt"
	"time"

	"keyscope-core/internal/core/log"
)

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Addr         string        `json:"addr" yaml:"addr"`                   // Redis 地址，如 "localhost:6379"
	Password     string        `json:"password" yaml:"password"`           // Redis 密码
	DB           int           `json:"db" yaml:"db"`                       // 数据库编号
	PoolSize     int           `json:"pool_size" yaml:"pool_size"`         // 连接池大小
	DialTimeout  time.Duration `json:"dial_timeout" yaml:"dial_timeout"`   // 连接超时
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`   // 读超时
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"` // 写超时
}

// BrowseConfig 键空间浏览配置
type BrowseConfig struct {
	PageSize  int     `json:"page_size" yaml:"page_size"`   // 每页最少键数
	ScanFloor int     `json:"scan_floor" yaml:"scan_floor"` // 单次 SCAN COUNT 的下限，避免逐键自旋
	Separator string  `json:"separator" yaml:"separator"`   // 命名空间分隔符
	ScanRate  float64 `json:"scan_rate" yaml:"scan_rate"`   // 每秒 SCAN 调用上限，0 表示不限
}

// Config keyscope 配置
type Config struct {
	Redis  RedisConfig  `json:"redis" yaml:"redis"`
	Browse BrowseConfig `json:"browse" yaml:"browse"`
	Log    log.Config   `json:"log" yaml:"log"`
}

// 默认值
const (
	DefaultAddr      = "127.0.0.1:6379"
	DefaultPoolSize  = 10
	DefaultPageSize  = 2000
	DefaultScanFloor = 10
	DefaultSeparator = ":"

	// 页大小的允许范围，与原始实现的输入框限制一致
	MinPageSize = 10
	MaxPageSize = 1000000
)

// NewDefaultConfig 创建默认配置
func NewDefaultConfig() *Config {
	return &Config{
		Redis: RedisConfig{
			Addr:        DefaultAddr,
			PoolSize:    DefaultPoolSize,
			DialTimeout: 5 * time.Second,
		},
		Browse: BrowseConfig{
			PageSize:  DefaultPageSize,
			ScanFloor: DefaultScanFloor,
			Separator: DefaultSeparator,
		},
	}
}

// ApplyDefaults 填充未设置的字段
func (c *Config) ApplyDefaults() {
	if c.Redis.Addr == "" {
		c.Redis.Addr = DefaultAddr
	}
	if c.Redis.PoolSize <= 0 {
		c.Redis.PoolSize = DefaultPoolSize
	}
	if c.Redis.DialTimeout <= 0 {
		c.Redis.DialTimeout = 5 * time.Second
	}
	if c.Browse.PageSize <= 0 {
		c.Browse.PageSize = DefaultPageSize
	}
	if c.Browse.ScanFloor <= 0 {
		c.Browse.ScanFloor = DefaultScanFloor
	}
	if c.Browse.Separator == "" {
		c.Browse.Separator = DefaultSeparator
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("redis db must be >= 0, got %d", c.Redis.DB)
	}
	if c.Browse.PageSize < MinPageSize || c.Browse.PageSize > MaxPageSize {
		return fmt.Errorf("browse page_size must be in [%d, %d], got %d", MinPageSize, MaxPageSize, c.Browse.PageSize)
	}
	if c.Browse.ScanFloor < 1 {
		return fmt.Errorf("browse scan_floor must be >= 1, got %d", c.Browse.ScanFloor)
	}
	if c.Browse.ScanRate < 0 {
		return fmt.Errorf("browse scan_rate must be >= 0, got %f", c.Browse.ScanRate)
	}
	return nil
}

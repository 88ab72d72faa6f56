package config

import (
	"fmt"
	"os"
	"path/filepath"

	corelog "keyscope-core/internal/core/log"

	"gopkg.in/yaml.v3"
)

// Manager 配置管理器
type Manager struct {
	searchPaths []string // 配置文件搜索路径（按优先级排序）
}

// NewManager 创建配置管理器
func NewManager() *Manager {
	workDir, _ := os.Getwd()
	homeDir, _ := os.UserHomeDir()

	return &Manager{
		searchPaths: []string{
			filepath.Join(workDir, "keyscope.yaml"),
			filepath.Join(homeDir, ".keyscope", "config.yaml"),
		},
	}
}

// Load 加载配置（按优先级尝试多个路径）
func (m *Manager) Load(cmdConfigPath string) (*Config, error) {
	// 1. 命令行指定的配置文件
	if cmdConfigPath != "" {
		config, err := m.loadFromFile(cmdConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", cmdConfigPath, err)
		}
		corelog.Infof("config: loaded from %s (command line)", cmdConfigPath)
		return config, nil
	}

	// 2. 标准搜索路径
	for _, path := range m.searchPaths {
		config, err := m.loadFromFile(path)
		if err == nil {
			corelog.Infof("config: loaded from %s", path)
			return config, nil
		}
		// 文件不存在是正常情况，继续尝试下一个
		if !os.IsNotExist(err) {
			corelog.Warnf("config: failed to load %s: %v", path, err)
		}
	}

	// 3. 没有配置文件，使用默认配置
	corelog.Debugf("config: no config file found, using defaults")
	return NewDefaultConfig(), nil
}

// loadFromFile 从文件加载并校验配置
func (m *Manager) loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse yaml failed: %w", err)
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

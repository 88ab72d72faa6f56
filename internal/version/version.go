// Package version 提供构建版本信息
package version

import (
	"runtime/debug"
)

var (
	// Version 版本号，构建时通过 -ldflags 注入
	Version = "dev"

	// GitCommit Git 提交哈希，通过 -ldflags 注入
	GitCommit = ""
)

func init() {
	// 未注入版本号时尝试从模块构建信息里取
	if Version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			Version = info.Main.Version
		}
	}
}

// GetVersion 获取完整版本信息
func GetVersion() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	if v != "dev" && v[0] != 'v' {
		v = "v" + v
	}
	if len(GitCommit) >= 8 {
		v += " commit " + GitCommit[:8]
	}
	return v
}

package config

import (
	"os"
	"path/filepath"
)

// BackendBinary is the file name of the backend executable.
const BackendBinary = "main"

// Executable returns the backend path. An explicit Path wins. Otherwise a packaged
// install uses <resources_dir>/main and a development checkout uses
// <app_dir>/server/dist/main. Unset directories default to agentDir.
func (b BackendConfig) Executable(agentDir string) string {
	if b.Path != "" {
		return b.Path
	}
	if b.Packaged {
		return filepath.Join(orDefault(b.ResourcesDir, agentDir), BackendBinary)
	}
	return filepath.Join(orDefault(b.AppDir, agentDir), "server", "dist", BackendBinary)
}

// AgentDir returns the directory holding the running agent binary.
func AgentDir() string {
	exe, err := os.Executable()
	if err != nil {
		wd, _ := os.Getwd()
		return wd
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

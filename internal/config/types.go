package config

import "time"

// Config is the top-level structure loaded from claw-manager.yaml.
// Every field has a default, so an empty or missing file is a valid configuration.
type Config struct {
	CLI      CLI               `yaml:"cli"`
	Runtime  Runtime           `yaml:"runtime"`
	Channels map[string]string `yaml:"test_targets"` // channel name -> env file key holding its test target
}

// CLI describes the openclaw executable and the files it owns.
// - Name: executable base name (without .cmd on Windows).
// - Path: explicit executable path; skips discovery when set.
// - SearchPaths: extra directories probed before the built-in candidates.
// - HomeDir: the CLI state directory (~/.openclaw).
// - EnvFile / ConfigFile: the CLI's env file and JSON configuration.
// - GatewayToken: exported as OPENCLAW_GATEWAY_TOKEN to every invocation.
// - GatewayPort: port the gateway listens on; its health is checked through the CLI.
// - Timeout: upper bound for a single CLI invocation.
// - InstallHint: shown when the CLI cannot be found.
type CLI struct {
	Name         string        `yaml:"name"`
	Path         string        `yaml:"path"`
	SearchPaths  []string      `yaml:"search_paths"`
	HomeDir      string        `yaml:"home_dir"`
	EnvFile      string        `yaml:"env_file"`
	ConfigFile   string        `yaml:"config_file"`
	GatewayToken string        `yaml:"gateway_token"`
	GatewayPort  int           `yaml:"gateway_port"`
	Timeout      time.Duration `yaml:"timeout"`
	InstallHint  string        `yaml:"install_hint"`
}

// Runtime describes the bundled offline runtime.
// - Enabled: use the runtime for discovery and PATH even when it was prepared on another run.
// - Root: directory the archives are unpacked into.
// - ResourceDirs: directories searched for the bundled archives.
// - StateFile: JSON file recording prepared components.
type Runtime struct {
	Enabled      bool     `yaml:"enabled"`
	Root         string   `yaml:"root"`
	ResourceDirs []string `yaml:"resource_dirs"`
	StateFile    string   `yaml:"state_file"`
}

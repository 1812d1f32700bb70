package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultGatewayToken is the token the manager hands to the local gateway.
	DefaultGatewayToken = "openclaw-manager-local-token"
	// DefaultGatewayPort is the port "openclaw gateway" listens on.
	DefaultGatewayPort = 18789
	// DefaultInstallHint tells the user how to get the CLI.
	DefaultInstallHint = "npm install -g openclaw@latest"
)

// Default returns the configuration used when no file is present.
// Paths are rooted at the user's home directory.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	cliHome := filepath.Join(home, ".openclaw")

	return Config{
		CLI: CLI{
			Name:         "openclaw",
			HomeDir:      cliHome,
			EnvFile:      filepath.Join(cliHome, "env"),
			ConfigFile:   filepath.Join(cliHome, "openclaw.json"),
			GatewayToken: DefaultGatewayToken,
			GatewayPort:  DefaultGatewayPort,
			Timeout:      2 * time.Minute,
			InstallHint:  DefaultInstallHint,
		},
		Runtime: Runtime{
			Root:      defaultRuntimeRoot(home),
			StateFile: filepath.Join(cliHome, "manager-state.json"),
		},
		Channels: map[string]string{
			"telegram": "OPENCLAW_TELEGRAM_USERID",
			"discord":  "OPENCLAW_DISCORD_TESTCHANNELID",
			"slack":    "OPENCLAW_SLACK_TESTCHANNELID",
			"feishu":   "OPENCLAW_FEISHU_TESTCHATID",
		},
	}
}

// defaultRuntimeRoot mirrors where desktop apps keep unpacked data on each platform.
func defaultRuntimeRoot(home string) string {
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "OpenClawManager", "runtime")
	}
	return filepath.Join(home, ".openclaw", "runtime")
}

// Load reads the YAML configuration at path on top of Default().
// A missing file is not an error; the defaults are returned as they are.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	cfg.merge(file)
	return cfg, nil
}

// merge overlays every non-zero field of other onto c.
func (c *Config) merge(other Config) {
	setString(&c.CLI.Name, other.CLI.Name)
	setString(&c.CLI.Path, expandHome(other.CLI.Path))
	setString(&c.CLI.EnvFile, expandHome(other.CLI.EnvFile))
	setString(&c.CLI.ConfigFile, expandHome(other.CLI.ConfigFile))
	setString(&c.CLI.GatewayToken, other.CLI.GatewayToken)
	setString(&c.CLI.InstallHint, other.CLI.InstallHint)
	if other.CLI.HomeDir != "" {
		home := expandHome(other.CLI.HomeDir)
		// env and config files follow a relocated home unless set explicitly
		if other.CLI.EnvFile == "" {
			c.CLI.EnvFile = filepath.Join(home, "env")
		}
		if other.CLI.ConfigFile == "" {
			c.CLI.ConfigFile = filepath.Join(home, "openclaw.json")
		}
		c.CLI.HomeDir = home
	}
	for _, p := range other.CLI.SearchPaths {
		c.CLI.SearchPaths = append(c.CLI.SearchPaths, expandHome(p))
	}
	if other.CLI.GatewayPort != 0 {
		c.CLI.GatewayPort = other.CLI.GatewayPort
	}
	if other.CLI.Timeout != 0 {
		c.CLI.Timeout = other.CLI.Timeout
	}

	c.Runtime.Enabled = c.Runtime.Enabled || other.Runtime.Enabled
	setString(&c.Runtime.Root, expandHome(other.Runtime.Root))
	setString(&c.Runtime.StateFile, expandHome(other.Runtime.StateFile))
	for _, d := range other.Runtime.ResourceDirs {
		c.Runtime.ResourceDirs = append(c.Runtime.ResourceDirs, expandHome(d))
	}

	for name, key := range other.Channels {
		c.Channels[strings.ToLower(name)] = key
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}

// Package sysinfo gathers host facts (OS, shell, available tools, recent
// commands) used as context in language-model prompts. Results are cached for
// the lifetime of the collector since a single invocation never outlives
// them.
package sysinfo

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"aicmd/internal/shellinfo"
)

// probedTools is the fixed list of tools the collector checks for on PATH.
var probedTools = []string{
	"git", "docker", "kubectl", "helm",
	"python", "python3", "pip", "pip3",
	"node", "npm", "yarn", "pnpm",
	"go", "cargo", "rustc",
	"gcc", "make", "cmake",
	"curl", "wget", "ssh", "rsync",
	"vim", "nano", "code",
	"grep", "sed", "awk", "jq",
	"tar", "zip", "unzip",
	"systemctl", "brew",
	"apt", "apt-get", "yum", "dnf", "pacman",
}

// recentCommandLimit is how many history entries feed the prompt context.
const recentCommandLimit = 5

// Collector caches host facts across prompt builds.
type Collector struct {
	shell shellinfo.Accessor

	osInfo         string
	availableTools []string
	recentCommands []string
	probed         bool
}

// NewCollector creates a Collector backed by the given shell accessor.
func NewCollector(shell shellinfo.Accessor) *Collector {
	return &Collector{shell: shell}
}

// OSInfo returns a human-readable operating system description. On Linux the
// distribution name from /etc/os-release is preferred.
func (c *Collector) OSInfo() string {
	if c.osInfo != "" {
		return c.osInfo
	}

	c.osInfo = fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
	if runtime.GOOS == "linux" {
		if distro := linuxDistro(); distro != "" {
			c.osInfo = fmt.Sprintf("%s (%s/%s)", distro, runtime.GOOS, runtime.GOARCH)
		}
	}
	return c.osInfo
}

func linuxDistro() string {
	data, err := os.ReadFile("/etc/os-release")
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		if value, found := strings.CutPrefix(line, "PRETTY_NAME="); found {
			return strings.Trim(strings.TrimSpace(value), `"`)
		}
	}
	return ""
}

// Shell returns the short name of the user's shell.
func (c *Collector) Shell() string {
	return c.shell.Shell()
}

// AvailableTools returns the subset of probedTools present on PATH.
func (c *Collector) AvailableTools() []string {
	if c.probed {
		return c.availableTools
	}

	for _, tool := range probedTools {
		if _, err := exec.LookPath(tool); err == nil {
			c.availableTools = append(c.availableTools, tool)
		}
	}
	c.probed = true
	return c.availableTools
}

// RecentCommands returns the last few commands from the shell's history.
func (c *Collector) RecentCommands() []string {
	if c.recentCommands == nil {
		if accessor, ok := c.shell.(*shellinfo.SystemAccessor); ok {
			c.recentCommands = accessor.RecentHistoryEntries(recentCommandLimit)
		}
	}
	return c.recentCommands
}

// WorkingDir returns the current working directory.
func (c *Collector) WorkingDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return dir
}

// User returns the current user name from the environment.
func (c *Collector) User() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "unknown"
}

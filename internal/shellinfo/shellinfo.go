// Package shellinfo inspects the user's login shell: which shell is running,
// what its history file says the last command was, and what its last exit
// status variable reports. Everything here is best effort; callers get a
// boolean instead of an error when the shell cannot be interrogated.
package shellinfo

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ProbeTimeout bounds every synchronous shell invocation. A probe that takes
// longer yields no signal rather than an error.
const ProbeTimeout = 2 * time.Second

// Accessor exposes the shell queries the error resolver depends on. Tests
// substitute a fake so resolution does not depend on the host shell.
type Accessor interface {
	// Shell returns the short name of the user's shell ("bash", "zsh", "fish").
	Shell() string

	// LastHistoryEntry returns the most recent command from the shell's history.
	LastHistoryEntry() (string, bool)

	// LastExitCode asks the shell for its last exit status.
	LastExitCode(ctx context.Context) (int, bool)
}

// SystemAccessor implements Accessor against the real host shell.
type SystemAccessor struct {
	logger *zap.Logger
}

// NewSystemAccessor creates a SystemAccessor. A nil logger defaults to a nop
// logger.
func NewSystemAccessor(logger *zap.Logger) *SystemAccessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SystemAccessor{logger: logger}
}

// Shell returns the short name of the user's shell, derived from $SHELL.
// Defaults to bash when $SHELL is unset.
func (a *SystemAccessor) Shell() string {
	shell := os.Getenv("SHELL")
	if shell == "" {
		return "bash"
	}
	return filepath.Base(shell)
}

// LastHistoryEntry returns the most recent command from the shell's history.
// For bash and zsh this reads the history file; fish is asked directly since
// its history format is not line-oriented.
func (a *SystemAccessor) LastHistoryEntry() (string, bool) {
	switch a.Shell() {
	case "bash":
		return lastHistoryLine(historyFile(".bash_history"), false)
	case "zsh":
		return lastHistoryLine(historyFile(".zsh_history"), true)
	case "fish":
		return a.fishHistoryEntry()
	default:
		return "", false
	}
}

func historyFile(name string) string {
	if histFile := os.Getenv("HISTFILE"); histFile != "" {
		return histFile
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, name)
}

// lastHistoryLine returns the last non-empty line of a history file.
// Zsh extended history lines look like ": 1700000000:0;command" and are
// stripped down to the command.
func lastHistoryLine(path string, zshFormat bool) (string, bool) {
	if path == "" {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	lines := strings.Split(string(data), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if zshFormat {
			if _, command, found := strings.Cut(line, ";"); found {
				line = strings.TrimSpace(command)
			}
		}
		if line == "" {
			continue
		}
		return line, true
	}

	return "", false
}

func (a *SystemAccessor) fishHistoryEntry() (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), ProbeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "fish", "-c", "history --max=1").Output()
	if err != nil {
		a.logger.Debug("fish history query failed", zap.Error(err))
		return "", false
	}
	entry := strings.TrimSpace(string(out))
	if entry == "" {
		return "", false
	}
	return entry, true
}

// LastExitCode synchronously invokes the user's shell to echo its last-status
// variable: $? for the POSIX family, $status for the fish family. The probe
// is bounded by ProbeTimeout; a timeout is no signal, not an error.
func (a *SystemAccessor) LastExitCode(ctx context.Context) (int, bool) {
	shell := a.Shell()

	statusVar := "$?"
	if shell == "fish" {
		statusVar = "$status"
	}

	probeCtx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	out, err := exec.CommandContext(probeCtx, shell, "-c", "echo "+statusVar).Output()
	if err != nil {
		a.logger.Debug("exit code probe failed", zap.String("shell", shell), zap.Error(err))
		return 0, false
	}

	code, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		a.logger.Debug("exit code probe returned non-numeric output", zap.String("output", string(out)))
		return 0, false
	}

	return code, true
}

// RecentHistoryEntries returns up to limit recent commands from the shell's
// history, oldest first. Used to give the language model recent context.
func (a *SystemAccessor) RecentHistoryEntries(limit int) []string {
	var path string
	zshFormat := false

	switch a.Shell() {
	case "bash":
		path = historyFile(".bash_history")
	case "zsh":
		path = historyFile(".zsh_history")
		zshFormat = true
	case "fish":
		return a.fishRecentEntries(limit)
	default:
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var commands []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if zshFormat {
			if _, command, found := strings.Cut(line, ";"); found {
				line = strings.TrimSpace(command)
			}
		}
		if line != "" {
			commands = append(commands, line)
		}
	}

	if len(commands) > limit {
		commands = commands[len(commands)-limit:]
	}
	return commands
}

func (a *SystemAccessor) fishRecentEntries(limit int) []string {
	ctx, cancel := context.WithTimeout(context.Background(), ProbeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "fish", "-c", "history --max="+strconv.Itoa(limit)).Output()
	if err != nil {
		return nil
	}

	var commands []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			commands = append(commands, line)
		}
	}
	return commands
}

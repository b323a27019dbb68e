// Package shellintegration generates and installs the per-shell hook scripts
// that record command failures as evidence files, enabling automatic error
// detection.
package shellintegration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// bashScript hooks PROMPT_COMMAND and the command-not-found handler. Evidence
// files are written without trailing newlines so the reader sees exactly the
// recorded value.
const bashScript = `# aicmd shell integration for bash
export AICMD_SHELL="bash"

aicmd_record_status() {
    local exit_code=$?
    if [ $exit_code -ne 0 ]; then
        local last_command=$(fc -ln -1 2>/dev/null | sed 's/^[[:space:]]*//')
        printf '%%s' "$last_command" > %[1]s/aicmd_last_command
        printf '%%s' "$exit_code" > %[1]s/aicmd_last_exit_code
        printf "Command '%%s' failed with exit code %%s" "$last_command" "$exit_code" > %[1]s/aicmd_simple_error
    fi
    return $exit_code
}
PROMPT_COMMAND="aicmd_record_status${PROMPT_COMMAND:+; $PROMPT_COMMAND}"

command_not_found_handle() {
    printf '%%s' "$1" > %[1]s/aicmd_last_command
    printf '127' > %[1]s/aicmd_last_exit_code
    printf "Command '%%s' not found" "$1" > %[1]s/aicmd_last_error
    echo "bash: $1: command not found" >&2
    return 127
}
`

const zshScript = `# aicmd shell integration for zsh
export AICMD_SHELL="zsh"

aicmd_record_status() {
    local exit_code=$?
    if [ $exit_code -ne 0 ]; then
        local last_command=$(fc -ln -1 2>/dev/null | sed 's/^[[:space:]]*//')
        printf '%%s' "$last_command" > %[1]s/aicmd_last_command
        printf '%%s' "$exit_code" > %[1]s/aicmd_last_exit_code
        printf "Command '%%s' failed with exit code %%s" "$last_command" "$exit_code" > %[1]s/aicmd_simple_error
    fi
    return $exit_code
}
precmd_functions+=(aicmd_record_status)

command_not_found_handler() {
    printf '%%s' "$1" > %[1]s/aicmd_last_command
    printf '127' > %[1]s/aicmd_last_exit_code
    printf "Command '%%s' not found" "$1" > %[1]s/aicmd_last_error
    echo "zsh: command not found: $1" >&2
    return 127
}
`

const fishScript = `# aicmd shell integration for fish
set -gx AICMD_SHELL "fish"

function aicmd_record_status --on-event fish_postexec
    set -l exit_code $status
    if test $exit_code -ne 0
        printf '%%s' "$argv[1]" > %[1]s/aicmd_last_command
        printf '%%s' "$exit_code" > %[1]s/aicmd_last_exit_code
        printf "Command '%%s' failed with exit code %%s" "$argv[1]" "$exit_code" > %[1]s/aicmd_simple_error
    end
end

function fish_command_not_found
    printf '%%s' "$argv[1]" > %[1]s/aicmd_last_command
    printf '127' > %[1]s/aicmd_last_exit_code
    printf "Command '%%s' not found" "$argv[1]" > %[1]s/aicmd_last_error
    echo "fish: Unknown command: $argv[1]" >&2
end
`

// Script returns the integration script for a shell, with evidence files
// rooted at evidenceDir. Unsupported shells return ok=false.
func Script(shellName, evidenceDir string) (string, bool) {
	switch shellName {
	case "bash":
		return fmt.Sprintf(bashScript, evidenceDir), true
	case "zsh":
		return fmt.Sprintf(zshScript, evidenceDir), true
	case "fish":
		return fmt.Sprintf(fishScript, evidenceDir), true
	default:
		return "", false
	}
}

// RCFile returns the shell's startup file where the source line belongs.
func RCFile(homeDir, shellName string) string {
	switch shellName {
	case "zsh":
		return filepath.Join(homeDir, ".zshrc")
	case "fish":
		return filepath.Join(homeDir, ".config", "fish", "config.fish")
	default:
		return filepath.Join(homeDir, ".bashrc")
	}
}

// Install writes the integration script into dataDir and adds a source line
// to the shell's startup file if one is not already present. It returns the
// path of the written script.
func Install(dataDir, homeDir, shellName, evidenceDir string) (string, error) {
	script, ok := Script(shellName, evidenceDir)
	if !ok {
		return "", fmt.Errorf("shell %q is not supported; supported shells are bash, zsh and fish", shellName)
	}

	scriptPath := filepath.Join(dataDir, "integration."+shellName)
	if err := os.WriteFile(scriptPath, []byte(script), 0644); err != nil {
		return "", fmt.Errorf("failed to write integration script: %w", err)
	}

	rcPath := RCFile(homeDir, shellName)
	sourceLine := "source " + scriptPath
	if err := appendLineOnce(rcPath, sourceLine); err != nil {
		return "", fmt.Errorf("failed to update %s: %w", rcPath, err)
	}

	return scriptPath, nil
}

// appendLineOnce appends line to the file unless it is already there. A
// missing file is created.
func appendLineOnce(path, line string) error {
	existing, err := os.ReadFile(path)
	if err == nil && strings.Contains(string(existing), line) {
		return nil
	}
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "\n# aicmd shell integration\n%s\n", line)
	return err
}

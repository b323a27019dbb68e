// Package parse classifies error text and command strings without a real
// shell grammar. Categorization runs an ordered rule list where declaration
// order breaks ties; tokenization is quote-aware with a whitespace fallback.
package parse

import (
	"regexp"
	"strings"
)

// Category is the fixed-vocabulary classification of an error message.
type Category string

const (
	CategoryCommandNotFound      Category = "command_not_found"
	CategoryFileNotFound         Category = "file_not_found"
	CategoryPermissionDenied     Category = "permission_denied"
	CategoryNetworkError         Category = "network_error"
	CategoryConnectionRefused    Category = "connection_refused"
	CategoryPackageNotFound      Category = "package_not_found"
	CategoryHomebrewNotInstalled Category = "homebrew_not_installed"
	CategoryNotGitRepo           Category = "not_git_repo"
	CategoryGitPathspecError     Category = "git_pathspec_error"
	CategoryDockerError          Category = "docker_error"
	CategoryDockerDaemonError    Category = "docker_daemon_error"
	CategoryPythonModuleNotFound Category = "python_module_not_found"
	CategoryPythonSyntaxError    Category = "python_syntax_error"
	CategoryNpmError             Category = "npm_error"
	CategoryNodeModuleNotFound   Category = "node_module_not_found"
	CategoryUnknown              Category = "unknown_error"
)

type errorRule struct {
	pattern  *regexp.Regexp
	category Category
}

// errorRules is the ordered rule list for categorization. First match wins;
// ties are broken by declaration order, not specificity, so the order below
// is part of the contract.
var errorRules = []errorRule{
	// Command not found across shell families, plus the Windows message.
	{regexp.MustCompile(`(?i)bash: (.+): command not found`), CategoryCommandNotFound},
	{regexp.MustCompile(`(?i)zsh: command not found: (.+)`), CategoryCommandNotFound},
	{regexp.MustCompile(`(?i)fish: Unknown command[: ]*(.+)`), CategoryCommandNotFound},
	{regexp.MustCompile(`(?i)'(.+)' is not recognized as an internal or external command`), CategoryCommandNotFound},
	// The format our own shell hooks and fallback strategies emit.
	{regexp.MustCompile(`(?i)Command '(.+)' not found`), CategoryCommandNotFound},

	// File and permission errors.
	{regexp.MustCompile(`(?i)No such file or directory[: ]*(.+)`), CategoryFileNotFound},
	{regexp.MustCompile(`(?i)cannot access[: ]*(.+)`), CategoryFileNotFound},
	{regexp.MustCompile(`(?i)Permission denied[: ]*(.+)`), CategoryPermissionDenied},

	// Network errors.
	{regexp.MustCompile(`(?i)curl: \(\d+\) (.+)`), CategoryNetworkError},
	{regexp.MustCompile(`(?i)wget: (.+)`), CategoryNetworkError},
	{regexp.MustCompile(`(?i)Connection refused`), CategoryConnectionRefused},

	// Package manager errors.
	{regexp.MustCompile(`(?i)E: Unable to locate package (.+)`), CategoryPackageNotFound},
	{regexp.MustCompile(`(?i)No package '(.+)' found`), CategoryPackageNotFound},
	{regexp.MustCompile(`(?i)brew: command not found`), CategoryHomebrewNotInstalled},

	// Git errors.
	{regexp.MustCompile(`(?i)fatal: not a git repository`), CategoryNotGitRepo},
	{regexp.MustCompile(`(?i)error: pathspec '(.+)' did not match any file`), CategoryGitPathspecError},

	// Docker errors.
	{regexp.MustCompile(`(?i)docker: Error response from daemon: (.+)`), CategoryDockerError},
	{regexp.MustCompile(`(?i)Cannot connect to the Docker daemon`), CategoryDockerDaemonError},

	// Language runtime errors.
	{regexp.MustCompile(`(?i)ModuleNotFoundError: No module named '(.+)'`), CategoryPythonModuleNotFound},
	{regexp.MustCompile(`(?i)SyntaxError: (.+)`), CategoryPythonSyntaxError},
	{regexp.MustCompile(`(?i)npm ERR! (.+)`), CategoryNpmError},
	{regexp.MustCompile(`(?i)Error: Cannot find module '(.+)'`), CategoryNodeModuleNotFound},
}

// Categorize assigns a category to free-form error text and extracts the
// relevant detail (the missing command, file, package and so on) when the
// matching rule captures one. Unmatched text yields CategoryUnknown.
func Categorize(errorText string) (Category, string) {
	for _, rule := range errorRules {
		match := rule.pattern.FindStringSubmatch(errorText)
		if match == nil {
			continue
		}
		extracted := ""
		if len(match) > 1 {
			extracted = strings.TrimSpace(match[1])
		}
		return rule.category, extracted
	}
	return CategoryUnknown, ""
}

// commandPatterns is the independent pattern list ExtractCommand tries before
// falling back to line scanning.
var commandPatterns = []*regexp.Regexp{
	regexp.MustCompile(`Command '(.+)' failed`),
	regexp.MustCompile(`Command '(.+)' not found`),
	regexp.MustCompile(`bash: (.+): command not found`),
	regexp.MustCompile(`zsh: command not found: (.+)`),
	regexp.MustCompile(`fish: Unknown command[: ]*(.+)`),
	regexp.MustCompile(`Error running command: (.+)`),
	regexp.MustCompile(`Failed to execute: (.+)`),
}

var promptLine = regexp.MustCompile(`^\$\s+(.+)`)

// wellKnownCommands are the command names the line scanner recognizes when no
// explicit pattern matched.
var wellKnownCommands = []string{"ls", "cd", "git", "npm", "pip", "docker"}

// ExtractCommand recovers the offending command line from error text.
// It tries explicit patterns first, then scans lines for a shell-prompt
// marker or a line mentioning a well-known command. Returns "" when nothing
// plausible is found.
func ExtractCommand(errorText string) string {
	for _, pattern := range commandPatterns {
		if match := pattern.FindStringSubmatch(errorText); match != nil {
			return strings.TrimSpace(match[1])
		}
	}

	for _, line := range strings.Split(errorText, "\n") {
		trimmed := strings.TrimSpace(line)
		if match := promptLine.FindStringSubmatch(trimmed); match != nil {
			return strings.TrimSpace(match[1])
		}

		if strings.HasPrefix(line, " ") {
			continue
		}
		for _, command := range wellKnownCommands {
			if strings.Contains(line, command) {
				return trimmed
			}
		}
	}

	return ""
}

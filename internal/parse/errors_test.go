package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name      string
		errorText string
		category  Category
		extracted string
	}{
		{"bash command not found", "bash: lls: command not found", CategoryCommandNotFound, "lls"},
		{"zsh command not found", "zsh: command not found: gti", CategoryCommandNotFound, "gti"},
		{"fish unknown command", "fish: Unknown command: pdw", CategoryCommandNotFound, "pdw"},
		{"hook format", "Command 'lls' not found", CategoryCommandNotFound, "lls"},
		{"file not found", "cat: No such file or directory: notes.txt", CategoryFileNotFound, "notes.txt"},
		{"permission denied", "Permission denied: /etc/shadow", CategoryPermissionDenied, "/etc/shadow"},
		{"curl network error", "curl: (6) Could not resolve host: example.test", CategoryNetworkError, "Could not resolve host: example.test"},
		{"connection refused", "connect to host localhost port 22: Connection refused", CategoryConnectionRefused, ""},
		{"apt package not found", "E: Unable to locate package htopp", CategoryPackageNotFound, "htopp"},
		{"brew missing", "bash: brew: command not found", CategoryCommandNotFound, "brew"},
		{"not a git repo", "fatal: not a git repository (or any of the parent directories): .git", CategoryNotGitRepo, ""},
		{"git pathspec", "error: pathspec 'develop' did not match any file(s) known to git", CategoryGitPathspecError, "develop"},
		{"docker daemon", "Cannot connect to the Docker daemon at unix:///var/run/docker.sock", CategoryDockerDaemonError, ""},
		{"python module", "ModuleNotFoundError: No module named 'requests'", CategoryPythonModuleNotFound, "requests"},
		{"npm error", "npm ERR! code E404", CategoryNpmError, "code E404"},
		{"node module", "Error: Cannot find module 'express'", CategoryNodeModuleNotFound, "express"},
		{"unknown", "something inexplicable happened", CategoryUnknown, ""},
		{"empty", "", CategoryUnknown, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			category, extracted := Categorize(test.errorText)
			assert.Equal(t, test.category, category)
			assert.Equal(t, test.extracted, extracted)
		})
	}
}

func TestCategorizeOrderBreaksTies(t *testing.T) {
	// Text matching both the bash rule and the generic hook rule must hit the
	// bash rule because it is declared first.
	category, extracted := Categorize("bash: foo: command not found\nCommand 'bar' not found")
	assert.Equal(t, CategoryCommandNotFound, category)
	assert.Equal(t, "foo", extracted)
}

func TestExtractCommand(t *testing.T) {
	tests := []struct {
		name      string
		errorText string
		command   string
	}{
		{"failed pattern", "Command 'git sttaus' failed", "git sttaus"},
		{"not found pattern", "Command 'lls' not found", "lls"},
		{"bash message", "bash: lls: command not found", "lls"},
		{"prompt marker", "output above\n$ docker ps -a\nerror below", "docker ps -a"},
		{"well known command line", "git push origin main\nerror: failed to push", "git push origin main"},
		{"indented lines skipped", "  git status\nnothing recognizable", ""},
		{"nothing found", "completely unrelated text", ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.command, ExtractCommand(test.errorText))
		})
	}
}

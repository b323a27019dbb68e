// Package suggest proposes replacement commands for a failed one from static
// tables. There is no edit-distance matching here: lookup is exact, and
// broader typo correction is delegated to the language model, which receives
// the same common-commands reference list as context.
package suggest

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"aicmd/internal/parse"
)

// alternatives maps a base command to cross-platform substitutes, tried when
// the command itself does not exist on this system.
var alternatives = map[string][]string{
	"ls":     {"dir", "find . -maxdepth 1"},
	"ll":     {"ls -la", "ls -l"},
	"cat":    {"type", "more", "less"},
	"grep":   {"findstr", "select-string"},
	"ps":     {"Get-Process", "tasklist"},
	"kill":   {"Stop-Process", "taskkill"},
	"wget":   {"curl -O", "Invoke-WebRequest"},
	"curl":   {"wget", "Invoke-RestMethod"},
	"python": {"python3", "py"},
	"pip":    {"pip3", "python -m pip"},
	"node":   {"nodejs"},
	"npm":    {"yarn", "pnpm"},
	"vim":    {"nano", "code", "notepad"},
	"nano":   {"vim", "code", "notepad"},
}

// typoCorrections maps common single-token typos (transpositions, doubled
// letters) to the intended command. An exact hit here is always proposed
// first.
var typoCorrections = map[string]string{
	"gti":    "git",
	"cd..":   "cd ..",
	"ks":     "ls",
	"sl":     "ls",
	"lls":    "ls",
	"lss":    "ls",
	"clar":   "clear",
	"claer":  "clear",
	"grpe":   "grep",
	"mkdi":   "mkdir",
	"toutch": "touch",
	"pdw":    "pwd",
	"exti":   "exit",
}

// packageInstallers maps a package manager base command to its install
// command template.
var packageInstallers = map[string]string{
	"apt":     "sudo apt update && sudo apt install %s",
	"apt-get": "sudo apt-get update && sudo apt-get install %s",
	"yum":     "sudo yum install %s",
	"dnf":     "sudo dnf install %s",
	"brew":    "brew install %s",
	"pip":     "pip install %s",
	"pip3":    "pip3 install %s",
	"npm":     "npm install %s",
}

// Suggest returns ordered candidate fixes for a failed command, keyed by its
// error category. The result may be empty; candidates are deduplicated while
// preserving order.
func Suggest(parsed parse.ParsedCommand, category parse.Category) []string {
	var candidates []string

	switch category {
	case parse.CategoryCommandNotFound:
		candidates = commandAlternatives(parsed.BaseCommand)
	case parse.CategoryPermissionDenied:
		candidates = permissionFixes(parsed)
	case parse.CategoryFileNotFound:
		candidates = fileFixes(parsed)
	case parse.CategoryPackageNotFound:
		candidates = packageInstalls(parsed)
	}

	return lo.Uniq(candidates)
}

// commandAlternatives resolves a missing command: an exact typo-table hit
// first, then the static cross-platform substitutes.
func commandAlternatives(baseCommand string) []string {
	var candidates []string
	if corrected, ok := typoCorrections[baseCommand]; ok {
		candidates = append(candidates, corrected)
	}
	candidates = append(candidates, alternatives[baseCommand]...)
	return candidates
}

func permissionFixes(parsed parse.ParsedCommand) []string {
	candidates := []string{"sudo " + parsed.Raw}
	if len(parsed.Arguments) > 0 {
		candidates = append(candidates, "chmod +x "+strings.Join(parsed.Arguments, " "))
	}
	return candidates
}

// fileFixes proposes creation and fuzzy-find variants for each suspect
// argument of a command that hit a missing file.
func fileFixes(parsed parse.ParsedCommand) []string {
	var candidates []string
	suspects := lo.Filter(parsed.Arguments, func(arg string, _ int) bool {
		return arg != "" && !strings.HasPrefix(arg, "-")
	})

	for _, arg := range suspects {
		if strings.Contains(arg, ".") {
			candidates = append(candidates, "touch "+arg)
		} else {
			candidates = append(candidates, "mkdir -p "+arg)
		}
		candidates = append(candidates,
			fmt.Sprintf("find . -name '*%s*' -type f", arg),
			fmt.Sprintf("ls -la | grep %s", arg),
		)
	}
	return candidates
}

// managerSubcommands are argument words that name an action, not a package.
var managerSubcommands = map[string]bool{
	"install": true, "update": true, "upgrade": true,
	"add": true, "remove": true, "search": true,
}

func packageInstalls(parsed parse.ParsedCommand) []string {
	template, ok := packageInstallers[parsed.BaseCommand]
	if !ok {
		return nil
	}

	var candidates []string
	for _, pkg := range parsed.Arguments {
		if pkg == "" || strings.HasPrefix(pkg, "-") || managerSubcommands[pkg] {
			continue
		}
		candidates = append(candidates, fmt.Sprintf(template, pkg))
	}
	return candidates
}

// CommonCommands is the reference list of everyday commands handed to the
// language model alongside a fix request, so it can attempt broader typo
// correction than the static tables cover.
var CommonCommands = []string{
	"ls", "cd", "pwd", "mkdir", "rmdir", "rm", "cp", "mv", "touch",
	"cat", "less", "more", "head", "tail", "grep", "sed", "awk", "find",
	"which", "chmod", "chown", "tar", "zip", "unzip", "curl", "wget",
	"ssh", "scp", "rsync", "ps", "top", "kill", "df", "du", "free",
	"git", "docker", "kubectl", "python", "python3", "pip", "node", "npm",
	"go", "cargo", "make", "clear", "history", "echo", "export", "env",
}

package parse

import "regexp"

type denyRule struct {
	pattern *regexp.Regexp
	reason  string
}

// denyRules is the fixed deny-list for the advisory safety check. The check
// fails closed only on these explicit matches; anything ambiguous is treated
// as safe because the result only gates auto-execution, never manual use.
var denyRules = []denyRule{
	{regexp.MustCompile(`(?i)rm\s+-rf\s+/\s*$`), "recursively deletes the filesystem root"},
	{regexp.MustCompile(`(?i)rm\s+-rf\s+/\s`), "recursively deletes from the filesystem root"},
	{regexp.MustCompile(`(?i)rm\s+-rf\s+\*`), "recursively deletes everything in the current directory"},
	{regexp.MustCompile(`(?i)dd\s+if=`), "raw disk write"},
	{regexp.MustCompile(`(?i)mkfs\.`), "formats a filesystem"},
	{regexp.MustCompile(`(?i)\bfdisk\b`), "modifies disk partitions"},
	{regexp.MustCompile(`(?i)format\s+[A-Z]:`), "formats a drive"},
	{regexp.MustCompile(`(?i)\bshutdown\b`), "powers off the machine"},
	{regexp.MustCompile(`(?i)\breboot\b`), "reboots the machine"},
	{regexp.MustCompile(`(?i)\bhalt\b`), "halts the machine"},
	{regexp.MustCompile(`(?i)\binit\s+[06]\b`), "changes the system run level"},
	{regexp.MustCompile(`:\(\)\{\s*:\|:&\s*\};:`), "fork bomb"},
	{regexp.MustCompile(`(?i)chmod\s+-R\s+777\s+/`), "recursively opens permissions from the filesystem root"},
	{regexp.MustCompile(`(?i)chown\s+-R\s+\S+\s+/(\s|$)`), "recursively changes ownership from the filesystem root"},
	{regexp.MustCompile(`(?i)curl[^|]*\|\s*(ba|z)?sh`), "pipes downloaded content to a shell"},
	{regexp.MustCompile(`(?i)wget[^|]*\|\s*(ba|z)?sh`), "pipes downloaded content to a shell"},
}

var deviceRedirection = regexp.MustCompile(`(?i)>>?\s*/dev/\S+`)

// IsSafe performs the advisory safety check on a command string. It returns
// false with a reason only on explicit deny-list matches or output
// redirection to a device path; unmatched input is reported safe. Callers use
// this to gate auto-execution, not to block the user.
func IsSafe(command string) (bool, string) {
	for _, rule := range denyRules {
		if rule.pattern.MatchString(command) {
			return false, "potentially dangerous command: " + rule.reason
		}
	}

	if deviceRedirection.MatchString(command) {
		return false, "command redirects output to a device path"
	}

	return true, "command appears safe"
}

package parse

import (
	"strings"

	"mvdan.cc/sh/v3/shell"
)

// Option is one key/value pair from a command line, in original order.
type Option struct {
	Key   string
	Value string
}

// Redirection is one redirection operator and its target, in original order.
type Redirection struct {
	Operator string
	Target   string
}

// ParsedCommand is the classified form of a command string. Every token after
// the first lands in exactly one of Flags, Options, Arguments or
// Redirections.
type ParsedCommand struct {
	Raw          string
	BaseCommand  string
	Arguments    []string
	Flags        []string
	Options      []Option
	Redirections []Redirection
}

// Flag reports whether the command carries the given flag.
func (c *ParsedCommand) Flag(name string) bool {
	for _, flag := range c.Flags {
		if flag == name {
			return true
		}
	}
	return false
}

// Option returns the value of the given option key.
func (c *ParsedCommand) Option(key string) (string, bool) {
	for _, option := range c.Options {
		if option.Key == key {
			return option.Value, true
		}
	}
	return "", false
}

// redirectionOperators are the operators that consume the following token as
// their target.
var redirectionOperators = map[string]bool{
	">": true, ">>": true, "<": true, "|": true,
	"2>": true, "2>>": true, "&>": true, "&>>": true,
}

// Tokenize splits a command string into classified tokens. Splitting is
// quote-aware; when the quote-aware pass fails (unbalanced quotes and the
// like) it degrades to plain whitespace splitting instead of failing.
func Tokenize(command string) ParsedCommand {
	parts, err := shell.Fields(command, nil)
	if err != nil || len(parts) == 0 && strings.TrimSpace(command) != "" {
		parts = strings.Fields(command)
	}

	parsed := ParsedCommand{Raw: command}
	if len(parts) == 0 {
		return parsed
	}
	parsed.BaseCommand = parts[0]

	i := 1
	for i < len(parts) {
		part := parts[i]

		if redirectionOperators[part] {
			target := ""
			if i+1 < len(parts) {
				target = parts[i+1]
				i += 2
			} else {
				i++
			}
			parsed.Redirections = append(parsed.Redirections, Redirection{Operator: part, Target: target})
			continue
		}

		if strings.HasPrefix(part, "-") {
			if key, value, found := strings.Cut(part, "="); found {
				parsed.Options = append(parsed.Options, Option{Key: key, Value: value})
				i++
				continue
			}
			if i+1 < len(parts) && !strings.HasPrefix(parts[i+1], "-") {
				parsed.Options = append(parsed.Options, Option{Key: part, Value: parts[i+1]})
				i += 2
				continue
			}
			parsed.Flags = append(parsed.Flags, part)
			i++
			continue
		}

		parsed.Arguments = append(parsed.Arguments, part)
		i++
	}

	return parsed
}

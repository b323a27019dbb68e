package llm

import "strings"

// Response is the structured form of a sectioned model reply.
type Response struct {
	Raw          string
	Explanation  string
	Command      string
	Alternatives string
	Safety       string
	Breakdown    string
	Behavior     string
}

// sectionHeaders are recognized in reply text, in the order the prompt asks
// for them.
var sectionHeaders = []string{
	"EXPLANATION:", "COMMAND:", "ALTERNATIVES:", "SAFETY:", "BREAKDOWN:", "BEHAVIOR:",
}

// ParseResponse splits a sectioned model reply into its parts. Replies that
// ignore the requested format land entirely in Explanation so nothing is
// lost.
func ParseResponse(raw string) Response {
	response := Response{Raw: raw}

	sections := make(map[string]string)
	currentSection := ""
	var currentLines []string

	flush := func() {
		if currentSection != "" {
			sections[currentSection] = strings.TrimSpace(strings.Join(currentLines, "\n"))
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)

		matched := false
		for _, header := range sectionHeaders {
			if strings.HasPrefix(trimmed, header) {
				flush()
				currentSection = header
				currentLines = []string{strings.TrimSpace(trimmed[len(header):])}
				matched = true
				break
			}
		}
		if !matched && currentSection != "" {
			currentLines = append(currentLines, line)
		}
	}
	flush()

	response.Explanation = sections["EXPLANATION:"]
	response.Command = stripCodeFence(sections["COMMAND:"])
	response.Alternatives = sections["ALTERNATIVES:"]
	response.Safety = sections["SAFETY:"]
	response.Breakdown = sections["BREAKDOWN:"]
	response.Behavior = sections["BEHAVIOR:"]

	if response.Explanation == "" && response.Command == "" {
		response.Explanation = strings.TrimSpace(raw)
	}

	return response
}

// stripCodeFence removes markdown fencing the model sometimes wraps around
// the command.
func stripCodeFence(command string) string {
	command = strings.TrimSpace(command)
	if !strings.HasPrefix(command, "```") {
		return command
	}

	lines := strings.Split(command, "\n")
	if len(lines) > 2 {
		return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
	}
	return strings.TrimSpace(strings.ReplaceAll(command, "```", ""))
}

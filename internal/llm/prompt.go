package llm

import (
	"fmt"
	"strings"

	"aicmd/internal/conversation"
)

// SystemContext carries the host facts embedded in every prompt.
type SystemContext struct {
	OS             string
	Shell          string
	WorkingDir     string
	User           string
	AvailableTools []string
	RecentCommands []string
}

func (c SystemContext) render() string {
	return fmt.Sprintf(`SYSTEM CONTEXT:
- OS: %s
- Shell: %s
- Current Directory: %s
- User: %s
- Available Tools: %s`,
		c.OS, c.Shell, c.WorkingDir, c.User, strings.Join(c.AvailableTools, ", "))
}

// BuildFixPrompt builds the prompt for fixing a command error. Static
// suggestions and the common-commands reference list are included so the
// model can do broader typo correction than the local tables.
func BuildFixPrompt(errorText, failedCommand string, staticSuggestions, commonCommands []string, sys SystemContext) string {
	var b strings.Builder

	b.WriteString("You are an expert command-line assistant. Help fix command errors and provide working solutions.\n\n")
	b.WriteString(sys.render())
	b.WriteString("\n\nERROR TO FIX:\n")
	b.WriteString(errorText)
	b.WriteString("\n")

	if failedCommand != "" {
		fmt.Fprintf(&b, "\nFAILED COMMAND: %s\n", failedCommand)
	}
	if len(staticSuggestions) > 0 {
		fmt.Fprintf(&b, "\nCANDIDATE FIXES (from static tables, verify before recommending):\n%s\n",
			strings.Join(staticSuggestions, "\n"))
	}
	if len(commonCommands) > 0 {
		fmt.Fprintf(&b, "\nCOMMON COMMANDS FOR TYPO REFERENCE: %s\n", strings.Join(commonCommands, ", "))
	}

	b.WriteString(`
REQUIREMENTS:
1. Provide a clear explanation of what went wrong
2. Give a corrected command that should work
3. Explain why the fix works
4. Make sure the command is safe to execute
5. Consider the user's current system and environment

RESPONSE FORMAT:
Provide your response in this exact format:

EXPLANATION:
[Clear explanation of the error and solution]

COMMAND:
[The corrected command to run]

SAFETY:
[Any safety considerations or warnings]

Focus on practical, executable solutions. Be concise but thorough.`)

	return b.String()
}

// BuildSuggestPrompt builds the prompt for a natural-language command
// suggestion.
func BuildSuggestPrompt(description string, sys SystemContext) string {
	return fmt.Sprintf(`You are an expert command-line assistant. Suggest the best command(s) for the given task.

%s

TASK DESCRIPTION:
%s

REQUIREMENTS:
1. Suggest the most appropriate command for this task
2. Explain what the command does
3. Include any necessary flags or options
4. Warn about potentially destructive operations
5. Consider the user's current system and available tools

RESPONSE FORMAT:
Provide your response in this exact format:

EXPLANATION:
[Clear explanation of what this command accomplishes]

COMMAND:
[The suggested command to run]

ALTERNATIVES:
[Other ways to accomplish the same task, if applicable]

SAFETY:
[Any safety considerations or warnings]

Prioritize commands that are commonly available and cross-platform when possible.`,
		sys.render(), description)
}

// BuildExplainPrompt builds the prompt for explaining a command.
func BuildExplainPrompt(command string, sys SystemContext) string {
	return fmt.Sprintf(`You are an expert command-line assistant. Explain the given command in detail.

SYSTEM CONTEXT:
- OS: %s
- Shell: %s

COMMAND TO EXPLAIN:
%s

REQUIREMENTS:
1. Break down each part of the command
2. Explain what each flag/option does
3. Describe the expected output or behavior
4. Mention any potential risks or side effects
5. Suggest variations or related commands

RESPONSE FORMAT:
Provide your response in this exact format:

EXPLANATION:
[Detailed breakdown of the command and its components]

BREAKDOWN:
[Part-by-part analysis of the command syntax]

BEHAVIOR:
[What the command does and expected results]

SAFETY:
[Any risks, side effects, or precautions]

Be educational and thorough in your explanation.`,
		sys.OS, sys.Shell, command)
}

// BuildChatPrompt builds the prompt for a free-form question, weaving in the
// conversation context bundle so follow-up questions stay coherent.
func BuildChatPrompt(question string, bundle conversation.Bundle, sys SystemContext) string {
	var b strings.Builder

	b.WriteString("You are an expert assistant for programming, system administration and computer science questions.\n\n")
	b.WriteString(sys.render())
	b.WriteString("\n")

	if bundle.CurrentTopic != "" {
		fmt.Fprintf(&b, "\nCURRENT CONVERSATION TOPIC: %s\n", bundle.CurrentTopic)
	}
	if len(bundle.RecentTopics) > 0 {
		fmt.Fprintf(&b, "RECENT TOPICS: %s\n", strings.Join(bundle.RecentTopics, ", "))
	}
	if len(bundle.Related) > 0 {
		b.WriteString("\nRELATED PRIOR EXCHANGES:\n")
		for _, related := range bundle.Related {
			fmt.Fprintf(&b, "Q: %s\nA: %s\n", related.Question, related.Answer)
		}
	}
	if len(bundle.PreviousQuestions) > 0 {
		fmt.Fprintf(&b, "\nPREVIOUS QUESTIONS:\n%s\n", strings.Join(bundle.PreviousQuestions, "\n"))
	}

	fmt.Fprintf(&b, "\nQUESTION:\n%s\n\nAnswer clearly and concisely. Include code examples in fenced blocks when helpful.", question)

	return b.String()
}

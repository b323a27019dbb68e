package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"aicmd/internal/conversation"
)

var testSystemContext = SystemContext{
	OS:             "Ubuntu 24.04 (linux/amd64)",
	Shell:          "zsh",
	WorkingDir:     "/home/dev/project",
	User:           "dev",
	AvailableTools: []string{"git", "docker"},
}

func TestBuildFixPrompt(t *testing.T) {
	prompt := BuildFixPrompt(
		"bash: lls: command not found",
		"lls -la",
		[]string{"ls"},
		[]string{"ls", "cd", "git"},
		testSystemContext,
	)

	assert.Contains(t, prompt, "ERROR TO FIX:\nbash: lls: command not found")
	assert.Contains(t, prompt, "FAILED COMMAND: lls -la")
	assert.Contains(t, prompt, "CANDIDATE FIXES")
	assert.Contains(t, prompt, "COMMON COMMANDS FOR TYPO REFERENCE: ls, cd, git")
	assert.Contains(t, prompt, "- Shell: zsh")
	assert.Contains(t, prompt, "EXPLANATION:")
	assert.Contains(t, prompt, "COMMAND:")
}

func TestBuildFixPromptOmitsEmptyParts(t *testing.T) {
	prompt := BuildFixPrompt("some error", "", nil, nil, testSystemContext)

	assert.NotContains(t, prompt, "FAILED COMMAND")
	assert.NotContains(t, prompt, "CANDIDATE FIXES")
}

func TestBuildSuggestPrompt(t *testing.T) {
	prompt := BuildSuggestPrompt("find all files modified today", testSystemContext)

	assert.Contains(t, prompt, "TASK DESCRIPTION:\nfind all files modified today")
	assert.Contains(t, prompt, "- Available Tools: git, docker")
	assert.Contains(t, prompt, "ALTERNATIVES:")
}

func TestBuildExplainPrompt(t *testing.T) {
	prompt := BuildExplainPrompt("tar -xzf archive.tar.gz", testSystemContext)

	assert.Contains(t, prompt, "COMMAND TO EXPLAIN:\ntar -xzf archive.tar.gz")
	assert.Contains(t, prompt, "BREAKDOWN:")
	assert.Contains(t, prompt, "BEHAVIOR:")
}

func TestBuildChatPrompt(t *testing.T) {
	bundle := conversation.Bundle{
		CurrentTopic:      "docker",
		RecentTopics:      []string{"docker", "git"},
		PreviousQuestions: []string{"how do I list containers"},
		Related: []conversation.Related{
			{Question: "how do I list containers", Answer: "docker ps", SharedWords: 3},
		},
	}

	prompt := BuildChatPrompt("how do I stop all containers", bundle, testSystemContext)

	assert.Contains(t, prompt, "CURRENT CONVERSATION TOPIC: docker")
	assert.Contains(t, prompt, "RECENT TOPICS: docker, git")
	assert.Contains(t, prompt, "Q: how do I list containers\nA: docker ps")
	assert.Contains(t, prompt, "QUESTION:\nhow do I stop all containers")
}

func TestBuildChatPromptWithoutContext(t *testing.T) {
	prompt := BuildChatPrompt("what is a symlink", conversation.Bundle{}, testSystemContext)

	assert.NotContains(t, prompt, "CURRENT CONVERSATION TOPIC")
	assert.NotContains(t, prompt, "RELATED PRIOR EXCHANGES")
	assert.Contains(t, prompt, "QUESTION:\nwhat is a symlink")
}

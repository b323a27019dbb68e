package conversation

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClock() func() time.Time {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func TestRecordEvictsFIFO(t *testing.T) {
	memory := NewMemory(testClock())

	for i := 1; i <= MaxExchanges+1; i++ {
		memory.Record(fmt.Sprintf("question %d", i), fmt.Sprintf("answer %d", i), false)
	}

	require.Equal(t, MaxExchanges, memory.Len())

	exchanges := memory.Exchanges()
	assert.Equal(t, "question 2", exchanges[0].Question)
	assert.Equal(t, "question 11", exchanges[len(exchanges)-1].Question)
}

func TestCurrentTopic(t *testing.T) {
	t.Run("adopts the dominant bucket", func(t *testing.T) {
		memory := NewMemory(testClock())
		memory.Record("how do I create a git branch", "git checkout -b", false)

		assert.Equal(t, "git", memory.CurrentTopic())
	})

	t.Run("only the last few questions count", func(t *testing.T) {
		memory := NewMemory(testClock())
		memory.Record("how do I merge a git branch", "...", false)
		memory.Record("docker container won't start", "...", false)
		memory.Record("how do I list docker images", "...", false)
		memory.Record("docker compose vs dockerfile", "...", false)

		assert.Equal(t, "docker", memory.CurrentTopic())
	})

	t.Run("low-signal window keeps the prior topic", func(t *testing.T) {
		memory := NewMemory(testClock())
		memory.Record("how do I rebase in git", "...", false)
		require.Equal(t, "git", memory.CurrentTopic())

		memory.Record("what is the meaning of life", "...", false)
		memory.Record("and of everything else", "...", false)
		memory.Record("tell me a joke", "...", false)

		assert.Equal(t, "git", memory.CurrentTopic())
	})

	t.Run("declaration order breaks score ties", func(t *testing.T) {
		memory := NewMemory(testClock())
		memory.Record("git and docker", "...", false)

		assert.Equal(t, "git", memory.CurrentTopic())
	})
}

func TestClear(t *testing.T) {
	memory := NewMemory(testClock())
	memory.Record("how do I squash git commits", "git rebase -i", false)

	memory.Clear()

	assert.Equal(t, 0, memory.Len())
	assert.Equal(t, "", memory.CurrentTopic())
}

func TestRelatedExchanges(t *testing.T) {
	t.Run("requires at least two shared words", func(t *testing.T) {
		memory := NewMemory(testClock())
		memory.Record("how to delete a remote git branch", "git push origin --delete", false)
		memory.Record("what is a pointer in go", "a memory address", false)

		related := memory.RelatedExchanges("how do I rename a remote git branch")

		require.Len(t, related, 1)
		assert.Equal(t, "how to delete a remote git branch", related[0].Question)
		assert.GreaterOrEqual(t, related[0].SharedWords, 2)
	})

	t.Run("sorted by overlap and capped", func(t *testing.T) {
		memory := NewMemory(testClock())
		memory.Record("list docker containers on this host", "docker ps", false)
		memory.Record("stop all docker containers right now", "docker stop", false)
		memory.Record("remove old docker containers and images now", "docker rm", false)
		memory.Record("restart docker containers on boot somehow", "docker update", false)

		related := memory.RelatedExchanges("how do I stop all docker containers right now")

		require.Len(t, related, 3)
		assert.Equal(t, "stop all docker containers right now", related[0].Question)
		for i := 1; i < len(related); i++ {
			assert.GreaterOrEqual(t, related[i-1].SharedWords, related[i].SharedWords)
		}
	})

	t.Run("answers are truncated for prompt use", func(t *testing.T) {
		memory := NewMemory(testClock())
		longAnswer := strings.Repeat("x", 500)
		memory.Record("explain docker container networking", longAnswer, false)

		related := memory.RelatedExchanges("docker container networking basics")

		require.Len(t, related, 1)
		assert.Len(t, related[0].Answer, answerPreviewLen+len("..."))
		assert.True(t, strings.HasSuffix(related[0].Answer, "..."))
	})

	t.Run("repeated words count once", func(t *testing.T) {
		memory := NewMemory(testClock())
		memory.Record("docker docker docker", "compose", false)

		related := memory.RelatedExchanges("docker docker")

		assert.Empty(t, related)
	})
}

func TestContextFor(t *testing.T) {
	memory := NewMemory(testClock())
	memory.Record("how do I create a python virtualenv", "python -m venv", false)
	memory.Record("activate the python virtualenv in bash", "source .venv/bin/activate", false)

	bundle := memory.ContextFor("install packages in the python virtualenv")

	assert.Equal(t, "python", bundle.CurrentTopic)
	assert.Contains(t, bundle.RecentTopics, "python")
	assert.Len(t, bundle.PreviousQuestions, 2)
	assert.NotEmpty(t, bundle.Related)
}

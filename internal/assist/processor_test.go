package assist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aicmd/internal/config"
	"aicmd/internal/conversation"
	"aicmd/internal/detect"
	"aicmd/internal/evidence"
	"aicmd/internal/parse"
	"aicmd/internal/shellinfo"
	"aicmd/internal/sysinfo"
)

// fakeClient records the prompt and returns a canned reply.
type fakeClient struct {
	lastPrompt string
	reply      string
	err        error
}

func (f *fakeClient) Complete(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.reply, f.err
}

type silentShell struct{}

func (silentShell) Shell() string                                { return "bash" }
func (silentShell) LastHistoryEntry() (string, bool)             { return "", false }
func (silentShell) LastExitCode(ctx context.Context) (int, bool) { return 0, false }

func newTestProcessor(store evidence.Store, client *fakeClient, shell shellinfo.Accessor) *Processor {
	cfg := config.Default()
	resolver := detect.NewResolver(store, shell, nil)
	system := sysinfo.NewCollector(shell)
	memory := conversation.NewMemory(nil)
	return NewProcessor(cfg, resolver, client, system, memory, nil)
}

func TestFixDetectedError(t *testing.T) {
	now := time.Now()
	store := evidence.NewMemStore(func() time.Time { return now })
	store.WriteAt(evidence.LastError, "bash: lls: command not found", now.Add(-2*time.Second))

	client := &fakeClient{reply: "EXPLANATION:\nTypo.\n\nCOMMAND:\nls"}
	processor := newTestProcessor(store, client, silentShell{})

	result, err := processor.FixDetectedError(context.Background())
	require.NoError(t, err)

	assert.True(t, result.HasSignal)
	assert.Equal(t, parse.CategoryCommandNotFound, result.Signal.Category)
	assert.Equal(t, "lls", result.Signal.Extracted)
	assert.Equal(t, "ls", result.Response.Command)

	// The static typo correction made it into the prompt.
	assert.Contains(t, result.Suggestions, "ls")
	assert.Contains(t, client.lastPrompt, "CANDIDATE FIXES")
	assert.Contains(t, client.lastPrompt, "bash: lls: command not found")
}

func TestFixDetectedErrorWithNoSignal(t *testing.T) {
	store := evidence.NewMemStore(nil)
	processor := newTestProcessor(store, &fakeClient{reply: "unused"}, silentShell{})

	_, err := processor.FixDetectedError(context.Background())
	assert.ErrorIs(t, err, ErrNoErrorDetected)
}

func TestFixErrorText(t *testing.T) {
	store := evidence.NewMemStore(nil)
	client := &fakeClient{reply: "EXPLANATION:\nMissing module.\n\nCOMMAND:\npip install requests"}
	processor := newTestProcessor(store, client, silentShell{})

	result, err := processor.FixErrorText(context.Background(), "ModuleNotFoundError: No module named 'requests'")
	require.NoError(t, err)

	assert.Equal(t, "user_input", result.Signal.Source)
	assert.Equal(t, parse.CategoryPythonModuleNotFound, result.Signal.Category)
	assert.Equal(t, "requests", result.Signal.Extracted)
	assert.Equal(t, "pip install requests", result.Response.Command)
}

func TestAskQuestionRecordsExchange(t *testing.T) {
	store := evidence.NewMemStore(nil)
	client := &fakeClient{reply: "Use `git log`:\n```\ngit log --oneline\n```"}
	processor := newTestProcessor(store, client, silentShell{})

	answer, err := processor.AskQuestion(context.Background(), "how do I see git history")
	require.NoError(t, err)
	assert.Contains(t, answer, "git log")

	memory := processor.Memory()
	require.Equal(t, 1, memory.Len())
	assert.True(t, memory.Exchanges()[0].HasCode)
	assert.Equal(t, "git", memory.CurrentTopic())

	// The next question carries the previous exchange as context.
	_, err = processor.AskQuestion(context.Background(), "how do I see git history with diffs")
	require.NoError(t, err)
	assert.Contains(t, client.lastPrompt, "PREVIOUS QUESTIONS")
	assert.Contains(t, client.lastPrompt, "how do I see git history")
}

func TestCheckSafety(t *testing.T) {
	store := evidence.NewMemStore(nil)
	processor := newTestProcessor(store, &fakeClient{}, silentShell{})

	t.Run("flags deny-list matches", func(t *testing.T) {
		safe, reason := processor.CheckSafety("rm -rf /")
		assert.False(t, safe)
		assert.NotEmpty(t, reason)
	})

	t.Run("passes ordinary commands", func(t *testing.T) {
		safe, _ := processor.CheckSafety("ls -la")
		assert.True(t, safe)
	})

	t.Run("disabled checks pass everything", func(t *testing.T) {
		processor.config.SafetyChecks = false
		defer func() { processor.config.SafetyChecks = true }()

		safe, _ := processor.CheckSafety("rm -rf /")
		assert.True(t, safe)
	})
}

func TestExecuteRefusesDangerousCommand(t *testing.T) {
	store := evidence.NewMemStore(nil)
	processor := newTestProcessor(store, &fakeClient{}, silentShell{})

	err := processor.Execute(context.Background(), "rm -rf /")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to execute")
}

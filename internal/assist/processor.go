// Package assist orchestrates the core operations: fixing a detected or
// given error, suggesting a command for a task, explaining a command, and
// answering free-form questions with conversational context.
package assist

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"aicmd/internal/config"
	"aicmd/internal/conversation"
	"aicmd/internal/detect"
	"aicmd/internal/llm"
	"aicmd/internal/parse"
	"aicmd/internal/suggest"
	"aicmd/internal/sysinfo"
)

// executeTimeout bounds a confirmed command execution.
const executeTimeout = 30 * time.Second

// Result is the outcome of one assist operation.
type Result struct {
	Response llm.Response

	// Signal is set for fix operations resolved from ambient evidence.
	Signal      detect.ErrorSignal
	HasSignal   bool
	Suggestions []string
}

// Processor wires the detection, classification, suggestion and language
// model layers together.
type Processor struct {
	config   *config.Config
	resolver *detect.Resolver
	client   llm.Client
	system   *sysinfo.Collector
	memory   *conversation.Memory
	logger   *zap.Logger
}

// NewProcessor creates a Processor. A nil logger defaults to a nop logger.
func NewProcessor(
	cfg *config.Config,
	resolver *detect.Resolver,
	client llm.Client,
	system *sysinfo.Collector,
	memory *conversation.Memory,
	logger *zap.Logger,
) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		config:   cfg,
		resolver: resolver,
		client:   client,
		system:   system,
		memory:   memory,
		logger:   logger,
	}
}

func (p *Processor) systemContext() llm.SystemContext {
	return llm.SystemContext{
		OS:             p.system.OSInfo(),
		Shell:          p.system.Shell(),
		WorkingDir:     p.system.WorkingDir(),
		User:           p.system.User(),
		AvailableTools: p.system.AvailableTools(),
		RecentCommands: p.system.RecentCommands(),
	}
}

// ErrNoErrorDetected is returned by FixDetectedError when every detection
// strategy comes back empty.
var ErrNoErrorDetected = fmt.Errorf("no recent command error detected")

// FixDetectedError resolves the most recent failure from ambient evidence and
// asks the model for a fix.
func (p *Processor) FixDetectedError(ctx context.Context) (Result, error) {
	signal, ok := p.resolver.Resolve(ctx)
	if !ok {
		return Result{}, ErrNoErrorDetected
	}
	return p.fix(ctx, signal)
}

// FixErrorText asks the model to fix an error the user pasted in directly.
func (p *Processor) FixErrorText(ctx context.Context, errorText string) (Result, error) {
	signal := detect.ErrorSignal{RawText: errorText, Source: "user_input"}
	signal.Category, signal.Extracted = parse.Categorize(errorText)
	signal.Command = parse.ExtractCommand(errorText)
	return p.fix(ctx, signal)
}

func (p *Processor) fix(ctx context.Context, signal detect.ErrorSignal) (Result, error) {
	parsed := parse.Tokenize(signal.Command)
	suggestions := suggest.Suggest(parsed, signal.Category)

	p.logger.Debug("fixing error",
		zap.String("category", string(signal.Category)),
		zap.String("command", signal.Command),
		zap.Int("static_suggestions", len(suggestions)),
	)

	prompt := llm.BuildFixPrompt(signal.RawText, signal.Command, suggestions, suggest.CommonCommands, p.systemContext())
	raw, err := p.client.Complete(ctx, prompt)
	if err != nil {
		return Result{}, fmt.Errorf("fix request failed: %w", err)
	}

	return Result{
		Response:    llm.ParseResponse(raw),
		Signal:      signal,
		HasSignal:   true,
		Suggestions: suggestions,
	}, nil
}

// SuggestCommand asks the model for a command matching a natural-language
// task description.
func (p *Processor) SuggestCommand(ctx context.Context, description string) (Result, error) {
	prompt := llm.BuildSuggestPrompt(description, p.systemContext())
	raw, err := p.client.Complete(ctx, prompt)
	if err != nil {
		return Result{}, fmt.Errorf("suggest request failed: %w", err)
	}
	return Result{Response: llm.ParseResponse(raw)}, nil
}

// ExplainCommand asks the model to explain a command in detail.
func (p *Processor) ExplainCommand(ctx context.Context, command string) (Result, error) {
	prompt := llm.BuildExplainPrompt(command, p.systemContext())
	raw, err := p.client.Complete(ctx, prompt)
	if err != nil {
		return Result{}, fmt.Errorf("explain request failed: %w", err)
	}
	return Result{Response: llm.ParseResponse(raw)}, nil
}

// AskQuestion answers a free-form question with conversational context and
// records the exchange in memory.
func (p *Processor) AskQuestion(ctx context.Context, question string) (string, error) {
	bundle := p.memory.ContextFor(question)
	prompt := llm.BuildChatPrompt(question, bundle, p.systemContext())

	answer, err := p.client.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}

	p.memory.Record(question, answer, strings.Contains(answer, "```"))
	return answer, nil
}

// Memory exposes the conversation memory for the chat loop's context and
// clear-context commands.
func (p *Processor) Memory() *conversation.Memory {
	return p.memory
}

// CheckSafety runs the advisory deny-list check when safety checks are
// enabled. It returns ok=false with the matched reason for a flagged command.
func (p *Processor) CheckSafety(command string) (bool, string) {
	if !p.config.SafetyChecks {
		return true, ""
	}
	return parse.IsSafe(command)
}

// Execute runs a confirmed command in the user's shell, bounded by a timeout,
// with output wired to the terminal.
func (p *Processor) Execute(ctx context.Context, command string) error {
	if safe, reason := p.CheckSafety(command); !safe {
		return fmt.Errorf("refusing to execute: %s", reason)
	}

	ctx, cancel := context.WithTimeout(ctx, executeTimeout)
	defer cancel()

	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}

	p.logger.Info("executing command", zap.String("command", command))

	cmd := exec.CommandContext(ctx, shell, "-c", command)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

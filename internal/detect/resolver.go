// Package detect recovers the user's most recently failed command from
// ambient, unreliable evidence: marker files written by shell hooks, shell
// history, a live exit-code probe and captured stderr. Detection runs an
// ordered strategy chain where the first non-empty result wins; a strategy
// that fails is skipped, never retried.
package detect

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"aicmd/internal/evidence"
	"aicmd/internal/parse"
	"aicmd/internal/shellinfo"
)

// ErrorSignal is the immutable result of a successful resolution, passed
// downstream to the suggester and the prompt builders.
type ErrorSignal struct {
	RawText     string
	Command     string
	ExitCode    int
	HasExitCode bool
	Category    parse.Category
	Extracted   string
	Source      string
}

// Strategy is one detection procedure. It returns the raw error text it
// found, or ok=false when it has no signal. Strategies never return errors;
// anything that goes wrong inside one is a non-result.
type Strategy struct {
	Name   string
	Detect func(ctx context.Context) (string, bool)
}

// Resolver runs the strategy chain against an evidence store and a shell
// accessor.
type Resolver struct {
	store  evidence.Store
	shell  shellinfo.Accessor
	logger *zap.Logger
}

// NewResolver creates a Resolver. A nil logger defaults to a nop logger.
func NewResolver(store evidence.Store, shell shellinfo.Accessor, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		store:  store,
		shell:  shell,
		logger: logger,
	}
}

// Strategies returns the detection chain in its fixed order: evidence files,
// shell history, exit-code probe, stderr captures.
func (r *Resolver) Strategies() []Strategy {
	return []Strategy{
		{Name: "evidence_file", Detect: r.detectFromEvidenceFiles},
		{Name: "shell_history", Detect: r.detectFromShellHistory},
		{Name: "exit_code_probe", Detect: r.detectFromExitCodeProbe},
		{Name: "stderr_capture", Detect: r.detectFromStderrCapture},
	}
}

// Resolve tries each strategy in order and classifies the first non-empty
// result. When every strategy comes back empty the second return value is
// false, meaning "no error detected" and the caller must supply input.
func (r *Resolver) Resolve(ctx context.Context) (ErrorSignal, bool) {
	// Read the exit code record up front: the evidence-file strategy purges
	// the whole family on success.
	exitCode, hasExitCode := r.lastExitCodeRecord()

	for _, strategy := range r.Strategies() {
		rawText, ok := strategy.Detect(ctx)
		if !ok || rawText == "" {
			continue
		}

		r.logger.Debug("error detected",
			zap.String("strategy", strategy.Name),
			zap.String("error", rawText),
		)

		signal := ErrorSignal{
			RawText: rawText,
			Source:  strategy.Name,
		}
		signal.Category, signal.Extracted = parse.Categorize(rawText)
		signal.Command = parse.ExtractCommand(rawText)
		if hasExitCode {
			signal.ExitCode = exitCode
			signal.HasExitCode = true
		}
		return signal, true
	}

	return ErrorSignal{}, false
}

// lastExitCodeRecord reads the exit code evidence record if present and
// numeric.
func (r *Resolver) lastExitCodeRecord() (int, bool) {
	content, ok := r.store.Read(evidence.LastExitCode)
	if !ok {
		return 0, false
	}
	code, err := strconv.Atoi(content)
	if err != nil {
		r.logger.Debug("non-numeric exit code record", zap.String("content", content))
		return 0, false
	}
	return code, true
}

// errorRecordKinds are the records the evidence-file strategy reads, in
// preference order.
var errorRecordKinds = []evidence.Kind{
	evidence.LastError,
	evidence.SimpleError,
	evidence.ErrorOutput,
}

// detectFromEvidenceFiles reads the freshest error record written by the
// shell hooks. On success it appends the failed command when the error text
// does not already mention it, then purges the whole error family so the same
// failure cannot be reported twice.
func (r *Resolver) detectFromEvidenceFiles(ctx context.Context) (string, bool) {
	for _, kind := range errorRecordKinds {
		age, ok := r.store.Age(kind)
		if !ok {
			continue
		}
		if age >= evidence.ErrorFreshness {
			r.logger.Debug("stale evidence record skipped",
				zap.String("kind", string(kind)),
				zap.Duration("age", age),
			)
			continue
		}

		content, ok := r.store.Read(kind)
		if !ok {
			continue
		}

		if command, ok := r.store.Read(evidence.LastCommand); ok && !strings.Contains(content, command) {
			content = fmt.Sprintf("%s\nFailed command: %s", content, command)
		}

		// Consume-once: a resolution attempt within the same freshness
		// window must not re-report this failure.
		r.store.Purge(evidence.ErrorFamily()...)

		return content, true
	}

	return "", false
}

// detectFromShellHistory reports a failure from the command and exit code
// records without purging them, falling back to the shell's own history and
// last exit status when the records are absent.
func (r *Resolver) detectFromShellHistory(ctx context.Context) (string, bool) {
	if command, ok := r.store.Read(evidence.LastCommand); ok {
		if code, ok := r.store.Read(evidence.LastExitCode); ok && code == "127" {
			return fmt.Sprintf("Command '%s' not found", command), true
		}
		return fmt.Sprintf("Command '%s' failed", command), true
	}

	command, ok := r.shell.LastHistoryEntry()
	if !ok {
		return "", false
	}
	code, ok := r.shell.LastExitCode(ctx)
	if !ok || code == 0 {
		return "", false
	}
	if code == 127 {
		return fmt.Sprintf("Command '%s' not found", command), true
	}
	return fmt.Sprintf("Command '%s' failed with exit code %d", command, code), true
}

// detectFromExitCodeProbe synchronously asks the user's shell for its last
// exit status. The probe is bounded by shellinfo.ProbeTimeout; a timeout or a
// clean status is no signal.
func (r *Resolver) detectFromExitCodeProbe(ctx context.Context) (string, bool) {
	code, ok := r.shell.LastExitCode(ctx)
	if !ok || code == 0 {
		return "", false
	}
	return fmt.Sprintf("Last command failed with exit code %d", code), true
}

// detectFromStderrCapture returns the most recent per-process stderr capture
// that is still inside its freshness window.
func (r *Resolver) detectFromStderrCapture(ctx context.Context) (string, bool) {
	capture, ok := r.store.LatestStderrCapture()
	if !ok {
		return "", false
	}
	if capture.Age >= evidence.StderrFreshness {
		r.logger.Debug("stale stderr capture skipped", zap.Duration("age", capture.Age))
		return "", false
	}
	return capture.Content, true
}

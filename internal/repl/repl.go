// Package repl implements the interactive and chat loops.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
	"golang.org/x/term"

	"aicmd/internal/assist"
	"aicmd/internal/config"
	"aicmd/internal/history"
	"aicmd/internal/render"
	"aicmd/internal/styles"
)

// historyListLimit is how many entries the history command shows.
const historyListLimit = 20

// Loop drives one interactive session over stdin/stdout.
type Loop struct {
	processor *assist.Processor
	history   *history.Manager
	config    *config.Config
	version   string
	logger    *zap.Logger

	in  *bufio.Scanner
	out io.Writer

	// AutoConfirm skips the execute prompt for suggested commands.
	AutoConfirm bool
}

// NewLoop creates a Loop reading from stdin and writing to stdout. A nil
// logger defaults to a nop logger.
func NewLoop(processor *assist.Processor, historyManager *history.Manager, cfg *config.Config, version string, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		processor: processor,
		history:   historyManager,
		config:    cfg,
		version:   version,
		logger:    logger,
		in:        bufio.NewScanner(os.Stdin),
		out:       os.Stdout,
	}
}

func (l *Loop) width() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 0
}

func (l *Loop) readLine(prompt string) (string, bool) {
	fmt.Fprint(l.out, styles.PROMPT(prompt))
	if !l.in.Scan() {
		fmt.Fprintln(l.out)
		return "", false
	}
	return strings.TrimSpace(l.in.Text()), true
}

// RunInteractive runs the command-assistant loop: free text is treated as a
// task description, prefixed inputs dispatch to fix and explain.
func (l *Loop) RunInteractive(ctx context.Context) error {
	render.Welcome(l.out, render.WelcomeInfo{Model: l.config.Model, Version: l.version})
	fmt.Fprintln(l.out, "Type 'help' for commands, 'exit' to quit.")

	for {
		input, ok := l.readLine("aicmd> ")
		if !ok {
			return nil
		}
		if input == "" {
			continue
		}

		switch {
		case input == "exit" || input == "quit":
			return nil
		case input == "help":
			l.printInteractiveHelp()
		case input == "history":
			l.printHistory(history.KindInteractive)
		case strings.HasPrefix(input, "search "):
			l.searchHistory(history.KindInteractive, strings.TrimPrefix(input, "search "))
		case input == "fix":
			l.recordInput(history.KindInteractive, input, "fix")
			l.runFix(ctx, "")
		case strings.HasPrefix(input, "fix "):
			l.recordInput(history.KindInteractive, input, "fix")
			l.runFix(ctx, strings.TrimPrefix(input, "fix "))
		case strings.HasPrefix(input, "explain "):
			l.recordInput(history.KindInteractive, input, "explain")
			l.runExplain(ctx, strings.TrimPrefix(input, "explain "))
		default:
			l.recordInput(history.KindInteractive, input, "suggest")
			l.runSuggest(ctx, input)
		}
	}
}

// RunChat runs the question-answering loop with conversational context.
func (l *Loop) RunChat(ctx context.Context) error {
	render.Welcome(l.out, render.WelcomeInfo{Model: l.config.Model, Version: l.version, Chat: true})
	fmt.Fprintln(l.out, "Type 'help' for commands, 'exit' to quit.")

	for {
		input, ok := l.readLine("you> ")
		if !ok {
			return nil
		}
		if input == "" {
			continue
		}

		switch {
		case input == "exit" || input == "quit":
			return nil
		case input == "help":
			l.printChatHelp()
		case input == "history":
			l.printHistory(history.KindChat)
		case strings.HasPrefix(input, "search "):
			l.searchHistory(history.KindChat, strings.TrimPrefix(input, "search "))
		case input == "context":
			l.printContext()
		case input == "clear-context":
			l.processor.Memory().Clear()
			fmt.Fprintln(l.out, "Conversation context cleared.")
		default:
			l.recordInput(history.KindChat, input, "chat")
			l.runQuestion(ctx, input)
		}
	}
}

// spin starts a waiting spinner on a terminal; on a pipe it is a no-op.
func (l *Loop) spin(ctx context.Context, message string) func() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return func() {}
	}
	spinner := render.NewSpinner(l.out)
	spinner.SetMessage(message)
	return spinner.Start(ctx)
}

func (l *Loop) runFix(ctx context.Context, errorText string) {
	stop := l.spin(ctx, "working on a fix...")
	var (
		result assist.Result
		err    error
	)
	if errorText == "" {
		result, err = l.processor.FixDetectedError(ctx)
	} else {
		result, err = l.processor.FixErrorText(ctx, errorText)
	}
	stop()
	if err != nil {
		render.Error(l.out, err.Error())
		return
	}
	l.RenderFix(ctx, result)
}

// RenderFix renders a fix result and offers its command, including the
// detection source line. Also used by the one-shot fix command.
func (l *Loop) RenderFix(ctx context.Context, result assist.Result) {
	if result.HasSignal {
		fmt.Fprintln(l.out, render.DimStyle.Render(
			fmt.Sprintf("detected via %s (%s)", result.Signal.Source, result.Signal.Category)))
	}
	l.renderResult(result)
	l.offerCommand(ctx, result.Response.Command)
}

// RenderSuggestion renders a suggestion result and offers its command. Also
// used by the one-shot suggest command.
func (l *Loop) RenderSuggestion(ctx context.Context, result assist.Result) {
	l.renderResult(result)
	l.offerCommand(ctx, result.Response.Command)
}

func (l *Loop) runSuggest(ctx context.Context, description string) {
	stop := l.spin(ctx, "thinking...")
	result, err := l.processor.SuggestCommand(ctx, description)
	stop()
	if err != nil {
		render.Error(l.out, err.Error())
		return
	}
	l.RenderSuggestion(ctx, result)
}

func (l *Loop) runExplain(ctx context.Context, command string) {
	stop := l.spin(ctx, "thinking...")
	result, err := l.processor.ExplainCommand(ctx, command)
	stop()
	if err != nil {
		render.Error(l.out, err.Error())
		return
	}
	render.Sections(l.out, l.width(),
		render.Section{Title: "Explanation", Body: result.Response.Explanation},
		render.Section{Title: "Breakdown", Body: result.Response.Breakdown},
		render.Section{Title: "Behavior", Body: result.Response.Behavior},
	)
	render.Safety(l.out, result.Response.Safety)
}

func (l *Loop) runQuestion(ctx context.Context, question string) {
	stop := l.spin(ctx, "thinking...")
	answer, err := l.processor.AskQuestion(ctx, question)
	stop()
	if err != nil {
		render.Error(l.out, err.Error())
		return
	}
	fmt.Fprintln(l.out)
	fmt.Fprintln(l.out, answer)
	fmt.Fprintln(l.out)
}

func (l *Loop) renderResult(result assist.Result) {
	render.Sections(l.out, l.width(),
		render.Section{Title: "Explanation", Body: result.Response.Explanation},
		render.Section{Title: "Alternatives", Body: result.Response.Alternatives},
	)
	render.Command(l.out, result.Response.Command)
	render.Safety(l.out, result.Response.Safety)
}

// offerCommand asks whether to execute or copy a suggested command. The
// safety check runs even with auto-confirm on.
func (l *Loop) offerCommand(ctx context.Context, command string) {
	if command == "" {
		return
	}

	if safe, reason := l.processor.CheckSafety(command); !safe {
		fmt.Fprintln(l.out, styles.WARNING("⚠ flagged as dangerous: "+reason))
		return
	}

	if l.AutoConfirm || l.config.AutoExecute {
		l.execute(ctx, command)
		return
	}

	choice, ok := l.readLine("[e]xecute, [c]opy or [enter] to skip: ")
	if !ok {
		return
	}
	switch strings.ToLower(choice) {
	case "e", "execute", "y", "yes":
		l.execute(ctx, command)
	case "c", "copy":
		if err := clipboard.WriteAll(command); err != nil {
			render.Error(l.out, "copy failed: "+err.Error())
			return
		}
		fmt.Fprintln(l.out, "Copied to clipboard.")
	}
}

func (l *Loop) execute(ctx context.Context, command string) {
	fmt.Fprintln(l.out, styles.LOG("$ "+command))
	if err := l.processor.Execute(ctx, command); err != nil {
		render.Error(l.out, err.Error())
		return
	}
	fmt.Fprintln(l.out, styles.COMMAND("✓ done"))
}

func (l *Loop) recordInput(kind history.Kind, input, action string) {
	if l.history == nil {
		return
	}
	if _, err := l.history.Append(kind, input, action); err != nil {
		l.logger.Warn("failed to record history entry", zap.Error(err))
	}
}

func (l *Loop) printHistory(kind history.Kind) {
	if l.history == nil {
		fmt.Fprintln(l.out, "History is not available.")
		return
	}
	entries, err := l.history.Recent(kind, historyListLimit)
	if err != nil {
		render.Error(l.out, err.Error())
		return
	}
	if len(entries) == 0 {
		fmt.Fprintln(l.out, "No history yet.")
		return
	}
	for _, entry := range entries {
		fmt.Fprintf(l.out, "%s  %s\n",
			render.DimStyle.Render(entry.CreatedAt.Format("2006-01-02 15:04")),
			entry.Input,
		)
	}
}

func (l *Loop) searchHistory(kind history.Kind, query string) {
	if l.history == nil {
		fmt.Fprintln(l.out, "History is not available.")
		return
	}
	matches, err := l.history.Search(kind, query, historyListLimit)
	if err != nil {
		render.Error(l.out, err.Error())
		return
	}
	if len(matches) == 0 {
		fmt.Fprintln(l.out, "No matches.")
		return
	}
	for _, match := range matches {
		fmt.Fprintln(l.out, match)
	}
}

func (l *Loop) printContext() {
	memory := l.processor.Memory()
	topic := memory.CurrentTopic()
	if topic == "" {
		topic = "(none)"
	}
	fmt.Fprintln(l.out, "Current topic: "+topic)
	if questions := memory.RecentQuestions(5); len(questions) > 0 {
		fmt.Fprintln(l.out, "Recent questions:")
		for _, question := range questions {
			fmt.Fprintln(l.out, "  - "+question)
		}
	}
	fmt.Fprintf(l.out, "Stored exchanges: %d\n", memory.Len())
}

func (l *Loop) printInteractiveHelp() {
	fmt.Fprint(l.out, `
Commands:
  <task description>   suggest a command for the task
  fix                  detect and fix the last command error
  fix <error text>     fix a pasted error message
  explain <command>    explain what a command does
  history              show recent inputs
  search <text>        search past inputs
  exit                 quit

`)
}

func (l *Loop) printChatHelp() {
	fmt.Fprint(l.out, `
Commands:
  <question>       ask anything about the command line
  context          show what the assistant currently remembers
  clear-context    forget the conversation so far
  history          show recent questions
  search <text>    search past questions
  exit             quit

`)
}

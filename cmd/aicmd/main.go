package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/term"

	"aicmd/internal/appupdate"
	"aicmd/internal/assist"
	"aicmd/internal/config"
	"aicmd/internal/conversation"
	"aicmd/internal/core"
	"aicmd/internal/detect"
	"aicmd/internal/evidence"
	"aicmd/internal/history"
	"aicmd/internal/llm"
	"aicmd/internal/render"
	"aicmd/internal/repl"
	"aicmd/internal/shellinfo"
	"aicmd/internal/shellintegration"
	"aicmd/internal/styles"
	"aicmd/internal/sysinfo"
)

var BUILD_VERSION = "dev"

var (
	interactiveFlag = flag.Bool("i", false, "start interactive mode")
	configFlag      = flag.String("c", "", "path to an alternate config file")
	verboseFlag     = flag.Bool("v", false, "enable debug logging")
	autoConfirmFlag = flag.Bool("y", false, "execute suggested commands without confirmation")
	helpFlag        = flag.Bool("h", false, "display help information")
	versionFlag     = flag.Bool("ver", false, "display build version")
)

const helpText = `aicmd - AI-powered terminal command assistant

USAGE:
  aicmd [options] [command] [args...]

MODES:
  aicmd                     Fix the last command error if one is detected
  aicmd -i                  Start interactive mode
  aicmd fix [error text]    Fix the last (or a pasted) command error
  aicmd suggest <task>      Suggest a command for a task description
  aicmd explain <command>   Explain what a command does
  aicmd chat [question]     Answer one question, or start the chat loop
  aicmd setup               Install the shell integration hooks
  aicmd cleanup             Remove leftover evidence files
  aicmd doctor              Show configuration and evidence status

OPTIONS:
`

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Println(BUILD_VERSION)
		return
	}

	if *helpFlag {
		fmt.Print(helpText)
		flag.PrintDefaults()
		return
	}

	configPath := core.ConfigFile()
	if *configFlag != "" {
		configPath = *configFlag
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.ERROR(err.Error()))
		os.Exit(1)
	}

	logger, err := initializeLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("-------- new aicmd session --------", zap.Any("args", os.Args))

	appupdate.HandleSelfUpdate(BUILD_VERSION, logger, appupdate.DefaultUpdater{})

	if latest := appupdate.ReadLatestVersion(); latest != "" && latest != BUILD_VERSION {
		fmt.Fprintln(os.Stderr, styles.LOG(fmt.Sprintf("a newer version (%s) is available", latest)))
	}

	if err := run(cfg, logger); err != nil {
		render.Error(os.Stderr, err.Error())
		logger.Error("unhandled error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	command := flag.Arg(0)
	args := ""
	if flag.NArg() > 1 {
		args = strings.Join(flag.Args()[1:], " ")
	}

	// Commands that need no language model.
	switch command {
	case "setup":
		return runSetup()
	case "cleanup":
		return runCleanup()
	case "doctor":
		return runDoctor(cfg)
	}

	processor, historyManager, err := initializeProcessor(cfg, logger)
	if err != nil {
		return err
	}

	loop := repl.NewLoop(processor, historyManager, cfg, BUILD_VERSION, logger)
	loop.AutoConfirm = *autoConfirmFlag

	if *interactiveFlag {
		return loop.RunInteractive(ctx)
	}

	switch command {
	case "fix":
		return runOneShotFix(ctx, processor, loop, args)
	case "suggest":
		if args == "" {
			return fmt.Errorf("usage: aicmd suggest <task description>")
		}
		return renderOneShot(ctx, processor.SuggestCommand, loop, args)
	case "explain":
		if args == "" {
			return fmt.Errorf("usage: aicmd explain <command>")
		}
		result, err := processor.ExplainCommand(ctx, args)
		if err != nil {
			return err
		}
		width, _, _ := term.GetSize(int(os.Stdout.Fd()))
		render.Sections(os.Stdout, width,
			render.Section{Title: "Explanation", Body: result.Response.Explanation},
			render.Section{Title: "Breakdown", Body: result.Response.Breakdown},
			render.Section{Title: "Behavior", Body: result.Response.Behavior},
		)
		render.Safety(os.Stdout, result.Response.Safety)
		return nil
	case "chat":
		if args != "" {
			answer, err := processor.AskQuestion(ctx, args)
			if err != nil {
				return err
			}
			fmt.Println(answer)
			return nil
		}
		return loop.RunChat(ctx)
	case "":
		return runSmartMode(ctx, processor, loop)
	default:
		// Treat unrecognized words as a task description.
		return renderOneShot(ctx, processor.SuggestCommand, loop, strings.Join(flag.Args(), " "))
	}
}

// runSmartMode fixes a detected error when one exists; otherwise it points at
// the explicit modes instead of guessing what the user wanted.
func runSmartMode(ctx context.Context, processor *assist.Processor, loop *repl.Loop) error {
	result, err := processor.FixDetectedError(ctx)
	if err == nil {
		loop.RenderFix(ctx, result)
		return nil
	}
	if err != assist.ErrNoErrorDetected {
		return err
	}

	fmt.Println("No recent command error detected.")
	fmt.Println("Try 'aicmd suggest <task>', 'aicmd chat' or 'aicmd -i'; see 'aicmd -h' for everything else.")
	return nil
}

func runOneShotFix(ctx context.Context, processor *assist.Processor, loop *repl.Loop, errorText string) error {
	var (
		result assist.Result
		err    error
	)
	if errorText == "" {
		result, err = processor.FixDetectedError(ctx)
	} else {
		result, err = processor.FixErrorText(ctx, errorText)
	}
	if err != nil {
		return err
	}
	loop.RenderFix(ctx, result)
	return nil
}

func renderOneShot(ctx context.Context, op func(context.Context, string) (assist.Result, error), loop *repl.Loop, input string) error {
	result, err := op(ctx, input)
	if err != nil {
		return err
	}
	loop.RenderSuggestion(ctx, result)
	return nil
}

func runSetup() error {
	shell := shellinfo.NewSystemAccessor(nil)
	scriptPath, err := shellintegration.Install(core.DataDir(), core.HomeDir(), shell.Shell(), core.EvidenceDir())
	if err != nil {
		return err
	}

	fmt.Println("Shell integration installed: " + scriptPath)
	fmt.Println("Restart your shell or run: source " + scriptPath)

	if _, err := os.Stat(core.ConfigFile()); os.IsNotExist(err) {
		if err := config.Default().Save(core.ConfigFile()); err != nil {
			return err
		}
		fmt.Println("Default configuration written: " + core.ConfigFile())
	}

	if os.Getenv("OPENAI_API_KEY") == "" && os.Getenv("AICMD_API_KEY") == "" {
		fmt.Println(styles.WARNING("No API key found. Set OPENAI_API_KEY or api_key in " + core.ConfigFile()))
	}
	return nil
}

func runCleanup() error {
	store := evidence.NewFileStore(core.EvidenceDir(), nil)
	store.Purge(evidence.ErrorFamily()...)
	store.PurgeStderrCaptures()
	fmt.Println("Evidence files removed.")
	return nil
}

// runDoctor reports configuration and evidence health without touching any
// records.
func runDoctor(cfg *config.Config) error {
	fmt.Println("aicmd " + BUILD_VERSION)
	fmt.Println()
	fmt.Println("config file:  " + core.ConfigFile())
	fmt.Println("log file:     " + core.LogFile())
	fmt.Println("history file: " + core.HistoryFile())
	fmt.Println("evidence dir: " + core.EvidenceDir())
	fmt.Println("model:        " + cfg.Model)

	if cfg.APIKey == "" {
		fmt.Println(styles.WARNING("API key:      not configured"))
	} else {
		fmt.Println("API key:      configured")
	}

	probe := filepath.Join(core.EvidenceDir(), "aicmd_doctor_probe")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		fmt.Println(styles.WARNING("evidence dir is not writable: " + err.Error()))
	} else {
		os.Remove(probe)
		fmt.Println("evidence dir:  writable")
	}

	fmt.Println()
	store := evidence.NewFileStore(core.EvidenceDir(), nil)
	for _, kind := range evidence.ErrorFamily() {
		age, ok := store.Age(kind)
		if !ok {
			fmt.Printf("%-24s absent\n", string(kind))
			continue
		}
		freshness := "stale"
		if age < evidence.ErrorFreshness {
			freshness = "fresh"
		}
		fmt.Printf("%-24s written %s (%s)\n", string(kind), humanize.Time(time.Now().Add(-age)), freshness)
	}
	if capture, ok := store.LatestStderrCapture(); ok {
		freshness := "stale"
		if capture.Age < evidence.StderrFreshness {
			freshness = "fresh"
		}
		fmt.Printf("%-24s written %s (%s)\n", "stderr capture", humanize.Time(time.Now().Add(-capture.Age)), freshness)
	}

	if latest := appupdate.ReadLatestVersion(); latest != "" {
		fmt.Println()
		fmt.Println("latest known release: " + latest)
	}
	return nil
}

func initializeProcessor(cfg *config.Config, logger *zap.Logger) (*assist.Processor, *history.Manager, error) {
	store := evidence.NewFileStore(core.EvidenceDir(), nil)
	shell := shellinfo.NewSystemAccessor(logger)
	resolver := detect.NewResolver(store, shell, logger)
	system := sysinfo.NewCollector(shell)
	memory := conversation.NewMemory(nil)

	client, err := llm.NewOpenAIClient(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	historyManager, err := history.NewManager(core.HistoryFile())
	if err != nil {
		logger.Warn("history unavailable", zap.Error(err))
		historyManager = nil
	}

	return assist.NewProcessor(cfg, resolver, client, system, memory, logger), historyManager, nil
}

func initializeLogger(cfg *config.Config) (*zap.Logger, error) {
	logLevel := zap.NewAtomicLevelAt(zap.InfoLevel)
	if parsed, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		logLevel = parsed
	}
	if *verboseFlag {
		logLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = logLevel
	loggerConfig.OutputPaths = []string{core.LogFile()}
	if *verboseFlag {
		loggerConfig.OutputPaths = append(loggerConfig.OutputPaths, "stderr")
	}

	return loggerConfig.Build()
}

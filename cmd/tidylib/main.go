package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/handiism/audiobook-tidy/internal/audit"
	"github.com/handiism/audiobook-tidy/internal/config"
	"github.com/handiism/audiobook-tidy/internal/executor"
	"github.com/handiism/audiobook-tidy/internal/logger"
	"github.com/handiism/audiobook-tidy/internal/model"
	"github.com/handiism/audiobook-tidy/internal/report"
	"github.com/handiism/audiobook-tidy/internal/scanner"
)

// Exit codes.
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	code := exitOK
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\nInterrupted, finishing the current book...")
			stop()
		case <-gctx.Done():
		}
		return nil
	})
	g.Go(func() error {
		defer stop()
		code = run(gctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
		return nil
	})
	_ = g.Wait()

	os.Exit(code)
}

type options struct {
	root      string
	config    string
	envFile   string
	apply     bool
	review    bool
	dryRun    bool
	verbose   bool
	logLevel  string
	logFormat string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("tidylib", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var o options
	fs.StringVar(&o.root, "root", "", "Library root (prompted for when empty)")
	fs.StringVar(&o.config, "config", "", "Path to settings file (default: user config dir)")
	fs.StringVar(&o.envFile, "env-file", ".env", "Path to .env file")
	fs.BoolVar(&o.apply, "apply", false, "Apply every proposed change without asking")
	fs.BoolVar(&o.review, "review", false, "Review each book before applying it")
	fs.BoolVar(&o.dryRun, "dry-run", false, "Show proposed changes and exit")
	fs.BoolVar(&o.verbose, "verbose", false, "Show every moved file")
	fs.StringVar(&o.logLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error)")
	fs.StringVar(&o.logFormat, "log-format", "", "Diagnostic log format (pretty, json)")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "Audiobook Library Tidy - reorganize a library into Author / Series / Title")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Usage:")
		fmt.Fprintln(stderr, "  tidylib [-root DIR] [-apply | -review | -dry-run] [options]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "For interactive mode, use: tidylib-tui")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.apply && o.review {
		return nil, errors.New("-apply and -review are mutually exclusive")
	}
	return &o, nil
}

func loadSettings(o *options) (*config.Settings, error) {
	path := o.config
	if path == "" {
		path = config.DefaultPath()
	}
	settings, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	vars, err := config.ReadEnvFile(o.envFile)
	if err != nil {
		return nil, err
	}
	settings.ApplyEnv(config.EnvLookup(vars))
	settings.ApplyOverrides(config.Overrides{
		LibraryPath: o.root,
		LogLevel:    o.logLevel,
		LogFormat:   o.logFormat,
	})

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return settings, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	settings, err := loadSettings(o)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	log := logger.New(logger.Config{
		Writer: stderr,
		Format: settings.LogFormat,
		Level:  logger.ParseLevel(settings.LogLevel),
	})

	p := newPrompter(stdin, stdout)
	r := report.NewRenderer(stdout)

	fmt.Fprintf(stdout, "\n%s\n", r.Styles().Title.Render("=== Audiobook Library Tidy Tool ==="))

	root, err := libraryRoot(ctx, settings, p, r)
	if err != nil {
		return exitCode(ctx, stderr, err)
	}
	log.Debug("library root", "root", root)

	fmt.Fprintf(stdout, "\n%s\n", r.Styles().Header.Render("Scanning and analyzing library..."))
	opts := settings.ToScannerOptions()
	opts.OnProgress = func(pr scanner.Progress) {
		if pr.Current%5 == 0 || pr.Current == pr.Total {
			fmt.Fprintf(stdout, "\r  Processing: %d/%d books...", pr.Current, pr.Total)
		}
	}
	res, err := scanner.New(opts, log.Logger).Scan(ctx, root)
	fmt.Fprintln(stdout)
	if err != nil {
		return exitCode(ctx, stderr, err)
	}
	if res.Skipped > 0 {
		log.Warn("some books were skipped", "count", res.Skipped)
	}

	r.Stats(report.NewStatsView(res.Stats))
	if len(res.Plans) == 0 {
		r.AlreadyTidy()
		fmt.Fprintln(stdout)
		return exitOK
	}

	views := make([]report.PlanView, len(res.Plans))
	for i, plan := range res.Plans {
		views[i] = report.NewPlanView(plan, root)
	}
	r.Proposed(views)

	if o.dryRun {
		fmt.Fprintf(stdout, "\n%s\n\n", r.Styles().Dim.Render("[Dry run - no changes made]"))
		return exitOK
	}

	review := o.review
	if !o.apply && !o.review {
		r.Menu(len(res.Plans))
		choice, err := p.ask(ctx, "\n  Selection: ")
		if err != nil {
			return exitCode(ctx, stderr, err)
		}
		switch choice {
		case "1":
		case "2":
			review = true
		default:
			r.Exited()
			return exitOK
		}
	}

	auditLog := audit.Open(settings.LogPath(root))
	engine := executor.NewEngine(auditLog, nil, progressPrinter(stdout, r, review, o.verbose))

	decide := executor.ApplyAll
	if review {
		decide = func(i int, _ *model.BookPlan) executor.Decision {
			r.Plan(views[i], fmt.Sprintf("[%d/%d]", i+1, len(res.Plans)))
			answer, err := p.ask(ctx, r.ConfirmPrompt())
			if err != nil {
				return executor.DecisionQuit
			}
			switch strings.ToLower(answer) {
			case "y":
				return executor.DecisionApply
			case "q":
				return executor.DecisionQuit
			}
			return executor.DecisionSkip
		}
	}

	sum := engine.Run(ctx, res.Plans, decide)
	r.Results(report.NewResultsView(sum, engine.Collisions(), auditLog.Path()))

	switch {
	case ctx.Err() != nil:
		return exitInterrupted
	case sum.Errors > 0:
		return exitFailure
	}
	return exitOK
}

// libraryRoot returns the configured root, or asks for one until a valid
// directory is given.
func libraryRoot(ctx context.Context, settings *config.Settings, p *prompter, r *report.Renderer) (string, error) {
	if settings.LibraryPath != "" {
		root, err := settings.ResolveLibraryPath()
		if err != nil {
			return "", err
		}
		if !isDir(root) {
			return "", fmt.Errorf("%w: %s", scanner.ErrNotDirectory, root)
		}
		return root, nil
	}

	for {
		input, err := p.ask(ctx, "\n"+r.Styles().Book.Render("Enter path to library:")+" ")
		if err != nil {
			return "", err
		}
		if input == "" {
			continue
		}
		settings.LibraryPath = input
		root, err := settings.ResolveLibraryPath()
		if err == nil && isDir(root) {
			return root, nil
		}
		fmt.Fprintln(p.out, r.Styles().Error.Render("Path invalid."))
	}
}

func progressPrinter(w io.Writer, r *report.Renderer, review, verbose bool) func(executor.ProgressEvent) {
	s := r.Styles()
	return func(event executor.ProgressEvent) {
		switch event.Level {
		case executor.LevelVerbose:
			if verbose {
				fmt.Fprintf(w, "    %s\n", s.Dim.Render(event.Message))
			}
		case executor.LevelSuccess:
			if review {
				r.Applied()
			} else if verbose {
				fmt.Fprintf(w, "  %s\n", s.Success.Render("✓ "+event.Message))
			}
		case executor.LevelWarning:
			fmt.Fprintf(w, "  %s\n", s.Warning.Render("! "+event.Message))
		case executor.LevelError:
			fmt.Fprintf(w, "  %s\n", s.Error.Render("✗ "+event.Message))
		default:
			fmt.Fprintf(w, "  %s\n", event.Message)
		}
	}
}

func exitCode(ctx context.Context, stderr io.Writer, err error) int {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		fmt.Fprintln(stderr, "Cancelled.")
		return exitInterrupted
	}
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(stderr, "\nNo input.")
		return exitFailure
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitFailure
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// prompter reads answers line by line. Reading happens on its own
// goroutine so a pending prompt gives way to cancellation.
type prompter struct {
	out   io.Writer
	lines chan string
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	p := &prompter{out: out, lines: make(chan string)}
	go func() {
		defer close(p.lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			p.lines <- sc.Text()
		}
	}()
	return p
}

func (p *prompter) ask(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

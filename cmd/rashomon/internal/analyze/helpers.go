package analyze

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/tinyland-inc/rashomon/cmd/rashomon/internal"
	"github.com/tinyland-inc/rashomon/pkg/dispatch"
	"github.com/tinyland-inc/rashomon/pkg/lens"
	"github.com/tinyland-inc/rashomon/pkg/logger"
	"github.com/tinyland-inc/rashomon/pkg/perspective"
	"github.com/tinyland-inc/rashomon/pkg/render"
	"github.com/tinyland-inc/rashomon/pkg/sensemaking"
)

type reflection struct {
	aligned, challenged lens.Lens
	enabled             bool
}

func parseReflection(aligned, challenged string) (reflection, error) {
	if aligned == "" && challenged == "" {
		return reflection{}, nil
	}
	if aligned == "" || challenged == "" {
		return reflection{}, errors.New("--aligned and --challenged must be given together")
	}
	a, err := lens.Parse(aligned)
	if err != nil {
		return reflection{}, fmt.Errorf("--aligned: %w", err)
	}
	c, err := lens.Parse(challenged)
	if err != nil {
		return reflection{}, fmt.Errorf("--challenged: %w", err)
	}
	return reflection{aligned: a, challenged: c, enabled: true}, nil
}

func analyzeCmd(ctx context.Context, event string, opts options, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.debug {
		logger.SetLevel(logger.DEBUG)
		fmt.Fprintln(out, "🔍 Debug mode enabled")
	}

	refl, err := parseReflection(opts.aligned, opts.challenged)
	if err != nil {
		return err
	}

	cfg, err := internal.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	provider := strings.ToLower(strings.TrimSpace(opts.provider))
	if provider == "" {
		provider = cfg.Providers.Default
	}

	worker, err := internal.NewWorker(cfg, provider)
	if err != nil {
		return fmt.Errorf("error creating worker: %w", err)
	}

	f, isFile := in.(*os.File)
	terminal := isFile && readline.IsTerminal(int(f.Fd()))

	// One reader serves the key prompt and the piped event.
	br := bufio.NewReader(in)
	credential, source, err := internal.ResolveCredential(cfg, provider, opts.key, opts.askKey, br, out)
	if err != nil {
		return fmt.Errorf("error reading api key: %w", err)
	}
	if source == internal.CredentialNone {
		fmt.Fprintln(out, render.Hint(internal.DemoModeWarning, !opts.plain))
	}
	logger.DebugCF("analyze", "Credential resolved", map[string]any{
		"provider": provider,
		"source":   string(source),
	})

	d := dispatch.New(worker)
	s := session{d: d, credential: credential, plain: opts.plain, refl: refl, out: out}

	if strings.TrimSpace(event) != "" {
		s.run(ctx, event)
		return nil
	}

	if terminal {
		fmt.Fprintf(out, "%s Interactive mode (Ctrl+C to exit)\n\n", internal.Logo)
		interactiveMode(ctx, s)
		return nil
	}

	data, err := io.ReadAll(br)
	if err != nil {
		return fmt.Errorf("error reading event: %w", err)
	}
	s.run(ctx, string(data))
	return nil
}

type session struct {
	d          *dispatch.Dispatcher
	credential string
	plain      bool
	refl       reflection
	out        io.Writer
}

func (s session) run(ctx context.Context, event string) dispatch.Report {
	var report dispatch.Report
	if s.plain {
		report = s.d.Run(ctx, event, s.credential, func(r perspective.Result) {
			fmt.Fprintln(s.out, render.Plain(r))
		})
	} else {
		report = s.d.Run(ctx, event, s.credential, nil)
		fmt.Fprintln(s.out, render.Columns(report.Results, s.d.Lenses(), screenWidth()))
	}
	fmt.Fprintln(s.out, render.Summary(report.Elapsed, !s.plain))

	if s.refl.enabled {
		fmt.Fprintf(s.out, "\n%s %s\n%s %s\n\n%s\n",
			sensemaking.AlignedQuestion, s.refl.aligned.Name(),
			sensemaking.ChallengedQuestion, s.refl.challenged.Name(),
			sensemaking.Reflect(s.refl.aligned, s.refl.challenged))
	}
	return report
}

func screenWidth() int {
	if w := readline.GetScreenWidth(); w > 0 {
		return w
	}
	return render.DefaultWidth
}

func interactiveMode(ctx context.Context, s session) {
	prompt := fmt.Sprintf("%s Event: ", internal.Logo)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     filepath.Join(os.TempDir(), ".rashomon_history"),
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(s.out, "Error initializing readline: %v\n", err)
		fmt.Fprintln(s.out, "Falling back to simple input mode...")
		simpleInteractiveMode(ctx, s, os.Stdin)
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(s.out, "Error reading input: %v\n", err)
			continue
		}
		if !s.handleLine(ctx, line) {
			return
		}
	}
}

func simpleInteractiveMode(ctx context.Context, s session, in io.Reader) {
	reader := bufio.NewReader(in)
	for {
		fmt.Fprintf(s.out, "%s Event: ", internal.Logo)
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(s.out, "Error reading input: %v\n", err)
			continue
		}
		if !s.handleLine(ctx, line) {
			return
		}
	}
}

// handleLine runs one event and reports whether to keep reading.
func (s session) handleLine(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}
	if input == "exit" || input == "quit" {
		fmt.Fprintln(s.out, "Goodbye!")
		return false
	}
	s.run(ctx, input)
	fmt.Fprintln(s.out)
	return true
}

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"distlint/cmd/ui/report"
	"distlint/cmd/ui/spinner"
	"distlint/pkg/check"
	"distlint/pkg/config"
	"distlint/pkg/engine"
	"distlint/pkg/logging"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	checkTarget   string
	checkBrowsers []string
	checkDist     []string
	checkEngine   string
	checkQuiet    bool
)

var checkCmd = &cobra.Command{
	Use:   "check [PROJECT_PATH]",
	Short: "Run the analysis engine over the project's build output",
	Long: `Check runs the analysis engine over the project's build output and reports
every construct newer than the target language level, remapped to the
authored sources where source maps allow.

Values not passed as flags are read from .distlint.yaml, then detected from
the project's configuration files. Exit status is 0 when the output is
compatible, 1 when blocking diagnostics were found, and 2 when the check
could not run.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runCheck,
}

func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&checkTarget, "target", "t", "", `language level the output must satisfy (e.g. "es2017", "es6", "latest")`)
	cmd.Flags().StringSliceVarP(&checkBrowsers, "browsers", "b", nil, "browserslist queries the output must support")
	cmd.Flags().StringSliceVarP(&checkDist, "dist", "d", nil, "output directories to scan, relative to the project root")
	cmd.Flags().StringVar(&checkEngine, "engine", "", "analysis engine command (default: distlint-engine on PATH)")
	cmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false, "print diagnostics only, no summary")
}

func runCheck(cmd *cobra.Command, args []string) {
	logger := logging.New("cli")

	projectPath, err := check.ValidateDir(pathArg(args))
	if err != nil {
		fatal(err)
	}

	opts := check.Options{
		Dir:      projectPath,
		Target:   checkTarget,
		Browsers: checkBrowsers,
		Dist:     checkDist,
		Env:      browserslistEnv(),
		Logger:   logger,
	}

	cfg := config.Load(projectPath, logger)
	cfg.Apply(&opts)
	opts.Engine = buildEngine(cfg, logger)

	interactive := !jsonOutput && !skipInteractive && !checkQuiet && isTerminal()

	var spinnerProgram *tea.Program
	if interactive {
		fmt.Println(logoStyle.Render(Logo))
		spinnerProgram = tea.NewProgram(spinner.InitialModel("Checking build output..."))
		go func() {
			if _, err := spinnerProgram.Run(); err != nil {
				if err.Error() != "program was killed" {
					fmt.Fprintf(os.Stderr, "Error running spinner: %v\n", err)
				}
			}
		}()
	}

	result, runErr := check.NewOrchestrator(opts).Run(cmd.Context())

	if spinnerProgram != nil {
		spinnerProgram.Send(spinner.Done{})
		spinnerProgram.Wait()
	}

	if runErr != nil {
		fatal(runErr)
	}

	switch {
	case jsonOutput:
		printJSON(result)
	case interactive:
		fmt.Println(report.Render(result))
		if len(result.Diagnostics) > 0 {
			fmt.Printf("\n%s\n", tipMsgStyle.Render("Tip: 'distlint resolve FILE:LINE:COL' traces any position to its source"))
		}
	default:
		plainReport(result)
	}

	if !result.Success() {
		os.Exit(1)
	}
}

// buildEngine picks the analysis engine command: the --engine flag wins,
// then the project file, then the default lookup on PATH.
func buildEngine(cfg config.ProjectConfig, logger *slog.Logger) engine.Engine {
	eng := engine.NewExec(checkEngine)
	if checkEngine == "" && cfg.Engine.Command != "" {
		eng = engine.NewExec(cfg.Engine.Command, cfg.Engine.Args...)
	}
	eng.Logger = logger
	return eng
}

// plainReport prints one line per diagnostic plus a summary, for pipes and
// CI logs. Positions prefer the authored source when remapping succeeded.
func plainReport(result *check.Result) {
	for _, d := range result.Diagnostics {
		pos := fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Col)
		if d.Resolved != nil {
			pos = fmt.Sprintf("%s:%d:%d", d.Resolved.File, d.Resolved.Line, d.Resolved.Col)
		}
		rule := ""
		if d.Rule != "" {
			rule = " [" + d.Rule + "]"
		}
		fmt.Printf("%s: %s: %s%s\n", pos, d.Severity, d.Message, rule)
	}
	if checkQuiet {
		return
	}
	fmt.Printf("%d blocking, %d advisory (target %s from %s)\n",
		result.Blocking, result.Advisory, result.Target, result.TargetSource)
}

func init() {
	addCheckFlags(checkCmd)
}

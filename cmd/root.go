package cmd

import (
	"fmt"
	"os"

	"distlint/pkg/logging"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const Version = "0.1.0"

const Logo = `
██████╗ ██╗███████╗████████╗██╗     ██╗███╗   ██╗████████╗
██╔══██╗██║██╔════╝╚══██╔══╝██║     ██║████╗  ██║╚══██╔══╝
██║  ██║██║███████╗   ██║   ██║     ██║██╔██╗ ██║   ██║
██║  ██║██║╚════██║   ██║   ██║     ██║██║╚██╗██║   ██║
██████╔╝██║███████║   ██║   ███████╗██║██║ ╚████║   ██║
╚═════╝ ╚═╝╚══════╝   ╚═╝   ╚══════╝╚═╝╚═╝  ╚═══╝   ╚═╝
`

var (
	logoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#01FAC6")).Bold(true)
	tipMsgStyle    = lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("190")).Italic(true)
	endingMsgStyle = lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("170")).Bold(true)
)

var (
	jsonOutput      bool
	skipInteractive bool
	verbose         bool
)

var rootCmd = &cobra.Command{
	Use:   "distlint [PROJECT_PATH]",
	Short: "Check built JavaScript output against its target language level",
	Long: `distlint checks a directory of built JavaScript against the ECMAScript
edition and browsers it has to run on, and maps every finding back to the
authored sources through source maps.

The target language level, build output directory, and runtime list are
detected from the configuration files already in the project (tsconfig,
babel, bundler configs, browserslist), so most projects need no flags at
all.`,
	Version: Version,
	Args:    cobra.MaximumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logging.Options{Verbose: verbose, JSON: jsonOutput})
	},
	Run: runCheck,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// isTerminal reports whether stdout is attached to an interactive terminal.
// CI pipelines and dumb terminals get plain output even when stdout is a tty.
func isTerminal() bool {
	if os.Getenv("CI") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func init() {
	rootCmd.SetVersionTemplate("distlint version {{.Version}}\n")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(mcpCmd)

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output results as JSON")
	rootCmd.PersistentFlags().BoolVar(&skipInteractive, "no-interactive", false, "disable interactive UI (for CI/automation)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	addCheckFlags(rootCmd)
}

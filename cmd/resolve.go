package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"distlint/pkg/logging"
	"distlint/pkg/remap"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve FILE:LINE:COL",
	Short: "Map a compiled position back to its authored source",
	Long: `Resolve walks the source map chain behind a compiled file and prints the
authored position for a compiled one. LINE is 1-based and COL is 0-based,
matching the positions the analysis engine reports.`,
	Args: cobra.ExactArgs(1),
	Run:  runResolve,
}

func runResolve(cmd *cobra.Command, args []string) {
	file, line, col, err := parsePosition(args[0])
	if err != nil {
		fatal(err)
	}

	resolver := remap.New(logging.New("cli"))
	pos, ok := resolver.Lookup(file, line, col)
	if !ok {
		fmt.Fprintf(os.Stderr, "no source map resolves %s:%d:%d\n", file, line, col)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(pos)
		return
	}

	if pos.OnDisk {
		fmt.Printf("%s:%d:%d\n", pos.File, pos.Line, pos.Col)
	} else {
		fmt.Printf("%s:%d:%d (not on disk)\n", pos.File, pos.Line, pos.Col)
	}
}

// parsePosition splits FILE:LINE:COL from the right, so colons inside FILE
// (Windows drive letters, URL-ish bundler paths) survive.
func parsePosition(arg string) (string, int, int, error) {
	i := strings.LastIndex(arg, ":")
	if i < 0 {
		return "", 0, 0, fmt.Errorf("expected FILE:LINE:COL, got %q", arg)
	}
	j := strings.LastIndex(arg[:i], ":")
	if j < 1 {
		return "", 0, 0, fmt.Errorf("expected FILE:LINE:COL, got %q", arg)
	}

	line, err := strconv.Atoi(arg[j+1 : i])
	if err != nil || line < 1 {
		return "", 0, 0, fmt.Errorf("line must be a positive integer, got %q", arg[j+1:i])
	}
	col, err := strconv.Atoi(arg[i+1:])
	if err != nil || col < 0 {
		return "", 0, 0, fmt.Errorf("column must be a non-negative integer, got %q", arg[i+1:])
	}
	return arg[:j], line, col, nil
}

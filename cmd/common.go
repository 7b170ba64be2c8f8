package cmd

import (
	"encoding/json"
	"fmt"
	"os"
)

// pathArg returns the optional PROJECT_PATH argument, defaulting to the
// current directory.
func pathArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// browserslistEnv resolves the active browserslist environment the way the
// browserslist tooling does: BROWSERSLIST_ENV wins, NODE_ENV is the fallback.
func browserslistEnv() string {
	if env := os.Getenv("BROWSERSLIST_ENV"); env != "" {
		return env
	}
	return os.Getenv("NODE_ENV")
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(2)
	}
}

// fatal reports an error that prevented the check from running at all and
// exits with status 2, leaving 1 to mean "ran, found blocking problems".
func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(2)
}

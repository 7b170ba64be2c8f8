package cmd

import (
	"fmt"

	"distlint/cmd/ui/detection"
	"distlint/pkg/check"
	"distlint/pkg/detect"
	"distlint/pkg/logging"

	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect [PROJECT_PATH]",
	Short: "Show the detected target, output directory, and runtime list",
	Long: `Detect scans the project's configuration files in priority order and prints
the target language level, build output directory, and runtime list a check
would use, each with the file that supplied it. Nothing is analyzed.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runDetect,
}

func runDetect(cmd *cobra.Command, args []string) {
	projectPath, err := check.ValidateDir(pathArg(args))
	if err != nil {
		fatal(err)
	}

	res := detect.Detect(projectPath, detect.Options{
		Env:    browserslistEnv(),
		Logger: logging.New("cli"),
	})

	if jsonOutput || skipInteractive || !isTerminal() {
		printJSON(res)
		return
	}

	fmt.Println(logoStyle.Render(Logo))
	fmt.Println(detection.Render(res, projectPath))
	fmt.Printf("\n%s\n", endingMsgStyle.Render("Run 'distlint check' to analyze the build output"))
}

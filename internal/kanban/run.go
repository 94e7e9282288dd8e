package kanban

import (
	"fmt"
	"io"
	"os"

	"github.com/simonjohansson/kanbandesk/internal/board"
)

// Run executes the CLI and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer, env []string) int {
	home, err := os.UserHomeDir()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, FormatError(OutputText, board.CodeIO, err.Error()))
		return exitCode(board.CodeIO)
	}

	fileCfg, err := LoadOrInitConfig(home)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, FormatError(OutputText, board.CodeIO, err.Error()))
		return exitCode(board.CodeIO)
	}

	cfg := MergeConfig(DefaultConfig(home), fileCfg, ParseEnvConfig(env), Config{})
	if !isValidOutput(string(cfg.Output)) {
		cfg.Output = OutputText
	}

	root := NewRootCommand(cfg, stdout, stderr)
	root.SetArgs(args)
	return execute(root.Execute(), cfg.Output, root.PersistentFlags().GetString, stderr)
}

func execute(err error, output Output, flag func(string) (string, error), stderr io.Writer) int {
	if err == nil {
		return 0
	}
	if current, flagErr := flag("output"); flagErr == nil && isValidOutput(current) {
		output = Output(current)
	}

	var cErr *cliError
	if !asCLIError(err, &cErr) {
		// Anything cobra reports itself is a usage problem.
		cErr = &cliError{status: board.CodeValidation, message: err.Error()}
	}
	_, _ = fmt.Fprintln(stderr, FormatError(output, cErr.status, cErr.message))
	return exitCode(cErr.status)
}

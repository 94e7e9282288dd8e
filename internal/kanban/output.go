package kanban

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/simonjohansson/kanbandesk/internal/board"
)

type Output string

const (
	OutputText Output = "text"
	OutputJSON Output = "json"
)

type cliError struct {
	status  board.Code
	message string
}

func (e *cliError) Error() string {
	return e.message
}

func isValidOutput(v string) bool {
	return v == string(OutputText) || v == string(OutputJSON)
}

func FormatError(output Output, status board.Code, message string) string {
	msg := strings.TrimSpace(message)
	if msg == "" {
		msg = string(status)
	}

	if output == OutputJSON {
		payload := map[string]any{
			"status": status,
			"error":  msg,
		}
		raw, _ := json.Marshal(payload)
		return string(raw)
	}

	return fmt.Sprintf("error (%s): %s", status, msg)
}

// exitCode maps an error status to the process exit code.
func exitCode(status board.Code) int {
	switch status {
	case board.CodeValidation:
		return 2
	case board.CodeNotFound:
		return 3
	case board.CodeConflict:
		return 4
	case board.CodeDataFormat:
		return 5
	case board.CodeIO:
		return 6
	default:
		return 1
	}
}

func wrapCLIError(err error) error {
	if err == nil {
		return nil
	}
	var cErr *cliError
	if errors.As(err, &cErr) {
		return cErr
	}
	return &cliError{status: board.CodeOf(err), message: board.MessageOf(err)}
}

func newCLIError(status board.Code, format string, args ...any) error {
	return &cliError{status: status, message: fmt.Sprintf(format, args...)}
}

// emit writes payload as one compact JSON line, or text as-is.
func emit(output Output, stdout io.Writer, text string, payload any) error {
	if output == OutputJSON {
		raw, err := json.Marshal(payload)
		if err != nil {
			return &cliError{status: board.CodeInternal, message: err.Error()}
		}
		_, _ = fmt.Fprintln(stdout, string(raw))
		return nil
	}

	text = strings.TrimRight(text, "\n")
	if text == "" {
		text = "ok"
	}
	_, _ = fmt.Fprintln(stdout, text)
	return nil
}

func emitFromString(output string, stdout io.Writer, text string, payload any) error {
	if !isValidOutput(output) {
		return newCLIError(board.CodeValidation, "invalid --output: %s", output)
	}
	return emit(Output(output), stdout, text, payload)
}

func asCLIError(err error, target **cliError) bool {
	return errors.As(err, target)
}

package kanban

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/simonjohansson/kanbandesk/internal/board"
	"github.com/stretchr/testify/require"
)

func TestCLIErrorAndHelpers(t *testing.T) {
	t.Parallel()

	require.Equal(t, "boom", (&cliError{message: "boom"}).Error())
	var target *cliError
	require.True(t, asCLIError(&cliError{message: "x"}, &target))
	require.True(t, asCLIError(fmt.Errorf("wrapped: %w", &cliError{message: "y"}), &target))
	require.Equal(t, "y", target.message)
	require.False(t, asCLIError(errors.New("x"), &target))
}

func TestWrapCLIErrorKeepsBoardStatus(t *testing.T) {
	t.Parallel()

	err := wrapCLIError(&board.Error{Code: board.CodeConflict, Message: "column busy"})
	var cErr *cliError
	require.True(t, asCLIError(err, &cErr))
	require.Equal(t, board.CodeConflict, cErr.status)
	require.Equal(t, "column busy", cErr.message)

	err = wrapCLIError(errors.New("plain"))
	require.True(t, asCLIError(err, &cErr))
	require.Equal(t, board.CodeInternal, cErr.status)

	require.NoError(t, wrapCLIError(nil))
}

func TestExitCodes(t *testing.T) {
	t.Parallel()

	seen := map[int]board.Code{}
	for _, code := range []board.Code{board.CodeValidation, board.CodeNotFound, board.CodeConflict, board.CodeDataFormat, board.CodeIO} {
		got := exitCode(code)
		require.NotEqual(t, 0, got)
		require.NotContains(t, seen, got, "exit code %d reused", got)
		seen[got] = code
	}
	require.Equal(t, 1, exitCode(board.CodeInternal))
}

func TestEmitBranches(t *testing.T) {
	t.Parallel()

	t.Run("json payload is compact", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, emit(OutputJSON, &out, "ignored", map[string]any{"id": 1}))
		require.Equal(t, "{\"id\":1}\n", out.String())
	})

	t.Run("text empty emits ok", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, emit(OutputText, &out, "", nil))
		require.Equal(t, "ok\n", out.String())
	})

	t.Run("text trims trailing newlines", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, emit(OutputText, &out, "line\n\n", nil))
		require.Equal(t, "line\n", out.String())
	})

	t.Run("invalid output string", func(t *testing.T) {
		err := emitFromString("xml", &bytes.Buffer{}, "", nil)
		var cErr *cliError
		require.True(t, asCLIError(err, &cErr))
		require.Equal(t, board.CodeValidation, cErr.status)
	})
}

func TestFormatErrorTextFallbackStatus(t *testing.T) {
	t.Parallel()
	line := FormatError(OutputText, board.CodeNotFound, "")
	require.Equal(t, "error (not_found): not_found", line)
}

package board

import (
	"errors"
	"fmt"
	"os/user"
	"testing"

	"github.com/stretchr/testify/require"
)

// These tests swap the package-level lookup and must not run in parallel.

func TestCurrentUserStripsDomain(t *testing.T) {
	orig := lookupUser
	t.Cleanup(func() { lookupUser = orig })
	lookupUser = func() (*user.User, error) {
		return &user.User{Username: `CORP\jdoe`}, nil
	}

	require.Equal(t, "jdoe", CurrentUser())
}

func TestCurrentUserFallsBackToEnvironment(t *testing.T) {
	orig := lookupUser
	t.Cleanup(func() { lookupUser = orig })
	lookupUser = func() (*user.User, error) {
		return nil, errors.New("no passwd entry")
	}

	t.Setenv("USER", "")
	t.Setenv("USERNAME", "fallback")
	require.Equal(t, "fallback", CurrentUser())

	t.Setenv("USERNAME", "")
	require.Equal(t, "unknown", CurrentUser())
}

func TestErrorHelpers(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	err := Wrap(CodeIO, cause, "write board")
	require.Equal(t, CodeIO, CodeOf(err))
	require.Equal(t, "write board: disk full", MessageOf(err))
	require.ErrorIs(t, err, cause)
	require.ErrorIs(t, fmt.Errorf("save: %w", err), ErrIO)
	require.NotErrorIs(t, err, ErrNotFound)

	nf := Errorf(CodeNotFound, "card %d not found", 4)
	require.Equal(t, "card 4 not found", nf.Error())
	require.ErrorIs(t, nf, ErrNotFound)
	require.Len(t, Codes(), 6)

	require.Equal(t, CodeInternal, CodeOf(cause))
	require.Equal(t, "disk full", MessageOf(cause))
	require.Equal(t, "", MessageOf(nil))
}

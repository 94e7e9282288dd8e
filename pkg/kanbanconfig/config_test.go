package kanbanconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadOrInitCreatesDefaults(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	cfg, err := LoadOrInit(home)
	require.NoError(t, err)

	require.Equal(t, filepath.Join(home, ".local", "state", "kanban", "board.json"), cfg.Board.Path)
	require.NotEmpty(t, cfg.Store.SQLitePath)
	require.NotEmpty(t, cfg.Store.CardsPath)
	require.Equal(t, DefaultOutput, cfg.CLI.Output)
	require.Equal(t, DefaultLogLevel, cfg.CLI.LogLevel)
	require.Empty(t, cfg.CLI.User)
	require.Equal(t, filepath.Join(home, ".config", "kanban", "config.yaml"), ConfigPath(home))
	require.NoError(t, cfg.Validate())

	_, err = os.Stat(ConfigPath(home))
	require.NoError(t, err)
}

func TestLoadOrInitMergesMissingFields(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	path := ConfigPath(home)

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`
board:
  path: /seed/board.json
store:
  sqlite_path: /seed/projection.db
cli:
  output: json
  user: dana
  log_level: DEBUG
`), 0o644))

	cfg, err := LoadOrInit(home)
	require.NoError(t, err)

	require.Equal(t, "/seed/board.json", cfg.Board.Path)
	require.Equal(t, "/seed/projection.db", cfg.Store.SQLitePath)
	require.NotEmpty(t, cfg.Store.CardsPath)
	require.Equal(t, "json", cfg.CLI.Output)
	require.Equal(t, "dana", cfg.CLI.User)
	require.Equal(t, "debug", cfg.CLI.LogLevel)

	roundTrip, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, cfg, roundTrip)
}

func TestLoadFileRejectsInvalidYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("board: [unclosed"), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := Default("/home/test")
	require.NoError(t, valid.Validate())

	badOutput := valid
	badOutput.CLI.Output = "xml"
	require.ErrorContains(t, badOutput.Validate(), "Output")

	badLevel := valid
	badLevel.CLI.LogLevel = "trace"
	require.ErrorContains(t, badLevel.Validate(), "LogLevel")

	noBoard := valid
	noBoard.Board.Path = ""
	require.ErrorContains(t, noBoard.Validate(), "Path")
}

package kanbanconfig

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

const (
	DefaultOutput   = "text"
	DefaultLogLevel = "warn"
)

var (
	Outputs   = []any{"text", "json"}
	LogLevels = []any{"debug", "info", "warn", "error"}
)

type Config struct {
	Board BoardConfig `yaml:"board"`
	Store StoreConfig `yaml:"store"`
	CLI   CLIConfig   `yaml:"cli"`
}

type BoardConfig struct {
	Path string `yaml:"path"`
}

// StoreConfig locates the derived stores: the SQLite projection and the
// markdown export directory. Neither is read back into the board.
type StoreConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
	CardsPath  string `yaml:"cards_path"`
}

type CLIConfig struct {
	Output   string `yaml:"output"`
	User     string `yaml:"user,omitempty"`
	LogLevel string `yaml:"log_level"`
}

func Default(home string) Config {
	stateDir := filepath.Join(home, ".local", "state", "kanban")

	return Config{
		Board: BoardConfig{
			Path: filepath.Join(stateDir, "board.json"),
		},
		Store: StoreConfig{
			SQLitePath: filepath.Join(stateDir, "projection.db"),
			CardsPath:  filepath.Join(stateDir, "cards"),
		},
		CLI: CLIConfig{
			Output:   DefaultOutput,
			LogLevel: DefaultLogLevel,
		},
	}
}

func ConfigPath(home string) string {
	return filepath.Join(home, ".config", "kanban", "config.yaml")
}

// Validate checks a merged configuration. User is optional; the account
// name is used when it is empty.
func (c Config) Validate() error {
	if err := validation.ValidateStruct(&c.Board,
		validation.Field(&c.Board.Path, validation.Required),
	); err != nil {
		return err
	}
	if err := validation.ValidateStruct(&c.Store,
		validation.Field(&c.Store.SQLitePath, validation.Required),
		validation.Field(&c.Store.CardsPath, validation.Required),
	); err != nil {
		return err
	}
	return validation.ValidateStruct(&c.CLI,
		validation.Field(&c.CLI.Output, validation.Required, validation.In(Outputs...)),
		validation.Field(&c.CLI.LogLevel, validation.Required, validation.In(LogLevels...)),
	)
}

func LoadOrInit(home string) (Config, error) {
	path := ConfigPath(home)
	defaults := Default(home)

	cfg, err := LoadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := SaveFile(path, defaults); err != nil {
				return Config{}, err
			}
			return defaults, nil
		}
		return Config{}, err
	}

	merged := Merge(defaults, cfg)
	if merged != cfg {
		if err := SaveFile(path, merged); err != nil {
			return Config{}, err
		}
	}

	return merged, nil
}

func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}

	return normalize(cfg), nil
}

func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(normalize(cfg))
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func Merge(defaults Config, user Config) Config {
	out := normalize(defaults)
	in := normalize(user)

	if in.Board.Path != "" {
		out.Board.Path = in.Board.Path
	}

	if in.Store.SQLitePath != "" {
		out.Store.SQLitePath = in.Store.SQLitePath
	}
	if in.Store.CardsPath != "" {
		out.Store.CardsPath = in.Store.CardsPath
	}

	if in.CLI.Output != "" {
		out.CLI.Output = in.CLI.Output
	}
	if in.CLI.User != "" {
		out.CLI.User = in.CLI.User
	}
	if in.CLI.LogLevel != "" {
		out.CLI.LogLevel = in.CLI.LogLevel
	}

	return out
}

func normalize(cfg Config) Config {
	cfg.Board.Path = strings.TrimSpace(cfg.Board.Path)
	cfg.Store.SQLitePath = strings.TrimSpace(cfg.Store.SQLitePath)
	cfg.Store.CardsPath = strings.TrimSpace(cfg.Store.CardsPath)
	cfg.CLI.Output = strings.TrimSpace(cfg.CLI.Output)
	cfg.CLI.User = strings.TrimSpace(cfg.CLI.User)
	cfg.CLI.LogLevel = strings.ToLower(strings.TrimSpace(cfg.CLI.LogLevel))
	return cfg
}

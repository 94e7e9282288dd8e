package kanban

import (
	"strings"

	"github.com/simonjohansson/kanbandesk/pkg/kanbanconfig"
)

type Config struct {
	BoardPath  string `yaml:"board_path"`
	Output     Output `yaml:"output"`
	CardsPath  string `yaml:"cards_path"`
	SQLitePath string `yaml:"sqlite_path"`
	User       string `yaml:"user"`
	LogLevel   string `yaml:"log_level"`
}

func DefaultConfig(home string) Config {
	return mapSharedToCLI(kanbanconfig.Default(home))
}

func ParseEnvConfig(env []string) Config {
	cfg := Config{}

	for _, kv := range env {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "KANBAN_BOARD_PATH":
			cfg.BoardPath = value
		case "KANBAN_OUTPUT":
			if isValidOutput(value) {
				cfg.Output = Output(value)
			}
		case "KANBAN_CARDS_PATH":
			cfg.CardsPath = value
		case "KANBAN_SQLITE_PATH":
			cfg.SQLitePath = value
		case "KANBAN_USER":
			cfg.User = value
		case "KANBAN_LOG_LEVEL":
			cfg.LogLevel = strings.ToLower(value)
		}
	}

	return cfg
}

func MergeConfig(defaults, fileCfg, envCfg, flagCfg Config) Config {
	out := defaults
	applyConfig(&out, fileCfg)
	applyConfig(&out, envCfg)
	applyConfig(&out, flagCfg)
	return out
}

func applyConfig(dst *Config, src Config) {
	if value := strings.TrimSpace(src.BoardPath); value != "" {
		dst.BoardPath = value
	}
	if src.Output != "" {
		dst.Output = src.Output
	}
	if value := strings.TrimSpace(src.CardsPath); value != "" {
		dst.CardsPath = value
	}
	if value := strings.TrimSpace(src.SQLitePath); value != "" {
		dst.SQLitePath = value
	}
	if value := strings.TrimSpace(src.User); value != "" {
		dst.User = value
	}
	if value := strings.TrimSpace(src.LogLevel); value != "" {
		dst.LogLevel = value
	}
}

// Validate checks the merged configuration with the shared config rules.
func (c Config) Validate() error {
	return toShared(kanbanconfig.Config{}, c).Validate()
}

func LoadOrInitConfig(home string) (Config, error) {
	shared, err := kanbanconfig.LoadOrInit(home)
	if err != nil {
		return Config{}, err
	}
	return mapSharedToCLI(shared), nil
}

func ConfigPath(home string) string {
	return kanbanconfig.ConfigPath(home)
}

func LoadConfigFile(path string) (Config, error) {
	shared, err := kanbanconfig.LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	return mapSharedToCLI(shared), nil
}

func SaveConfigFile(path string, cfg Config) error {
	shared, err := kanbanconfig.LoadFile(path)
	if err != nil {
		shared = kanbanconfig.Config{}
	}
	return kanbanconfig.SaveFile(path, toShared(shared, cfg))
}

func toShared(shared kanbanconfig.Config, cfg Config) kanbanconfig.Config {
	shared.Board.Path = strings.TrimSpace(cfg.BoardPath)
	shared.Store.CardsPath = strings.TrimSpace(cfg.CardsPath)
	shared.Store.SQLitePath = strings.TrimSpace(cfg.SQLitePath)
	shared.CLI.Output = strings.TrimSpace(string(cfg.Output))
	shared.CLI.User = strings.TrimSpace(cfg.User)
	shared.CLI.LogLevel = strings.TrimSpace(cfg.LogLevel)
	return shared
}

func mapSharedToCLI(shared kanbanconfig.Config) Config {
	cfg := Config{
		BoardPath:  strings.TrimSpace(shared.Board.Path),
		Output:     Output(strings.TrimSpace(shared.CLI.Output)),
		CardsPath:  strings.TrimSpace(shared.Store.CardsPath),
		SQLitePath: strings.TrimSpace(shared.Store.SQLitePath),
		User:       strings.TrimSpace(shared.CLI.User),
		LogLevel:   strings.TrimSpace(shared.CLI.LogLevel),
	}
	if cfg.Output != "" && !isValidOutput(string(cfg.Output)) {
		cfg.Output = ""
	}
	return cfg
}

package kanban

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	charmlog "github.com/charmbracelet/log"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/simonjohansson/kanbandesk/internal/board"
	"github.com/simonjohansson/kanbandesk/internal/kanban/commands/cardcmd"
	"github.com/simonjohansson/kanbandesk/internal/kanban/commands/columncmd"
	"github.com/simonjohansson/kanbandesk/internal/kanban/commands/common"
	"github.com/simonjohansson/kanbandesk/internal/model"
	"github.com/simonjohansson/kanbandesk/internal/store"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	boardPath string
	output    string
	user      string
	logLevel  string
}

// commandRuntime is shared by every command. The logger is installed once
// the persistent flags have been parsed.
type commandRuntime struct {
	cfg    *Config
	logger *slog.Logger
	now    func() time.Time
}

func (r *commandRuntime) Output() string {
	return string(r.cfg.Output)
}

func (r *commandRuntime) Now() time.Time {
	return r.now()
}

func (r *commandRuntime) newBoard(opts ...board.Option) *board.Board {
	base := []board.Option{
		board.WithLogger(r.logger),
		board.WithUser(r.cfg.User),
		board.WithClock(r.now),
		board.WithPublisher(board.PublisherFunc(func(e board.Event) {
			r.logger.Debug("board event", "type", e.Type, "card_id", e.CardID, "column", e.Column)
		})),
	}
	return board.New(append(base, opts...)...)
}

func (r *commandRuntime) OpenBoard() (*board.Board, error) {
	b := r.newBoard()
	if err := b.LoadBoardFile(r.cfg.BoardPath); err != nil {
		if errors.Is(err, board.ErrNotFound) {
			return nil, board.Errorf(board.CodeNotFound, "no board at %s; run `kanban init` first", r.cfg.BoardPath)
		}
		return nil, err
	}
	return b, nil
}

func (r *commandRuntime) SaveBoard(b *board.Board) error {
	if err := os.MkdirAll(filepath.Dir(r.cfg.BoardPath), 0o755); err != nil {
		return board.Wrap(board.CodeIO, err, "create board directory")
	}
	_, err := b.SaveBoard(r.cfg.BoardPath)
	return err
}

func NewRootCommand(initial Config, stdout, stderr io.Writer) *cobra.Command {
	return newRootCommand(initial, stdout, stderr, time.Now)
}

func newRootCommand(initial Config, stdout, stderr io.Writer, now func() time.Time) *cobra.Command {
	cfg := initial
	flags := globalFlags{
		boardPath: initial.BoardPath,
		output:    string(initial.Output),
		user:      initial.User,
		logLevel:  initial.LogLevel,
	}
	runtime := &commandRuntime{cfg: &cfg, logger: slog.New(slog.DiscardHandler), now: now}

	root := &cobra.Command{
		Use:   "kanban",
		Short: "Manage a personal kanban board stored in a JSON file.",
		Long: strings.TrimSpace(`kanban manages a single-user kanban board:
- columns of cards, each card with owner, urgency, due date and comment
- a per-card history of every change and who made it
- derived views: markdown export and a queryable SQLite projection

Use kanban help <command> for command-specific examples.

Global flags:
- --board selects the board file
- --output selects text/json formatting
- --user overrides the name stamped on history entries`),
		Example: strings.TrimSpace(`kanban init
kanban show
kanban card add -t "Fix login" -s "In Progress" -u High
kanban card move -i 1 --to Done
kanban column add -t Blocked --after "In Progress"
kanban --output json card find login
kanban watch`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := applyGlobalFlags(&cfg, flags); err != nil {
				return err
			}
			runtime.logger = newLogger(stderr, cfg.LogLevel)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&flags.boardPath, "board", flags.boardPath, "Board JSON file")
	root.PersistentFlags().StringVar(&flags.output, "output", flags.output, "Output format: text or json")
	root.PersistentFlags().StringVar(&flags.user, "user", flags.user, "Name recorded on history entries (defaults to the account name)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", flags.logLevel, "Log level: debug, info, warn or error")

	root.AddCommand(newInitCommand(runtime, stdout))
	root.AddCommand(newShowCommand(runtime, stdout))
	root.AddCommand(cardcmd.New(runtime, stdout, emitFromString, wrapCLIError))
	root.AddCommand(columncmd.New(runtime, stdout, emitFromString, wrapCLIError))
	root.AddCommand(newExportCommand(runtime, stdout))
	root.AddCommand(newRebuildCommand(runtime, stdout))
	root.AddCommand(newQueryCommand(runtime, stdout))
	root.AddCommand(newWatchCommand(runtime, stdout))
	root.AddCommand(newPrimerCommand(&cfg, stdout))

	return root
}

func applyGlobalFlags(cfg *Config, flags globalFlags) error {
	output := strings.TrimSpace(flags.output)
	if !isValidOutput(output) {
		return newCLIError(board.CodeValidation, "invalid --output: %s", output)
	}

	cfg.Output = Output(output)
	cfg.BoardPath = strings.TrimSpace(flags.boardPath)
	cfg.User = strings.TrimSpace(flags.user)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(flags.logLevel))

	if cfg.BoardPath == "" {
		return newCLIError(board.CodeValidation, "--board cannot be empty")
	}
	if err := cfg.Validate(); err != nil {
		return newCLIError(board.CodeValidation, "invalid configuration: %s", err.Error())
	}
	return nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	lvl, err := charmlog.ParseLevel(level)
	if err != nil {
		lvl = charmlog.WarnLevel
	}
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           lvl,
		Prefix:          "kanban",
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	return slog.New(handler)
}

func newInitCommand(runtime *commandRuntime, stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new board.",
		Long:  "Write a new board with the default columns. An existing board is kept unless --force is given.",
		Example: strings.TrimSpace(`kanban init
kanban --board ./team.json init --force`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force")
			path := runtime.cfg.BoardPath
			if _, err := os.Stat(path); err == nil && !force {
				return newCLIError(board.CodeConflict, "board %s already exists; use --force to overwrite", path)
			}

			b := runtime.newBoard()
			if err := runtime.SaveBoard(b); err != nil {
				return wrapCLIError(err)
			}
			columns := make([]string, 0, b.Columns().Len())
			for _, column := range b.Columns().Items() {
				columns = append(columns, column.Title())
			}
			text := fmt.Sprintf("created board %s with columns: %s", path, strings.Join(columns, ", "))
			return emit(runtime.cfg.Output, stdout, text, map[string]any{"path": path, "columns": columns})
		},
	}
	cmd.Flags().Bool("force", false, "Overwrite an existing board")
	return cmd
}

type boardView struct {
	Columns []columnBoardView `json:"columns"`
	NextID  int               `json:"next_id"`
}

type columnBoardView struct {
	Title     string            `json:"title"`
	CardCount int               `json:"card_count"`
	Cards     []common.CardView `json:"cards"`
}

func newShowCommand(runtime *commandRuntime, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:     "show",
		Aliases: []string{"board"},
		Short:   "Show the board.",
		Long:    "Render every column with its cards. Overdue cards are highlighted.",
		Example: strings.TrimSpace(`kanban show
kanban --output json show`),
		RunE: func(_ *cobra.Command, _ []string) error {
			b, err := runtime.OpenBoard()
			if err != nil {
				return wrapCLIError(err)
			}
			now := runtime.Now()
			view := boardView{NextID: b.PeekNextID(), Columns: make([]columnBoardView, 0, b.Columns().Len())}
			for _, column := range b.Columns().Items() {
				cv := columnBoardView{Title: column.Title(), CardCount: column.CardCount(), Cards: make([]common.CardView, 0)}
				for _, card := range column.Cards().Items() {
					cv.Cards = append(cv.Cards, common.NewCardView(card, column.Title(), now))
				}
				view.Columns = append(view.Columns, cv)
			}
			return emit(runtime.cfg.Output, stdout, RenderBoard(b.Columns().Items(), now), view)
		},
	}
}

func newExportCommand(runtime *commandRuntime, stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export cards as markdown.",
		Long:  "Write one markdown file per card, with YAML frontmatter, and remove files of deleted cards.",
		Example: strings.TrimSpace(`kanban export
kanban export --dir ./cards`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			if strings.TrimSpace(dir) == "" {
				dir = runtime.cfg.CardsPath
			}
			b, err := runtime.OpenBoard()
			if err != nil {
				return wrapCLIError(err)
			}
			exporter, err := store.NewMarkdownExporter(dir)
			if err != nil {
				return newCLIError(board.CodeIO, "export: %s", err.Error())
			}
			written, err := exporter.Export(b.Columns().Items())
			if err != nil {
				return newCLIError(board.CodeIO, "export: %s", err.Error())
			}
			runtime.logger.Info("cards exported", "dir", dir, "written", written)
			text := fmt.Sprintf("exported %d card(s) to %s", written, dir)
			return emit(runtime.cfg.Output, stdout, text, map[string]any{"dir": dir, "written": written})
		},
	}
	cmd.Flags().String("dir", "", "Target directory (defaults to the configured cards path)")
	return cmd
}

func rebuildProjection(runtime *commandRuntime, b *board.Board) (*store.SQLiteProjection, error) {
	path := runtime.cfg.SQLitePath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, newCLIError(board.CodeIO, "create sqlite parent dir failed: %s", err.Error())
	}
	projection, err := store.NewSQLiteProjection(path)
	if err != nil {
		return nil, newCLIError(board.CodeIO, "open sqlite projection: %s", err.Error())
	}
	if err := projection.RebuildFromBoard(b.Columns().Items()); err != nil {
		_ = projection.Close()
		return nil, newCLIError(board.CodeIO, "rebuild sqlite projection: %s", err.Error())
	}
	runtime.logger.Info("projection rebuilt", "sqlite_path", path)
	return projection, nil
}

func newRebuildCommand(runtime *commandRuntime, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the SQLite projection.",
		Long:  "Replace the contents of the SQLite projection with the current board.",
		Example: strings.TrimSpace(`kanban rebuild
KANBAN_SQLITE_PATH=/tmp/board.db kanban rebuild`),
		RunE: func(_ *cobra.Command, _ []string) error {
			b, err := runtime.OpenBoard()
			if err != nil {
				return wrapCLIError(err)
			}
			projection, err := rebuildProjection(runtime, b)
			if err != nil {
				return err
			}
			defer projection.Close()

			cards := len(b.Summaries())
			text := fmt.Sprintf("rebuilt %s: %d column(s), %d card(s)", runtime.cfg.SQLitePath, b.Columns().Len(), cards)
			return emit(runtime.cfg.Output, stdout, text, map[string]any{
				"sqlite_path": runtime.cfg.SQLitePath,
				"columns":     b.Columns().Len(),
				"cards":       cards,
			})
		},
	}
}

func newQueryCommand(runtime *commandRuntime, stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query cards through the SQLite projection.",
		Long: strings.TrimSpace(`Refresh the SQLite projection from the board and filter cards by owner,
status, urgency or overdue state. With --history, list one card's history instead.`),
		Example: strings.TrimSpace(`kanban query --owner sam --overdue
kanban query --urgency urgent --output json
kanban query --history 3`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			owner, _ := cmd.Flags().GetString("owner")
			status, _ := cmd.Flags().GetString("status")
			urgency, _ := cmd.Flags().GetString("urgency")
			overdue, _ := cmd.Flags().GetBool("overdue")
			historyID, _ := cmd.Flags().GetInt("history")

			if strings.TrimSpace(urgency) != "" {
				if err := validation.Validate(model.ParseUrgency(urgency), validation.Required.Error("must be one of Low, Medium, High, Urgent")); err != nil {
					return newCLIError(board.CodeValidation, "urgency: %s", err.Error())
				}
			}

			b, err := runtime.OpenBoard()
			if err != nil {
				return wrapCLIError(err)
			}
			projection, err := rebuildProjection(runtime, b)
			if err != nil {
				return err
			}
			defer projection.Close()

			if cmd.Flags().Changed("history") {
				rows, err := projection.ListHistory(historyID)
				if err != nil {
					return newCLIError(board.CodeIO, "query history: %s", err.Error())
				}
				entries := common.NewHistory(rows)
				return emit(runtime.cfg.Output, stdout, common.FormatHistory(entries), map[string]any{"id": historyID, "history": entries})
			}

			q := store.CardQuery{Owner: owner, Status: status, Urgency: urgency}
			if overdue {
				now := runtime.Now()
				q.OverdueAsOf = &now
			}
			cards, err := projection.ListCards(q)
			if err != nil {
				return newCLIError(board.CodeIO, "query cards: %s", err.Error())
			}
			return emit(runtime.cfg.Output, stdout, common.FormatSummaries(cards, runtime.Now()), map[string]any{"cards": cards})
		},
	}
	cmd.Flags().StringP("owner", "o", "", "Owner (case-insensitive)")
	cmd.Flags().StringP("status", "s", "", "Exact status")
	cmd.Flags().StringP("urgency", "u", "", "Urgency (Low|Medium|High|Urgent)")
	cmd.Flags().Bool("overdue", false, "Only cards due today or earlier")
	cmd.Flags().Int("history", 0, "List the history of this card id instead")
	return cmd
}

func newWatchCommand(runtime *commandRuntime, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Aliases: []string{"follow"},
		Short:   "Print a summary line whenever the board file changes.",
		Long:    "Watch the board file and print column counts after every change until interrupted.",
		Example: strings.TrimSpace(`kanban watch
kanban --output json watch`),
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, runtime, stdout)
		},
	}
}

func runWatch(ctx context.Context, runtime *commandRuntime, stdout io.Writer) error {
	emitLine := func(b *board.Board) error {
		line, err := FormatWatchLine(runtime.cfg.Output, snapshotBoard(runtime.cfg.BoardPath, b, runtime.Now()))
		if err != nil {
			return newCLIError(board.CodeInternal, "%s", err.Error())
		}
		if _, err := fmt.Fprintln(stdout, line); err != nil {
			return newCLIError(board.CodeIO, "%s", err.Error())
		}
		return nil
	}

	b, err := runtime.OpenBoard()
	if err != nil {
		return wrapCLIError(err)
	}
	if err := emitLine(b); err != nil {
		return err
	}
	if err := watchBoard(ctx, runtime.cfg.BoardPath, runtime.logger, runtime.OpenBoard, emitLine); err != nil {
		var cErr *cliError
		if errors.As(err, &cErr) {
			return cErr
		}
		return newCLIError(board.CodeIO, "watch: %s", err.Error())
	}
	return nil
}

func newPrimerCommand(cfg *Config, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "primer",
		Short: "Print concise usage guidance.",
		Long:  "Prints quick command examples and usage conventions for scripting.",
		Example: strings.TrimSpace(`kanban primer
kanban --output json primer`),
		RunE: func(_ *cobra.Command, _ []string) error {
			return printPrimer(cfg.Output, stdout)
		},
	}
}

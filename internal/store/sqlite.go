package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/simonjohansson/kanbandesk/internal/model"
)

// SQLiteProjection is a queryable copy of a board document. It is rebuilt
// wholesale from the board and never written back.
type SQLiteProjection struct {
	db *sql.DB
}

type CardQuery struct {
	Owner       string
	Status      string
	Urgency     string
	OverdueAsOf *time.Time
}

func NewSQLiteProjection(path string) (*SQLiteProjection, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	projection := &SQLiteProjection{db: db}
	if err := projection.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return projection, nil
}

func (p *SQLiteProjection) Close() error {
	return p.db.Close()
}

func (p *SQLiteProjection) init() error {
	_, err := p.db.Exec(`
CREATE TABLE IF NOT EXISTS columns (
  position INTEGER PRIMARY KEY,
  title TEXT NOT NULL,
  card_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS cards (
  id INTEGER NOT NULL,
  column_position INTEGER NOT NULL,
  column_title TEXT NOT NULL,
  position INTEGER NOT NULL,
  title TEXT NOT NULL,
  owner TEXT NOT NULL,
  description TEXT NOT NULL,
  urgency TEXT NOT NULL,
  status TEXT NOT NULL,
  due_date TEXT,
  comment TEXT NOT NULL,
  history_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS history (
  card_id INTEGER NOT NULL,
  seq INTEGER NOT NULL,
  timestamp TEXT NOT NULL,
  property TEXT NOT NULL,
  old_value TEXT NOT NULL,
  new_value TEXT NOT NULL,
  changed_by TEXT NOT NULL
);
`)
	return err
}

func (p *SQLiteProjection) RebuildFromBoard(columns []*model.Column) (err error) {
	tx, err := p.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"history", "cards", "columns"} {
		if _, err = tx.Exec(`DELETE FROM ` + table); err != nil {
			return err
		}
	}

	for position, column := range columns {
		if _, err = tx.Exec(`INSERT INTO columns (position, title, card_count) VALUES (?, ?, ?)`,
			position, column.Title(), column.CardCount(),
		); err != nil {
			return fmt.Errorf("insert column %s: %w", column.Title(), err)
		}
		for cardPos, card := range column.Cards().Items() {
			var due any
			if d := card.DueDate(); d != nil {
				due = d.Format(model.DueDateLayout)
			}
			if _, err = tx.Exec(`
INSERT INTO cards (
  id, column_position, column_title, position, title, owner, description, urgency, status, due_date, comment, history_count
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
				card.ID(),
				position,
				column.Title(),
				cardPos,
				card.Title(),
				card.Owner(),
				card.Description(),
				card.Urgency().String(),
				card.Status(),
				due,
				card.Comment(),
				card.HistoryLen(),
			); err != nil {
				return fmt.Errorf("insert card %d: %w", card.ID(), err)
			}
			for seq, entry := range card.History() {
				if _, err = tx.Exec(`
INSERT INTO history (card_id, seq, timestamp, property, old_value, new_value, changed_by)
VALUES (?, ?, ?, ?, ?, ?, ?)
`,
					card.ID(),
					seq,
					entry.Timestamp.UTC().Format(time.RFC3339Nano),
					entry.PropertyChanged,
					entry.OldValue,
					entry.NewValue,
					entry.ChangedBy,
				); err != nil {
					return fmt.Errorf("insert history for card %d: %w", card.ID(), err)
				}
			}
		}
	}

	return tx.Commit()
}

func (p *SQLiteProjection) ListCards(q CardQuery) ([]model.CardSummary, error) {
	query := `
SELECT c.id, c.column_title, c.position, c.title, c.owner, c.urgency, c.status, c.due_date, c.history_count
FROM cards c`
	var (
		where []string
		args  []any
	)
	if v := strings.TrimSpace(q.Owner); v != "" {
		where = append(where, `c.owner = ? COLLATE NOCASE`)
		args = append(args, v)
	}
	if v := strings.TrimSpace(q.Status); v != "" {
		where = append(where, `c.status = ?`)
		args = append(args, v)
	}
	if v := strings.TrimSpace(q.Urgency); v != "" {
		where = append(where, `c.urgency = ?`)
		args = append(args, model.ParseUrgency(v).String())
	}
	if q.OverdueAsOf != nil {
		where = append(where, `c.due_date IS NOT NULL AND c.due_date <= ?`)
		args = append(args, q.OverdueAsOf.Format(model.DueDateLayout))
	}
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY c.column_position ASC, c.position ASC`

	rows, err := p.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := make([]model.CardSummary, 0)
	for rows.Next() {
		var (
			c   model.CardSummary
			due sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Column, &c.Position, &c.Title, &c.Owner, &c.Urgency, &c.Status, &due, &c.HistoryCount); err != nil {
			return nil, err
		}
		if due.Valid {
			parsed, err := time.Parse(model.DueDateLayout, due.String)
			if err != nil {
				return nil, err
			}
			c.DueDate = &parsed
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}

func (p *SQLiteProjection) ListHistory(cardID int) ([]model.ActivityEntry, error) {
	rows, err := p.db.Query(`
SELECT timestamp, property, old_value, new_value, changed_by
FROM history
WHERE card_id = ?
ORDER BY seq ASC`, cardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]model.ActivityEntry, 0)
	for rows.Next() {
		var (
			e  model.ActivityEntry
			ts string
		)
		if err := rows.Scan(&ts, &e.PropertyChanged, &e.OldValue, &e.NewValue, &e.ChangedBy); err != nil {
			return nil, err
		}
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

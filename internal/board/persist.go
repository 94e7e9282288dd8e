package board

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/simonjohansson/kanbandesk/internal/model"
	"github.com/simonjohansson/kanbandesk/internal/store"
)

// MarshalBoard renders the board as the persisted JSON document.
func (b *Board) MarshalBoard() ([]byte, error) {
	data, err := store.EncodeBoard(b.columns.Items())
	if err != nil {
		return nil, Wrap(CodeInternal, err, "encode board")
	}
	return data, nil
}

// SaveBoard writes the board document to path and returns the bytes written.
// An empty path only serializes: the document is returned and nothing is
// written.
func (b *Board) SaveBoard(path string) ([]byte, error) {
	data, err := b.MarshalBoard()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(path) == "" {
		b.logger.Debug("board serialized without a path; nothing written", "bytes", len(data))
		return data, nil
	}
	if err := store.WriteFile(path, data); err != nil {
		return nil, Wrap(CodeIO, err, "write board "+path)
	}
	b.logger.Info("board saved", "path", path, "columns", b.columns.Len(), "bytes", len(data))
	b.publish(EventTypeBoardSaved, 0, "")
	return data, nil
}

// LoadBoardFromJSON replaces every column with the ones in data and moves
// the id allocator past the highest loaded card id, if any card carried an
// id. A null document leaves
// the board untouched. Malformed input is reported and leaves the board as
// it was.
func (b *Board) LoadBoardFromJSON(data []byte) error {
	columns, err := store.DecodeBoard(data)
	if err != nil {
		return Wrap(CodeDataFormat, err, "board document is not valid")
	}
	if columns == nil {
		b.logger.Debug("board document is null; nothing loaded")
		return nil
	}

	b.columns.Reset(columns)
	if dups := duplicateCardIDs(columns); len(dups) > 0 {
		b.logger.Warn("board has cards sharing an id; lookups and exports by id only reach the first", "ids", dups)
	}
	if highest := maxCardID(columns); highest > 0 {
		b.ids.Reset(highest + 1)
	}

	b.logger.Info("board loaded", "columns", len(columns), "next_id", b.ids.Peek())
	b.publish(EventTypeBoardLoaded, 0, "")
	return nil
}

// LoadBoardFile reads path and loads it.
func (b *Board) LoadBoardFile(path string) error {
	data, err := store.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Error{Code: CodeNotFound, Message: fmt.Sprintf("board file %s does not exist", path), Err: err}
		}
		return Wrap(CodeIO, err, "read board "+path)
	}
	return b.LoadBoardFromJSON(data)
}

func maxCardID(columns []*model.Column) int {
	highest := 0
	for _, column := range columns {
		for _, card := range column.Cards().Items() {
			highest = max(highest, card.ID())
		}
	}
	return highest
}

// duplicateCardIDs lists ids held by more than one card, in first-seen order.
// Legacy documents without ids load every card as 0.
func duplicateCardIDs(columns []*model.Column) []int {
	seen := map[int]int{}
	var dups []int
	for _, column := range columns {
		for _, card := range column.Cards().Items() {
			seen[card.ID()]++
			if seen[card.ID()] == 2 {
				dups = append(dups, card.ID())
			}
		}
	}
	return dups
}

package cardcmd

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/simonjohansson/kanbandesk/internal/board"
	"github.com/simonjohansson/kanbandesk/internal/model"
)

// cardInput is the raw user input for a card before it touches the board.
// Empty Urgency and DueDate mean "not given".
type cardInput struct {
	Title   string
	Urgency string
	DueDate string
}

func (in cardInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required.Error("title is required")),
		validation.Field(&in.Urgency, validation.By(validUrgency)),
		validation.Field(&in.DueDate, validation.Date(model.DueDateLayout).Error("must be a date in YYYY-MM-DD form")),
	)
	if err != nil {
		return &board.Error{Code: board.CodeValidation, Message: err.Error(), Err: err}
	}
	return nil
}

func validUrgency(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if model.ParseUrgency(s) == model.UrgencyUnknown {
		return errors.New("must be one of Low, Medium, High, Urgent")
	}
	return nil
}

func parseDueDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := time.ParseInLocation(model.DueDateLayout, raw, time.Local)
	if err != nil {
		return nil
	}
	return &t
}

package model

import "strings"

type Urgency int

const (
	UrgencyUnknown Urgency = iota
	UrgencyLow
	UrgencyMedium
	UrgencyHigh
	UrgencyUrgent
)

// DefaultUrgency is preselected for new cards.
const DefaultUrgency = UrgencyMedium

var urgencyNames = map[Urgency]string{
	UrgencyUnknown: "Unknown",
	UrgencyLow:     "Low",
	UrgencyMedium:  "Medium",
	UrgencyHigh:    "High",
	UrgencyUrgent:  "Urgent",
}

// Urgencies returns the selectable urgency levels in ascending order.
func Urgencies() []Urgency {
	return []Urgency{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyUrgent}
}

// ParseUrgency maps free text onto the closed set. Unrecognised values,
// including the empty string, become UrgencyUnknown.
func ParseUrgency(s string) Urgency {
	s = strings.TrimSpace(s)
	for _, u := range Urgencies() {
		if strings.EqualFold(s, urgencyNames[u]) {
			return u
		}
	}
	return UrgencyUnknown
}

func (u Urgency) String() string {
	if name, ok := urgencyNames[u]; ok {
		return name
	}
	return urgencyNames[UrgencyUnknown]
}

func (u Urgency) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText never fails; legacy documents stored urgency as free text.
func (u *Urgency) UnmarshalText(text []byte) error {
	*u = ParseUrgency(string(text))
	return nil
}

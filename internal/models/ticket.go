package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type TicketKind string

const (
	TicketConservative TicketKind = "conservative"
	TicketAggressive   TicketKind = "aggressive"
)

func ParseTicketKind(s string) (TicketKind, error) {
	switch k := TicketKind(strings.ToLower(strings.TrimSpace(s))); k {
	case TicketConservative, TicketAggressive:
		return k, nil
	}
	return "", fmt.Errorf("unknown ticket kind %q", s)
}

// Violation is one correlation rule hit between legs of a ticket.
type Violation struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Players  []string `json:"players"`
	Message  string   `json:"message"`
}

// Ticket is one assembled multiple.
type Ticket struct {
	Kind              TicketKind       `json:"kind"`
	Legs              []Recommendation `json:"legs"`
	Removed           []Recommendation `json:"removed,omitempty"`
	Violations        []Violation      `json:"violations,omitempty"`
	CombinedOdds      float64          `json:"combined_odds"`
	DiversityBonus    float64          `json:"diversity_bonus"`
	AverageConfidence float64          `json:"average_confidence"`
}

func (t Ticket) IsEmpty() bool { return len(t.Legs) == 0 }

// DailyMultiple is the pair of tickets built for one slate.
type DailyMultiple struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"`
	Conservative Ticket    `json:"conservative"`
	Aggressive   Ticket    `json:"aggressive"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// TicketRecord persists one exported ticket for history.
type TicketRecord struct {
	ID                string         `gorm:"primaryKey;size:36" json:"id"`
	MultipleID        string         `gorm:"size:36;index" json:"multiple_id"`
	SlateDate         string         `gorm:"size:10;index" json:"slate_date"`
	Kind              TicketKind     `gorm:"size:16" json:"kind"`
	LegCount          int            `json:"leg_count"`
	CombinedOdds      float64        `json:"combined_odds"`
	DiversityBonus    float64        `json:"diversity_bonus"`
	AverageConfidence float64        `json:"average_confidence"`
	Legs              datatypes.JSON `json:"legs"`
	Violations        datatypes.JSON `json:"violations"`
	CreatedAt         time.Time      `json:"created_at"`
}

func (TicketRecord) TableName() string { return "ticket_records" }

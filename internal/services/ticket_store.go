package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/stitts-dev/courtside/internal/models"
	"github.com/stitts-dev/courtside/pkg/database"
	"github.com/stitts-dev/courtside/pkg/utils"
)

const defaultTicketListLimit = 50

type TicketFilter struct {
	Date  string
	Kind  models.TicketKind
	Limit int
}

// TicketStore persists exported daily tickets for history.
type TicketStore struct {
	db *database.DB
}

func NewTicketStore(db *database.DB) *TicketStore {
	return &TicketStore{db: db}
}

func (s *TicketStore) AutoMigrate() error {
	if err := s.db.DB.AutoMigrate(&models.TicketRecord{}); err != nil {
		return fmt.Errorf("failed to migrate ticket records: %w", err)
	}
	return nil
}

// SaveMultiple stores both tickets of dm. Empty tickets are stored too so the
// history shows days where a ticket could not be filled.
func (s *TicketStore) SaveMultiple(ctx context.Context, dm models.DailyMultiple) ([]models.TicketRecord, error) {
	multipleID := dm.ID
	if multipleID == "" {
		multipleID = uuid.New().String()
	}

	records := make([]models.TicketRecord, 0, 2)
	for _, t := range []models.Ticket{dm.Conservative, dm.Aggressive} {
		rec, err := newTicketRecord(multipleID, dm.Date, t)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	err := s.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&records).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save tickets: %w", err)
	}
	return records, nil
}

func (s *TicketStore) List(ctx context.Context, filter TicketFilter) ([]models.TicketRecord, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultTicketListLimit
	}

	query := s.db.DB.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if filter.Date != "" {
		query = query.Where("slate_date = ?", filter.Date)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}

	var records []models.TicketRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return records, nil
}

func (s *TicketStore) Get(ctx context.Context, id string) (models.TicketRecord, error) {
	var rec models.TicketRecord
	err := s.db.DB.WithContext(ctx).First(&rec, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rec, fmt.Errorf("ticket %s: %w", id, utils.ErrNotFound)
		}
		return rec, fmt.Errorf("failed to load ticket: %w", err)
	}
	return rec, nil
}

// PruneBefore deletes tickets for slates dated before date (YYYY-MM-DD).
func (s *TicketStore) PruneBefore(ctx context.Context, date string) (int64, error) {
	result := s.db.DB.WithContext(ctx).Where("slate_date < ?", date).Delete(&models.TicketRecord{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune tickets: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DecodeTicket rebuilds the ticket a record was created from.
func DecodeTicket(rec models.TicketRecord) (models.Ticket, error) {
	t := models.Ticket{
		Kind:              rec.Kind,
		CombinedOdds:      rec.CombinedOdds,
		DiversityBonus:    rec.DiversityBonus,
		AverageConfidence: rec.AverageConfidence,
	}
	if len(rec.Legs) > 0 {
		if err := json.Unmarshal(rec.Legs, &t.Legs); err != nil {
			return t, fmt.Errorf("failed to decode legs: %w", err)
		}
	}
	if len(rec.Violations) > 0 {
		if err := json.Unmarshal(rec.Violations, &t.Violations); err != nil {
			return t, fmt.Errorf("failed to decode violations: %w", err)
		}
	}
	return t, nil
}

func newTicketRecord(multipleID, date string, t models.Ticket) (models.TicketRecord, error) {
	legs, err := json.Marshal(t.Legs)
	if err != nil {
		return models.TicketRecord{}, fmt.Errorf("failed to encode legs: %w", err)
	}
	violations, err := json.Marshal(t.Violations)
	if err != nil {
		return models.TicketRecord{}, fmt.Errorf("failed to encode violations: %w", err)
	}
	return models.TicketRecord{
		ID:                uuid.New().String(),
		MultipleID:        multipleID,
		SlateDate:         date,
		Kind:              t.Kind,
		LegCount:          len(t.Legs),
		CombinedOdds:      t.CombinedOdds,
		DiversityBonus:    t.DiversityBonus,
		AverageConfidence: t.AverageConfidence,
		Legs:              datatypes.JSON(legs),
		Violations:        datatypes.JSON(violations),
		CreatedAt:         time.Now().UTC(),
	}, nil
}

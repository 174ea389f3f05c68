// Package sql stores requests, allowance records and team membership in a
// relational database through gorm.
package sql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/viant/vacation/ledger"
	"github.com/viant/vacation/model"
	"github.com/viant/vacation/service/dao"
	"github.com/viant/vacation/service/dao/allowance"
	"github.com/viant/vacation/service/dao/criteria"
	"github.com/viant/vacation/service/dao/request"
	"github.com/viant/vacation/service/directory"
)

// Service implements request.Service, allowance.Service (via Allowances) and
// directory.Service on a gorm connection.
type Service struct {
	db           *gorm.DB
	defaultTotal int
}

var (
	_ request.Service   = (*Service)(nil)
	_ directory.Service = (*Service)(nil)
	_ allowance.Service = (*allowances)(nil)
)

// New wraps db. defaultTotal is reported for users without an allowance record.
func New(db *gorm.DB, defaultTotal int) *Service {
	return &Service{db: db, defaultTotal: defaultTotal}
}

// Migrate creates or updates the tables used by the store.
func (s *Service) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&requestRow{}, &recordRow{}, &memberRow{})
}

func (s *Service) Save(ctx context.Context, r *model.Request) error {
	if r == nil {
		return dao.ErrNilEntity
	}
	if r.ID == "" {
		return dao.ErrInvalidID
	}
	row, err := toRow(r)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Save(row).Error
}

func (s *Service) Load(ctx context.Context, id string) (*model.Request, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	var row requestRow
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, dao.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toModel()
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&requestRow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return dao.ErrNotFound
	}
	return nil
}

func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Request, error) {
	return s.find(ctx, criteria.Filter(parameters))
}

func (s *Service) find(ctx context.Context, filter *model.Filter) ([]*model.Request, error) {
	query := s.db.WithContext(ctx).Model(&requestRow{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.TeamID != "" {
		query = query.Where("team_id = ?", filter.TeamID)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			statuses[i] = string(status)
		}
		query = query.Where("status IN ?", statuses)
	}
	if filter.Overlaps != nil {
		query = query.Where("start_date <= ? AND end_date >= ?", filter.Overlaps.End.Time(), filter.Overlaps.Start.Time())
	}
	var rows []requestRow
	if err := query.Order("start_date, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	ret := make([]*model.Request, 0, len(rows))
	for i := range rows {
		r, err := rows[i].toModel()
		if err != nil {
			return nil, fmt.Errorf("invalid request row %v: %w", rows[i].ID, err)
		}
		ret = append(ret, r)
	}
	return ret, nil
}

// CompareAndSave updates the request row guarded by its status and applies the
// allowance deltas in one transaction.
func (s *Service) CompareAndSave(ctx context.Context, r *model.Request, expected model.Status, deltas ...ledger.Delta) error {
	if r == nil {
		return dao.ErrNilEntity
	}
	row, err := toRow(r)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&requestRow{}).
			Where("id = ? AND status = ?", r.ID, string(expected)).
			Updates(map[string]interface{}{
				"status":           row.Status,
				"decided_at":       row.DecidedAt,
				"decided_by":       row.DecidedBy,
				"rejection_reason": row.RejectionReason,
				"cancelled_at":     row.CancelledAt,
				"charged":          row.Charged,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&requestRow{}).Where("id = ?", r.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return dao.ErrNotFound
			}
			return dao.ErrConflict
		}
		for _, delta := range deltas {
			if err := s.adjust(tx, delta); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) adjust(tx *gorm.DB, delta ledger.Delta) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "year"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"consumed": gorm.Expr("allowance_records.consumed + EXCLUDED.consumed"),
		}),
	}).Create(&recordRow{UserID: delta.UserID, Year: delta.Year, Total: s.defaultTotal, Consumed: delta.Days}).Error
}

func (s *Service) ListApprovedOverlapping(ctx context.Context, teamID string, rng model.Range) ([]*model.Request, error) {
	return s.find(ctx, &model.Filter{TeamID: teamID, Statuses: []model.Status{model.StatusApproved}, Overlaps: &rng})
}

func (s *Service) TeamRosterSize(ctx context.Context, teamID string) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&memberRow{}).Where("team_id = ?", teamID).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// Lookup resolves an actor from team membership.
func (s *Service) Lookup(ctx context.Context, actorID string) (*model.Actor, error) {
	if actorID == "" {
		return nil, dao.ErrInvalidID
	}
	var row memberRow
	err := s.db.WithContext(ctx).Where("user_id = ?", actorID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, dao.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &model.Actor{ID: row.UserID, TeamID: row.TeamID, Role: model.Role(row.Role)}, nil
}

// Register upserts a team member.
func (s *Service) Register(ctx context.Context, actor *model.Actor) error {
	if actor == nil || actor.ID == "" {
		return dao.ErrInvalidID
	}
	return s.db.WithContext(ctx).Save(&memberRow{UserID: actor.ID, TeamID: actor.TeamID, Role: string(actor.Role)}).Error
}

// Allowances exposes the allowance view of the store.
func (s *Service) Allowances() allowance.Service { return (*allowances)(s) }

type allowances Service

func (a *allowances) Load(ctx context.Context, key ledger.Key) (*ledger.Record, error) {
	if key.UserID == "" {
		return nil, dao.ErrInvalidID
	}
	var row recordRow
	err := a.db.WithContext(ctx).Where("user_id = ? AND year = ?", key.UserID, key.Year).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &ledger.Record{UserID: key.UserID, Year: key.Year, Total: a.defaultTotal}, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (a *allowances) Adjust(ctx context.Context, delta ledger.Delta) error {
	if delta.UserID == "" {
		return dao.ErrInvalidID
	}
	return (*Service)(a).adjust(a.db.WithContext(ctx), delta)
}

func (a *allowances) SetTotal(ctx context.Context, key ledger.Key, total int) error {
	return a.upsert(ctx, key, "total", total)
}

func (a *allowances) Reset(ctx context.Context, key ledger.Key, consumed int) error {
	return a.upsert(ctx, key, "consumed", consumed)
}

func (a *allowances) upsert(ctx context.Context, key ledger.Key, column string, value int) error {
	if key.UserID == "" {
		return dao.ErrInvalidID
	}
	row := &recordRow{UserID: key.UserID, Year: key.Year, Total: a.defaultTotal}
	switch column {
	case "total":
		row.Total = value
	case "consumed":
		row.Consumed = value
	}
	return a.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "year"}},
		DoUpdates: clause.Assignments(map[string]interface{}{column: value}),
	}).Create(row).Error
}

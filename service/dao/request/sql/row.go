package sql

import (
	"encoding/json"
	"time"

	"github.com/viant/vacation/ledger"
	"github.com/viant/vacation/model"
)

type requestRow struct {
	ID              string     `gorm:"column:id;primaryKey"`
	UserID          string     `gorm:"column:user_id;index;not null"`
	TeamID          string     `gorm:"column:team_id;index;not null"`
	StartDate       time.Time  `gorm:"column:start_date;type:date;not null"`
	EndDate         time.Time  `gorm:"column:end_date;type:date;not null"`
	Status          string     `gorm:"column:status;index;not null"`
	SubmittedAt     time.Time  `gorm:"column:submitted_at;not null"`
	DecidedAt       *time.Time `gorm:"column:decided_at"`
	DecidedBy       string     `gorm:"column:decided_by"`
	RejectionReason string     `gorm:"column:rejection_reason;size:500"`
	CancelledAt     *time.Time `gorm:"column:cancelled_at"`
	Charged         string     `gorm:"column:charged;type:text"`
}

func (requestRow) TableName() string { return "vacation_requests" }

type recordRow struct {
	UserID   string `gorm:"column:user_id;primaryKey"`
	Year     int    `gorm:"column:year;primaryKey;autoIncrement:false"`
	Total    int    `gorm:"column:total;not null"`
	Consumed int    `gorm:"column:consumed;not null"`
}

func (recordRow) TableName() string { return "allowance_records" }

type memberRow struct {
	UserID string `gorm:"column:user_id;primaryKey"`
	TeamID string `gorm:"column:team_id;index;not null"`
	Role   string `gorm:"column:role;not null"`
}

func (memberRow) TableName() string { return "team_members" }

func toRow(r *model.Request) (*requestRow, error) {
	ret := &requestRow{
		ID:              r.ID,
		UserID:          r.UserID,
		TeamID:          r.TeamID,
		StartDate:       r.Start.Time(),
		EndDate:         r.End.Time(),
		Status:          string(r.Status),
		SubmittedAt:     r.SubmittedAt,
		DecidedAt:       r.DecidedAt,
		DecidedBy:       r.DecidedBy,
		RejectionReason: r.RejectionReason,
		CancelledAt:     r.CancelledAt,
	}
	if len(r.Charged) > 0 {
		data, err := json.Marshal(r.Charged)
		if err != nil {
			return nil, err
		}
		ret.Charged = string(data)
	}
	return ret, nil
}

func (r *requestRow) toModel() (*model.Request, error) {
	ret := &model.Request{
		ID:              r.ID,
		UserID:          r.UserID,
		TeamID:          r.TeamID,
		Start:           model.DateOf(r.StartDate.UTC()),
		End:             model.DateOf(r.EndDate.UTC()),
		Status:          model.Status(r.Status),
		SubmittedAt:     r.SubmittedAt,
		DecidedAt:       r.DecidedAt,
		DecidedBy:       r.DecidedBy,
		RejectionReason: r.RejectionReason,
		CancelledAt:     r.CancelledAt,
	}
	if r.Charged != "" {
		if err := json.Unmarshal([]byte(r.Charged), &ret.Charged); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func (r *recordRow) toModel() *ledger.Record {
	return &ledger.Record{UserID: r.UserID, Year: r.Year, Total: r.Total, Consumed: r.Consumed}
}

package models

import (
	"time"
)

// Analysis statuses
const (
	AnalysisStatusRunning  = "running"
	AnalysisStatusComplete = "complete"
	AnalysisStatusFailed   = "failed"
)

// Analysis is the persisted record of one analysis run. The rendered report
// is stored as a JSON blob; the row itself only carries bookkeeping columns.
type Analysis struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	Status        string    `json:"status" gorm:"index"`
	FileName      string    `json:"file_name"`
	TotalMessages int       `json:"total_messages"`
	Participants  int       `json:"participants"`
	Report        []byte    `json:"-" gorm:"type:jsonb"`
	Error         string    `json:"error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

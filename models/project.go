package models

import (
	"time"
)

// Pipeline phases. Stored as plain text; the phase column deliberately
// accepts any value (see controllers.UpdateProjectPhase).
const (
	PhaseInquiry    = "Inquiry"
	PhaseProposal   = "Proposal"
	PhaseBooked     = "Booked"
	PhaseInProgress = "In progress"
	PhaseComplete   = "Complete"
)

type Project struct {
	ID             string    `gorm:"column:id;primaryKey" json:"id"`
	Name           string    `gorm:"column:name;not null" json:"name"`
	Phase          string    `gorm:"column:phase;not null" json:"phase"`
	Date           string    `gorm:"column:date" json:"date"`
	Description    string    `gorm:"column:description" json:"description"`
	EstimatedValue float64   `gorm:"column:estimatedValue" json:"estimatedValue"`
	WinConfidence  string    `gorm:"column:winConfidence" json:"winConfidence"`
	CreatedAt      time.Time `gorm:"column:createdAt" json:"createdAt"`
	LastActivity   time.Time `gorm:"column:lastActivity" json:"lastActivity"`
}

func (Project) TableName() string { return "Project" }

// ProjectCustomer is the project membership join row. Composite key; at most
// one row per project carries isPrimary (enforced in the controllers, not by
// a DB constraint).
type ProjectCustomer struct {
	ProjectID  string `gorm:"column:projectId;primaryKey" json:"projectId"`
	CustomerID string `gorm:"column:customerId;primaryKey" json:"customerId"`
	IsPrimary  bool   `gorm:"column:isPrimary;not null;default:false" json:"isPrimary"`
}

func (ProjectCustomer) TableName() string { return "ProjectCustomer" }

package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields. RowVersion is the optimistic-concurrency
// counter checked by repository updates; it is unrelated to Quotation.Version.
type BaseModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	RowVersion int       `gorm:"not null;default:1;column:row_version"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns a UUID and initial row version when not set
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.RowVersion == 0 {
		m.RowVersion = 1
	}
	return nil
}

// Role represents a user's role in the system
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
	RoleFinance  Role = "finance"
)

// IsValid checks if the Role is a valid enum value
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee, RoleFinance:
		return true
	}
	return false
}

// User represents an authenticated principal
type User struct {
	BaseModel
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null;column:password_hash"`
	FullName     string `gorm:"type:varchar(200);not null;column:full_name"`
	Role         Role   `gorm:"type:varchar(50);not null;default:'employee';index"`
	IsActive     bool   `gorm:"not null;default:true;column:is_active"`
}

// ClientStatus represents the lifecycle status of a client
type ClientStatus string

const (
	ClientStatusPending  ClientStatus = "pending"
	ClientStatusActive   ClientStatus = "active"
	ClientStatusInactive ClientStatus = "inactive"
)

// IsValid checks if the ClientStatus is a valid enum value
func (cs ClientStatus) IsValid() bool {
	switch cs {
	case ClientStatusPending, ClientStatusActive, ClientStatusInactive:
		return true
	}
	return false
}

// Client represents an organization the company does business with
type Client struct {
	BaseModel
	Name          string         `gorm:"type:varchar(200);not null;index"`
	OrgNumber     string         `gorm:"type:varchar(20);index;column:org_number"`
	Email         string         `gorm:"type:varchar(255)"`
	Phone         string         `gorm:"type:varchar(50)"`
	Address       string         `gorm:"type:varchar(500)"`
	City          string         `gorm:"type:varchar(100)"`
	PostalCode    string         `gorm:"type:varchar(20);column:postal_code"`
	Country       string         `gorm:"type:varchar(100)"`
	Notes         string         `gorm:"type:text"`
	Status        ClientStatus   `gorm:"type:varchar(50);not null;default:'pending';index"`
	OnboardedAt   *time.Time     `gorm:"column:onboarded_at"`
	Contacts      []Contact      `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
	Quotations    []Quotation    `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
	History       []ServiceEvent `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
	TechnicalDocs []TechnicalDoc `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
}

// Contact represents an individual person at a client.
// At most one contact per client carries IsPrimary at any time.
type Contact struct {
	BaseModel
	ClientID  uuid.UUID `gorm:"type:uuid;not null;index;column:client_id"`
	Client    *Client   `gorm:"foreignKey:ClientID"`
	FirstName string    `gorm:"type:varchar(100);not null;column:first_name"`
	LastName  string    `gorm:"type:varchar(100);not null;column:last_name"`
	Email     string    `gorm:"type:varchar(255)"`
	Phone     string    `gorm:"type:varchar(50)"`
	Title     string    `gorm:"type:varchar(100)"`
	IsPrimary bool      `gorm:"not null;default:false;column:is_primary;index"`
}

// FullName returns the contact's full name
func (c *Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// QuotationStatus represents the lifecycle status of a quotation
type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "draft"
	QuotationStatusSent     QuotationStatus = "sent"
	QuotationStatusAccepted QuotationStatus = "accepted"
	QuotationStatusRejected QuotationStatus = "rejected"
)

// IsValid checks if the QuotationStatus is a valid enum value
func (qs QuotationStatus) IsValid() bool {
	switch qs {
	case QuotationStatusDraft, QuotationStatusSent, QuotationStatusAccepted, QuotationStatusRejected:
		return true
	}
	return false
}

// Quotation represents a priced proposal to a client. Version is assigned
// by the quotation repository at creation and is monotonic per client.
type Quotation struct {
	BaseModel
	ClientID    uuid.UUID       `gorm:"type:uuid;not null;index;column:client_id;uniqueIndex:idx_quotations_client_version"`
	Client      *Client         `gorm:"foreignKey:ClientID"`
	Version     int             `gorm:"not null;uniqueIndex:idx_quotations_client_version"`
	Title       string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Amount      float64         `gorm:"type:decimal(15,2);not null;default:0"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'NOK'"`
	ValidUntil  *time.Time      `gorm:"type:date;column:valid_until"`
	Status      QuotationStatus `gorm:"type:varchar(50);not null;default:'draft';index"`
	SentAt      *time.Time      `gorm:"column:sent_at"`
	CreatedByID uuid.UUID       `gorm:"type:uuid;column:created_by_id"`
}

// ServiceEvent is one entry in a client's service history. Lifecycle
// transitions append events here, so it doubles as the activity trail.
type ServiceEvent struct {
	BaseModel
	ClientID       uuid.UUID `gorm:"type:uuid;not null;index;column:client_id"`
	Client         *Client   `gorm:"foreignKey:ClientID"`
	EventType      string    `gorm:"type:varchar(50);not null;column:event_type;index"`
	Title          string    `gorm:"type:varchar(200);not null"`
	Description    string    `gorm:"type:text"`
	OccurredAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;column:occurred_at;index"`
	RecordedByID   uuid.UUID `gorm:"type:uuid;column:recorded_by_id"`
	RecordedByName string    `gorm:"type:varchar(200);column:recorded_by_name"`
}

// TableName overrides the default table name
func (ServiceEvent) TableName() string {
	return "service_history"
}

// TechnicalDoc represents a technical document attached to a client
type TechnicalDoc struct {
	BaseModel
	ClientID    uuid.UUID `gorm:"type:uuid;not null;index;column:client_id"`
	Client      *Client   `gorm:"foreignKey:ClientID"`
	Title       string    `gorm:"type:varchar(200);not null"`
	DocType     string    `gorm:"type:varchar(50);not null;column:doc_type;index"`
	Content     string    `gorm:"type:text"`
	CreatedByID uuid.UUID `gorm:"type:uuid;column:created_by_id"`
}

// TaskStatus represents the lifecycle status of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// IsValid checks if the TaskStatus is a valid enum value
func (ts TaskStatus) IsValid() bool {
	switch ts {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// IsValid checks if the TaskPriority is a valid enum value
func (tp TaskPriority) IsValid() bool {
	switch tp {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task represents a unit of work owned by the creating user and optionally
// assigned to another user. CompletionPercentage and Status are kept
// consistent: 100 percent means completed, anything less does not.
type Task struct {
	BaseModel
	Title                string       `gorm:"type:varchar(200);not null"`
	Description          string       `gorm:"type:text"`
	OwnerID              uuid.UUID    `gorm:"type:uuid;not null;index;column:owner_id"`
	Owner                *User        `gorm:"foreignKey:OwnerID"`
	AssigneeID           *uuid.UUID   `gorm:"type:uuid;index;column:assignee_id"`
	Assignee             *User        `gorm:"foreignKey:AssigneeID"`
	Priority             TaskPriority `gorm:"type:varchar(20);not null;default:'medium'"`
	Status               TaskStatus   `gorm:"type:varchar(50);not null;default:'pending';index"`
	CompletionPercentage int          `gorm:"not null;default:0;column:completion_percentage"`
	DueDate              *time.Time   `gorm:"type:date;column:due_date"`
	ReminderAt           *time.Time   `gorm:"column:reminder_at"`
	CompletedAt          *time.Time   `gorm:"column:completed_at"`
}

// ExpenseStatus represents the lifecycle status of an expense
type ExpenseStatus string

const (
	ExpenseStatusSubmitted  ExpenseStatus = "submitted"
	ExpenseStatusApproved   ExpenseStatus = "approved"
	ExpenseStatusRejected   ExpenseStatus = "rejected"
	ExpenseStatusReimbursed ExpenseStatus = "reimbursed"
)

// IsValid checks if the ExpenseStatus is a valid enum value
func (es ExpenseStatus) IsValid() bool {
	switch es {
	case ExpenseStatusSubmitted, ExpenseStatusApproved, ExpenseStatusRejected, ExpenseStatusReimbursed:
		return true
	}
	return false
}

// Expense represents a reimbursable expense submitted by a user
type Expense struct {
	BaseModel
	SubmitterID  uuid.UUID     `gorm:"type:uuid;not null;index;column:submitter_id"`
	Submitter    *User         `gorm:"foreignKey:SubmitterID"`
	Amount       float64       `gorm:"type:decimal(15,2);not null"`
	Currency     string        `gorm:"type:varchar(3);not null;default:'NOK'"`
	Category     string        `gorm:"type:varchar(100);not null;index"`
	Description  string        `gorm:"type:text"`
	ReceiptURL   string        `gorm:"type:varchar(500);column:receipt_url"`
	Notes        string        `gorm:"type:text"`
	Status       ExpenseStatus `gorm:"type:varchar(50);not null;default:'submitted';index"`
	ApproverID   *uuid.UUID    `gorm:"type:uuid;column:approver_id"`
	Approver     *User         `gorm:"foreignKey:ApproverID"`
	ApprovedAt   *time.Time    `gorm:"column:approved_at"`
	ReimburserID *uuid.UUID    `gorm:"type:uuid;column:reimburser_id"`
	Reimburser   *User         `gorm:"foreignKey:ReimburserID"`
	ReimbursedAt *time.Time    `gorm:"column:reimbursed_at"`
}

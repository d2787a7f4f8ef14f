package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaginatedResponse wraps a list payload with paging metadata
type PaginatedResponse struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// ---------------------------------------------------------------------------
// Auth / users
// ---------------------------------------------------------------------------

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginResponse struct {
	AccessToken string  `json:"accessToken"`
	TokenType   string  `json:"tokenType"`
	ExpiresIn   int     `json:"expiresIn"` // seconds
	User        UserDTO `json:"user"`
}

type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt string    `json:"createdAt"` // ISO 8601
	UpdatedAt string    `json:"updatedAt"` // ISO 8601
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"fullName" validate:"required,max=200"`
	Role     Role   `json:"role" validate:"required,oneof=admin manager employee finance"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
	FullName *string `json:"fullName,omitempty" validate:"omitempty,max=200"`
	Role     *Role   `json:"role,omitempty" validate:"omitempty,oneof=admin manager employee finance"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// ---------------------------------------------------------------------------
// Clients
// ---------------------------------------------------------------------------

type ClientDTO struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	OrgNumber   string       `json:"orgNumber,omitempty"`
	Email       string       `json:"email,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	Address     string       `json:"address,omitempty"`
	City        string       `json:"city,omitempty"`
	PostalCode  string       `json:"postalCode,omitempty"`
	Country     string       `json:"country,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	Status      ClientStatus `json:"status"`
	OnboardedAt string       `json:"onboardedAt,omitempty"` // ISO 8601
	CreatedAt   string       `json:"createdAt"`             // ISO 8601
	UpdatedAt   string       `json:"updatedAt"`             // ISO 8601
}

// ClientWithDetailsDTO includes a client with its related entities
type ClientWithDetailsDTO struct {
	ClientDTO
	Contacts      []ContactDTO      `json:"contacts,omitempty"`
	Quotations    []QuotationDTO    `json:"quotations,omitempty"`
	History       []ServiceEventDTO `json:"history,omitempty"`
	TechnicalDocs []TechnicalDocDTO `json:"technicalDocs,omitempty"`
}

type CreateClientRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	OrgNumber  string `json:"orgNumber" validate:"omitempty,max=20"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone" validate:"omitempty,max=50"`
	Address    string `json:"address" validate:"omitempty,max=500"`
	City       string `json:"city" validate:"omitempty,max=100"`
	PostalCode string `json:"postalCode" validate:"omitempty,max=20"`
	Country    string `json:"country" validate:"omitempty,max=100"`
	Notes      string `json:"notes"`
}

// UpdateClientRequest carries partial updates; absent fields keep their
// current values. Status changes go through the client state machine.
type UpdateClientRequest struct {
	Name       *string       `json:"name,omitempty" validate:"omitempty,max=200"`
	OrgNumber  *string       `json:"orgNumber,omitempty" validate:"omitempty,max=20"`
	Email      *string       `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string       `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address    *string       `json:"address,omitempty" validate:"omitempty,max=500"`
	City       *string       `json:"city,omitempty" validate:"omitempty,max=100"`
	PostalCode *string       `json:"postalCode,omitempty" validate:"omitempty,max=20"`
	Country    *string       `json:"country,omitempty" validate:"omitempty,max=100"`
	Notes      *string       `json:"notes,omitempty"`
	Status     *ClientStatus `json:"status,omitempty" validate:"omitempty,oneof=pending active inactive"`
}

// ---------------------------------------------------------------------------
// Contacts
// ---------------------------------------------------------------------------

type ContactDTO struct {
	ID        uuid.UUID `json:"id"`
	ClientID  uuid.UUID `json:"clientId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Title     string    `json:"title,omitempty"`
	IsPrimary bool      `json:"isPrimary"`
	CreatedAt string    `json:"createdAt"` // ISO 8601
	UpdatedAt string    `json:"updatedAt"` // ISO 8601
}

type CreateContactRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"omitempty,max=50"`
	Title     string `json:"title" validate:"omitempty,max=100"`
	IsPrimary bool   `json:"isPrimary"`
}

type UpdateContactRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Title     *string `json:"title,omitempty" validate:"omitempty,max=100"`
	IsPrimary *bool   `json:"isPrimary,omitempty"`
}

// ---------------------------------------------------------------------------
// Quotations
// ---------------------------------------------------------------------------

type QuotationDTO struct {
	ID          uuid.UUID       `json:"id"`
	ClientID    uuid.UUID       `json:"clientId"`
	Version     int             `json:"version"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Amount      float64         `json:"amount"`
	Currency    string          `json:"currency"`
	ValidUntil  string          `json:"validUntil,omitempty"` // ISO 8601
	Status      QuotationStatus `json:"status"`
	SentAt      string          `json:"sentAt,omitempty"` // ISO 8601
	CreatedAt   string          `json:"createdAt"`        // ISO 8601
	UpdatedAt   string          `json:"updatedAt"`        // ISO 8601
}

type CreateQuotationRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount" validate:"gte=0"`
	Currency    string     `json:"currency" validate:"omitempty,len=3"`
	ValidUntil  *time.Time `json:"validUntil,omitempty"`
}

type UpdateQuotationRequest struct {
	Title       *string          `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string          `json:"description,omitempty"`
	Amount      *float64         `json:"amount,omitempty" validate:"omitempty,gte=0"`
	ValidUntil  *time.Time       `json:"validUntil,omitempty"`
	Status      *QuotationStatus `json:"status,omitempty" validate:"omitempty,oneof=draft sent accepted rejected"`
}

// ---------------------------------------------------------------------------
// Service history
// ---------------------------------------------------------------------------

type ServiceEventDTO struct {
	ID             uuid.UUID `json:"id"`
	ClientID       uuid.UUID `json:"clientId"`
	EventType      string    `json:"eventType"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	OccurredAt     string    `json:"occurredAt"` // ISO 8601
	RecordedByID   uuid.UUID `json:"recordedById,omitempty"`
	RecordedByName string    `json:"recordedByName,omitempty"`
	CreatedAt      string    `json:"createdAt"` // ISO 8601
}

type CreateServiceEventRequest struct {
	EventType   string     `json:"eventType" validate:"required,max=50"`
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description"`
	OccurredAt  *time.Time `json:"occurredAt,omitempty"`
}

// ---------------------------------------------------------------------------
// Technical docs
// ---------------------------------------------------------------------------

type TechnicalDocDTO struct {
	ID        uuid.UUID `json:"id"`
	ClientID  uuid.UUID `json:"clientId"`
	Title     string    `json:"title"`
	DocType   string    `json:"docType"`
	Content   string    `json:"content,omitempty"`
	CreatedAt string    `json:"createdAt"` // ISO 8601
	UpdatedAt string    `json:"updatedAt"` // ISO 8601
}

type CreateTechnicalDocRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	DocType string `json:"docType" validate:"required,max=50"`
	Content string `json:"content"`
}

type UpdateTechnicalDocRequest struct {
	Title   *string `json:"title,omitempty" validate:"omitempty,max=200"`
	DocType *string `json:"docType,omitempty" validate:"omitempty,max=50"`
	Content *string `json:"content,omitempty"`
}

// ---------------------------------------------------------------------------
// Tasks
// ---------------------------------------------------------------------------

type TaskDTO struct {
	ID                   uuid.UUID    `json:"id"`
	Title                string       `json:"title"`
	Description          string       `json:"description,omitempty"`
	OwnerID              uuid.UUID    `json:"ownerId"`
	OwnerName            string       `json:"ownerName,omitempty"`
	AssigneeID           *uuid.UUID   `json:"assigneeId,omitempty"`
	AssigneeName         string       `json:"assigneeName,omitempty"`
	Priority             TaskPriority `json:"priority"`
	Status               TaskStatus   `json:"status"`
	CompletionPercentage int          `json:"completionPercentage"`
	DueDate              string       `json:"dueDate,omitempty"`     // ISO 8601
	ReminderAt           string       `json:"reminderAt,omitempty"`  // ISO 8601
	CompletedAt          string       `json:"completedAt,omitempty"` // ISO 8601
	CreatedAt            string       `json:"createdAt"`             // ISO 8601
	UpdatedAt            string       `json:"updatedAt"`             // ISO 8601
}

type CreateTaskRequest struct {
	Title       string       `json:"title" validate:"required,max=200"`
	Description string       `json:"description"`
	Priority    TaskPriority `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssigneeID  *uuid.UUID   `json:"assigneeId,omitempty"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	ReminderAt  *time.Time   `json:"reminderAt,omitempty"`
}

type UpdateTaskRequest struct {
	Title                *string       `json:"title,omitempty" validate:"omitempty,max=200"`
	Description          *string       `json:"description,omitempty"`
	Priority             *TaskPriority `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	AssigneeID           *uuid.UUID    `json:"assigneeId,omitempty"`
	Status               *TaskStatus   `json:"status,omitempty" validate:"omitempty,oneof=pending in_progress completed"`
	CompletionPercentage *int          `json:"completionPercentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	DueDate              *time.Time    `json:"dueDate,omitempty"`
	ReminderAt           *time.Time    `json:"reminderAt,omitempty"`
}

type AssignTaskRequest struct {
	AssigneeID uuid.UUID `json:"assigneeId" validate:"required"`
}

type CompleteTaskRequest struct {
	CompletionPercentage *int `json:"completionPercentage,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// TaskStatsDTO holds aggregate task counts for the requesting user's scope
type TaskStatsDTO struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Completed  int64 `json:"completed"`
	Overdue    int64 `json:"overdue"`
}

// ---------------------------------------------------------------------------
// Expenses
// ---------------------------------------------------------------------------

type ExpenseDTO struct {
	ID           uuid.UUID     `json:"id"`
	SubmitterID  uuid.UUID     `json:"submitterId"`
	Amount       float64       `json:"amount"`
	Currency     string        `json:"currency"`
	Category     string        `json:"category"`
	Description  string        `json:"description,omitempty"`
	ReceiptURL   string        `json:"receiptUrl,omitempty"`
	Notes        string        `json:"notes,omitempty"`
	Status       ExpenseStatus `json:"status"`
	ApproverID   *uuid.UUID    `json:"approverId,omitempty"`
	ApprovedAt   string        `json:"approvedAt,omitempty"` // ISO 8601
	ReimburserID *uuid.UUID    `json:"reimburserId,omitempty"`
	ReimbursedAt string        `json:"reimbursedAt,omitempty"` // ISO 8601
	CreatedAt    string        `json:"createdAt"`              // ISO 8601
	UpdatedAt    string        `json:"updatedAt"`              // ISO 8601
}

type CreateExpenseRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Currency    string  `json:"currency" validate:"omitempty,len=3"`
	Category    string  `json:"category" validate:"required,max=100"`
	Description string  `json:"description"`
	ReceiptURL  string  `json:"receiptUrl" validate:"omitempty,url"`
	Notes       string  `json:"notes"`
}

type UpdateExpenseRequest struct {
	Amount      *float64       `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Category    *string        `json:"category,omitempty" validate:"omitempty,max=100"`
	Description *string        `json:"description,omitempty"`
	ReceiptURL  *string        `json:"receiptUrl,omitempty" validate:"omitempty,url"`
	Notes       *string        `json:"notes,omitempty"`
	Status      *ExpenseStatus `json:"status,omitempty" validate:"omitempty,oneof=submitted approved rejected reimbursed"`
}

type RejectExpenseRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// ExpenseStatsDTO holds aggregate expense figures for the requesting
// user's scope
type ExpenseStatsDTO struct {
	Total            int64              `json:"total"`
	TotalAmount      float64            `json:"totalAmount"`
	ByStatus         map[string]int64   `json:"byStatus"`
	AmountByCategory map[string]float64 `json:"amountByCategory"`
}

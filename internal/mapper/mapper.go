// Package mapper converts domain models to response DTOs. Timestamps
// are rendered as ISO 8601 in UTC; unset optional timestamps map to
// empty strings so omitempty drops them.
package mapper

import (
	"time"

	"github.com/opsdesk/operations-api/internal/domain"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: formatTime(user.CreatedAt),
		UpdatedAt: formatTime(user.UpdatedAt),
	}
}

func ToClientDTO(client *domain.Client) domain.ClientDTO {
	return domain.ClientDTO{
		ID:          client.ID,
		Name:        client.Name,
		OrgNumber:   client.OrgNumber,
		Email:       client.Email,
		Phone:       client.Phone,
		Address:     client.Address,
		City:        client.City,
		PostalCode:  client.PostalCode,
		Country:     client.Country,
		Notes:       client.Notes,
		Status:      client.Status,
		OnboardedAt: formatTimePtr(client.OnboardedAt),
		CreatedAt:   formatTime(client.CreatedAt),
		UpdatedAt:   formatTime(client.UpdatedAt),
	}
}

func ToClientWithDetailsDTO(client *domain.Client) domain.ClientWithDetailsDTO {
	dto := domain.ClientWithDetailsDTO{
		ClientDTO: ToClientDTO(client),
	}
	for i := range client.Contacts {
		dto.Contacts = append(dto.Contacts, ToContactDTO(&client.Contacts[i]))
	}
	for i := range client.Quotations {
		dto.Quotations = append(dto.Quotations, ToQuotationDTO(&client.Quotations[i]))
	}
	for i := range client.History {
		dto.History = append(dto.History, ToServiceEventDTO(&client.History[i]))
	}
	for i := range client.TechnicalDocs {
		dto.TechnicalDocs = append(dto.TechnicalDocs, ToTechnicalDocDTO(&client.TechnicalDocs[i]))
	}
	return dto
}

func ToContactDTO(contact *domain.Contact) domain.ContactDTO {
	return domain.ContactDTO{
		ID:        contact.ID,
		ClientID:  contact.ClientID,
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		FullName:  contact.FullName(),
		Email:     contact.Email,
		Phone:     contact.Phone,
		Title:     contact.Title,
		IsPrimary: contact.IsPrimary,
		CreatedAt: formatTime(contact.CreatedAt),
		UpdatedAt: formatTime(contact.UpdatedAt),
	}
}

func ToQuotationDTO(quotation *domain.Quotation) domain.QuotationDTO {
	return domain.QuotationDTO{
		ID:          quotation.ID,
		ClientID:    quotation.ClientID,
		Version:     quotation.Version,
		Title:       quotation.Title,
		Description: quotation.Description,
		Amount:      quotation.Amount,
		Currency:    quotation.Currency,
		ValidUntil:  formatTimePtr(quotation.ValidUntil),
		Status:      quotation.Status,
		SentAt:      formatTimePtr(quotation.SentAt),
		CreatedAt:   formatTime(quotation.CreatedAt),
		UpdatedAt:   formatTime(quotation.UpdatedAt),
	}
}

func ToServiceEventDTO(event *domain.ServiceEvent) domain.ServiceEventDTO {
	return domain.ServiceEventDTO{
		ID:             event.ID,
		ClientID:       event.ClientID,
		EventType:      event.EventType,
		Title:          event.Title,
		Description:    event.Description,
		OccurredAt:     formatTime(event.OccurredAt),
		RecordedByID:   event.RecordedByID,
		RecordedByName: event.RecordedByName,
		CreatedAt:      formatTime(event.CreatedAt),
	}
}

func ToTechnicalDocDTO(doc *domain.TechnicalDoc) domain.TechnicalDocDTO {
	return domain.TechnicalDocDTO{
		ID:        doc.ID,
		ClientID:  doc.ClientID,
		Title:     doc.Title,
		DocType:   doc.DocType,
		Content:   doc.Content,
		CreatedAt: formatTime(doc.CreatedAt),
		UpdatedAt: formatTime(doc.UpdatedAt),
	}
}

func ToTaskDTO(task *domain.Task) domain.TaskDTO {
	dto := domain.TaskDTO{
		ID:                   task.ID,
		Title:                task.Title,
		Description:          task.Description,
		OwnerID:              task.OwnerID,
		AssigneeID:           task.AssigneeID,
		Priority:             task.Priority,
		Status:               task.Status,
		CompletionPercentage: task.CompletionPercentage,
		DueDate:              formatTimePtr(task.DueDate),
		ReminderAt:           formatTimePtr(task.ReminderAt),
		CompletedAt:          formatTimePtr(task.CompletedAt),
		CreatedAt:            formatTime(task.CreatedAt),
		UpdatedAt:            formatTime(task.UpdatedAt),
	}
	if task.Owner != nil {
		dto.OwnerName = task.Owner.FullName
	}
	if task.Assignee != nil {
		dto.AssigneeName = task.Assignee.FullName
	}
	return dto
}

func ToExpenseDTO(expense *domain.Expense) domain.ExpenseDTO {
	return domain.ExpenseDTO{
		ID:           expense.ID,
		SubmitterID:  expense.SubmitterID,
		Amount:       expense.Amount,
		Currency:     expense.Currency,
		Category:     expense.Category,
		Description:  expense.Description,
		ReceiptURL:   expense.ReceiptURL,
		Notes:        expense.Notes,
		Status:       expense.Status,
		ApproverID:   expense.ApproverID,
		ApprovedAt:   formatTimePtr(expense.ApprovedAt),
		ReimburserID: expense.ReimburserID,
		ReimbursedAt: formatTimePtr(expense.ReimbursedAt),
		CreatedAt:    formatTime(expense.CreatedAt),
		UpdatedAt:    formatTime(expense.UpdatedAt),
	}
}

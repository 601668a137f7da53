package dto

import (
	"time"

	"leadhub/internal/feature/leads/domain/entity"
)

// LeadRes is the JSON form of a lead.
type LeadRes struct {
	ID         string    `json:"_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Company    string    `json:"company"`
	LeadStatus string    `json:"leadStatus"`
	LeadSource string    `json:"leadSource"`
	CreatedBy  string    `json:"createdBy"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewLeadRes converts a lead entity into its response form.
func NewLeadRes(l *entity.Lead) LeadRes {
	return LeadRes{
		ID:         l.ID,
		Name:       l.Name,
		Email:      l.Email,
		Phone:      l.Phone,
		Company:    l.Company,
		LeadStatus: string(l.LeadStatus),
		LeadSource: string(l.LeadSource),
		CreatedBy:  l.CreatedBy,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

// NewLeadList converts a slice of leads. It never returns nil.
func NewLeadList(ls []entity.Lead) []LeadRes {
	out := make([]LeadRes, 0, len(ls))
	for i := range ls {
		out = append(out, NewLeadRes(&ls[i]))
	}
	return out
}

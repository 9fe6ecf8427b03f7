package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/lead"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/storedfile"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/user"
)

type LeadDTO struct {
	ID             uint            `json:"id"`
	OwnerID        *uint           `json:"owner_id,omitempty"`
	Name           string          `json:"name"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	ConsortiumType string          `json:"consortium_type"`
	CreditValue    decimal.Decimal `json:"credit_value"`
	Stage          string          `json:"stage"`
	Source         string          `json:"source"`
	Notes          string          `json:"notes,omitempty"`
	LostReason     string          `json:"lost_reason,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BoardDTO is one page of leads with the per-column totals of the Kanban board.
type BoardDTO struct {
	Leads      []*LeadDTO        `json:"leads"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
	Stages     []lead.StageCount `json:"stages"`
}

type UserDTO struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type FileDTO struct {
	ID          uint      `json:"id"`
	LeadID      *uint     `json:"lead_id,omitempty"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToLeadDTO(l *lead.Lead) *LeadDTO {
	if l == nil {
		return nil
	}
	return &LeadDTO{
		ID:             l.ID(),
		OwnerID:        l.OwnerID(),
		Name:           l.Name(),
		Email:          l.Email(),
		Phone:          l.Phone(),
		ConsortiumType: string(l.ConsortiumType()),
		CreditValue:    l.CreditValue(),
		Stage:          l.Stage().String(),
		Source:         string(l.Source()),
		Notes:          l.Notes(),
		LostReason:     l.LostReason(),
		CreatedAt:      l.CreatedAt(),
		UpdatedAt:      l.UpdatedAt(),
	}
}

func ToLeadDTOList(leads []*lead.Lead) []*LeadDTO {
	dtos := make([]*LeadDTO, 0, len(leads))
	for _, l := range leads {
		dtos = append(dtos, ToLeadDTO(l))
	}
	return dtos
}

func ToUserDTO(u *user.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID(),
		Name:      u.Name(),
		Email:     u.Email(),
		Role:      u.Role().String(),
		IsActive:  u.IsActive(),
		CreatedAt: u.CreatedAt(),
	}
}

func ToUserDTOList(users []*user.User) []*UserDTO {
	dtos := make([]*UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, ToUserDTO(u))
	}
	return dtos
}

func ToFileDTO(f *storedfile.StoredFile, url string) *FileDTO {
	if f == nil {
		return nil
	}
	return &FileDTO{
		ID:          f.ID(),
		LeadID:      f.LeadID(),
		Name:        f.Name(),
		ContentType: f.ContentType(),
		SizeBytes:   f.SizeBytes(),
		URL:         url,
		CreatedAt:   f.CreatedAt(),
	}
}

// Package user models team members of a tenant. Active users count against
// the plan's user ceiling.
package user

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleSeller  Role = "seller"
)

var ValidRoles = map[Role]bool{
	RoleAdmin:   true,
	RoleManager: true,
	RoleSeller:  true,
}

func (r Role) String() string { return string(r) }

// CanManageTeam reports whether the role may add users and change the plan.
func (r Role) CanManageTeam() bool {
	return r == RoleAdmin
}

type User struct {
	id           uint
	companyID    uint
	name         string
	email        string
	passwordHash string
	role         Role
	isActive     bool
	createdAt    time.Time
	updatedAt    time.Time
}

func NewUser(companyID uint, name, email, passwordHash string, role Role) (*User, error) {
	if companyID == 0 {
		return nil, fmt.Errorf("company ID is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("user name is required")
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash is required")
	}
	if !ValidRoles[role] {
		return nil, fmt.Errorf("invalid role: %s", role)
	}
	now := time.Now().UTC()
	return &User{
		companyID:    companyID,
		name:         name,
		email:        strings.ToLower(addr.Address),
		passwordHash: passwordHash,
		role:         role,
		isActive:     true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

type ReconstructParams struct {
	ID           uint
	CompanyID    uint
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func Reconstruct(p ReconstructParams) *User {
	return &User{
		id:           p.ID,
		companyID:    p.CompanyID,
		name:         p.Name,
		email:        p.Email,
		passwordHash: p.PasswordHash,
		role:         p.Role,
		isActive:     p.IsActive,
		createdAt:    p.CreatedAt,
		updatedAt:    p.UpdatedAt,
	}
}

func (u *User) ID() uint             { return u.id }
func (u *User) CompanyID() uint      { return u.companyID }
func (u *User) Name() string         { return u.name }
func (u *User) Email() string        { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Role() Role           { return u.role }
func (u *User) IsActive() bool       { return u.isActive }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	u.id = id
	return nil
}

// Deactivate frees the seat held by the user.
func (u *User) Deactivate() {
	u.isActive = false
	u.updatedAt = time.Now().UTC()
}

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, companyID, id uint) (*User, error)
	// GetByEmail looks across tenants; emails are globally unique logins.
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListByCompany(ctx context.Context, companyID uint) ([]*User, error)
	Update(ctx context.Context, u *User) error
}

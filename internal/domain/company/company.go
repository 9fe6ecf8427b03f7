// Package company models the tenant: one customer business whose data is
// isolated from every other tenant.
package company

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type Company struct {
	id        uint
	name      string
	slug      string
	email     string
	phone     string
	document  string
	isActive  bool
	createdAt time.Time
	updatedAt time.Time
}

// NewCompany validates the tenant fields. slug is the public identifier used
// by the lead capture form.
func NewCompany(name, slug, email, phone, document string) (*Company, error) {
	name = strings.TrimSpace(name)
	slug = strings.ToLower(strings.TrimSpace(slug))
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, fmt.Errorf("company name is required")
	}
	if !slugPattern.MatchString(slug) {
		return nil, fmt.Errorf("invalid company slug: %q", slug)
	}
	if email == "" {
		return nil, fmt.Errorf("company email is required")
	}
	now := time.Now().UTC()
	return &Company{
		name:      name,
		slug:      slug,
		email:     email,
		phone:     strings.TrimSpace(phone),
		document:  strings.TrimSpace(document),
		isActive:  true,
		createdAt: now,
		updatedAt: now,
	}, nil
}

type ReconstructParams struct {
	ID        uint
	Name      string
	Slug      string
	Email     string
	Phone     string
	Document  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func Reconstruct(p ReconstructParams) *Company {
	return &Company{
		id:        p.ID,
		name:      p.Name,
		slug:      p.Slug,
		email:     p.Email,
		phone:     p.Phone,
		document:  p.Document,
		isActive:  p.IsActive,
		createdAt: p.CreatedAt,
		updatedAt: p.UpdatedAt,
	}
}

func (c *Company) ID() uint             { return c.id }
func (c *Company) Name() string         { return c.name }
func (c *Company) Slug() string         { return c.slug }
func (c *Company) Email() string        { return c.email }
func (c *Company) Phone() string        { return c.phone }
func (c *Company) Document() string     { return c.document }
func (c *Company) IsActive() bool       { return c.isActive }
func (c *Company) CreatedAt() time.Time { return c.createdAt }
func (c *Company) UpdatedAt() time.Time { return c.updatedAt }

func (c *Company) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("company ID is already set")
	}
	c.id = id
	return nil
}

type Repository interface {
	Create(ctx context.Context, c *Company) error
	// GetByID returns nil, nil when the company does not exist.
	GetByID(ctx context.Context, id uint) (*Company, error)
	GetBySlug(ctx context.Context, slug string) (*Company, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

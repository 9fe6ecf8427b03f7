package usecases

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	subscriptionUsecases "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/subscription/usecases"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/company"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/lead"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/storedfile"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	vo "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription/valueobjects"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/user"
)

type mockLimitChecker struct {
	ExecuteFunc func(ctx context.Context, companyID uint, kind vo.ResourceKind) (*subscriptionUsecases.Decision, error)
}

func (m *mockLimitChecker) Execute(ctx context.Context, companyID uint, kind vo.ResourceKind) (*subscriptionUsecases.Decision, error) {
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, companyID, kind)
	}
	return &subscriptionUsecases.Decision{Allowed: true, Kind: kind, Reason: subscriptionUsecases.ReasonUnlimited, Ceiling: vo.Unlimited()}, nil
}

func allowAll() *mockLimitChecker { return &mockLimitChecker{} }

func denyAll(used float64, ceiling int64) *mockLimitChecker {
	return &mockLimitChecker{
		ExecuteFunc: func(ctx context.Context, companyID uint, kind vo.ResourceKind) (*subscriptionUsecases.Decision, error) {
			return &subscriptionUsecases.Decision{
				Allowed: false,
				Kind:    kind,
				Reason:  subscriptionUsecases.ReasonLimitReached,
				Used:    used,
				Ceiling: vo.MustLimit(ceiling),
			}, nil
		},
	}
}

type mockStatusResolver struct {
	status vo.SubscriptionStatus
	err    error
	calls  int
}

func (m *mockStatusResolver) Execute(ctx context.Context, companyID uint) (*subscription.StatusSnapshot, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	status := m.status
	if status == "" {
		status = vo.StatusActive
	}
	return &subscription.StatusSnapshot{CompanyID: companyID, Status: status}, nil
}

type mockInvalidator struct {
	mu  sync.Mutex
	ids []uint
}

func (m *mockInvalidator) InvalidateStatus(_ context.Context, companyID uint) {
	m.mu.Lock()
	m.ids = append(m.ids, companyID)
	m.mu.Unlock()
}

func (m *mockInvalidator) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ids)
}

type mockLeadRepository struct {
	mu             sync.Mutex
	leads          map[uint]*lead.Lead
	nextID         uint
	CreateErr      error
	ListFunc       func(ctx context.Context, filter lead.ListFilter) ([]*lead.Lead, int64, error)
	CountByStageFn func(ctx context.Context, companyID uint) ([]lead.StageCount, error)
}

func newMockLeadRepository() *mockLeadRepository {
	return &mockLeadRepository{leads: make(map[uint]*lead.Lead)}
}

func (m *mockLeadRepository) Create(ctx context.Context, l *lead.Lead) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	if err := l.SetID(m.nextID); err != nil {
		return err
	}
	m.leads[l.ID()] = l
	return nil
}

func (m *mockLeadRepository) GetByID(ctx context.Context, companyID, id uint) (*lead.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leads[id]
	if !ok || l.CompanyID() != companyID || l.DeletedAt() != nil {
		return nil, nil
	}
	return l, nil
}

func (m *mockLeadRepository) Update(ctx context.Context, l *lead.Lead) error { return nil }

func (m *mockLeadRepository) SoftDelete(ctx context.Context, companyID, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.leads, id)
	return nil
}

func (m *mockLeadRepository) List(ctx context.Context, filter lead.ListFilter) ([]*lead.Lead, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockLeadRepository) CountByStage(ctx context.Context, companyID uint) ([]lead.StageCount, error) {
	if m.CountByStageFn != nil {
		return m.CountByStageFn(ctx, companyID)
	}
	return nil, nil
}

func (m *mockLeadRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.leads)
}

type mockCompanyRepository struct {
	companies map[string]*company.Company
}

func (m *mockCompanyRepository) Create(ctx context.Context, c *company.Company) error { return nil }

func (m *mockCompanyRepository) GetByID(ctx context.Context, id uint) (*company.Company, error) {
	return nil, nil
}

func (m *mockCompanyRepository) GetBySlug(ctx context.Context, slug string) (*company.Company, error) {
	return m.companies[slug], nil
}

func (m *mockCompanyRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	_, ok := m.companies[slug]
	return ok, nil
}

type mockUserRepository struct {
	users     []*user.User
	emailUsed bool
}

func (m *mockUserRepository) Create(ctx context.Context, u *user.User) error {
	m.users = append(m.users, u)
	return u.SetID(uint(len(m.users)))
}

func (m *mockUserRepository) GetByID(ctx context.Context, companyID, id uint) (*user.User, error) {
	for _, u := range m.users {
		if u.ID() == id && u.CompanyID() == companyID {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return m.emailUsed, nil
}

func (m *mockUserRepository) ListByCompany(ctx context.Context, companyID uint) ([]*user.User, error) {
	return m.users, nil
}

func (m *mockUserRepository) Update(ctx context.Context, u *user.User) error { return nil }

type mockFileRepository struct {
	files     []*storedfile.StoredFile
	CreateErr error
}

func (m *mockFileRepository) Create(ctx context.Context, f *storedfile.StoredFile) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.files = append(m.files, f)
	return f.SetID(uint(len(m.files)))
}

func (m *mockFileRepository) GetByID(ctx context.Context, companyID, id uint) (*storedfile.StoredFile, error) {
	for _, f := range m.files {
		if f.ID() == id && f.CompanyID() == companyID {
			return f, nil
		}
	}
	return nil, nil
}

func (m *mockFileRepository) ListByCompany(ctx context.Context, companyID uint) ([]*storedfile.StoredFile, error) {
	return m.files, nil
}

func (m *mockFileRepository) Delete(ctx context.Context, companyID, id uint) error { return nil }

type memoryStorage struct {
	objects map[string][]byte
	PutErr  error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte)}
}

func (s *memoryStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if s.PutErr != nil {
		return s.PutErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	s.objects[key] = buf.Bytes()
	return nil
}

func (s *memoryStorage) Delete(ctx context.Context, key string) error {
	if _, ok := s.objects[key]; !ok {
		return errors.New("no such object")
	}
	delete(s.objects, key)
	return nil
}

func (s *memoryStorage) URL(key string) string { return "/files/" + key }

type mockHasher struct{}

func (mockHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

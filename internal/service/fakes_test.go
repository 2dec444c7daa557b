package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/hrms-service/internal/domain"
	"github.com/spec-kit/hrms-service/internal/events"
	"github.com/spec-kit/hrms-service/internal/repository"
	apperrors "github.com/spec-kit/hrms-service/pkg/util"
)

type fakeUsers struct {
	mu         sync.Mutex
	seq        int
	byID       map[string]*domain.User
	lastLogins map[string]int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[string]*domain.User{}, lastLogins: map[string]int{}}
}

func (f *fakeUsers) Create(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	u.ID = fmt.Sprintf("u-%d", f.seq)
	u.CreatedAt = time.Now()
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) Update(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[u.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) UpdateLastLogin(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLogins[id]++
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByLogin(_ context.Context, identifier string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Username == identifier || strings.EqualFold(u.Email, identifier) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUsers) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Username == username || strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.byID)), nil
}

func (f *fakeUsers) List(_ context.Context, page apperrors.PageRequest) ([]domain.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]domain.User, 0, len(f.byID))
	for _, u := range f.byID {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, page), int64(len(all)), nil
}

type fakeResets struct {
	tokens map[string]*repository.PasswordResetToken
	seq    int
}

func newFakeResets() *fakeResets {
	return &fakeResets{tokens: map[string]*repository.PasswordResetToken{}}
}

func (f *fakeResets) Create(_ context.Context, t *repository.PasswordResetToken) error {
	f.seq++
	t.ID = fmt.Sprintf("r-%d", f.seq)
	cp := *t
	f.tokens[t.ID] = &cp
	return nil
}

func (f *fakeResets) GetByTokenHash(_ context.Context, hash string) (*repository.PasswordResetToken, error) {
	for _, t := range f.tokens {
		if t.TokenHash == hash {
			cp := *t
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeResets) MarkUsed(_ context.Context, id string) error {
	t, ok := f.tokens[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	t.UsedAt = &now
	return nil
}

func (f *fakeResets) InvalidateForUser(_ context.Context, userID string) error {
	for _, t := range f.tokens {
		if t.UserID == userID && t.UsedAt == nil {
			now := time.Now()
			t.UsedAt = &now
		}
	}
	return nil
}

type fakeDepartments struct {
	seq   int
	items map[string]*domain.Department
	// getErr, when set, is returned by GetByID for ids not in items.
	getErr error
}

func newFakeDepartments() *fakeDepartments {
	return &fakeDepartments{items: map[string]*domain.Department{}}
}

func (f *fakeDepartments) Create(_ context.Context, d *domain.Department) error {
	f.seq++
	d.ID = fmt.Sprintf("d-%d", f.seq)
	cp := *d
	f.items[d.ID] = &cp
	return nil
}

func (f *fakeDepartments) Update(_ context.Context, d *domain.Department) error {
	if _, ok := f.items[d.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *d
	f.items[d.ID] = &cp
	return nil
}

func (f *fakeDepartments) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

func (f *fakeDepartments) GetByID(_ context.Context, id string) (*domain.Department, error) {
	d, ok := f.items[id]
	if !ok {
		if f.getErr != nil {
			return nil, f.getErr
		}
		return nil, pgx.ErrNoRows
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDepartments) List(_ context.Context, filter repository.DepartmentFilter) ([]domain.Department, int64, error) {
	var all []domain.Department
	for _, d := range f.items {
		if !filter.IncludeInactive && !d.IsActive {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(filter.Search)) {
			continue
		}
		all = append(all, *d)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginate(all, filter.Page), int64(len(all)), nil
}

type fakeEmployees struct {
	seq   int
	items map[string]*domain.Employee
}

func newFakeEmployees() *fakeEmployees {
	return &fakeEmployees{items: map[string]*domain.Employee{}}
}

func (f *fakeEmployees) Create(_ context.Context, e *domain.Employee) error {
	f.seq++
	e.ID = fmt.Sprintf("e-%d", f.seq)
	cp := *e
	f.items[e.ID] = &cp
	return nil
}

func (f *fakeEmployees) Update(_ context.Context, e *domain.Employee) error {
	if _, ok := f.items[e.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *e
	f.items[e.ID] = &cp
	return nil
}

func (f *fakeEmployees) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

func (f *fakeEmployees) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	e, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEmployees) ExistsByCodeOrEmail(_ context.Context, code, email, excludeID string) (bool, error) {
	for _, e := range f.items {
		if e.ID == excludeID {
			continue
		}
		if e.EmployeeCode == code || strings.EqualFold(e.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEmployees) List(_ context.Context, filter repository.EmployeeFilter) ([]domain.Employee, int64, error) {
	var all []domain.Employee
	for _, e := range f.items {
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		if filter.DepartmentID != nil && (e.DepartmentID == nil || *e.DepartmentID != *filter.DepartmentID) {
			continue
		}
		all = append(all, *e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, filter.Page), int64(len(all)), nil
}

type fakeDocuments struct {
	seq   int
	items map[string]*domain.EmployeeDocument
}

func newFakeDocuments() *fakeDocuments {
	return &fakeDocuments{items: map[string]*domain.EmployeeDocument{}}
}

func (f *fakeDocuments) Create(_ context.Context, d *domain.EmployeeDocument) error {
	f.seq++
	d.ID = fmt.Sprintf("doc-%d", f.seq)
	cp := *d
	f.items[d.ID] = &cp
	return nil
}

func (f *fakeDocuments) GetByID(_ context.Context, employeeID, id string) (*domain.EmployeeDocument, error) {
	d, ok := f.items[id]
	if !ok || d.EmployeeID != employeeID {
		return nil, pgx.ErrNoRows
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDocuments) ListByEmployee(_ context.Context, employeeID string) ([]domain.EmployeeDocument, error) {
	var out []domain.EmployeeDocument
	for _, d := range f.items {
		if d.EmployeeID == employeeID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDocuments) Delete(_ context.Context, employeeID, id string) error {
	d, ok := f.items[id]
	if !ok || d.EmployeeID != employeeID {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

type recordingDispatcher struct {
	events []events.Event
}

func (r *recordingDispatcher) Publish(_ context.Context, e events.Event) error {
	r.events = append(r.events, e)
	return nil
}

func (r *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (r *recordingDispatcher) types() []events.EventType {
	out := make([]events.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func paginate[T any](items []T, page apperrors.PageRequest) []T {
	start := page.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + page.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

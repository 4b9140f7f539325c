package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/leadflow/internal/entity"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindOverdueAssignable(ctx context.Context, now time.Time, limit int) ([]*entity.Lead, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, id, status, stage string) error {
	args := m.Called(ctx, id, status, stage)
	return args.Error(0)
}

func (m *MockLeadRepository) MoveToStage(ctx context.Context, id, status, stage string) error {
	args := m.Called(ctx, id, status, stage)
	return args.Error(0)
}

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) EligibleIDs(ctx context.Context, role string) ([]string, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID, leadID, eventType, message string) error {
	args := m.Called(ctx, userID, leadID, eventType, message)
	return args.Error(0)
}

// fakeAssignmentStore grava as escritas da "transação" em memória.
// Commit só conta quando o fn inteiro passa, igual ao store real.
type assignmentUpdate struct {
	LeadID       string
	PrevAssignee *string
	NewAssignee  string
	AssignedAt   time.Time
	Deadline     time.Time
}

type fakeAssignmentTx struct {
	lastAssigned map[string]string
	cursors      map[string]string
	updates      []assignmentUpdate
	events       []*entity.AssignmentEvent

	updateErrs []error // consumido em ordem, nil = sucesso
}

func (t *fakeAssignmentTx) LockCursor(ctx context.Context, role string) (string, error) {
	return t.lastAssigned[role], nil
}

func (t *fakeAssignmentTx) SetCursor(ctx context.Context, role, userID string) error {
	if t.cursors == nil {
		t.cursors = map[string]string{}
	}
	t.cursors[role] = userID
	t.lastAssigned[role] = userID
	return nil
}

func (t *fakeAssignmentTx) UpdateLeadAssignment(ctx context.Context, leadID string, prevAssignee *string, newAssignee string, assignedAt, deadline time.Time) error {
	if len(t.updateErrs) > 0 {
		err := t.updateErrs[0]
		t.updateErrs = t.updateErrs[1:]
		if err != nil {
			return err
		}
	}
	t.updates = append(t.updates, assignmentUpdate{
		LeadID:       leadID,
		PrevAssignee: prevAssignee,
		NewAssignee:  newAssignee,
		AssignedAt:   assignedAt,
		Deadline:     deadline,
	})
	return nil
}

func (t *fakeAssignmentTx) AppendEvent(ctx context.Context, ev *entity.AssignmentEvent) error {
	t.events = append(t.events, ev)
	return nil
}

type fakeAssignmentStore struct {
	tx      *fakeAssignmentTx
	commits int
}

func newFakeStore(lastAssigned map[string]string) *fakeAssignmentStore {
	if lastAssigned == nil {
		lastAssigned = map[string]string{}
	}
	return &fakeAssignmentStore{tx: &fakeAssignmentTx{lastAssigned: lastAssigned}}
}

func (s *fakeAssignmentStore) WithinLeadTx(ctx context.Context, fn func(tx AssignmentTx) error) error {
	if err := fn(s.tx); err != nil {
		return err
	}
	s.commits++
	return nil
}

func strPtr(s string) *string {
	return &s
}

package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/leadflow/internal/assign"
	"github.com/xavierca1/leadflow/internal/entity"
)

func newAssignUC(leads *MockLeadRepository, users *MockUserRepository, store *fakeAssignmentStore, notifier *MockNotifier, now time.Time) *AssignLeadUseCase {
	uc := NewAssignLeadUseCase(leads, users, store, notifier, assign.DefaultPolicy())
	uc.Now = func() time.Time { return now }
	return uc
}

func pendingLead(id string) *entity.Lead {
	return &entity.Lead{
		ID:      id,
		Company: "Acme Corp",
		Email:   "contato@acme.example",
		Status:  entity.LeadStatusPending,
		Stage:   entity.StageManagerReview,
	}
}

// TestAssignLeadInitial - primeira atribuição: sem exclusão, janela de 15h,
// evento com reason initial e previous_assignee nulo
func TestAssignLeadInitial(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	mockLeads := new(MockLeadRepository)
	mockUsers := new(MockUserRepository)
	mockNotifier := new(MockNotifier)
	store := newFakeStore(map[string]string{entity.RoleManager: "manager-c"})

	mockLeads.On("FindByID", ctx, "lead-1").Return(pendingLead("lead-1"), nil)
	mockUsers.On("EligibleIDs", ctx, entity.RoleManager).Return([]string{"manager-a", "manager-b", "manager-c"}, nil)
	mockNotifier.On("Notify", ctx, "manager-a", "lead-1", "assignment", mock.Anything).Return(nil)

	uc := newAssignUC(mockLeads, mockUsers, store, mockNotifier, now)

	output, err := uc.Execute(ctx, AssignLeadInput{LeadID: "lead-1", Reason: entity.ReasonInitial})

	assert.NoError(t, err)
	assert.Equal(t, "manager-a", output.AssigneeID) // cursor estava em C, volta pro A
	assert.Equal(t, now.Add(15*time.Hour), output.DeadlineAt)

	assert.Equal(t, 1, store.commits)
	assert.Equal(t, entity.ReasonInitial, store.tx.events[0].Reason)
	assert.Nil(t, store.tx.events[0].PreviousAssignee)
	assert.Equal(t, "manager-a", store.tx.cursors[entity.RoleManager])
}

// TestAssignLeadRoundRobinAdvances - três atribuições seguidas percorrem o pool
func TestAssignLeadRoundRobinAdvances(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	mockUsers := new(MockUserRepository)
	mockNotifier := new(MockNotifier)
	store := newFakeStore(map[string]string{entity.RoleManager: "A"})

	mockUsers.On("EligibleIDs", ctx, entity.RoleManager).Return([]string{"A", "B", "C"}, nil)
	mockNotifier.On("Notify", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	var got []string
	for i, id := range []string{"lead-1", "lead-2", "lead-3"} {
		mockLeads := new(MockLeadRepository)
		mockLeads.On("FindByID", ctx, id).Return(pendingLead(id), nil)

		uc := newAssignUC(mockLeads, mockUsers, store, mockNotifier, now)
		output, err := uc.Execute(ctx, AssignLeadInput{LeadID: id, Reason: entity.ReasonInitial})
		assert.NoError(t, err, "atribuição %d", i)
		got = append(got, output.AssigneeID)
	}

	assert.Equal(t, []string{"B", "C", "A"}, got)
}

// TestAssignLeadManualWithTarget - alvo explícito ignora o round-robin e
// deixa o cursor parado: escolha da mão não fura a vez de ninguém no rodízio
func TestAssignLeadManualWithTarget(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	lead := pendingLead("lead-1")
	lead.AssigneeID = strPtr("manager-a")

	mockLeads := new(MockLeadRepository)
	mockUsers := new(MockUserRepository)
	mockNotifier := new(MockNotifier)
	store := newFakeStore(map[string]string{entity.RoleManager: "manager-a"})

	mockLeads.On("FindByID", ctx, "lead-1").Return(lead, nil)
	mockUsers.On("EligibleIDs", ctx, entity.RoleManager).Return([]string{"manager-a", "manager-b", "manager-c"}, nil)
	mockNotifier.On("Notify", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	uc := newAssignUC(mockLeads, mockUsers, store, mockNotifier, now)

	output, err := uc.Execute(ctx, AssignLeadInput{
		LeadID:       "lead-1",
		Reason:       entity.ReasonManual,
		TargetUserID: "manager-c",
	})

	assert.NoError(t, err)
	assert.Equal(t, "manager-c", output.AssigneeID)
	// Manual sobre lead já atribuído usa a janela de reatribuição
	assert.Equal(t, now.Add(4*time.Hour), output.DeadlineAt)

	// cursor intocado: continua apontando para manager-a
	assert.Empty(t, store.tx.cursors)
	assert.Equal(t, "manager-a", store.tx.lastAssigned[entity.RoleManager])

	// avisa quem recebeu e quem perdeu
	mockNotifier.AssertNumberOfCalls(t, "Notify", 2)

	// o próximo pick do rodízio segue de onde estava: manager-b
	mockLeads.On("FindByID", ctx, "lead-2").Return(pendingLead("lead-2"), nil)
	next, err := uc.Execute(ctx, AssignLeadInput{LeadID: "lead-2", Reason: entity.ReasonInitial})
	assert.NoError(t, err)
	assert.Equal(t, "manager-b", next.AssigneeID)
}

func TestAssignLeadTargetOutsidePool(t *testing.T) {
	ctx := context.Background()

	mockLeads := new(MockLeadRepository)
	mockUsers := new(MockUserRepository)
	store := newFakeStore(nil)

	mockLeads.On("FindByID", ctx, "lead-1").Return(pendingLead("lead-1"), nil)
	mockUsers.On("EligibleIDs", ctx, entity.RoleManager).Return([]string{"manager-a"}, nil)

	uc := newAssignUC(mockLeads, mockUsers, store, new(MockNotifier), time.Now())

	_, err := uc.Execute(ctx, AssignLeadInput{
		LeadID:       "lead-1",
		Reason:       entity.ReasonManual,
		TargetUserID: "intruso",
	})

	assert.True(t, IsDomainError(err))
	assert.Equal(t, 0, store.commits)
}

func TestAssignLeadNotAssignable(t *testing.T) {
	ctx := context.Background()

	lead := pendingLead("lead-1")
	lead.Status = entity.LeadStatusReRejected

	mockLeads := new(MockLeadRepository)
	mockLeads.On("FindByID", ctx, "lead-1").Return(lead, nil)

	uc := newAssignUC(mockLeads, new(MockUserRepository), newFakeStore(nil), new(MockNotifier), time.Now())

	_, err := uc.Execute(ctx, AssignLeadInput{LeadID: "lead-1", Reason: entity.ReasonInitial})

	assert.True(t, IsDomainError(err))
}

func TestAssignLeadEmptyPool(t *testing.T) {
	ctx := context.Background()

	mockLeads := new(MockLeadRepository)
	mockUsers := new(MockUserRepository)
	store := newFakeStore(nil)

	mockLeads.On("FindByID", ctx, "lead-1").Return(pendingLead("lead-1"), nil)
	mockUsers.On("EligibleIDs", ctx, entity.RoleManager).Return([]string{}, nil)

	uc := newAssignUC(mockLeads, mockUsers, store, new(MockNotifier), time.Now())

	_, err := uc.Execute(ctx, AssignLeadInput{LeadID: "lead-1", Reason: entity.ReasonInitial})

	assert.True(t, IsDomainError(err))
	assert.Equal(t, 0, store.commits)
}

// TestAssignLeadNotificationFailureDoesNotFail - atribuição vale mesmo sem aviso
func TestAssignLeadNotificationFailureDoesNotFail(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	mockLeads := new(MockLeadRepository)
	mockUsers := new(MockUserRepository)
	mockNotifier := new(MockNotifier)
	store := newFakeStore(nil)

	mockLeads.On("FindByID", ctx, "lead-1").Return(pendingLead("lead-1"), nil)
	mockUsers.On("EligibleIDs", ctx, entity.RoleManager).Return([]string{"manager-a"}, nil)
	mockNotifier.On("Notify", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	uc := newAssignUC(mockLeads, mockUsers, store, mockNotifier, now)

	output, err := uc.Execute(ctx, AssignLeadInput{LeadID: "lead-1", Reason: entity.ReasonInitial})

	assert.NoError(t, err)
	assert.Equal(t, "manager-a", output.AssigneeID)
	assert.Equal(t, 1, store.commits)
}

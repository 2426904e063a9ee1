package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/tasktrack/internal/domain"
	apperrors "github.com/spec-kit/tasktrack/pkg/util"
)

func newTicketFixture(t *testing.T) (*TicketService, *fakeTicketRepo, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo(
		&domain.User{ID: 1, Username: "alice", Role: domain.RoleAdmin},
		&domain.User{ID: 2, Username: "bob", Role: domain.RoleAssignee},
		&domain.User{ID: 3, Username: "carol", Role: "Viewer"},
	)
	tickets := newFakeTicketRepo(users)
	svc := NewTicketService(TicketDependencies{
		TicketRepo:  tickets,
		HistoryRepo: &fakeHistoryRepo{tickets: tickets, users: users},
		UserRepo:    users,
	})
	return svc, tickets, users
}

func deadline(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return &parsed
}

func TestCreateTicket_ForcesNewStatus(t *testing.T) {
	svc, _, _ := newTicketFixture(t)

	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		Title:      "Fix printer",
		Summary:    "Toner warning on floor 2",
		AssigneeID: 2,
		Deadline:   deadline(t, "2025-01-10T10:00:00Z"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusNew, ticket.Status)
	assert.Nil(t, ticket.ResolutionComment)
	assert.NotZero(t, ticket.ID)
	assert.NotEmpty(t, ticket.ReferenceKey)
	assert.Equal(t, "bob", ticket.AssigneeName)
}

func TestCreateTicket_Validation(t *testing.T) {
	svc, _, _ := newTicketFixture(t)

	_, err := svc.CreateTicket(context.Background(), TicketCreateInput{AssigneeID: 2})
	requireDomainCode(t, err, "VALIDATION_FAILED")

	_, err = svc.CreateTicket(context.Background(), TicketCreateInput{Title: "No assignee"})
	requireDomainCode(t, err, "VALIDATION_FAILED")

	_, err = svc.CreateTicket(context.Background(), TicketCreateInput{Title: "Ghost assignee", AssigneeID: 99})
	requireDomainCode(t, err, "VALIDATION_FAILED")
}

func TestChangeStatus_RecordsOldAndNewValue(t *testing.T) {
	svc, _, _ := newTicketFixture(t)
	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{Title: "Fix printer", AssigneeID: 2})
	require.NoError(t, err)

	entry, err := svc.ChangeStatus(context.Background(), ticket.ID, domain.TicketStatusSolving, 1, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.ActionStatusChange, entry.ActionType)
	assert.Equal(t, "New", entry.OldValue)
	assert.Equal(t, "Solving", entry.NewValue)
}

func TestChangeStatus_TerminalRequiresResolution(t *testing.T) {
	svc, _, _ := newTicketFixture(t)
	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{Title: "Fix printer", AssigneeID: 2})
	require.NoError(t, err)

	_, err = svc.ChangeStatus(context.Background(), ticket.ID, domain.TicketStatusSolved, 1, nil)
	requireDomainCode(t, err, "VALIDATION_FAILED")

	blank := "   "
	_, err = svc.ChangeStatus(context.Background(), ticket.ID, domain.TicketStatusFailed, 1, &blank)
	requireDomainCode(t, err, "VALIDATION_FAILED")
}

func TestChangeStatus_TerminalStoresResolution(t *testing.T) {
	svc, tickets, _ := newTicketFixture(t)
	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{Title: "Fix printer", AssigneeID: 2})
	require.NoError(t, err)

	resolution := "Replaced toner"
	entry, err := svc.ChangeStatus(context.Background(), ticket.ID, domain.TicketStatusSolved, 1, &resolution)
	require.NoError(t, err)
	assert.Equal(t, "Replaced toner", entry.ActionComment)

	stored, err := tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusSolved, stored.Status)
	require.NotNil(t, stored.ResolutionComment)
	assert.Equal(t, "Replaced toner", *stored.ResolutionComment)
}

func TestChangeStatus_UnknownStatusRejected(t *testing.T) {
	svc, _, _ := newTicketFixture(t)
	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{Title: "Fix printer", AssigneeID: 2})
	require.NoError(t, err)

	_, err = svc.ChangeStatus(context.Background(), ticket.ID, domain.TicketStatus("Done"), 1, nil)
	requireDomainCode(t, err, "VALIDATION_FAILED")
}

func TestChangeStatus_TicketNotFound(t *testing.T) {
	svc, _, _ := newTicketFixture(t)

	_, err := svc.ChangeStatus(context.Background(), 42, domain.TicketStatusSolving, 1, nil)
	requireDomainCode(t, err, "NOT_FOUND")
}

func TestChangeStatus_AnyToAnyAllowed(t *testing.T) {
	svc, _, _ := newTicketFixture(t)
	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{Title: "Fix printer", AssigneeID: 2})
	require.NoError(t, err)

	resolution := "gave up"
	_, err = svc.ChangeStatus(context.Background(), ticket.ID, domain.TicketStatusFailed, 1, &resolution)
	require.NoError(t, err)

	// no transition graph: a terminal ticket may be reopened
	entry, err := svc.ChangeStatus(context.Background(), ticket.ID, domain.TicketStatusSolving, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "Failed", entry.OldValue)
	assert.Equal(t, "Solving", entry.NewValue)
}

func TestReassign_RecordsDisplayNames(t *testing.T) {
	svc, _, _ := newTicketFixture(t)
	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{Title: "Fix printer", AssigneeID: 2})
	require.NoError(t, err)

	entry, err := svc.Reassign(context.Background(), ticket.ID, 3, 1)
	require.NoError(t, err)

	assert.Equal(t, domain.ActionReassign, entry.ActionType)
	assert.Equal(t, "bob", entry.OldValue)
	assert.Equal(t, "carol", entry.NewValue)
	assert.Contains(t, entry.ActionComment, "bob")
	assert.Contains(t, entry.ActionComment, "carol")
}

func TestReassign_UnknownAssigneeRejected(t *testing.T) {
	svc, _, _ := newTicketFixture(t)
	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{Title: "Fix printer", AssigneeID: 2})
	require.NoError(t, err)

	_, err = svc.Reassign(context.Background(), ticket.ID, 99, 1)
	requireDomainCode(t, err, "VALIDATION_FAILED")
}

func TestReassign_TicketNotFound(t *testing.T) {
	svc, _, _ := newTicketFixture(t)

	_, err := svc.Reassign(context.Background(), 42, 2, 1)
	requireDomainCode(t, err, "NOT_FOUND")
}

func TestListForUser_OrderedByDeadline(t *testing.T) {
	svc, _, _ := newTicketFixture(t)

	_, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		Title: "later", AssigneeID: 2, Deadline: deadline(t, "2025-03-01T09:00:00Z"),
	})
	require.NoError(t, err)
	_, err = svc.CreateTicket(context.Background(), TicketCreateInput{
		Title: "sooner", AssigneeID: 2, Deadline: deadline(t, "2025-01-10T10:00:00Z"),
	})
	require.NoError(t, err)
	_, err = svc.CreateTicket(context.Background(), TicketCreateInput{
		Title: "other user", AssigneeID: 3, Deadline: deadline(t, "2025-01-01T00:00:00Z"),
	})
	require.NoError(t, err)

	tickets, err := svc.ListForUser(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, "sooner", tickets[0].Title)
	assert.Equal(t, "later", tickets[1].Title)
}

func TestHistory_NewestFirstWithPerformerNames(t *testing.T) {
	svc, _, users := newTicketFixture(t)
	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{Title: "Fix printer", AssigneeID: 2})
	require.NoError(t, err)

	_, err = svc.ChangeStatus(context.Background(), ticket.ID, domain.TicketStatusAssigned, 1, nil)
	require.NoError(t, err)
	_, err = svc.Reassign(context.Background(), ticket.ID, 3, 2)
	require.NoError(t, err)

	entries, err := svc.History(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, domain.ActionReassign, entries[0].ActionType)
	assert.Equal(t, "bob", entries[0].PerformedByName)
	assert.Equal(t, domain.ActionStatusChange, entries[1].ActionType)
	assert.Equal(t, "alice", entries[1].PerformedByName)

	// performer deletion degrades to a placeholder, not a dropped row
	delete(users.users, 2)
	entries, err = svc.History(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.UnknownPerformer, entries[0].PerformedByName)
}

func TestHistory_TicketNotFound(t *testing.T) {
	svc, _, _ := newTicketFixture(t)

	_, err := svc.History(context.Background(), 42)
	requireDomainCode(t, err, "NOT_FOUND")
}

func requireDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, code, domainErr.Code)
}

package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/tasktrack/internal/domain"
	"github.com/spec-kit/tasktrack/internal/repository"
)

// In-memory fakes for the repository interfaces. They mirror the Postgres
// implementations closely enough for service-level behavior: pgx.ErrNoRows
// for misses, history written together with the mutation, join enrichment
// resolved against the fake user table.

type fakeUserRepo struct {
	users map[int64]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[int64]*domain.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	result := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		result = append(result, *user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return result, nil
}

type fakeTicketRepo struct {
	users   *fakeUserRepo
	tickets map[int64]*domain.Ticket
	history []domain.TicketHistoryEntry
	nextID  int64
}

func newFakeTicketRepo(users *fakeUserRepo) *fakeTicketRepo {
	return &fakeTicketRepo{users: users, tickets: make(map[int64]*domain.Ticket)}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.nextID++
	ticket.ID = r.nextID
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) ListByAssignee(_ context.Context, assigneeID int64) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if ticket.AssigneeID != nil && *ticket.AssigneeID == assigneeID {
			result = append(result, *ticket)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		switch {
		case result[i].Deadline == nil:
			return false
		case result[j].Deadline == nil:
			return true
		default:
			return result[i].Deadline.Before(*result[j].Deadline)
		}
	})
	return result, nil
}

func (r *fakeTicketRepo) TransitionStatus(_ context.Context, input repository.TransitionInput) (*domain.TicketHistoryEntry, error) {
	ticket, ok := r.tickets[input.TicketID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	oldStatus := ticket.Status
	ticket.Status = input.NewStatus
	if input.ResolutionComment != nil {
		ticket.ResolutionComment = input.ResolutionComment
	}
	ticket.UpdatedAt = time.Now()

	entry := domain.TicketHistoryEntry{
		ID:            int64(len(r.history) + 1),
		TicketID:      input.TicketID,
		ActionType:    domain.ActionStatusChange,
		ActionComment: input.ActionComment,
		OldValue:      string(oldStatus),
		NewValue:      string(input.NewStatus),
		PerformedBy:   &input.PerformedBy,
		CreatedAt:     time.Now(),
	}
	r.history = append(r.history, entry)
	return &entry, nil
}

func (r *fakeTicketRepo) Reassign(_ context.Context, input repository.ReassignInput) (*domain.TicketHistoryEntry, error) {
	ticket, ok := r.tickets[input.TicketID]
	if !ok {
		return nil, pgx.ErrNoRows
	}

	oldName := "Unassigned"
	if ticket.AssigneeID != nil {
		if user, ok := r.users.users[*ticket.AssigneeID]; ok {
			oldName = user.Username
		}
	}
	newUser, ok := r.users.users[input.NewAssigneeID]
	if !ok {
		return nil, pgx.ErrNoRows
	}

	assigneeID := input.NewAssigneeID
	ticket.AssigneeID = &assigneeID
	ticket.UpdatedAt = time.Now()

	entry := domain.TicketHistoryEntry{
		ID:            int64(len(r.history) + 1),
		TicketID:      input.TicketID,
		ActionType:    domain.ActionReassign,
		ActionComment: fmt.Sprintf("reassigned from %s to %s", oldName, newUser.Username),
		OldValue:      oldName,
		NewValue:      newUser.Username,
		PerformedBy:   &input.PerformedBy,
		CreatedAt:     time.Now(),
	}
	r.history = append(r.history, entry)
	return &entry, nil
}

type fakeHistoryRepo struct {
	tickets *fakeTicketRepo
	users   *fakeUserRepo
}

func (r *fakeHistoryRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.TicketHistoryEntry, error) {
	var result []domain.TicketHistoryEntry
	for i := len(r.tickets.history) - 1; i >= 0; i-- {
		entry := r.tickets.history[i]
		if entry.TicketID != ticketID {
			continue
		}
		entry.PerformedByName = domain.UnknownPerformer
		if entry.PerformedBy != nil {
			if user, ok := r.users.users[*entry.PerformedBy]; ok {
				entry.PerformedByName = user.Username
			}
		}
		result = append(result, entry)
	}
	return result, nil
}

type fakeCommentRepo struct {
	comments []domain.Comment
	users    *fakeUserRepo
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	comment.ID = int64(len(r.comments) + 1)
	comment.CreatedAt = time.Now()
	if user, ok := r.users.users[comment.UserID]; ok {
		comment.Username = user.Username
	}
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID int64, includeInternal bool) ([]domain.Comment, error) {
	var result []domain.Comment
	for _, comment := range r.comments {
		if comment.TicketID != ticketID {
			continue
		}
		if !includeInternal && comment.Type == domain.CommentTypeInternal {
			continue
		}
		result = append(result, comment)
	}
	return result, nil
}

type followerKey struct {
	ticketID int64
	userID   int64
}

type fakeFollowerRepo struct {
	followers map[followerKey]struct{}
	users     *fakeUserRepo
}

func newFakeFollowerRepo(users *fakeUserRepo) *fakeFollowerRepo {
	return &fakeFollowerRepo{followers: make(map[followerKey]struct{}), users: users}
}

func (r *fakeFollowerRepo) Add(_ context.Context, ticketID, userID int64) error {
	r.followers[followerKey{ticketID: ticketID, userID: userID}] = struct{}{}
	return nil
}

func (r *fakeFollowerRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.Follower, error) {
	var result []domain.Follower
	for key := range r.followers {
		if key.ticketID != ticketID {
			continue
		}
		follower := domain.Follower{TicketID: key.ticketID, UserID: key.userID}
		if user, ok := r.users.users[key.userID]; ok {
			follower.Username = user.Username
		}
		result = append(result, follower)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return result, nil
}

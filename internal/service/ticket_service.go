package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-desk/internal/authz"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/persistence"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

const (
	minTitleLen       = 5
	maxTitleLen       = 255
	minDescriptionLen = 10
)

// TicketService is the ticket lifecycle engine: every mutation loads
// the ticket, checks the state machine, consults the authorization
// policy, then persists. It holds no cross-request state.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	statusLog  repository.StatusLogRepository
	users      repository.UserRepository
	cache      *persistence.TicketCache
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo    repository.TicketRepository
	CommentRepo   repository.CommentRepository
	StatusLogRepo repository.StatusLogRepository
	UserRepo      repository.UserRepository
	Cache         *persistence.TicketCache
	Dispatcher    events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		statusLog:  deps.StatusLogRepo,
		users:      deps.UserRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket creates a ticket in OPEN status for the principal.
func (s *TicketService) CreateTicket(ctx context.Context, principal domain.Principal, input TicketCreateInput) (*domain.Ticket, error) {
	if err := authz.Decide(authz.ActionCreateTicket, principal, nil); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if len(title) < minTitleLen {
		return nil, apperrors.NewValidationError("title must be at least 5 characters", map[string]any{"field": "title"})
	}
	if len(title) > maxTitleLen {
		return nil, apperrors.NewValidationError("title must be at most 255 characters", map[string]any{"field": "title"})
	}
	if len(description) < minDescriptionLen {
		return nil, apperrors.NewValidationError("description must be at least 10 characters", map[string]any{"field": "description"})
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	} else if _, ok := domain.ParseTicketPriority(string(priority)); !ok {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: description,
		Status:      domain.TicketStatusOpen,
		Priority:    priority,
		CreatedBy:   principal.UserID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, principal, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// ListTickets returns tickets visible to the principal: everything for
// MANAGER, assigned-to-self for SUPPORT, created-by-self for USER.
func (s *TicketService) ListTickets(ctx context.Context, principal domain.Principal) ([]domain.Ticket, error) {
	scope, err := authz.ListScope(principal)
	if err != nil {
		return nil, err
	}

	filter := repository.TicketFilter{}
	switch scope {
	case authz.ScopeAny:
	case authz.ScopeAssigned:
		userID := principal.UserID
		filter.AssignedTo = &userID
	case authz.ScopeOwned:
		userID := principal.UserID
		filter.CreatedBy = &userID
	default:
		return []domain.Ticket{}, nil
	}

	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetTicket fetches a ticket and enforces the view policy.
func (s *TicketService) GetTicket(ctx context.Context, principal domain.Principal, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := authz.Decide(authz.ActionViewTicket, principal, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// SetStatus applies one edge of the status state machine. The store
// update is guarded by the loaded status, so two concurrent transitions
// on the same ticket serialize and the loser observes a conflict.
func (s *TicketService) SetStatus(ctx context.Context, principal domain.Principal, ticketID string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if _, ok := domain.ParseTicketStatus(string(newStatus)); !ok {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}

	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.Status.CanTransitionTo(newStatus) {
		return nil, apperrors.NewInvalidTransition(
			"cannot transition from "+string(ticket.Status)+" to "+string(newStatus),
			map[string]any{"from": ticket.Status, "to": newStatus},
		)
	}
	if err := authz.Decide(authz.ActionChangeStatus, principal, ticket); err != nil {
		return nil, err
	}

	record := &domain.StatusChangeRecord{
		TicketID:  ticket.ID,
		OldStatus: ticket.Status,
		NewStatus: newStatus,
		ChangedBy: principal.UserID,
	}
	updated, err := s.tickets.TransitionStatus(ctx, record)
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, apperrors.NewConflict("ticket status changed concurrently", map[string]any{"ticket_id": ticket.ID})
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	s.invalidate(ctx, ticket.ID)
	s.publishEvent(ctx, principal, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: record.OldStatus,
			NewStatus: record.NewStatus,
		},
	})
	return updated, nil
}

// AssignTicket sets the assignee. Assignment is independent of status;
// the target must exist and hold a privileged role.
func (s *TicketService) AssignTicket(ctx context.Context, principal domain.Principal, ticketID, assigneeID string) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidAssignee("assignee does not exist", map[string]any{"user_id": assigneeID})
		}
		return nil, apperrors.MapError(err)
	}
	if !assignee.Role.IsPrivileged() {
		return nil, apperrors.NewInvalidAssignee("cannot assign tickets to USER role", map[string]any{"user_id": assigneeID})
	}

	if err := authz.Decide(authz.ActionAssignTicket, principal, ticket); err != nil {
		return nil, err
	}

	updated, err := s.tickets.UpdateAssignee(ctx, ticket.ID, &assignee.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	s.invalidate(ctx, ticket.ID)
	s.publishEvent(ctx, principal, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Payload:  events.TicketAssignedPayload{AssigneeID: assignee.ID},
	})
	return updated, nil
}

// DeleteTicket permanently removes a ticket; comments and status
// history go with it by cascade.
func (s *TicketService) DeleteTicket(ctx context.Context, principal domain.Principal, ticketID string) error {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return err
	}
	if err := authz.Decide(authz.ActionDeleteTicket, principal, ticket); err != nil {
		return err
	}

	if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}

	s.invalidate(ctx, ticket.ID)
	s.publishEvent(ctx, principal, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticket.ID,
	})
	return nil
}

// AddComment appends a comment to a ticket thread.
func (s *TicketService) AddComment(ctx context.Context, principal domain.Principal, ticketID, body string) (*domain.Comment, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("comment body required", map[string]any{"field": "comment"})
	}

	if err := authz.Decide(authz.ActionAddComment, principal, ticket); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		TicketID: ticket.ID,
		AuthorID: principal.UserID,
		Body:     body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, principal, events.Event{
		Type:     events.EventCommentAdded,
		TicketID: ticket.ID,
		Payload: events.CommentAddedPayload{
			CommentID:   comment.ID,
			AuthorID:    comment.AuthorID,
			BodyPreview: bodyPreview(comment.Body, 120),
		},
	})
	return comment, nil
}

// ListComments returns a ticket's comments ordered by creation time.
func (s *TicketService) ListComments(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	if _, err := s.loadTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return comments, nil
}

// UpdateComment rewrites a comment body; only the author or a MANAGER may.
func (s *TicketService) UpdateComment(ctx context.Context, principal domain.Principal, commentID, body string) (*domain.Comment, error) {
	comment, err := s.loadComment(ctx, commentID)
	if err != nil {
		return nil, err
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("comment body required", map[string]any{"field": "comment"})
	}

	if err := authz.DecideComment(principal, comment); err != nil {
		return nil, err
	}

	updated, err := s.comments.UpdateBody(ctx, comment.ID, body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("comment", map[string]any{"comment_id": commentID})
		}
		return nil, apperrors.MapError(err)
	}
	return updated, nil
}

// DeleteComment removes a comment; only the author or a MANAGER may.
func (s *TicketService) DeleteComment(ctx context.Context, principal domain.Principal, commentID string) error {
	comment, err := s.loadComment(ctx, commentID)
	if err != nil {
		return err
	}
	if err := authz.DecideComment(principal, comment); err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("comment", map[string]any{"comment_id": commentID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// ListStatusHistory returns a ticket's status change records, oldest
// first, under the view policy.
func (s *TicketService) ListStatusHistory(ctx context.Context, principal domain.Principal, ticketID string) ([]domain.StatusChangeRecord, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := authz.Decide(authz.ActionViewTicket, principal, ticket); err != nil {
		return nil, err
	}

	history, err := s.statusLog.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return history, nil
}

func (s *TicketService) loadTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	if s.cache != nil {
		if ticket, ok := s.cache.Get(ctx, ticketID); ok {
			return ticket, nil
		}
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if s.cache != nil {
		s.cache.Set(ctx, ticket)
	}
	return ticket, nil
}

func (s *TicketService) loadComment(ctx context.Context, commentID string) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("comment", map[string]any{"comment_id": commentID})
		}
		return nil, apperrors.MapError(err)
	}
	return comment, nil
}

func (s *TicketService) invalidate(ctx context.Context, ticketID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, ticketID)
	}
}

func (s *TicketService) publishEvent(ctx context.Context, principal domain.Principal, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Actor = events.Actor{UserID: principal.UserID, Role: principal.Role}
	_ = s.dispatcher.Publish(ctx, event)
}

func bodyPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}

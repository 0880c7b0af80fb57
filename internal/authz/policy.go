// Package authz holds the role-based authorization policy. Every core
// mutation consults one declarative table here instead of re-checking
// roles per endpoint, so the rules cannot drift between call sites.
package authz

import (
	"github.com/spec-kit/support-desk/internal/domain"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// Action identifies an operation subject to policy.
type Action string

const (
	ActionCreateTicket Action = "ticket:create"
	ActionViewTicket   Action = "ticket:view"
	ActionListTickets  Action = "ticket:list"
	ActionChangeStatus Action = "ticket:change_status"
	ActionAssignTicket Action = "ticket:assign"
	ActionDeleteTicket Action = "ticket:delete"
	ActionAddComment   Action = "comment:add"
	ActionManageUsers  Action = "user:manage"
)

// Scope is the reach a role has for an action.
type Scope int

const (
	// ScopeDeny blocks the action outright.
	ScopeDeny Scope = iota
	// ScopeAny allows the action on every ticket.
	ScopeAny
	// ScopeAssigned allows the action only on tickets assigned to the caller.
	ScopeAssigned
	// ScopeOwned allows the action only on tickets the caller created.
	ScopeOwned
)

// policy is the decision table. SUPPORT deliberately has ScopeAny for
// status changes and assignment while viewing and commenting stay
// assignment-scoped; the asymmetry is inherited product behavior.
var policy = map[Action]map[domain.Role]Scope{
	ActionCreateTicket: {
		domain.RoleManager: ScopeAny,
		domain.RoleSupport: ScopeDeny,
		domain.RoleUser:    ScopeAny,
	},
	ActionViewTicket: {
		domain.RoleManager: ScopeAny,
		domain.RoleSupport: ScopeAssigned,
		domain.RoleUser:    ScopeOwned,
	},
	ActionListTickets: {
		domain.RoleManager: ScopeAny,
		domain.RoleSupport: ScopeAssigned,
		domain.RoleUser:    ScopeOwned,
	},
	ActionChangeStatus: {
		domain.RoleManager: ScopeAny,
		domain.RoleSupport: ScopeAny,
		domain.RoleUser:    ScopeDeny,
	},
	ActionAssignTicket: {
		domain.RoleManager: ScopeAny,
		domain.RoleSupport: ScopeAny,
		domain.RoleUser:    ScopeDeny,
	},
	ActionDeleteTicket: {
		domain.RoleManager: ScopeAny,
		domain.RoleSupport: ScopeDeny,
		domain.RoleUser:    ScopeDeny,
	},
	ActionAddComment: {
		domain.RoleManager: ScopeAny,
		domain.RoleSupport: ScopeAssigned,
		domain.RoleUser:    ScopeOwned,
	},
	ActionManageUsers: {
		domain.RoleManager: ScopeAny,
		domain.RoleSupport: ScopeDeny,
		domain.RoleUser:    ScopeDeny,
	},
}

// Decide evaluates the policy for an action against a ticket. The role
// gate runs before any ownership check; MANAGER never reaches an
// ownership check. A zero principal is Unauthorized, never Forbidden.
func Decide(action Action, principal domain.Principal, ticket *domain.Ticket) error {
	if principal.IsZero() {
		return apperrors.NewUnauthorized("authentication required")
	}
	scope, ok := policy[action][principal.Role]
	if !ok {
		return apperrors.NewForbidden("unknown role")
	}
	switch scope {
	case ScopeAny:
		return nil
	case ScopeAssigned:
		if ticket != nil && ticket.IsAssignedTo(principal.UserID) {
			return nil
		}
	case ScopeOwned:
		if ticket != nil && ticket.CreatedBy == principal.UserID {
			return nil
		}
	}
	return apperrors.NewForbidden("not allowed for role " + string(principal.Role))
}

// ListScope returns the visibility reach for ticket listing, used by the
// lifecycle engine to narrow store queries instead of filtering in memory.
func ListScope(principal domain.Principal) (Scope, error) {
	if principal.IsZero() {
		return ScopeDeny, apperrors.NewUnauthorized("authentication required")
	}
	scope, ok := policy[ActionListTickets][principal.Role]
	if !ok {
		return ScopeDeny, apperrors.NewForbidden("unknown role")
	}
	return scope, nil
}

// DecideComment covers editing and deleting a comment: the author may,
// a MANAGER always may, nobody else.
func DecideComment(principal domain.Principal, comment *domain.Comment) error {
	if principal.IsZero() {
		return apperrors.NewUnauthorized("authentication required")
	}
	if principal.Role == domain.RoleManager {
		return nil
	}
	if comment != nil && comment.AuthorID == principal.UserID {
		return nil
	}
	return apperrors.NewForbidden("not the comment author")
}

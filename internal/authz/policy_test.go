package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

func principal(role domain.Role) domain.Principal {
	return domain.Principal{UserID: "caller", Email: "caller@example.com", Role: role}
}

func ticketOwnedBy(creator string) *domain.Ticket {
	return &domain.Ticket{ID: "t-1", CreatedBy: creator}
}

func ticketAssignedTo(assignee string) *domain.Ticket {
	t := &domain.Ticket{ID: "t-1", CreatedBy: "someone-else"}
	t.AssignedTo = &assignee
	return t
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	return de.Code
}

func TestDecideUnauthenticated(t *testing.T) {
	err := Decide(ActionCreateTicket, domain.Principal{}, nil)
	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))
}

func TestCreateTicketByRole(t *testing.T) {
	assert.NoError(t, Decide(ActionCreateTicket, principal(domain.RoleUser), nil))
	assert.NoError(t, Decide(ActionCreateTicket, principal(domain.RoleManager), nil))
	assert.Equal(t, "FORBIDDEN", errCode(t, Decide(ActionCreateTicket, principal(domain.RoleSupport), nil)))
}

func TestViewTicketScopes(t *testing.T) {
	// Manager sees everything, ownership never consulted.
	assert.NoError(t, Decide(ActionViewTicket, principal(domain.RoleManager), ticketOwnedBy("stranger")))

	// Support only sees assigned tickets.
	assert.NoError(t, Decide(ActionViewTicket, principal(domain.RoleSupport), ticketAssignedTo("caller")))
	assert.Equal(t, "FORBIDDEN", errCode(t, Decide(ActionViewTicket, principal(domain.RoleSupport), ticketAssignedTo("other"))))
	assert.Equal(t, "FORBIDDEN", errCode(t, Decide(ActionViewTicket, principal(domain.RoleSupport), ticketOwnedBy("caller"))))

	// User only sees own tickets.
	assert.NoError(t, Decide(ActionViewTicket, principal(domain.RoleUser), ticketOwnedBy("caller")))
	assert.Equal(t, "FORBIDDEN", errCode(t, Decide(ActionViewTicket, principal(domain.RoleUser), ticketOwnedBy("other"))))
}

func TestStatusAndAssignGlobalForSupport(t *testing.T) {
	// Support may change status and assign on any ticket, even ones it
	// cannot view. Inherited behavior, encoded deliberately.
	unrelated := ticketOwnedBy("stranger")
	assert.NoError(t, Decide(ActionChangeStatus, principal(domain.RoleSupport), unrelated))
	assert.NoError(t, Decide(ActionAssignTicket, principal(domain.RoleSupport), unrelated))

	assert.Equal(t, "FORBIDDEN", errCode(t, Decide(ActionChangeStatus, principal(domain.RoleUser), ticketOwnedBy("caller"))))
	assert.Equal(t, "FORBIDDEN", errCode(t, Decide(ActionAssignTicket, principal(domain.RoleUser), ticketOwnedBy("caller"))))
}

func TestDeleteTicketManagerOnly(t *testing.T) {
	assert.NoError(t, Decide(ActionDeleteTicket, principal(domain.RoleManager), ticketOwnedBy("stranger")))
	assert.Equal(t, "FORBIDDEN", errCode(t, Decide(ActionDeleteTicket, principal(domain.RoleSupport), ticketAssignedTo("caller"))))
	assert.Equal(t, "FORBIDDEN", errCode(t, Decide(ActionDeleteTicket, principal(domain.RoleUser), ticketOwnedBy("caller"))))
}

func TestAddCommentScopes(t *testing.T) {
	assert.NoError(t, Decide(ActionAddComment, principal(domain.RoleManager), ticketOwnedBy("stranger")))
	assert.NoError(t, Decide(ActionAddComment, principal(domain.RoleSupport), ticketAssignedTo("caller")))
	assert.Equal(t, "FORBIDDEN", errCode(t, Decide(ActionAddComment, principal(domain.RoleSupport), ticketAssignedTo("other"))))
	assert.NoError(t, Decide(ActionAddComment, principal(domain.RoleUser), ticketOwnedBy("caller")))
	assert.Equal(t, "FORBIDDEN", errCode(t, Decide(ActionAddComment, principal(domain.RoleUser), ticketOwnedBy("other"))))
}

func TestManageUsersManagerOnly(t *testing.T) {
	assert.NoError(t, Decide(ActionManageUsers, principal(domain.RoleManager), nil))
	assert.Equal(t, "FORBIDDEN", errCode(t, Decide(ActionManageUsers, principal(domain.RoleSupport), nil)))
	assert.Equal(t, "FORBIDDEN", errCode(t, Decide(ActionManageUsers, principal(domain.RoleUser), nil)))
}

func TestListScope(t *testing.T) {
	scope, err := ListScope(principal(domain.RoleManager))
	assert.NoError(t, err)
	assert.Equal(t, ScopeAny, scope)

	scope, err = ListScope(principal(domain.RoleSupport))
	assert.NoError(t, err)
	assert.Equal(t, ScopeAssigned, scope)

	scope, err = ListScope(principal(domain.RoleUser))
	assert.NoError(t, err)
	assert.Equal(t, ScopeOwned, scope)

	_, err = ListScope(domain.Principal{})
	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))
}

func TestDecideComment(t *testing.T) {
	comment := &domain.Comment{ID: "c-1", AuthorID: "caller"}
	foreign := &domain.Comment{ID: "c-2", AuthorID: "other"}

	assert.NoError(t, DecideComment(principal(domain.RoleUser), comment))
	assert.NoError(t, DecideComment(principal(domain.RoleSupport), comment))
	assert.Equal(t, "FORBIDDEN", errCode(t, DecideComment(principal(domain.RoleUser), foreign)))
	assert.Equal(t, "FORBIDDEN", errCode(t, DecideComment(principal(domain.RoleSupport), foreign)))

	// Managers bypass authorship.
	assert.NoError(t, DecideComment(principal(domain.RoleManager), foreign))

	assert.Equal(t, "UNAUTHORIZED", errCode(t, DecideComment(domain.Principal{}, comment)))
}

func TestRoleGateBeforeOwnership(t *testing.T) {
	// A USER who owns the ticket is still denied role-gated actions:
	// the role row wins before ownership is ever considered.
	owned := ticketOwnedBy("caller")
	assert.Equal(t, "FORBIDDEN", errCode(t, Decide(ActionDeleteTicket, principal(domain.RoleUser), owned)))
	assert.Equal(t, "FORBIDDEN", errCode(t, Decide(ActionChangeStatus, principal(domain.RoleUser), owned)))
}

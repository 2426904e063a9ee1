package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketStatusValid(t *testing.T) {
	for _, status := range []TicketStatus{
		TicketStatusNew, TicketStatusAssigned, TicketStatusSolving, TicketStatusSolved, TicketStatusFailed,
	} {
		assert.True(t, status.Valid(), "status %s", status)
	}

	assert.False(t, TicketStatus("Done").Valid())
	assert.False(t, TicketStatus("new").Valid(), "status values are case sensitive")
	assert.False(t, TicketStatus("").Valid())
}

func TestTicketStatusTerminal(t *testing.T) {
	assert.True(t, TicketStatusSolved.Terminal())
	assert.True(t, TicketStatusFailed.Terminal())

	for _, status := range []TicketStatus{TicketStatusNew, TicketStatusAssigned, TicketStatusSolving} {
		assert.False(t, status.Terminal(), "status %s", status)
	}
}

func TestCommentTypeValid(t *testing.T) {
	assert.True(t, CommentTypePublic.Valid())
	assert.True(t, CommentTypeInternal.Valid())
	assert.False(t, CommentType("Secret").Valid())
	assert.False(t, CommentType("").Valid())
}

func TestUserRoleCanViewInternal(t *testing.T) {
	assert.True(t, RoleAdmin.CanViewInternal())
	assert.True(t, RoleAssignee.CanViewInternal())
	assert.False(t, UserRole("Viewer").CanViewInternal())
	assert.False(t, UserRole("").CanViewInternal())
}

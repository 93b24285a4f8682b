package complaint

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rossahq/complaintdesk/internal/notification"
	"github.com/rossahq/complaintdesk/internal/user"
)

func testUser(name string, role user.Role) *user.User {
	return &user.User{ID: uuid.New(), FullName: name, Role: role}
}

func TestComputeNotificationsSubmitted(t *testing.T) {
	submitter := testUser("Jane Doe", user.RoleCustomer)
	admins := []*user.User{testUser("Admin One", user.RoleAdmin), testUser("Admin Two", user.RoleAdmin)}
	c := &Complaint{ID: uuid.New(), UserID: submitter.ID, Title: "Broken street light"}

	drafts := ComputeNotifications(Event{
		Kind:      notification.KindSubmitted,
		Complaint: c,
		Actor:     submitter,
		Submitter: submitter,
		Admins:    admins,
	})

	require.Len(t, drafts, 3)

	assert.Equal(t, submitter.ID, drafts[0].UserID)
	assert.Equal(t, notification.KindSubmitted, drafts[0].Kind)
	assert.Equal(t, "Complaint Submitted", drafts[0].Title)
	assert.Equal(t, "Your complaint 'Broken street light' has been submitted successfully.", drafts[0].Message)
	assert.Nil(t, drafts[0].SenderID)

	for i, admin := range admins {
		d := drafts[i+1]
		assert.Equal(t, admin.ID, d.UserID)
		assert.Equal(t, notification.KindNewComplaint, d.Kind)
		assert.Equal(t, "New Complaint Submitted", d.Title)
		assert.Equal(t, "User 'Jane Doe' submitted a new complaint: 'Broken street light'.", d.Message)
		require.NotNil(t, d.SenderID)
		assert.Equal(t, submitter.ID, *d.SenderID)
		require.NotNil(t, d.ComplaintID)
		assert.Equal(t, c.ID, *d.ComplaintID)
	}
}

func TestComputeNotificationsSubmittedNoAdmins(t *testing.T) {
	submitter := testUser("Jane Doe", user.RoleCustomer)
	c := &Complaint{ID: uuid.New(), UserID: submitter.ID, Title: "Pothole"}

	drafts := ComputeNotifications(Event{
		Kind:      notification.KindSubmitted,
		Complaint: c,
		Actor:     submitter,
		Submitter: submitter,
	})

	require.Len(t, drafts, 1)
	assert.Equal(t, submitter.ID, drafts[0].UserID)
}

func TestComputeNotificationsAssigned(t *testing.T) {
	submitter := testUser("Jane Doe", user.RoleCustomer)
	assignee := testUser("Bob Field", user.RoleEmployee)
	c := &Complaint{ID: uuid.New(), UserID: submitter.ID, Title: "Noise at night"}

	drafts := ComputeNotifications(Event{
		Kind:      notification.KindAssigned,
		Complaint: c,
		Submitter: submitter,
		Assignee:  assignee,
	})

	require.Len(t, drafts, 2)

	assert.Equal(t, assignee.ID, drafts[0].UserID)
	assert.Equal(t, "New Task Assigned", drafts[0].Title)
	assert.Equal(t, "You have been assigned to complaint: Noise at night", drafts[0].Message)

	assert.Equal(t, submitter.ID, drafts[1].UserID)
	assert.Equal(t, "Your Complaint Has Been Assigned", drafts[1].Title)
	assert.Equal(t, "Your complaint 'Noise at night' has been assigned to Bob Field.", drafts[1].Message)
}

func TestComputeNotificationsDone(t *testing.T) {
	submitter := testUser("Jane Doe", user.RoleCustomer)
	employee := testUser("Bob Field", user.RoleEmployee)
	admins := []*user.User{testUser("Admin One", user.RoleAdmin)}
	c := &Complaint{ID: uuid.New(), UserID: submitter.ID, Title: "Pothole"}

	drafts := ComputeNotifications(Event{
		Kind:      notification.KindDone,
		Complaint: c,
		Actor:     employee,
		Submitter: submitter,
		Admins:    admins,
	})

	require.Len(t, drafts, 2)

	assert.Equal(t, submitter.ID, drafts[0].UserID)
	assert.Equal(t, "Your Complaint Is Completed", drafts[0].Title)
	assert.Equal(t, "Your complaint 'Pothole' has been marked as done by the assigned employee.", drafts[0].Message)
	require.NotNil(t, drafts[0].SenderID)
	assert.Equal(t, employee.ID, *drafts[0].SenderID)

	assert.Equal(t, admins[0].ID, drafts[1].UserID)
	assert.Equal(t, "Complaint Completed by Employee", drafts[1].Title)
	assert.Equal(t, "The complaint 'Pothole' submitted by Jane Doe has been marked as done by Bob Field.", drafts[1].Message)
}

func TestComputeNotificationsRejected(t *testing.T) {
	submitter := testUser("Jane Doe", user.RoleCustomer)
	c := &Complaint{ID: uuid.New(), UserID: submitter.ID, Title: "Pothole"}

	drafts := ComputeNotifications(Event{
		Kind:      notification.KindRejected,
		Complaint: c,
		Submitter: submitter,
	})

	require.Len(t, drafts, 1)
	assert.Equal(t, submitter.ID, drafts[0].UserID)
	assert.Equal(t, notification.KindRejected, drafts[0].Kind)
	assert.Equal(t, "Your Complaint Has Been Rejected", drafts[0].Title)
	assert.Equal(t, "Your complaint 'Pothole' has been rejected.", drafts[0].Message)
	assert.Nil(t, drafts[0].SenderID)
}

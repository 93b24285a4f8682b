package complaint

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/rossahq/complaintdesk/internal/notification"
	"github.com/rossahq/complaintdesk/internal/user"
)

// Event describes a lifecycle transition together with the role-resolved
// audience the fan-out needs: the submitter, the assignee (when one exists)
// and the current admin set.
type Event struct {
	Kind      notification.Kind
	Complaint *Complaint
	Actor     *user.User // who caused the transition; nil = system
	Submitter *user.User
	Assignee  *user.User
	Admins    []*user.User
}

// ComputeNotifications derives the notification drafts a lifecycle
// transition produces. It performs no I/O; the store persists the drafts in
// the same transaction as the status change. An empty admin set simply
// produces fewer drafts, never an error.
func ComputeNotifications(ev Event) []*notification.Draft {
	var drafts []*notification.Draft

	complaintID := ev.Complaint.ID

	switch ev.Kind {
	case notification.KindSubmitted:
		drafts = append(drafts, &notification.Draft{
			UserID:      ev.Submitter.ID,
			ComplaintID: &complaintID,
			Kind:        notification.KindSubmitted,
			Title:       "Complaint Submitted",
			Message:     fmt.Sprintf("Your complaint '%s' has been submitted successfully.", ev.Complaint.Title),
		})
		for _, admin := range ev.Admins {
			drafts = append(drafts, &notification.Draft{
				UserID:      admin.ID,
				SenderID:    senderID(ev.Submitter),
				ComplaintID: &complaintID,
				Kind:        notification.KindNewComplaint,
				Title:       "New Complaint Submitted",
				Message:     fmt.Sprintf("User '%s' submitted a new complaint: '%s'.", ev.Submitter.FullName, ev.Complaint.Title),
			})
		}

	case notification.KindAssigned:
		drafts = append(drafts, &notification.Draft{
			UserID:      ev.Assignee.ID,
			ComplaintID: &complaintID,
			Kind:        notification.KindAssigned,
			Title:       "New Task Assigned",
			Message:     fmt.Sprintf("You have been assigned to complaint: %s", ev.Complaint.Title),
		})
		drafts = append(drafts, &notification.Draft{
			UserID:      ev.Submitter.ID,
			ComplaintID: &complaintID,
			Kind:        notification.KindAssigned,
			Title:       "Your Complaint Has Been Assigned",
			Message:     fmt.Sprintf("Your complaint '%s' has been assigned to %s.", ev.Complaint.Title, ev.Assignee.FullName),
		})

	case notification.KindDone:
		drafts = append(drafts, &notification.Draft{
			UserID:      ev.Submitter.ID,
			SenderID:    senderID(ev.Actor),
			ComplaintID: &complaintID,
			Kind:        notification.KindDone,
			Title:       "Your Complaint Is Completed",
			Message:     fmt.Sprintf("Your complaint '%s' has been marked as done by the assigned employee.", ev.Complaint.Title),
		})
		for _, admin := range ev.Admins {
			drafts = append(drafts, &notification.Draft{
				UserID:      admin.ID,
				SenderID:    senderID(ev.Actor),
				ComplaintID: &complaintID,
				Kind:        notification.KindDone,
				Title:       "Complaint Completed by Employee",
				Message: fmt.Sprintf("The complaint '%s' submitted by %s has been marked as done by %s.",
					ev.Complaint.Title, ev.Submitter.FullName, ev.Actor.FullName),
			})
		}

	case notification.KindRejected:
		drafts = append(drafts, &notification.Draft{
			UserID:      ev.Submitter.ID,
			ComplaintID: &complaintID,
			Kind:        notification.KindRejected,
			Title:       "Your Complaint Has Been Rejected",
			Message:     fmt.Sprintf("Your complaint '%s' has been rejected.", ev.Complaint.Title),
		})
	}

	return drafts
}

func senderID(u *user.User) *uuid.UUID {
	if u == nil {
		return nil
	}
	id := u.ID
	return &id
}

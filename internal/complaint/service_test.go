package complaint

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rossahq/complaintdesk/internal/notification"
	"github.com/rossahq/complaintdesk/internal/user"
)

// memStore is an in-memory Store. Transition mirrors the database
// contract: the mutation and its drafts land together or not at all.
type memStore struct {
	complaints map[uuid.UUID]*Complaint
	drafts     []*notification.Draft
	lastLimit  int
}

func newMemStore() *memStore {
	return &memStore{complaints: make(map[uuid.UUID]*Complaint)}
}

func (s *memStore) Create(ctx context.Context, c *Complaint, drafts []*notification.Draft) (*Complaint, error) {
	stored := *c
	s.complaints[c.ID] = &stored
	s.drafts = append(s.drafts, drafts...)
	return &stored, nil
}

func (s *memStore) GetByID(ctx context.Context, id uuid.UUID) (*Complaint, error) {
	c, ok := s.complaints[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (s *memStore) Transition(ctx context.Context, id uuid.UUID, mutate func(c *Complaint) ([]*notification.Draft, error)) (*Complaint, error) {
	current, ok := s.complaints[id]
	if !ok {
		return nil, ErrComplaintNotFound
	}

	working := *current
	drafts, err := mutate(&working)
	if err != nil {
		return nil, err
	}

	s.complaints[id] = &working
	s.drafts = append(s.drafts, drafts...)
	return &working, nil
}

func (s *memStore) ListAll(ctx context.Context) ([]*Complaint, error) { return nil, nil }
func (s *memStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Complaint, error) {
	return nil, nil
}
func (s *memStore) ListByEmployee(ctx context.Context, employeeCode string) ([]*Complaint, error) {
	return nil, nil
}
func (s *memStore) ListRecentCommon(ctx context.Context, limit int) ([]*Complaint, error) {
	s.lastLimit = limit
	return nil, nil
}
func (s *memStore) UserStats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	return nil, nil
}
func (s *memStore) SystemStats(ctx context.Context) (*SystemStats, error) { return nil, nil }
func (s *memStore) Trend(ctx context.Context, userID uuid.UUID) ([]TrendPoint, error) {
	return nil, nil
}

// memDirectory is an in-memory Directory
type memDirectory struct {
	users  map[uuid.UUID]*user.User
	byCode map[string]*user.User
	admins []*user.User
}

func newMemDirectory() *memDirectory {
	return &memDirectory{
		users:  make(map[uuid.UUID]*user.User),
		byCode: make(map[string]*user.User),
	}
}

func (d *memDirectory) add(u *user.User) *user.User {
	d.users[u.ID] = u
	if u.EmployeeCode != nil {
		d.byCode[*u.EmployeeCode] = u
	}
	if u.Role == user.RoleAdmin {
		d.admins = append(d.admins, u)
	}
	return u
}

func (d *memDirectory) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return d.users[id], nil
}

func (d *memDirectory) GetByEmployeeCode(ctx context.Context, code string) (*user.User, error) {
	return d.byCode[code], nil
}

func (d *memDirectory) ListAdmins(ctx context.Context) ([]*user.User, error) {
	return d.admins, nil
}

func employee(name, code string) *user.User {
	return &user.User{ID: uuid.New(), FullName: name, Role: user.RoleEmployee, EmployeeCode: &code}
}

type fixture struct {
	store     *memStore
	directory *memDirectory
	service   *Service
	customer  *user.User
}

func newFixture(t *testing.T, adminCount int) *fixture {
	t.Helper()

	store := newMemStore()
	directory := newMemDirectory()
	customer := directory.add(testUser("Jane Doe", user.RoleCustomer))
	for i := 0; i < adminCount; i++ {
		directory.add(testUser("Admin", user.RoleAdmin))
	}

	return &fixture{
		store:     store,
		directory: directory,
		service:   NewService(store, directory),
		customer:  customer,
	}
}

func (f *fixture) submit(t *testing.T) *Complaint {
	t.Helper()

	c, err := f.service.Submit(context.Background(), &SubmitInput{
		SubmitterID: f.customer.ID,
		Title:       "Pothole",
		Description: "Deep pothole on main street",
		Category:    "common",
		Address:     "Main Street 1",
		MediaType:   MediaText,
	})
	require.NoError(t, err)
	return c
}

func TestSubmit(t *testing.T) {
	f := newFixture(t, 2)

	c := f.submit(t)

	assert.Equal(t, StatusPending, c.Status)
	assert.Equal(t, f.customer.ID, c.UserID)
	assert.Equal(t, CategoryCommon, c.Category)
	assert.Nil(t, c.AssignedTo)

	// submitter plus both admins get notified
	require.Len(t, f.store.drafts, 3)
	assert.Equal(t, f.customer.ID, f.store.drafts[0].UserID)
}

func TestSubmitNoAdmins(t *testing.T) {
	f := newFixture(t, 0)

	f.submit(t)

	require.Len(t, f.store.drafts, 1)
}

func TestSubmitUnknownUser(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.service.Submit(context.Background(), &SubmitInput{
		SubmitterID: uuid.New(),
		Title:       "Pothole",
		Description: "desc",
		Category:    "common",
	})
	assert.ErrorIs(t, err, ErrSubmitterNotFound)
}

func TestSubmitNonCustomer(t *testing.T) {
	f := newFixture(t, 0)
	emp := f.directory.add(employee("Bob", "EMP-1"))

	_, err := f.service.Submit(context.Background(), &SubmitInput{
		SubmitterID: emp.ID,
		Title:       "Pothole",
		Description: "desc",
		Category:    "common",
	})
	assert.ErrorIs(t, err, ErrNotCustomer)
	assert.Empty(t, f.store.complaints)
}

func TestSubmitRequiresDescriptionOrMedia(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.service.Submit(context.Background(), &SubmitInput{
		SubmitterID: f.customer.ID,
		Title:       "Pothole",
		Description: "   ",
		Category:    "common",
		MediaType:   MediaText,
	})
	assert.ErrorIs(t, err, ErrContentRequired)

	url := "https://cdn.example.com/pothole.jpg"
	c, err := f.service.Submit(context.Background(), &SubmitInput{
		SubmitterID: f.customer.ID,
		Title:       "Pothole",
		Category:    "common",
		MediaType:   MediaImage,
		MediaURL:    &url,
	})
	require.NoError(t, err)
	assert.Equal(t, MediaImage, c.MediaType)
	assert.Equal(t, &url, c.MediaURL)
}

func TestSubmitInvalidCategory(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.service.Submit(context.Background(), &SubmitInput{
		SubmitterID: f.customer.ID,
		Title:       "Pothole",
		Description: "desc",
		Category:    "urgent",
	})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestAssign(t *testing.T) {
	f := newFixture(t, 0)
	f.directory.add(employee("Bob Field", "EMP-1"))
	c := f.submit(t)
	f.store.drafts = nil

	updated, err := f.service.Assign(context.Background(), c.ID, "EMP-1")
	require.NoError(t, err)

	assert.Equal(t, StatusAssigned, updated.Status)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, "EMP-1", *updated.AssignedTo)
	// assignee and submitter are both notified
	assert.Len(t, f.store.drafts, 2)
}

func TestAssignUnknownEmployee(t *testing.T) {
	f := newFixture(t, 0)
	c := f.submit(t)
	f.store.drafts = nil

	_, err := f.service.Assign(context.Background(), c.ID, "EMP-404")
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	stored, _ := f.store.GetByID(context.Background(), c.ID)
	assert.Equal(t, StatusPending, stored.Status)
	assert.Empty(t, f.store.drafts)
}

func TestAssignUnknownComplaint(t *testing.T) {
	f := newFixture(t, 0)
	f.directory.add(employee("Bob", "EMP-1"))

	_, err := f.service.Assign(context.Background(), uuid.New(), "EMP-1")
	assert.ErrorIs(t, err, ErrComplaintNotFound)
}

func TestAssignClosedComplaint(t *testing.T) {
	f := newFixture(t, 0)
	f.directory.add(employee("Bob", "EMP-1"))
	c := f.submit(t)
	_, err := f.service.Reject(context.Background(), c.ID)
	require.NoError(t, err)
	f.store.drafts = nil

	_, err = f.service.Assign(context.Background(), c.ID, "EMP-1")
	assert.ErrorIs(t, err, ErrComplaintClosed)

	stored, _ := f.store.GetByID(context.Background(), c.ID)
	assert.Equal(t, StatusRejected, stored.Status)
	assert.Nil(t, stored.AssignedTo)
	assert.Empty(t, f.store.drafts)
}

func TestReassign(t *testing.T) {
	f := newFixture(t, 0)
	f.directory.add(employee("Bob", "EMP-1"))
	f.directory.add(employee("Carol", "EMP-2"))
	c := f.submit(t)

	_, err := f.service.Assign(context.Background(), c.ID, "EMP-1")
	require.NoError(t, err)

	updated, err := f.service.Assign(context.Background(), c.ID, "EMP-2")
	require.NoError(t, err)
	assert.Equal(t, "EMP-2", *updated.AssignedTo)
	assert.Equal(t, StatusAssigned, updated.Status)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t, 0)
	f.directory.add(employee("Bob", "EMP-1"))
	c := f.submit(t)
	_, err := f.service.Assign(context.Background(), c.ID, "EMP-1")
	require.NoError(t, err)
	f.store.drafts = nil

	updated, err := f.service.UpdateStatus(context.Background(), c.ID, "EMP-1", "in_progress", nil)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, updated.Status)
	// moving to in_progress notifies nobody
	assert.Empty(t, f.store.drafts)
}

func TestUpdateStatusDone(t *testing.T) {
	f := newFixture(t, 2)
	f.directory.add(employee("Bob", "EMP-1"))
	c := f.submit(t)
	_, err := f.service.Assign(context.Background(), c.ID, "EMP-1")
	require.NoError(t, err)
	f.store.drafts = nil

	notes := "Filled and resurfaced"
	updated, err := f.service.UpdateStatus(context.Background(), c.ID, "EMP-1", "done", &notes)
	require.NoError(t, err)

	assert.Equal(t, StatusDone, updated.Status)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, notes, *updated.Notes)
	// submitter plus both admins get notified
	assert.Len(t, f.store.drafts, 3)
}

func TestUpdateStatusNotAssignee(t *testing.T) {
	f := newFixture(t, 0)
	f.directory.add(employee("Bob", "EMP-1"))
	f.directory.add(employee("Carol", "EMP-2"))
	c := f.submit(t)
	_, err := f.service.Assign(context.Background(), c.ID, "EMP-1")
	require.NoError(t, err)
	f.store.drafts = nil

	_, err = f.service.UpdateStatus(context.Background(), c.ID, "EMP-2", "done", nil)
	assert.ErrorIs(t, err, ErrNotAssignee)

	stored, _ := f.store.GetByID(context.Background(), c.ID)
	assert.Equal(t, StatusAssigned, stored.Status)
	assert.Empty(t, f.store.drafts)
}

func TestUpdateStatusRejectedTarget(t *testing.T) {
	f := newFixture(t, 0)
	f.directory.add(employee("Bob", "EMP-1"))
	c := f.submit(t)
	_, err := f.service.Assign(context.Background(), c.ID, "EMP-1")
	require.NoError(t, err)

	_, err = f.service.UpdateStatus(context.Background(), c.ID, "EMP-1", "rejected", nil)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	f := newFixture(t, 0)
	f.directory.add(employee("Bob", "EMP-1"))
	c := f.submit(t)

	_, err := f.service.UpdateStatus(context.Background(), c.ID, "EMP-1", "resolved", nil)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatusInvalidTransition(t *testing.T) {
	f := newFixture(t, 0)
	f.directory.add(employee("Bob", "EMP-1"))
	c := f.submit(t)
	_, err := f.service.Assign(context.Background(), c.ID, "EMP-1")
	require.NoError(t, err)

	_, err = f.service.UpdateStatus(context.Background(), c.ID, "EMP-1", "pending", nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusClosedComplaint(t *testing.T) {
	f := newFixture(t, 0)
	f.directory.add(employee("Bob", "EMP-1"))
	c := f.submit(t)
	_, err := f.service.Assign(context.Background(), c.ID, "EMP-1")
	require.NoError(t, err)
	_, err = f.service.UpdateStatus(context.Background(), c.ID, "EMP-1", "done", nil)
	require.NoError(t, err)

	_, err = f.service.UpdateStatus(context.Background(), c.ID, "EMP-1", "in_progress", nil)
	assert.ErrorIs(t, err, ErrComplaintClosed)
}

func TestReject(t *testing.T) {
	f := newFixture(t, 0)
	c := f.submit(t)
	f.store.drafts = nil

	updated, err := f.service.Reject(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, updated.Status)
	assert.Len(t, f.store.drafts, 1)
	assert.Equal(t, notification.KindRejected, f.store.drafts[0].Kind)
}

func TestRejectIsIdempotent(t *testing.T) {
	f := newFixture(t, 0)
	c := f.submit(t)
	f.store.drafts = nil

	_, err := f.service.Reject(context.Background(), c.ID)
	require.NoError(t, err)
	updated, err := f.service.Reject(context.Background(), c.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusRejected, updated.Status)
	// one rejected notification per call
	assert.Len(t, f.store.drafts, 2)
}

func TestRejectDoneComplaint(t *testing.T) {
	f := newFixture(t, 0)
	f.directory.add(employee("Bob", "EMP-1"))
	c := f.submit(t)
	_, err := f.service.Assign(context.Background(), c.ID, "EMP-1")
	require.NoError(t, err)
	_, err = f.service.UpdateStatus(context.Background(), c.ID, "EMP-1", "done", nil)
	require.NoError(t, err)

	updated, err := f.service.Reject(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, updated.Status)
}

func TestListRecentCommonClampsLimit(t *testing.T) {
	f := newFixture(t, 0)

	for _, limit := range []int{0, -3, 51, 1000} {
		_, err := f.service.ListRecentCommon(context.Background(), limit)
		require.NoError(t, err)
		assert.Equal(t, 5, f.store.lastLimit)
	}

	_, err := f.service.ListRecentCommon(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 10, f.store.lastLimit)
}

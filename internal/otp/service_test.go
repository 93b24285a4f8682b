package otp

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCodeStore struct {
	codes map[string]string
}

func newMemCodeStore() *memCodeStore {
	return &memCodeStore{codes: make(map[string]string)}
}

func (s *memCodeStore) Set(ctx context.Context, email, code string, ttl time.Duration) error {
	s.codes[email] = code
	return nil
}

func (s *memCodeStore) Get(ctx context.Context, email string) (string, error) {
	return s.codes[email], nil
}

func (s *memCodeStore) Del(ctx context.Context, email string) error {
	delete(s.codes, email)
	return nil
}

type recordingMailer struct {
	to    string
	code  string
	calls int
}

func (m *recordingMailer) SendCode(to, code string) error {
	m.to = to
	m.code = code
	m.calls++
	return nil
}

func TestSendIssuesSixDigitCode(t *testing.T) {
	store := newMemCodeStore()
	mailer := &recordingMailer{}
	svc := NewService(store, mailer)

	err := svc.Send(context.Background(), "jane@example.com")
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", mailer.to)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), mailer.code)
	assert.Equal(t, mailer.code, store.codes["jane@example.com"])
}

func TestSendReplacesPreviousCode(t *testing.T) {
	store := newMemCodeStore()
	mailer := &recordingMailer{}
	svc := NewService(store, mailer)

	require.NoError(t, svc.Send(context.Background(), "jane@example.com"))
	first := mailer.code

	require.NoError(t, svc.Send(context.Background(), "jane@example.com"))
	assert.Equal(t, 2, mailer.calls)

	// the old code no longer verifies once a new one was issued
	if first != mailer.code {
		err := svc.Verify(context.Background(), "jane@example.com", first)
		assert.ErrorIs(t, err, ErrCodeMismatch)
	}
}

func TestVerifyConsumesCode(t *testing.T) {
	store := newMemCodeStore()
	mailer := &recordingMailer{}
	svc := NewService(store, mailer)

	require.NoError(t, svc.Send(context.Background(), "jane@example.com"))

	err := svc.Verify(context.Background(), "jane@example.com", mailer.code)
	require.NoError(t, err)

	// second attempt fails: the code was consumed
	err = svc.Verify(context.Background(), "jane@example.com", mailer.code)
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestVerifyWrongCode(t *testing.T) {
	store := newMemCodeStore()
	mailer := &recordingMailer{}
	svc := NewService(store, mailer)

	require.NoError(t, svc.Send(context.Background(), "jane@example.com"))

	err := svc.Verify(context.Background(), "jane@example.com", "000000")
	if mailer.code == "000000" {
		require.NoError(t, err)
		return
	}
	assert.ErrorIs(t, err, ErrCodeMismatch)
}

func TestVerifyUnknownEmail(t *testing.T) {
	svc := NewService(newMemCodeStore(), &recordingMailer{})

	err := svc.Verify(context.Background(), "nobody@example.com", "123456")
	assert.ErrorIs(t, err, ErrCodeExpired)
}

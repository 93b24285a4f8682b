package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"
)

// Common errors
var (
	ErrCodeExpired  = errors.New("verification code has expired or was never sent")
	ErrCodeMismatch = errors.New("incorrect verification code")
)

// codeTTL is how long an issued code stays valid
const codeTTL = 5 * time.Minute

// CodeStore holds issued codes until they are consumed or expire
type CodeStore interface {
	Set(ctx context.Context, email, code string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, error)
	Del(ctx context.Context, email string) error
}

// Mailer delivers a verification code to a recipient
type Mailer interface {
	SendCode(to, code string) error
}

// Service issues and verifies one-time email verification codes
type Service struct {
	store  CodeStore
	mailer Mailer
}

// NewService creates a new OTP service
func NewService(store CodeStore, mailer Mailer) *Service {
	return &Service{store: store, mailer: mailer}
}

// Send generates a fresh 6-digit code for the email address and mails it.
// A newer code always replaces an older unconsumed one.
func (s *Service) Send(ctx context.Context, email string) error {
	code, err := generateCode()
	if err != nil {
		return err
	}

	if err := s.store.Set(ctx, email, code, codeTTL); err != nil {
		return err
	}

	return s.mailer.SendCode(email, code)
}

// Verify checks a submitted code against the stored one and consumes it on
// success. A consumed code cannot be verified twice.
func (s *Service) Verify(ctx context.Context, email, code string) error {
	stored, err := s.store.Get(ctx, email)
	if err != nil {
		return err
	}
	if stored == "" {
		return ErrCodeExpired
	}
	if stored != code {
		return ErrCodeMismatch
	}

	return s.store.Del(ctx, email)
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/goshop/storefront/internal/port/input"
	"github.com/goshop/storefront/internal/port/output"
	"github.com/sirupsen/logrus"
)

const codeLength = 6

// VerificationServiceImpl implements the VerificationService input port.
// Codes live in a shared store with per-entry expiry so any instance
// behind the load balancer can verify a code another instance issued.
type VerificationServiceImpl struct {
	store output.VerificationCodeStore
	ttl   time.Duration
	log   *logrus.Logger
}

// NewVerificationService creates a new verification-code service
func NewVerificationService(store output.VerificationCodeStore, ttl time.Duration, log *logrus.Logger) input.VerificationService {
	return &VerificationServiceImpl{
		store: store,
		ttl:   ttl,
		log:   log,
	}
}

// IssueCode generates a fresh code for the subject, replacing any code
// still outstanding
func (s *VerificationServiceImpl) IssueCode(ctx context.Context, subject string) (string, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", fmt.Errorf("subject is required")
	}
	code, err := randomCode(codeLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	if err := s.store.Put(ctx, subject, code, s.ttl); err != nil {
		return "", fmt.Errorf("failed to store verification code: %w", err)
	}
	return code, nil
}

// VerifyCode checks the code against the stored one and consumes it on
// success, making codes single-use
func (s *VerificationServiceImpl) VerifyCode(ctx context.Context, subject, code string) (bool, error) {
	stored, ok, err := s.store.Get(ctx, strings.TrimSpace(subject))
	if err != nil {
		return false, fmt.Errorf("failed to read verification code: %w", err)
	}
	if !ok {
		return false, nil
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return false, nil
	}
	if err := s.store.Delete(ctx, subject); err != nil {
		s.log.WithError(err).WithField("subject", subject).
			Warn("verified code could not be consumed")
	}
	return true, nil
}

func randomCode(length int) (string, error) {
	const digits = "0123456789"
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = digits[int(buf[i])%len(digits)]
	}
	return string(buf), nil
}

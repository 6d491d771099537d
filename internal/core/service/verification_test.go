package service

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeCodeEntry struct {
	code      string
	expiresAt time.Time
}

type fakeCodeStore struct {
	mu      sync.Mutex
	entries map[string]fakeCodeEntry
}

func newFakeCodeStore() *fakeCodeStore {
	return &fakeCodeStore{entries: make(map[string]fakeCodeEntry)}
}

func (f *fakeCodeStore) Put(ctx context.Context, subject, code string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[subject] = fakeCodeEntry{code: code, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (f *fakeCodeStore) Get(ctx context.Context, subject string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[subject]
	if !ok || time.Now().After(entry.expiresAt) {
		return "", false, nil
	}
	return entry.code, true, nil
}

func (f *fakeCodeStore) Delete(ctx context.Context, subject string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, subject)
	return nil
}

func TestVerificationService_IssueAndVerify(t *testing.T) {
	t.Parallel()

	store := newFakeCodeStore()
	svc := NewVerificationService(store, time.Minute, testLogger())

	code, err := svc.IssueCode(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(code) != codeLength {
		t.Fatalf("expected %d-digit code, got %q", codeLength, code)
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			t.Fatalf("expected numeric code, got %q", code)
		}
	}

	valid, err := svc.VerifyCode(context.Background(), "user@example.com", code)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !valid {
		t.Fatalf("expected code to verify")
	}

	// Codes are single-use.
	valid, err = svc.VerifyCode(context.Background(), "user@example.com", code)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if valid {
		t.Fatalf("expected consumed code to be rejected")
	}
}

func TestVerificationService_WrongCode(t *testing.T) {
	t.Parallel()

	store := newFakeCodeStore()
	svc := NewVerificationService(store, time.Minute, testLogger())

	if _, err := svc.IssueCode(context.Background(), "user@example.com"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	valid, err := svc.VerifyCode(context.Background(), "user@example.com", "000000x")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if valid {
		t.Fatalf("expected wrong code to be rejected")
	}
}

func TestVerificationService_ExpiredCode(t *testing.T) {
	t.Parallel()

	store := newFakeCodeStore()
	svc := NewVerificationService(store, -time.Second, testLogger())

	code, err := svc.IssueCode(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	valid, err := svc.VerifyCode(context.Background(), "user@example.com", code)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if valid {
		t.Fatalf("expected expired code to be rejected")
	}
}

func TestVerificationService_EmptySubject(t *testing.T) {
	t.Parallel()

	svc := NewVerificationService(newFakeCodeStore(), time.Minute, testLogger())
	if _, err := svc.IssueCode(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for empty subject")
	}
}

package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/goshop/storefront/internal/core"
	"github.com/goshop/storefront/internal/core/service"
	"github.com/goshop/storefront/internal/port/input"
	"github.com/goshop/storefront/internal/port/output"
	"github.com/sirupsen/logrus"
)

const (
	testAuthHeader = "X-Webhook-Api-Key"
	testSecret     = "test-secret"
)

type fakeWebhookService struct {
	mu          sync.Mutex
	result      *core.ReconcileResult
	err         error
	calls       int
	lastRaw     []byte
	simulateRef string
}

var _ input.WebhookService = (*fakeWebhookService)(nil)

func (f *fakeWebhookService) HandleNotification(ctx context.Context, raw []byte) (*core.ReconcileResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastRaw = raw
	return f.result, f.err
}

func (f *fakeWebhookService) Simulate(ctx context.Context, ref string, amount int64) (*core.ReconcileResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.simulateRef = ref
	return f.result, f.err
}

type fakeAuditLog struct {
	mu          sync.Mutex
	records     []*core.WebhookAudit
	annotations map[uuid.UUID]*core.ReconcileResult
	recordErr   error
}

var _ output.WebhookAuditLog = (*fakeAuditLog)(nil)

func newFakeAuditLog() *fakeAuditLog {
	return &fakeAuditLog{annotations: make(map[uuid.UUID]*core.ReconcileResult)}
}

func (f *fakeAuditLog) Record(ctx context.Context, audit *core.WebhookAudit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordErr != nil {
		return f.recordErr
	}
	audit.ID = uuid.New()
	f.records = append(f.records, audit)
	return nil
}

func (f *fakeAuditLog) Annotate(ctx context.Context, id uuid.UUID, result *core.ReconcileResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.annotations[id] = result
	return nil
}

func testLogger() *logrus.Logger {
	logg := logrus.New()
	logg.SetOutput(io.Discard)
	return logg
}

// newTestServer wires the routes the way cmd/api does
func newTestServer(svc input.WebhookService, audits output.WebhookAuditLog) *echo.Echo {
	logg := testLogger()
	handler := NewWebhookHandler(svc, audits, logg)

	e := echo.New()
	e.Validator = NewValidator()
	webhook := e.Group("/payment-webhook",
		CaptureAudit(audits, logg),
		RequireWebhookSecret(testAuthHeader, testSecret),
	)
	webhook.POST("", handler.HandleNotification)
	webhook.GET("/simulate", handler.Simulate)
	return e
}

func TestWebhook_MissingCredentialRejectedButAudited(t *testing.T) {
	t.Parallel()

	svc := &fakeWebhookService{result: &core.ReconcileResult{Outcome: core.OutcomeCredited}}
	audits := newFakeAuditLog()
	e := newTestServer(svc, audits)

	req := httptest.NewRequest(http.MethodPost, "/payment-webhook", strings.NewReader(`{"tranId":"T1"}`))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatalf("expected no processing on auth failure")
	}
	if len(audits.records) != 1 {
		t.Fatalf("expected rejected call to be audited, got %d records", len(audits.records))
	}
	if audits.records[0].RawBody != `{"tranId":"T1"}` {
		t.Fatalf("expected raw body captured, got %q", audits.records[0].RawBody)
	}
}

func TestWebhook_WrongSecretRejected(t *testing.T) {
	t.Parallel()

	svc := &fakeWebhookService{result: &core.ReconcileResult{Outcome: core.OutcomeCredited}}
	e := newTestServer(svc, newFakeAuditLog())

	req := httptest.NewRequest(http.MethodPost, "/payment-webhook", strings.NewReader(`{}`))
	req.Header.Set(testAuthHeader, "not-the-secret")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatalf("expected no processing on auth failure")
	}
}

func TestWebhook_ProcessedNotificationAnnotatesAudit(t *testing.T) {
	t.Parallel()

	orderID := uuid.New()
	svc := &fakeWebhookService{result: &core.ReconcileResult{
		Outcome:       core.OutcomeCredited,
		TransactionID: "T1",
		ReferenceCode: "GOEEBE03",
		OrderID:       orderID,
	}}
	audits := newFakeAuditLog()
	e := newTestServer(svc, audits)

	body := `{"tranId":"T1","tranAmount":372200,"tranContent":"THANH TOAN DON HANG GOEEBE03"}`
	req := httptest.NewRequest(http.MethodPost, "/payment-webhook", strings.NewReader(body))
	req.Header.Set(testAuthHeader, testSecret)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if string(svc.lastRaw) != body {
		t.Fatalf("expected service to receive the raw body")
	}
	if !strings.Contains(rec.Body.String(), `"outcome":"CREDITED"`) {
		t.Fatalf("expected outcome in response, got %s", rec.Body.String())
	}
	if len(audits.records) != 1 {
		t.Fatalf("expected one audit record, got %d", len(audits.records))
	}
	annotation, ok := audits.annotations[audits.records[0].ID]
	if !ok {
		t.Fatalf("expected audit annotation")
	}
	if annotation.OrderID != orderID {
		t.Fatalf("expected annotation to carry the order id")
	}
}

func TestWebhook_UnparseableBodyIsBadRequest(t *testing.T) {
	t.Parallel()

	svc := &fakeWebhookService{err: service.ErrUnrecognizedPayload}
	e := newTestServer(svc, newFakeAuditLog())

	req := httptest.NewRequest(http.MethodPost, "/payment-webhook", strings.NewReader(`not json`))
	req.Header.Set(testAuthHeader, testSecret)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestWebhook_PersistenceFailureIsRetryable(t *testing.T) {
	t.Parallel()

	svc := &fakeWebhookService{err: errors.New("connection reset")}
	e := newTestServer(svc, newFakeAuditLog())

	req := httptest.NewRequest(http.MethodPost, "/payment-webhook", strings.NewReader(`{"tranId":"T1"}`))
	req.Header.Set(testAuthHeader, testSecret)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 so the bank retries, got %d", rec.Code)
	}
}

func TestWebhook_AuditWriteFailureDoesNotBlock(t *testing.T) {
	t.Parallel()

	svc := &fakeWebhookService{result: &core.ReconcileResult{Outcome: core.OutcomeNoTransaction}}
	audits := newFakeAuditLog()
	audits.recordErr = errors.New("disk full")
	e := newTestServer(svc, audits)

	req := httptest.NewRequest(http.MethodPost, "/payment-webhook", strings.NewReader(`{"status":"ok"}`))
	req.Header.Set(testAuthHeader, testSecret)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected audit failure to be non-fatal, got %d", rec.Code)
	}
}

func TestWebhook_Simulate(t *testing.T) {
	t.Parallel()

	t.Run("runs the reconciliation path", func(t *testing.T) {
		t.Parallel()
		svc := &fakeWebhookService{result: &core.ReconcileResult{Outcome: core.OutcomeCredited}}
		e := newTestServer(svc, newFakeAuditLog())

		req := httptest.NewRequest(http.MethodGet, "/payment-webhook/simulate?ref=goeebe03&amount=372200", nil)
		req.Header.Set(testAuthHeader, testSecret)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if svc.simulateRef != "GOEEBE03" {
			t.Fatalf("expected upper-cased ref, got %q", svc.simulateRef)
		}
	})

	t.Run("rejects missing parameters", func(t *testing.T) {
		t.Parallel()
		svc := &fakeWebhookService{result: &core.ReconcileResult{Outcome: core.OutcomeCredited}}
		e := newTestServer(svc, newFakeAuditLog())

		req := httptest.NewRequest(http.MethodGet, "/payment-webhook/simulate?amount=100", nil)
		req.Header.Set(testAuthHeader, testSecret)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

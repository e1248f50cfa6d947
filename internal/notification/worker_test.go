package notification

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"booking-audit-backend/internal/model"
)

// mockSender records sent notifications and returns a canned status code.
type mockSender struct {
	statusCode int
	sent       []string // endpoints, in send order
	payloads   [][]byte
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	m.sent = append(m.sent, sub.Endpoint)
	m.payloads = append(m.payloads, payload)
	return &http.Response{
		StatusCode: m.statusCode,
		Body:       io.NopCloser(bytes.NewReader(nil)),
	}, nil
}

// mockStore implements store.Store for the subscription paths the worker
// pool touches.
type mockStore struct {
	subscriptions []model.PushSubscription
	deleted       []string
}

func (m *mockStore) ListSubscriptions(ctx context.Context) ([]model.PushSubscription, error) {
	return m.subscriptions, nil
}

func (m *mockStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	m.deleted = append(m.deleted, endpoint)
	return nil
}

func (m *mockStore) ReplaceSnapshot(ctx context.Context, rows []model.BookingRow) error { return nil }
func (m *mockStore) ListBookingRows(ctx context.Context) ([]model.BookingRow, error)    { return nil, nil }
func (m *mockStore) CreateAuditRun(ctx context.Context, run *model.AuditRun) error      { return nil }
func (m *mockStore) ListAuditRuns(ctx context.Context, limit int) ([]model.AuditRun, error) {
	return nil, nil
}
func (m *mockStore) UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error {
	return nil
}
func (m *mockStore) GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *mockStore) DB() *gorm.DB { return nil }

func TestWorkerPool_BroadcastsToAllSubscribers(t *testing.T) {
	st := &mockStore{
		subscriptions: []model.PushSubscription{
			{Endpoint: "https://push.example/a", P256DH: "k1", Auth: "a1"},
			{Endpoint: "https://push.example/b", P256DH: "k2", Auth: "a2"},
		},
	}
	sender := &mockSender{statusCode: http.StatusCreated}

	wp := NewWorkerPool(1, st, &webpush.Options{})
	wp.sender = sender

	wp.broadcast(context.Background(), Alert{
		RanAt:             time.Now(),
		IssuesTotal:       3,
		InvalidRangeCount: 1,
		OverlapCount:      2,
	})

	require.Len(t, sender.sent, 2)
	assert.Equal(t, []string{"https://push.example/a", "https://push.example/b"}, sender.sent)
	assert.Contains(t, string(sender.payloads[0]), "3 integrity issues")
	assert.Empty(t, st.deleted)
}

func TestWorkerPool_DeletesExpiredSubscription(t *testing.T) {
	st := &mockStore{
		subscriptions: []model.PushSubscription{
			{Endpoint: "https://push.example/expired", P256DH: "k", Auth: "a"},
		},
	}
	sender := &mockSender{statusCode: http.StatusGone}

	wp := NewWorkerPool(1, st, &webpush.Options{})
	wp.sender = sender

	wp.broadcast(context.Background(), Alert{IssuesTotal: 1, InvalidRangeCount: 1})

	assert.Equal(t, []string{"https://push.example/expired"}, st.deleted)
}

func TestWorkerPool_DispatchReachesWorker(t *testing.T) {
	st := &mockStore{}
	wp := NewWorkerPool(1, st, &webpush.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch(Alert{IssuesTotal: 1})

	// The worker drains the job even with no subscribers.
	assert.Eventually(t, func() bool {
		return len(wp.Jobs()) == 0
	}, time.Second, 10*time.Millisecond)
}

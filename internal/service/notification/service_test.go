package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/email"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent map[string]email.LeaveDecisionData
}

func (f *fakeMailer) SendLeaveDecision(to string, data email.LeaveDecisionData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sent == nil {
		f.sent = make(map[string]email.LeaveDecisionData)
	}
	f.sent[to] = data
	return nil
}

func rejectedRequest() notification.CreateNotificationRequest {
	to := "budi@example.com"
	return notification.CreateNotificationRequest{
		RecipientID: "emp-1",
		Type:        notification.TypeLeaveRejected,
		Title:       "Leave request rejected",
		Message:     "Your annual leave has been rejected",
		Data: map[string]interface{}{
			"leave_type":       "annual",
			"start_date":       "2026-10-19",
			"end_date":         "2026-10-21",
			"status":           "rejected",
			"rejection_reason": "release week",
		},
		RecipientEmail: &to,
		RecipientName:  "Budi",
	}
}

func TestService_DeliversToStreamAndEmail(t *testing.T) {
	hub := sse.NewHub(10)
	mailer := &fakeMailer{}
	svc := NewNotificationService(hub, mailer, Config{FlushInterval: 10 * time.Millisecond, WorkerCount: 1, BatchSize: 1})
	defer svc.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, cleanup := svc.Subscribe(ctx, "emp-1")
	defer cleanup()

	require.NoError(t, svc.Queue(ctx, rejectedRequest()))

	select {
	case ev := <-stream:
		assert.Equal(t, "notification", ev.Event)
		assert.Equal(t, notification.TypeLeaveRejected, ev.Data.Type)
		assert.Equal(t, "Leave request rejected", ev.Data.Title)
		assert.NotEmpty(t, ev.Data.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not delivered to the stream")
	}

	svc.Stop()
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	sent, ok := mailer.sent["budi@example.com"]
	require.True(t, ok)
	assert.Equal(t, "Budi", sent.EmployeeName)
	assert.Equal(t, "release week", sent.RejectionReason)
	assert.Equal(t, "2026-10-19", sent.StartDate)
}

func TestService_StopDrainsQueue(t *testing.T) {
	hub := sse.NewHub(10)
	svc := NewNotificationService(hub, nil, Config{FlushInterval: time.Hour, WorkerCount: 1, BatchSize: 100})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stream, cleanup := svc.Subscribe(ctx, "emp-1")
	defer cleanup()

	received := make(chan notification.SSEEvent, 3)
	go func() {
		for ev := range stream {
			received <- ev
		}
	}()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Queue(ctx, rejectedRequest()))
	}
	svc.Stop()

	for i := 0; i < 3; i++ {
		select {
		case <-received:
		case <-time.After(2 * time.Second):
			t.Fatalf("expected 3 events after stop, got %d", i)
		}
	}

	assert.ErrorIs(t, svc.Queue(ctx, rejectedRequest()), notification.ErrServiceClosed)
}

func TestService_QueueNeverBlocks(t *testing.T) {
	// No workers: nothing drains the queue.
	s := &service{
		hub:    sse.NewHub(1),
		queue:  make(chan notification.CreateNotificationRequest, 1),
		stopCh: make(chan struct{}),
	}

	ctx := context.Background()
	require.NoError(t, s.Queue(ctx, rejectedRequest()))
	assert.ErrorIs(t, s.Queue(ctx, rejectedRequest()), notification.ErrQueueFull)
}

func TestService_SubscribeEndsWithContext(t *testing.T) {
	hub := sse.NewHub(10)
	svc := NewNotificationService(hub, nil, Config{})
	defer svc.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	stream, _ := svc.Subscribe(ctx, "emp-2")
	assert.Equal(t, 1, hub.SubscriberCount("emp-2"))

	cancel()
	select {
	case _, ok := <-stream:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("stream was not closed after cancel")
	}
	assert.Equal(t, 0, hub.SubscriberCount("emp-2"))
}

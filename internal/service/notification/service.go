package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/email"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/sse"
	"github.com/google/uuid"
)

const sseEventName = "notification"

// Config tunes the delivery queue. Zero fields fall back to defaults.
type Config struct {
	BatchSize     int
	FlushInterval time.Duration
	WorkerCount   int
	QueueSize     int
}

func (c Config) withDefaults() Config {
	def := func(v, d int) int {
		if v <= 0 {
			return d
		}
		return v
	}
	c.BatchSize = def(c.BatchSize, 100)
	c.WorkerCount = def(c.WorkerCount, 2)
	c.QueueSize = def(c.QueueSize, 1000)
	if c.FlushInterval <= 0 {
		c.FlushInterval = 5 * time.Second
	}
	return c
}

type service struct {
	hub    *sse.Hub
	mailer email.EmailService
	config Config

	queue    chan notification.CreateNotificationRequest
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
	stopped  atomic.Bool
}

// NewNotificationService creates a new notification service with background
// workers. mailer may be nil, in which case nothing is emailed.
func NewNotificationService(hub *sse.Hub, mailer email.EmailService, cfg Config) notification.Service {
	cfg = cfg.withDefaults()

	s := &service{
		hub:    hub,
		mailer: mailer,
		config: cfg,
		queue:  make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := range cfg.WorkerCount {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("notification service started",
		"workers", cfg.WorkerCount,
		"batch_size", cfg.BatchSize,
		"flush_interval", cfg.FlushInterval,
	)

	return s
}

// worker batches queued notifications and flushes on size or tick.
func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.CreateNotificationRequest, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		delivered := 0
		for _, req := range batch {
			delivered += s.deliver(req)
		}
		slog.Debug("notification batch flushed", "worker", id, "count", len(batch), "streams", delivered)
		batch = batch[:0]
	}

	for {
		select {
		case req := <-s.queue:
			batch = append(batch, req)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			// Drain what is already queued before exiting.
			for {
				select {
				case req := <-s.queue:
					batch = append(batch, req)
				default:
					flush()
					return
				}
			}
		}
	}
}

// deliver pushes one notification to the open streams of the recipient and
// emails leave decisions. It returns the number of streams reached.
func (s *service) deliver(req notification.CreateNotificationRequest) int {
	n := notification.Notification{
		ID:          uuid.NewString(),
		RecipientID: req.RecipientID,
		SenderID:    req.SenderID,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		Data:        req.Data,
		CreatedAt:   time.Now().UTC(),
	}

	delivered := s.hub.Publish(n.RecipientID, sse.Event{
		EmployeeID: n.RecipientID,
		Event:      sseEventName,
		Data:       notification.NewNotificationResponse(n),
	})

	if s.mailer != nil && req.RecipientEmail != nil && isLeaveDecision(req.Type) {
		if err := s.mailer.SendLeaveDecision(*req.RecipientEmail, leaveDecisionEmail(req)); err != nil {
			slog.Warn("failed to email notification", "recipient_id", req.RecipientID, "type", req.Type, "error", err)
		}
	}

	return delivered
}

// Queue implements notification.Service. It never waits for room in the queue.
func (s *service) Queue(ctx context.Context, req notification.CreateNotificationRequest) error {
	if s.stopped.Load() {
		return notification.ErrServiceClosed
	}

	select {
	case s.queue <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return notification.ErrQueueFull
	}
}

// Subscribe implements notification.Service. The stream ends when ctx is
// done or cleanup is called.
func (s *service) Subscribe(ctx context.Context, employeeID string) (<-chan notification.SSEEvent, func()) {
	events, cleanup := s.hub.Subscribe(employeeID)
	out := make(chan notification.SSEEvent)

	go func() {
		defer close(out)
		defer cleanup()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				data, ok := ev.Data.(notification.NotificationResponse)
				if !ok {
					continue
				}
				select {
				case out <- notification.SSEEvent{Event: ev.Event, Data: data}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, cleanup
}

// Stop implements notification.Service.
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		s.stopped.Store(true)
		close(s.stopCh)
		s.wg.Wait()
		slog.Info("notification service stopped")
	})
}

func isLeaveDecision(t notification.NotificationType) bool {
	return t == notification.TypeLeaveApproved || t == notification.TypeLeaveRejected
}

func leaveDecisionEmail(req notification.CreateNotificationRequest) email.LeaveDecisionData {
	str := func(key string) string {
		if v, ok := req.Data[key]; ok && v != nil {
			return fmt.Sprint(v)
		}
		return ""
	}

	data := email.LeaveDecisionData{
		Title:        req.Title,
		EmployeeName: req.RecipientName,
		Message:      req.Message,
		LeaveType:    str("leave_type"),
		StartDate:    str("start_date"),
		EndDate:      str("end_date"),
		Status:       str("status"),
	}
	if req.Type == notification.TypeLeaveRejected {
		data.RejectionReason = str("rejection_reason")
	}
	return data
}

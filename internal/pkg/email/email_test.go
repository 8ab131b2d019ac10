package email

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	calls int
	addr  string
	to    []string
	msg   string
}

func newTestService(t *testing.T, cfg config.SMTPConfig, fail int) (*emailServiceImpl, *captured) {
	t.Helper()
	svc, err := NewEmailService(cfg)
	require.NoError(t, err)

	impl := svc.(*emailServiceImpl)
	impl.backoff = 0
	c := &captured{}
	impl.send = func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		c.calls++
		if c.calls <= fail {
			return errors.New("connection refused")
		}
		c.addr, c.to, c.msg = addr, to, string(msg)
		return nil
	}
	return impl, c
}

var decision = LeaveDecisionData{
	Title:           "Leave request rejected",
	EmployeeName:    "Budi",
	Message:         "Your annual leave has been rejected",
	LeaveType:       "annual",
	StartDate:       "2026-10-19",
	EndDate:         "2026-10-21",
	Status:          "rejected",
	RejectionReason: "release week <freeze>",
}

func TestSendLeaveDecision_RendersTemplate(t *testing.T) {
	svc, c := newTestService(t, config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "hr@example.com", FromName: "HR"}, 0)

	require.NoError(t, svc.SendLeaveDecision("budi@example.com", decision))
	assert.Equal(t, 1, c.calls)
	assert.Equal(t, "smtp.example.com:587", c.addr)
	assert.Equal(t, []string{"budi@example.com"}, c.to)
	assert.True(t, strings.HasPrefix(c.msg, "From: HR <hr@example.com>\r\n"))
	assert.Contains(t, c.msg, "Subject: Leave request rejected\r\n")
	assert.Contains(t, c.msg, "Hi Budi,")
	assert.Contains(t, c.msg, "release week &lt;freeze&gt;", "template output must be escaped")
}

func TestSendLeaveDecision_Retries(t *testing.T) {
	svc, c := newTestService(t, config.SMTPConfig{Host: "smtp.example.com", Port: 25}, 2)
	require.NoError(t, svc.SendLeaveDecision("budi@example.com", decision))
	assert.Equal(t, 3, c.calls)

	svc, c = newTestService(t, config.SMTPConfig{Host: "smtp.example.com", Port: 25}, maxRetries)
	err := svc.SendLeaveDecision("budi@example.com", decision)
	assert.ErrorContains(t, err, "after 3 attempts")
	assert.Equal(t, maxRetries, c.calls)
}

func TestSendLeaveDecision_SkipsWithoutHost(t *testing.T) {
	svc, c := newTestService(t, config.SMTPConfig{}, 0)
	require.NoError(t, svc.SendLeaveDecision("budi@example.com", decision))
	assert.Zero(t, c.calls)
}

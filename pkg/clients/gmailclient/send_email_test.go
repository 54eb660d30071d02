package gmailclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("team@example.com", "Duty roster 2026-W43", "Monday: alice\nTuesday: bob"))

	assert.Equal(t,
		"To: team@example.com\r\n"+
			"Subject: Duty roster 2026-W43\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/plain; charset=\"UTF-8\"\r\n"+
			"\r\n"+
			"Monday: alice\r\nTuesday: bob",
		msg)
}

func TestBuildMessage_EncodesNonASCIISubject(t *testing.T) {
	msg := string(buildMessage("team@example.com", "Dienstplan für KW43", "body"))

	assert.Contains(t, msg, "Subject: =?utf-8?q?")
}

func TestWaitTime(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	c := &Client{interval: 3 * time.Second}

	assert.Zero(t, c.waitTime(now), "first send does not wait")

	c.lastSendTime = now.Add(-time.Second)
	assert.Equal(t, 2*time.Second, c.waitTime(now))

	c.lastSendTime = now.Add(-5 * time.Second)
	assert.Zero(t, c.waitTime(now))
}

package smtp

import (
	"context"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage_Headers(t *testing.T) {
	msg := string(buildMessage("noreply@shop.test", "a@b.com", "OTP Verification", "Your code: 123456", time.Unix(0, 0).UTC()))
	assert.Contains(t, msg, "From: noreply@shop.test\r\n")
	assert.Contains(t, msg, "To: a@b.com\r\n")
	assert.Contains(t, msg, "Subject: OTP Verification\r\n")
	assert.Contains(t, msg, "\r\n\r\nYour code: 123456")
}

func TestSendEmail_UsesConfiguredServer(t *testing.T) {
	var gotAddr string
	var gotTo []string
	m := &mailer{host: "mail.test", port: "2525", from: "noreply@shop.test",
		send: func(addr string, _ smtp.Auth, _ string, to []string, _ []byte) error {
			gotAddr, gotTo = addr, to
			return nil
		}}

	require.NoError(t, m.SendEmail(context.Background(), "a@b.com", "s", "b"))
	assert.Equal(t, "mail.test:2525", gotAddr)
	assert.Equal(t, []string{"a@b.com"}, gotTo)
}

func TestSendEmail_RejectsHeaderInjection(t *testing.T) {
	m := &mailer{send: func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called")
		return nil
	}}
	assert.Error(t, m.SendEmail(context.Background(), "a@b.com\r\nBcc: x@y.com", "s", "b"))
}

func TestSendEmail_WrapsTransportError(t *testing.T) {
	m := &mailer{host: "h", port: "1", send: func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}}
	assert.ErrorContains(t, m.SendEmail(context.Background(), "a@b.com", "s", "b"), "connection refused")
}

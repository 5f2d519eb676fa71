package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogMailer_Send(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&buf, nil))
	m := NewLogMailer(l)

	err := m.Send(context.Background(), "ana@example.com", "Hola", "<p>Hola</p>")
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ana@example.com", entry["to"])
	assert.Equal(t, "Hola", entry["subject"])
}

func TestSMTPMailer_Compose(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{From: "noreply@example.com"})

	raw, err := m.compose("ana@example.com", "Restablece tu contraseña", "<p>enlace</p>")
	require.NoError(t, err)

	msg := string(raw)
	assert.Contains(t, msg, "From: <noreply@example.com>")
	assert.Contains(t, msg, "To: <ana@example.com>")
	assert.Contains(t, msg, "text/html")
	assert.Contains(t, msg, "enlace")
}

func TestResetPasswordMail_EscapesName(t *testing.T) {
	subject, body := ResetPasswordMail("<script>x</script>", "https://example.com/reset/abc")

	assert.NotEmpty(t, subject)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "https://example.com/reset/abc")
}

func TestVerifyEmailMail(t *testing.T) {
	subject, body := VerifyEmailMail("Ana", "https://example.com/verify/abc")

	assert.Contains(t, subject, "Verifica")
	assert.Contains(t, body, "Ana")
	assert.Contains(t, body, "https://example.com/verify/abc")
}

package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"testing"

	"skillify_backend/internal/config"

	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage() Message {
	return Message{
		To:      mail.Address{Name: "Ann", Address: "ann@example.com"},
		Subject: "Your code",
		Text:    "123456",
	}
}

func TestNew(t *testing.T) {
	_, ok := New(&config.EmailConfig{Provider: "sendgrid"}).(*ConsoleSender)
	assert.True(t, ok, "no api key falls back to console")

	_, ok = New(&config.EmailConfig{Provider: "sendgrid", SendgridAPIKey: "key"}).(*SendGridSender)
	assert.True(t, ok)
}

func TestConsoleSender(t *testing.T) {
	s := NewConsoleSender()
	require.NoError(t, s.Send(context.Background(), testMessage()))
	assert.ErrorIs(t, s.Send(context.Background(), Message{}), ErrNoRecipient)

	sent := s.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "123456", sent[0].Text)
}

func TestSendGridSender_Prepare(t *testing.T) {
	s := newSendGridSender("Skillify", "no-reply@skillify.dev", nil)
	m := s.prepare(testMessage())

	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "[Skillify] Your code", m.Personalizations[0].Subject)
	assert.Equal(t, "ann@example.com", m.Personalizations[0].To[0].Address)
	assert.Equal(t, "no-reply@skillify.dev", m.From.Address)
	assert.Len(t, m.Content, 1)
}

func TestSendGridSender_StatusErrors(t *testing.T) {
	status := 202
	s := newSendGridSender("Skillify", "no-reply@skillify.dev", func(ctx context.Context, m *sgmail.SGMailV3) (int, error) {
		return status, nil
	})
	require.NoError(t, s.Send(context.Background(), testMessage()))

	status = 401
	assert.Error(t, s.Send(context.Background(), testMessage()))
}

func TestSendGridSender_BreakerOpens(t *testing.T) {
	calls := 0
	s := newSendGridSender("Skillify", "no-reply@skillify.dev", func(ctx context.Context, m *sgmail.SGMailV3) (int, error) {
		calls++
		return 0, errors.New("connection refused")
	})

	for i := 0; i < 5; i++ {
		assert.Error(t, s.Send(context.Background(), testMessage()))
	}
	err := s.Send(context.Background(), testMessage())
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 5, calls)
}

func TestSendGridSender_PostsToSendEndpoint(t *testing.T) {
	var (
		gotPath, gotAuth, gotMethod string
		gotBody                     map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotAuth, gotMethod = r.URL.Path, r.Header.Get("Authorization"), r.Method
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := newSendGridSender("Skillify", "no-reply@skillify.dev", apiDeliver("sg-key", srv.URL))
	require.NoError(t, s.Send(context.Background(), testMessage()))

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/v3/mail/send", gotPath)
	assert.Equal(t, "Bearer sg-key", gotAuth)
	require.Contains(t, gotBody, "personalizations")
	from, ok := gotBody["from"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "no-reply@skillify.dev", from["email"])
}

func TestSendGridSender_CanceledContext(t *testing.T) {
	s := newSendGridSender("Skillify", "no-reply@skillify.dev", apiDeliver("sg-key", "http://127.0.0.1:1"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, testMessage()), context.Canceled)
}

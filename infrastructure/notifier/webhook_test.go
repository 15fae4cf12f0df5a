package notifier

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/inventory-sync-api/internal/config"
)

func TestWebhookNotifier_Notify(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		validate func(t *testing.T, err error)
	}{
		{
			name: "Envia o texto como JSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				body, _ := io.ReadAll(r.Body)
				assert.Equal(t, http.MethodPost, r.Method)
				assert.JSONEq(t, `{"text":"3 produtos sem custo"}`, string(body))
				w.WriteHeader(http.StatusOK)
			},
			validate: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "Erro do webhook é devolvido",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			validate: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			n := NewWebhookNotifier(config.Notifier{WebhookURL: server.URL, Timeout: time.Second})

			err := n.Notify(context.Background(), Message{Text: "3 produtos sem custo"})

			tt.validate(t, err)
		})
	}
}

func TestWebhookNotifier_Disabled(t *testing.T) {
	n := NewWebhookNotifier(config.Notifier{})

	assert.False(t, n.Enabled())
	assert.NoError(t, n.Notify(context.Background(), Message{Text: "ignorada"}))
	n.NotifyAsync(Message{Text: "ignorada"})
}

func TestWebhookNotifier_NotifyAsync(t *testing.T) {
	var calls atomic.Int32
	received := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
		close(received)
	}))
	defer server.Close()

	n := NewWebhookNotifier(config.Notifier{WebhookURL: server.URL, Timeout: time.Second})
	n.NotifyAsync(Message{Text: "assíncrona"})

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		require.Fail(t, "webhook não foi chamado")
	}
	assert.Equal(t, int32(1), calls.Load())
}

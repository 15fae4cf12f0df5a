package notifier

//go:generate mockgen -source=webhook.go -destination=mocks/webhook.go -package=mocks

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/inventory-sync-api/internal/config"
	"github.com/vfg2006/inventory-sync-api/pkg/utils"
)

type Message struct {
	Text string `json:"text"`
}

type Notifier interface {
	Notify(ctx context.Context, message Message) error
	// NotifyAsync não bloqueia o chamador; falhas só são logadas
	NotifyAsync(message Message)
}

type WebhookNotifier struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
}

func NewWebhookNotifier(cfg config.Notifier) *WebhookNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &WebhookNotifier{
		url:        cfg.WebhookURL,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (n *WebhookNotifier) Enabled() bool {
	return n.url != ""
}

func (n *WebhookNotifier) Notify(ctx context.Context, message Message) error {
	if !n.Enabled() {
		logrus.Debug("Webhook de notificação não configurado, mensagem descartada")
		return nil
	}

	return utils.PostJSON(ctx, n.httpClient, n.url, message)
}

func (n *WebhookNotifier) NotifyAsync(message Message) {
	if !n.Enabled() {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.Notify(ctx, message); err != nil {
			logrus.WithError(err).Warn("Erro ao enviar notificação")
		}
	}()
}

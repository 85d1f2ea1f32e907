package push

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"classhub/models"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// ErrEndpointGone reports that the delivery endpoint no longer exists; the
// subscription behind it should be removed.
var ErrEndpointGone = errors.New("push endpoint gone")

// Transport attempts one delivery to one endpoint.
type Transport interface {
	Send(ctx context.Context, sub models.PushSubscription, payload []byte) error
}

// WebPushTransport delivers over the Web Push protocol, signing requests
// with the VAPID keypair loaded from configuration at startup.
type WebPushTransport struct {
	vapidPublicKey  string
	vapidPrivateKey string
	subscriber      string
}

// NewWebPushTransport creates a transport for the given VAPID keypair.
func NewWebPushTransport(publicKey, privateKey, subscriber string) *WebPushTransport {
	return &WebPushTransport{
		vapidPublicKey:  publicKey,
		vapidPrivateKey: privateKey,
		subscriber:      subscriber,
	}
}

// Send pushes the payload to the subscription's endpoint. A 404 or 410 from
// the push service means the endpoint is permanently gone.
func (t *WebPushTransport) Send(ctx context.Context, sub models.PushSubscription, payload []byte) error {
	target := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}
	opts := &webpush.Options{
		Subscriber:      t.subscriber,
		VAPIDPublicKey:  t.vapidPublicKey,
		VAPIDPrivateKey: t.vapidPrivateKey,
		TTL:             60,
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, target, opts)
	if err != nil {
		return fmt.Errorf("web push send failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return ErrEndpointGone
	case resp.StatusCode >= 400:
		return fmt.Errorf("push service responded %d", resp.StatusCode)
	}
	return nil
}

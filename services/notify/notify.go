package notifysvc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"

	"github.com/mrxclay666777/speakyz/core"
	"github.com/mrxclay666777/speakyz/core/inquiry"
)

const InquirySubject = "speakyz.inquiry.received"

type event struct {
	Type    string          `json:"type"`
	SentAt  time.Time       `json:"sent_at"`
	Inquiry inquiry.Inquiry `json:"inquiry"`
}

func encodeInquiry(inq inquiry.Inquiry) ([]byte, error) {
	return json.Marshal(event{Type: "inquiry.received", SentAt: time.Now().UTC(), Inquiry: inq})
}

// NatsNotifier publishes inquiries on NATS.
type NatsNotifier struct {
	nc     *nats.Conn
	logger core.Logger
}

var _ inquiry.Notifier = (*NatsNotifier)(nil)

func NewNatsNotifier(url, name string, logger core.Logger) (*NatsNotifier, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn(fmt.Sprintf("nats: disconnected: %v", err), err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats: reconnected to " + nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to nats")
	}
	return &NatsNotifier{nc: nc, logger: logger}, nil
}

func (n *NatsNotifier) InquiryReceived(_ context.Context, inq inquiry.Inquiry) error {
	data, err := encodeInquiry(inq)
	if err != nil {
		return errors.Wrap(err, "encoding inquiry event")
	}
	return errors.Wrap(n.nc.Publish(InquirySubject, data), "publishing inquiry event")
}

// Close flushes pending events & closes the connection.
func (n *NatsNotifier) Close() {
	if err := n.nc.Drain(); err != nil {
		n.logger.Warn(fmt.Sprintf("nats: draining: %v", err), err)
	}
}

// Multi notifies every notifier, in order, and returns the first error.
type Multi []inquiry.Notifier

var _ inquiry.Notifier = Multi(nil)

func (m Multi) InquiryReceived(ctx context.Context, inq inquiry.Inquiry) error {
	var firstErr error
	for _, n := range m {
		if err := n.InquiryReceived(ctx, inq); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

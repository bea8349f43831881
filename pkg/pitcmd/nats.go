package pitcmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/mpapenbr/go-racehud/internal/fuel"
	"github.com/mpapenbr/go-racehud/log"
)

type (
	natsPublisher interface {
		Publish(subj string, data []byte) error
		Drain() error
	}
	NatsDispatcher struct {
		conn    natsPublisher
		subject string
		l       *log.Logger
	}
	NatsOption func(*NatsDispatcher)
)

func WithSubject(s string) NatsOption {
	return func(d *NatsDispatcher) {
		d.subject = s
	}
}

func WithNatsLogger(l *log.Logger) NatsOption {
	return func(d *NatsDispatcher) {
		d.l = l
	}
}

// ConnectNats connects to the NATS server at url
func ConnectNats(url string, opts ...NatsOption) (*NatsDispatcher, error) {
	nc, err := nats.Connect(url,
		nats.Name("racehud"),
		nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	return NewNatsDispatcher(nc, opts...), nil
}

func NewNatsDispatcher(conn natsPublisher, opts ...NatsOption) *NatsDispatcher {
	ret := &NatsDispatcher{
		conn:    conn,
		subject: Topic,
		l:       log.Default().Named("pit.nats"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (d *NatsDispatcher) Dispatch(ctx context.Context, cmd fuel.RefuelCommand) error {
	msg := NewMessage(cmd)
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := d.conn.Publish(d.subject, data); err != nil {
		return fmt.Errorf("publish refuel command: %w", err)
	}
	d.l.Info("refuel command published",
		log.String("subject", d.subject),
		log.String("id", msg.ID),
		log.Float64("amount", msg.Amount))
	return nil
}

func (d *NatsDispatcher) Close() error {
	return d.conn.Drain()
}

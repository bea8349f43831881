package wamp

import (
	"context"
	"fmt"

	"github.com/gammazero/nexus/v3/wamp"
	"github.com/google/uuid"

	"github.com/mpapenbr/go-racehud/internal/fuel"
	"github.com/mpapenbr/go-racehud/log"
	"github.com/mpapenbr/go-racehud/pkg/broadcast"
)

const topicLiveFuel = "racehud.live.fuel.%s"

type (
	// satisfied by *client.Client
	wampPublisher interface {
		Publish(topic string, options wamp.Dict, args wamp.List, kwargs wamp.Dict) error
	}
	// Publisher forwards display values to subscribers of the live fuel topic
	Publisher struct {
		p      wampPublisher
		key    string
		l      *log.Logger
		count  int
		errors int
	}
	PublisherOption func(*Publisher)
)

func WithKey(key string) PublisherOption {
	return func(p *Publisher) { p.key = key }
}

func WithPublisherLogger(l *log.Logger) PublisherOption {
	return func(p *Publisher) { p.l = l }
}

func NewPublisher(p wampPublisher, opts ...PublisherOption) *Publisher {
	ret := &Publisher{
		p:   p,
		key: uuid.NewString(),
		l:   log.Default().Named("wamp"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (p *Publisher) Topic() string {
	return fmt.Sprintf(topicLiveFuel, p.key)
}

// Run publishes every value received from feed until ctx is done or the feed
// is closed. Publish errors are logged, the loop continues.
func (p *Publisher) Run(ctx context.Context, feed *broadcast.Broadcaster[fuel.DisplayValues]) {
	ch := feed.Subscribe()
	defer feed.Unsubscribe(ch)
	p.l.Info("Publishing display values", log.String("topic", p.Topic()))
	for {
		select {
		case <-ctx.Done():
			return
		case dv, more := <-ch:
			if !more {
				p.l.Debug("feed closed")
				return
			}
			if err := p.p.Publish(p.Topic(), nil, wamp.List{dv}, nil); err != nil {
				p.errors++
				p.l.Warn("could not publish display values", log.ErrorField(err))
				continue
			}
			p.count++
		}
	}
}

// Stats returns the number of published and failed messages.
// Only valid after Run returned.
func (p *Publisher) Stats() (published, failed int) {
	return p.count, p.errors
}

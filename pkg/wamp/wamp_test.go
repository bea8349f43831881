package wamp

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/gammazero/nexus/v3/wamp"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/go-racehud/internal/fuel"
	"github.com/mpapenbr/go-racehud/log"
	"github.com/mpapenbr/go-racehud/pkg/broadcast"
)

type fakePublisher struct {
	mu     sync.Mutex
	topics []string
	laps   []int
	calls  int
	fail   bool
}

func (f *fakePublisher) Publish(topic string, _ wamp.Dict, args wamp.List, _ wamp.Dict) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return errors.New("router gone")
	}
	f.topics = append(f.topics, topic)
	f.laps = append(f.laps, args[0].(fuel.DisplayValues).CurrentLap)
	return nil
}

func runPublisher(p *Publisher, feed *broadcast.Broadcaster[fuel.DisplayValues]) chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(context.Background(), feed)
	}()
	return done
}

func TestPublisherRun(t *testing.T) {
	fp := &fakePublisher{}
	feed := broadcast.NewBroadcaster[fuel.DisplayValues]()
	feed.Broadcast(fuel.DisplayValues{CurrentLap: 7})
	p := NewPublisher(fp,
		WithKey("abc"),
		WithPublisherLogger(log.New(io.Discard, log.DebugLevel)))
	assert.Equal(t, "racehud.live.fuel.abc", p.Topic())

	done := runPublisher(p, feed)
	assert.Eventually(t, func() bool {
		fp.mu.Lock()
		defer fp.mu.Unlock()
		return len(fp.laps) == 1
	}, time.Second, 5*time.Millisecond)
	feed.Close()
	<-done

	assert.Equal(t, []string{"racehud.live.fuel.abc"}, fp.topics)
	assert.Equal(t, []int{7}, fp.laps)
	published, failed := p.Stats()
	assert.Equal(t, 1, published)
	assert.Equal(t, 0, failed)
}

func TestPublisherErrorsContinue(t *testing.T) {
	fp := &fakePublisher{fail: true}
	feed := broadcast.NewBroadcaster[fuel.DisplayValues]()
	feed.Broadcast(fuel.DisplayValues{CurrentLap: 1})
	p := NewPublisher(fp, WithPublisherLogger(log.New(io.Discard, log.DebugLevel)))

	done := runPublisher(p, feed)
	assert.Eventually(t, func() bool {
		fp.mu.Lock()
		defer fp.mu.Unlock()
		return fp.calls == 1
	}, time.Second, 5*time.Millisecond)
	feed.Close()
	<-done
	published, failed := p.Stats()
	assert.Equal(t, 0, published)
	assert.Equal(t, 1, failed)
}

func TestPublisherCanceled(t *testing.T) {
	feed := broadcast.NewBroadcaster[fuel.DisplayValues]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewPublisher(&fakePublisher{}, WithPublisherLogger(log.New(io.Discard, log.DebugLevel)))
	p.Run(ctx, feed)
	published, _ := p.Stats()
	assert.Equal(t, 0, published)
}

func TestVersionFromResult(t *testing.T) {
	tests := []struct {
		name    string
		result  *wamp.Result
		want    string
		wantErr bool
	}{
		{"nil", nil, "", true},
		{"empty", &wamp.Result{}, "", true},
		{"no dict", &wamp.Result{Arguments: wamp.List{"x"}}, "", true},
		{"missing", &wamp.Result{Arguments: wamp.List{wamp.Dict{}}}, "", true},
		{
			"ok",
			&wamp.Result{Arguments: wamp.List{wamp.Dict{"ownVersion": "0.7.1"}}},
			"0.7.1", false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := versionFromResult(tt.result)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoResults)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

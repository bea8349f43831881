package wamp

import (
	"context"
	"errors"

	"github.com/gammazero/nexus/v3/client"
	"go.uber.org/zap"

	"github.com/mpapenbr/go-racehud/log"
)

var ErrNoResults = errors.New("no results")

// Connect opens a client session on realm. Router messages are written to l.
func Connect(ctx context.Context, url, realm string, l *log.Logger) (*client.Client, error) {
	cfg := client.Config{
		Realm:  realm,
		Logger: zap.NewStdLog(l.Named("nexus").ZapLogger()),
	}
	return client.ConnectNet(ctx, url, cfg)
}

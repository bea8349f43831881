package pitcmd

import (
	"context"
	"fmt"

	"github.com/gammazero/nexus/v3/client"
	"github.com/gammazero/nexus/v3/wamp"

	"github.com/mpapenbr/go-racehud/internal/fuel"
	"github.com/mpapenbr/go-racehud/log"
)

type (
	wampCaller interface {
		Call(
			ctx context.Context,
			procedure string,
			options wamp.Dict,
			args wamp.List,
			kwargs wamp.Dict,
			progCb client.ProgressHandler,
		) (*wamp.Result, error)
		Close() error
	}
	// WampDispatcher calls the refuel procedure registered by the bridge
	WampDispatcher struct {
		caller    wampCaller
		procedure string
		l         *log.Logger
	}
)

func NewWampDispatcher(caller wampCaller) *WampDispatcher {
	return &WampDispatcher{
		caller:    caller,
		procedure: Topic,
		l:         log.Default().Named("pit.wamp"),
	}
}

func (d *WampDispatcher) Dispatch(ctx context.Context, cmd fuel.RefuelCommand) error {
	msg := NewMessage(cmd)
	_, err := d.caller.Call(ctx, d.procedure, nil,
		wamp.List{wamp.Dict{"id": msg.ID, "amount": msg.Amount, "issued": msg.Issued.Unix()}},
		nil, nil)
	if err != nil {
		return fmt.Errorf("call %s: %w", d.procedure, err)
	}
	d.l.Info("refuel command sent",
		log.String("id", msg.ID),
		log.Float64("amount", msg.Amount))
	return nil
}

func (d *WampDispatcher) Close() error {
	return d.caller.Close()
}

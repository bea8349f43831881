// Package pitcmd delivers refuel commands to a bridge process which forwards
// them to the simulator pit service.
package pitcmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mpapenbr/go-racehud/internal/fuel"
)

// Topic is used as NATS subject and as WAMP procedure name
const Topic = "racehud.pit.refuel"

var ErrUnknownDispatcher = errors.New("unknown pit dispatcher")

type Dispatcher interface {
	Dispatch(ctx context.Context, cmd fuel.RefuelCommand) error
	Close() error
}

// Message is the payload sent to the bridge
type Message struct {
	ID     string    `json:"id"`
	Amount float64   `json:"amount"` // liters
	Issued time.Time `json:"issued"`
}

func NewMessage(cmd fuel.RefuelCommand) Message {
	return Message{
		ID:     uuid.NewString(),
		Amount: cmd.Amount,
		Issued: time.Now().UTC(),
	}
}

type Kind string

const (
	KindLog  Kind = "log"
	KindNats Kind = "nats"
	KindWamp Kind = "wamp"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindLog, KindNats, KindWamp:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownDispatcher, s)
	}
}

package pitcmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/gammazero/nexus/v3/client"
	"github.com/gammazero/nexus/v3/wamp"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/go-racehud/internal/fuel"
	"github.com/mpapenbr/go-racehud/log"
)

type fakeNats struct {
	subjects []string
	data     [][]byte
	err      error
	drained  bool
}

func (f *fakeNats) Publish(subj string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subj)
	f.data = append(f.data, data)
	return nil
}

func (f *fakeNats) Drain() error {
	f.drained = true
	return nil
}

type fakeWamp struct {
	procedure string
	args      wamp.List
	err       error
}

//nolint:gocritic // signature given by nexus client
func (f *fakeWamp) Call(
	ctx context.Context,
	procedure string,
	options wamp.Dict,
	args wamp.List,
	kwargs wamp.Dict,
	progCb client.ProgressHandler,
) (*wamp.Result, error) {
	f.procedure = procedure
	f.args = args
	return &wamp.Result{}, f.err
}

func (f *fakeWamp) Close() error { return nil }

func TestParseKind(t *testing.T) {
	for _, k := range []string{"log", "nats", "wamp"} {
		got, err := ParseKind(k)
		assert.NoError(t, err)
		assert.Equal(t, Kind(k), got)
	}
	_, err := ParseKind("irsdk")
	assert.ErrorIs(t, err, ErrUnknownDispatcher)
}

func TestLogDispatcher(t *testing.T) {
	buf := bytes.Buffer{}
	d := NewLogDispatcher(log.New(&buf, log.InfoLevel))
	assert.NoError(t, d.Dispatch(context.Background(), fuel.RefuelCommand{Amount: 12}))
	assert.Equal(t, 1, d.Count())
	assert.Contains(t, buf.String(), "refuel requested")
	assert.Contains(t, buf.String(), `"amount":12`)
}

func TestNatsDispatcher(t *testing.T) {
	f := &fakeNats{}
	d := NewNatsDispatcher(f, WithSubject("test.refuel"),
		WithNatsLogger(log.New(&bytes.Buffer{}, log.InfoLevel)))
	assert.NoError(t, d.Dispatch(context.Background(), fuel.RefuelCommand{Amount: 7}))
	assert.Equal(t, []string{"test.refuel"}, f.subjects)
	var msg Message
	assert.NoError(t, json.Unmarshal(f.data[0], &msg))
	assert.Equal(t, 7.0, msg.Amount)
	assert.NotEmpty(t, msg.ID)
	assert.NoError(t, d.Close())
	assert.True(t, f.drained)

	f.err = errors.New("no connection")
	assert.Error(t, d.Dispatch(context.Background(), fuel.RefuelCommand{Amount: 7}))
}

func TestWampDispatcher(t *testing.T) {
	f := &fakeWamp{}
	d := NewWampDispatcher(f)
	assert.NoError(t, d.Dispatch(context.Background(), fuel.RefuelCommand{Amount: 9}))
	assert.Equal(t, Topic, f.procedure)
	assert.Len(t, f.args, 1)
	payload, ok := wamp.AsDict(f.args[0])
	assert.True(t, ok)
	assert.Equal(t, 9.0, payload["amount"])

	f.err = errors.New("no such procedure")
	assert.Error(t, d.Dispatch(context.Background(), fuel.RefuelCommand{Amount: 9}))
}

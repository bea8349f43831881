package msglog

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/mpapenbr/go-racehud/internal/fuel"
	"github.com/mpapenbr/go-racehud/log"
)

type (
	MsgLogger struct {
		w     io.Writer
		r     io.Reader
		m     sync.Mutex
		count int
		debug bool
	}
	Option func(*MsgLogger)
	header struct {
		MsgType byte
		MsgLen  uint16
	}
	// Record is one entry read from a message log.
	// Depending on Type either Sample or Refuel is set.
	Record struct {
		Type   byte
		Sample *fuel.Sample
		Refuel *fuel.RefuelCommand
	}
)

const (
	MsgUnknown byte = iota
	MsgSample
	MsgRefuel
	MsgSessionReset
)

var (
	ErrNoReader       = errors.New("no reader")
	ErrUnknownMsgType = errors.New("unknown message type")
)

func NewMsgLogger(opts ...Option) *MsgLogger {
	ret := &MsgLogger{}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func WithWriter(w io.Writer) Option {
	return func(ml *MsgLogger) {
		ml.w = w
	}
}

func WithReader(r io.Reader) Option {
	return func(ml *MsgLogger) {
		ml.r = r
	}
}

func WithDebug(b bool) Option {
	return func(ml *MsgLogger) {
		ml.debug = b
	}
}

// Count returns the number of records written
func (m *MsgLogger) Count() int {
	m.m.Lock()
	defer m.m.Unlock()
	return m.count
}

func (m *MsgLogger) LogSample(s *fuel.Sample) error {
	return m.log(MsgSample, toSampleRecord(s))
}

func (m *MsgLogger) LogRefuel(c fuel.RefuelCommand) error {
	return m.log(MsgRefuel, refuelRecord{Amount: c.Amount})
}

func (m *MsgLogger) LogSessionReset() error {
	return m.log(MsgSessionReset, nil)
}

func (m *MsgLogger) log(t byte, payload any) error {
	if m.w == nil {
		return nil
	}
	buf := bytes.Buffer{}
	if payload != nil {
		if err := binary.Write(&buf, binary.LittleEndian, payload); err != nil {
			return fmt.Errorf("encode msg type %d: %w", t, err)
		}
	}
	m.m.Lock()
	defer m.m.Unlock()
	h := header{MsgType: t, MsgLen: uint16(buf.Len())}
	if err := binary.Write(m.w, binary.LittleEndian, h); err != nil {
		return err
	}
	if _, err := m.w.Write(buf.Bytes()); err != nil {
		return err
	}
	m.count++
	if m.debug {
		log.Debug("msg logged", log.Uint8("type", t), log.Int("len", buf.Len()))
	}
	return nil
}

// ReadNext returns the next record. io.EOF is returned at the end of the log.
func (m *MsgLogger) ReadNext() (*Record, error) {
	if m.r == nil {
		return nil, ErrNoReader
	}

	h := header{}
	if err := binary.Read(m.r, binary.LittleEndian, &h); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		log.Error("could not read header", log.ErrorField(err))
		return nil, err
	}

	b := make([]byte, h.MsgLen)
	if _, err := io.ReadFull(m.r, b); err != nil {
		return nil, err
	}
	rd := bytes.NewReader(b)
	ret := &Record{Type: h.MsgType}
	switch h.MsgType {
	case MsgSample:
		rec := sampleRecord{}
		if err := binary.Read(rd, binary.LittleEndian, &rec); err != nil {
			return nil, err
		}
		ret.Sample = rec.toSample()
	case MsgRefuel:
		rec := refuelRecord{}
		if err := binary.Read(rd, binary.LittleEndian, &rec); err != nil {
			return nil, err
		}
		ret.Refuel = &fuel.RefuelCommand{Amount: rec.Amount}
	case MsgSessionReset:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMsgType, h.MsgType)
	}
	return ret, nil
}

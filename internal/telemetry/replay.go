package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"

	goyaml "gopkg.in/yaml.v3"

	"github.com/mpapenbr/go-racehud/internal/fuel"
	"github.com/mpapenbr/go-racehud/pkg/msglog"
)

// Frame is one replay step. Either Sample is set or SessionReset is true.
type Frame struct {
	Sample       *fuel.Sample
	SessionReset bool
}

// Source delivers recorded frames. Next returns io.EOF when exhausted.
type Source interface {
	Next(ctx context.Context) (*Frame, error)
}

type (
	// replayFile is the layout of hand written replay files
	replayFile struct {
		Frames []replayFrame `yaml:"frames"`
	}
	replayFrame struct {
		SessionReset bool `yaml:"sessionReset"`
		// Repeat emits the sample this many times (default 1)
		Repeat      int `yaml:"repeat"`
		fuel.Sample `yaml:",inline"`
	}
	YamlSource struct {
		frames []*Frame
		idx    int
	}
)

var ErrEmptyReplay = errors.New("replay contains no frames")

func NewYamlSource(r io.Reader) (*YamlSource, error) {
	var f replayFile
	dec := goyaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode replay: %w", err)
	}
	ret := &YamlSource{}
	for i := range f.Frames {
		rf := f.Frames[i]
		if rf.SessionReset {
			ret.frames = append(ret.frames, &Frame{SessionReset: true})
			continue
		}
		for n := 0; n < max(1, rf.Repeat); n++ {
			s := rf.Sample
			ret.frames = append(ret.frames, &Frame{Sample: &s})
		}
	}
	if len(ret.frames) == 0 {
		return nil, ErrEmptyReplay
	}
	return ret, nil
}

func (y *YamlSource) Next(ctx context.Context) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if y.idx >= len(y.frames) {
		return nil, io.EOF
	}
	ret := y.frames[y.idx]
	y.idx++
	return ret, nil
}

// MsgLogSource replays a recorded message log. Recorded refuel commands are skipped,
// they are recomputed during the replay.
type MsgLogSource struct {
	m *msglog.MsgLogger
}

func NewMsgLogSource(r io.Reader) *MsgLogSource {
	return &MsgLogSource{m: msglog.NewMsgLogger(msglog.WithReader(r))}
}

func (s *MsgLogSource) Next(ctx context.Context) (*Frame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := s.m.ReadNext()
		if err != nil {
			return nil, err
		}
		switch rec.Type {
		case msglog.MsgSample:
			return &Frame{Sample: rec.Sample}, nil
		case msglog.MsgSessionReset:
			return &Frame{SessionReset: true}, nil
		default:
			continue
		}
	}
}

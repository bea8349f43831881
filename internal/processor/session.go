package processor

import (
	"github.com/mpapenbr/go-racehud/internal/fuel"
	"github.com/mpapenbr/go-racehud/log"
)

// SessionProc detects session changes. A change is a different session number
// or session type compared to the previous sample.
type SessionProc struct {
	seen        bool
	sessionNum  int
	sessionType fuel.SessionType
}

func NewSessionProc() *SessionProc {
	return &SessionProc{}
}

// Process returns true if s belongs to another session than the previous sample.
// The first sample is not considered a change.
func (sp *SessionProc) Process(s *fuel.Sample) bool {
	changed := sp.seen && (s.SessionNum != sp.sessionNum || s.SessionType != sp.sessionType)
	if changed {
		log.Debug("session change detected",
			log.Int("from", sp.sessionNum),
			log.Int("to", s.SessionNum))
	}
	sp.seen = true
	sp.sessionNum = s.SessionNum
	sp.sessionType = s.SessionType
	return changed
}

func (sp *SessionProc) SessionNum() int               { return sp.sessionNum }
func (sp *SessionProc) SessionType() fuel.SessionType { return sp.sessionType }

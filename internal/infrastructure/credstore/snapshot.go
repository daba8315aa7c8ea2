package credstore

import (
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/kalafo/kalafo-go/internal/core/domain"
)

// snapshotEnvelope wraps the persisted session with its schema version so
// future shape changes are detectable instead of silently misread.
type snapshotEnvelope struct {
	Version int            `json:"version"`
	State   domain.Session `json:"state"`
}

func encodeSnapshot(sess domain.Session) ([]byte, error) {
	return json.Marshal(snapshotEnvelope{Version: domain.SnapshotVersion, State: sess})
}

func decodeSnapshot(raw []byte, log zerolog.Logger) (domain.Session, bool) {
	var env snapshotEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Warn().Err(err).Msg("discarding unreadable session snapshot")
		return domain.Session{}, false
	}
	if env.Version != domain.SnapshotVersion {
		log.Warn().Int("version", env.Version).Msg("discarding session snapshot with unknown schema version")
		return domain.Session{}, false
	}
	return env.State, true
}

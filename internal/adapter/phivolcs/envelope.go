package phivolcs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lindolmap/geoevents/internal/domain"
)

// ErrBadEnvelope marks script or endpoint output that could not be parsed
// as the expected envelope. It is a tool failure, distinct from a catalog
// that legitimately returned zero quakes.
var ErrBadEnvelope = errors.New("regional catalog produced a malformed envelope")

// Envelope is the wire contract shared by the script's stdout and the
// remote endpoint's body.
type Envelope struct {
	Quakes []domain.QuakeRecord `json:"quakes"`
	Error  string               `json:"error,omitempty"`
}

// DecodeEnvelope parses raw envelope bytes into quake records. Empty or
// non-JSON output is a tool failure, never coerced into an empty success.
// An embedded error field is propagated verbatim as a failure even though
// the envelope itself parsed.
func DecodeEnvelope(raw []byte) ([]domain.QuakeRecord, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty output", ErrBadEnvelope)
	}

	var env Envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadEnvelope, err)
	}
	if env.Error != "" {
		return nil, errors.New(env.Error)
	}
	return env.Quakes, nil
}

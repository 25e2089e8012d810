package engine

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/ingyamilmolinar/rangeslider/core/model"
	"github.com/ingyamilmolinar/rangeslider/internal/utils"
)

// State is what survives a suspend/resume: the normalized pair and whatever
// the host wants to keep alongside it.
type State struct {
	Selection model.Selection
	Host      []byte
}

// DefaultState is the full-range selection with no host data.
func DefaultState() State { return State{Selection: model.FullSelection} }

type wireState struct {
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Host []byte   `json:"host,omitempty"`
}

// Encode serialises the state as JSON.
func (s State) Encode() ([]byte, error) {
	minN, maxN := s.Selection.MinNorm, s.Selection.MaxNorm
	b, err := json.Marshal(wireState{Min: &minN, Max: &maxN, Host: s.Host})
	if err != nil {
		return nil, errors.Wrap(err, "encode slider state")
	}
	return b, nil
}

// DecodeState parses data written by Encode. The returned state is always
// usable: a missing or unreadable value falls back to its default and a
// parse failure yields DefaultState alongside the error.
func DecodeState(data []byte) (State, error) {
	var w wireState
	if err := json.Unmarshal(data, &w); err != nil {
		return DefaultState(), errors.Wrap(err, "decode slider state")
	}
	s := DefaultState()
	s.Host = w.Host
	if w.Min != nil {
		s.Selection.MinNorm = *w.Min
	}
	if w.Max != nil {
		s.Selection.MaxNorm = *w.Max
	}
	return s.sanitized(), nil
}

// sanitized replaces values that cannot be a normalized selection with the
// defaults.
func (s State) sanitized() State {
	minN, maxN := s.Selection.MinNorm, s.Selection.MaxNorm
	if !utils.Finite(minN) || minN < 0 || minN > 1 {
		minN = model.FullSelection.MinNorm
	}
	if !utils.Finite(maxN) || maxN < 0 || maxN > 1 {
		maxN = model.FullSelection.MaxNorm
	}
	if minN > maxN {
		minN, maxN = model.FullSelection.MinNorm, model.FullSelection.MaxNorm
	}
	s.Selection = model.Selection{MinNorm: minN, MaxNorm: maxN}
	return s
}

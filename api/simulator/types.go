package simulator

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Simulator is a device simulator definition. The backend service derives
// one device managed object per instance asynchronously after creation.
// Known fields are typed; the playlist/config payload varies per simulator
// template and is carried through unmodified in Fragments.
type Simulator struct {
	ID        string
	Name      string
	State     string
	Instances int

	// Fragments holds all fields not covered above, keyed by field name,
	// with their raw JSON values.
	Fragments map[string]json.RawMessage
}

type simulatorJSON struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	State     string `json:"state,omitempty"`
	Instances int    `json:"instances,omitempty"`
}

var knownSimulatorFields = map[string]struct{}{
	"id": {}, "name": {}, "state": {}, "instances": {},
}

// UnmarshalJSON decodes the typed core fields and keeps every other field as
// a raw fragment.
func (s *Simulator) UnmarshalJSON(data []byte) error {
	var core simulatorJSON
	if err := json.Unmarshal(data, &core); err != nil {
		return errors.Wrap(err, "failed to decode simulator")
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return errors.Wrap(err, "failed to decode simulator fragments")
	}

	*s = Simulator{
		ID:        core.ID,
		Name:      core.Name,
		State:     core.State,
		Instances: core.Instances,
	}

	for key, value := range all {
		if _, known := knownSimulatorFields[key]; known {
			continue
		}
		if s.Fragments == nil {
			s.Fragments = make(map[string]json.RawMessage)
		}
		s.Fragments[key] = value
	}

	return nil
}

// MarshalJSON merges the typed core fields and the raw fragments back into a
// single document.
func (s Simulator) MarshalJSON() ([]byte, error) {
	doc := make(map[string]json.RawMessage, len(s.Fragments)+4)
	for key, value := range s.Fragments {
		doc[key] = value
	}

	core, err := json.Marshal(simulatorJSON{
		ID:        s.ID,
		Name:      s.Name,
		State:     s.State,
		Instances: s.Instances,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode simulator")
	}

	var coreFields map[string]json.RawMessage
	if err := json.Unmarshal(core, &coreFields); err != nil {
		return nil, errors.Wrap(err, "failed to re-read simulator core")
	}
	for key, value := range coreFields {
		doc[key] = value
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode simulator")
	}
	return encoded, nil
}

// SetFragment stores v as the named fragment, replacing any previous value.
func (s *Simulator) SetFragment(name string, v any) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "failed to encode fragment %q", name)
	}
	if s.Fragments == nil {
		s.Fragments = make(map[string]json.RawMessage)
	}
	s.Fragments[name] = encoded
	return nil
}

// GetFragment decodes the named fragment into out. It returns an error when
// the fragment is absent.
func (s *Simulator) GetFragment(name string, out any) error {
	raw, ok := s.Fragments[name]
	if !ok {
		return errors.Newf("fragment %q not present", name)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "failed to decode fragment %q", name)
	}
	return nil
}

package inventory

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
)

// ManagedObject is the platform's generic entity record: devices, groups,
// binaries and service-specific objects all share this shape. Known fields
// are typed; everything else is carried through unmodified in Fragments so
// the platform's schema extensions survive a round trip.
type ManagedObject struct {
	ID           string
	Name         string
	Type         string
	Owner        string
	Self         string
	CreationTime *time.Time
	LastUpdated  *time.Time

	// Fragments holds all fields not covered above, keyed by fragment name
	// (e.g. "c8y_IsDevice", "c8y_Hardware"), with their raw JSON values.
	Fragments map[string]json.RawMessage
}

// managedObjectJSON covers the typed core during (un)marshalling.
type managedObjectJSON struct {
	ID           string     `json:"id,omitempty"`
	Name         string     `json:"name,omitempty"`
	Type         string     `json:"type,omitempty"`
	Owner        string     `json:"owner,omitempty"`
	Self         string     `json:"self,omitempty"`
	CreationTime *time.Time `json:"creationTime,omitempty"`
	LastUpdated  *time.Time `json:"lastUpdated,omitempty"`
}

var knownManagedObjectFields = map[string]struct{}{
	"id": {}, "name": {}, "type": {}, "owner": {}, "self": {},
	"creationTime": {}, "lastUpdated": {},
}

// UnmarshalJSON decodes the typed core fields and keeps every other field as
// a raw fragment.
func (m *ManagedObject) UnmarshalJSON(data []byte) error {
	var core managedObjectJSON
	if err := json.Unmarshal(data, &core); err != nil {
		return errors.Wrap(err, "failed to decode managed object")
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return errors.Wrap(err, "failed to decode managed object fragments")
	}

	*m = ManagedObject{
		ID:           core.ID,
		Name:         core.Name,
		Type:         core.Type,
		Owner:        core.Owner,
		Self:         core.Self,
		CreationTime: core.CreationTime,
		LastUpdated:  core.LastUpdated,
	}

	for key, value := range all {
		if _, known := knownManagedObjectFields[key]; known {
			continue
		}
		if m.Fragments == nil {
			m.Fragments = make(map[string]json.RawMessage)
		}
		m.Fragments[key] = value
	}

	return nil
}

// MarshalJSON merges the typed core fields and the raw fragments back into a
// single document.
func (m ManagedObject) MarshalJSON() ([]byte, error) {
	doc := make(map[string]json.RawMessage, len(m.Fragments)+7)
	for key, value := range m.Fragments {
		doc[key] = value
	}

	core, err := json.Marshal(managedObjectJSON{
		ID:           m.ID,
		Name:         m.Name,
		Type:         m.Type,
		Owner:        m.Owner,
		Self:         m.Self,
		CreationTime: m.CreationTime,
		LastUpdated:  m.LastUpdated,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode managed object")
	}

	var coreFields map[string]json.RawMessage
	if err := json.Unmarshal(core, &coreFields); err != nil {
		return nil, errors.Wrap(err, "failed to re-read managed object core")
	}
	for key, value := range coreFields {
		doc[key] = value
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode managed object")
	}
	return encoded, nil
}

// SetFragment stores v as the named fragment, replacing any previous value.
func (m *ManagedObject) SetFragment(name string, v any) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "failed to encode fragment %q", name)
	}
	if m.Fragments == nil {
		m.Fragments = make(map[string]json.RawMessage)
	}
	m.Fragments[name] = encoded
	return nil
}

// GetFragment decodes the named fragment into out. It returns an error when
// the fragment is absent.
func (m *ManagedObject) GetFragment(name string, out any) error {
	raw, ok := m.Fragments[name]
	if !ok {
		return errors.Newf("fragment %q not present", name)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "failed to decode fragment %q", name)
	}
	return nil
}

// HasFragment reports whether the named fragment is present.
func (m *ManagedObject) HasFragment(name string) bool {
	_, ok := m.Fragments[name]
	return ok
}

// PageStatistics describes the paging state of a collection response.
type PageStatistics struct {
	PageSize    int `json:"pageSize,omitempty"`
	CurrentPage int `json:"currentPage,omitempty"`
	TotalPages  int `json:"totalPages,omitempty"`
}

// ManagedObjectPage is one page of a managed object collection.
type ManagedObjectPage struct {
	ManagedObjects []ManagedObject
	Next           string
	Statistics     *PageStatistics
}

// managedObjectCollection mirrors the platform's collection envelope.
type managedObjectCollection struct {
	ManagedObjects []ManagedObject `json:"managedObjects"`
	Next           string          `json:"next,omitempty"`
	Statistics     *PageStatistics `json:"statistics,omitempty"`
}

// Binary is the metadata record of a file stored in the inventory binary
// repository. The content itself is streamed separately.
type Binary struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Type        string `json:"type,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Length      int64  `json:"length,omitempty"`
	Self        string `json:"self,omitempty"`
	Owner       string `json:"owner,omitempty"`
}

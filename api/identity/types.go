package identity

// Source points at the managed object an external id belongs to.
type Source struct {
	ID   string `json:"id,omitempty"`
	Self string `json:"self,omitempty"`
}

// ExternalID maps an identifier from an external namespace (serial number,
// IMEI, simulator instance name) onto a platform managed object.
type ExternalID struct {
	ExternalID    string  `json:"externalId,omitempty"`
	Type          string  `json:"type,omitempty"`
	Self          string  `json:"self,omitempty"`
	ManagedObject *Source `json:"managedObject,omitempty"`
}

// externalIDCollection mirrors the platform's list envelope.
type externalIDCollection struct {
	ExternalIDs []ExternalID `json:"externalIds"`
}

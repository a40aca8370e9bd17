package application

// Application is a platform application record: a hosted web application,
// microservice or feature toggle registered with the tenant.
type Application struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name,omitempty"`
	Key          string `json:"key,omitempty"`
	Type         string `json:"type,omitempty"`
	ContextPath  string `json:"contextPath,omitempty"`
	Availability string `json:"availability,omitempty"`
	Self         string `json:"self,omitempty"`
}

// applicationCollection mirrors the platform's list envelope.
type applicationCollection struct {
	Applications []Application `json:"applications"`
}

// Binary is the metadata of one attachment uploaded to an application, such
// as a hosted application's zip archive.
type Binary struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Length      int64  `json:"length,omitempty"`
	Self        string `json:"self,omitempty"`
}

// binaryCollection mirrors the platform's attachment list envelope.
type binaryCollection struct {
	Attachments []Binary `json:"attachments"`
}

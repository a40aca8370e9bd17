package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/cockroachdb/errors"
)

const contentTypeJSON = "application/json"

// NewJSONRequest builds a request with a JSON-encoded body.
// body may be nil for bodyless methods (GET, DELETE).
func NewJSONRequest(ctx context.Context, method, url string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}

	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	req.Header.Set("Accept", contentTypeJSON)

	return req, nil
}

// Part is a single part of a multipart/form-data request body.
// Filename and ContentType are optional; parts without a Filename are
// written as plain form fields.
type Part struct {
	Name        string
	Filename    string
	ContentType string
	Content     io.Reader
}

// JSONPart builds a form-field part holding a JSON document, as expected by
// the platform's binary endpoints for their metadata ("object") part.
func JSONPart(name string, v any) (Part, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return Part{}, errors.Wrapf(err, "failed to encode %q part", name)
	}
	return Part{Name: name, Content: bytes.NewReader(encoded)}, nil
}

// NewMultipartRequest builds a POST request with a multipart/form-data body
// assembled from the given parts. The body is buffered in memory: the
// platform's binary endpoints carry configuration artifacts, not bulk data.
func NewMultipartRequest(ctx context.Context, url string, parts ...Part) (*http.Request, error) {
	if len(parts) == 0 {
		return nil, errors.New("at least one part is required")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, part := range parts {
		if part.Name == "" {
			return nil, errors.New("part name is required")
		}

		var (
			dst io.Writer
			err error
		)
		switch {
		case part.Filename == "":
			dst, err = writer.CreateFormField(part.Name)
		case part.ContentType == "":
			dst, err = writer.CreateFormFile(part.Name, part.Filename)
		default:
			header := make(textproto.MIMEHeader)
			header.Set("Content-Disposition",
				`form-data; name="`+part.Name+`"; filename="`+part.Filename+`"`)
			header.Set("Content-Type", part.ContentType)
			dst, err = writer.CreatePart(header)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create %q part", part.Name)
		}

		if _, err := io.Copy(dst, part.Content); err != nil {
			return nil, errors.Wrapf(err, "failed to write %q part", part.Name)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to finalize multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", contentTypeJSON)

	return req, nil
}

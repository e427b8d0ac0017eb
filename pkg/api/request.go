package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gorilla/schema"
	"github.com/pkg/errors"
)

const (
	multipartBoundary = "AsakusaSatelliteClientBoundary"
	defaultMimeType   = "application/octet-stream"
)

var paramEncoder = schema.NewEncoder()

// Values returns the parameters of the endpoint, including api_key when
// the endpoint needs one and apiKey is set.
func (e Endpoint) Values(apiKey string) (url.Values, error) {
	values := url.Values{}
	if e.Params != nil {
		if err := paramEncoder.Encode(e.Params, values); err != nil {
			return nil, errors.Wrapf(err, "unable to encode %s parameters", e.Name)
		}
	}
	if e.RequiresKey && apiKey != "" {
		values.Set("api_key", apiKey)
	}
	return values, nil
}

// NewRequest builds the HTTP request for the endpoint relative to baseURL.
func (e Endpoint) NewRequest(ctx context.Context, baseURL *url.URL, apiKey string) (*http.Request, error) {
	values, err := e.Values(apiKey)
	if err != nil {
		return nil, err
	}

	u := baseURL.JoinPath(e.Path)

	var body io.Reader
	var contentType string
	switch {
	case e.Method == http.MethodGet:
		u.RawQuery = values.Encode()
	case len(e.Files) > 0:
		buf, ct, err := multipartBody(values, e.Files)
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	default:
		body = strings.NewReader(values.Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	req, err := http.NewRequestWithContext(ctx, e.Method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func multipartBody(values url.Values, files []string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.SetBoundary(multipartBoundary); err != nil {
		return nil, "", err
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range values[k] {
			if err := w.WriteField(k, v); err != nil {
				return nil, "", err
			}
		}
	}

	for i, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", errors.Wrapf(err, "unable to read attachment %s", path)
		}

		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		filename := AttachmentFilename(i, ext)

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files[%s]"; filename="%s"`, filename, filename))
		h.Set("Content-Type", AttachmentMimeType(ext, data))

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// AttachmentFilename is the name the server sees for the i-th uploaded file.
func AttachmentFilename(i int, ext string) string {
	seq := ""
	if i > 0 {
		seq = fmt.Sprintf("-%d", i)
	}
	return fmt.Sprintf("AsakusaSat%s.%s", seq, ext)
}

// AttachmentMimeType resolves the MIME type from the file extension, and
// from the content when the extension is not known.
func AttachmentMimeType(ext string, data []byte) string {
	if ext != "" {
		if t := baseMediaType(mime.TypeByExtension("." + ext)); t != "" {
			return t
		}
	}
	if t := baseMediaType(mimetype.Detect(data).String()); t != "" {
		return t
	}
	return defaultMimeType
}

func baseMediaType(t string) string {
	if t == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(t)
	if err != nil {
		return ""
	}
	return mt
}

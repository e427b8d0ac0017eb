package api

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestEndpointDescriptors(t *testing.T) {
	for _, test := range []struct {
		Endpoint    Endpoint
		Method      string
		Path        string
		RequiresKey bool
	}{
		{ServiceInfoEndpoint(), http.MethodGet, "/service/info.json", false},
		{UserEndpoint(), http.MethodGet, "/user.json", true},
		{RoomListEndpoint(), http.MethodGet, "/room/list.json", true},
		{PostMessageEndpoint("hi", "r1", nil), http.MethodPost, "/message.json", true},
		{MessageListEndpoint(MessageListParams{RoomID: "r1"}), http.MethodGet, "/message/list.json", true},
		{AddDeviceEndpoint([]byte{0xca, 0xfe}, "phone"), http.MethodPost, "/user/add_device", true},
	} {
		t.Run(test.Endpoint.Name, func(t *testing.T) {
			assert.Equal(t, test.Method, test.Endpoint.Method)
			assert.Equal(t, test.Path, test.Endpoint.Path)
			assert.Equal(t, test.RequiresKey, test.Endpoint.RequiresKey)
		})
	}
}

func TestValuesAPIKey(t *testing.T) {
	values, err := UserEndpoint().Values("secret")
	require.NoError(t, err)
	assert.Equal(t, "secret", values.Get("api_key"))

	values, err = UserEndpoint().Values("")
	require.NoError(t, err)
	assert.NotContains(t, values, "api_key")

	values, err = ServiceInfoEndpoint().Values("secret")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestMessageListOptionalParams(t *testing.T) {
	values, err := MessageListEndpoint(MessageListParams{RoomID: "r1"}).Values("")
	require.NoError(t, err)
	assert.Equal(t, url.Values{"room_id": {"r1"}}, values)

	values, err = MessageListEndpoint(MessageListParams{
		RoomID:  "r1",
		Count:   20,
		SinceID: "s",
		UntilID: "u",
		Order:   OrderDesc,
	}).Values("k")
	require.NoError(t, err)
	assert.Equal(t, url.Values{
		"room_id":  {"r1"},
		"count":    {"20"},
		"since_id": {"s"},
		"until_id": {"u"},
		"order":    {"desc"},
		"api_key":  {"k"},
	}, values)
}

func TestNewRequestGet(t *testing.T) {
	base := mustURL(t, "http://example.com/api/v1")
	req, err := MessageListEndpoint(MessageListParams{RoomID: "r1", Count: 5}).NewRequest(context.Background(), base, "k")
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/api/v1/message/list.json", req.URL.Path)
	assert.Equal(t, "r1", req.URL.Query().Get("room_id"))
	assert.Equal(t, "5", req.URL.Query().Get("count"))
	assert.Equal(t, "k", req.URL.Query().Get("api_key"))
	assert.Nil(t, req.Body)
}

func TestNewRequestForm(t *testing.T) {
	base := mustURL(t, "http://example.com/api/v1")
	req, err := AddDeviceEndpoint([]byte{0xca, 0xfe}, "phone").NewRequest(context.Background(), base, "k")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "application/x-www-form-urlencoded", req.Header.Get("Content-Type"))
	assert.Empty(t, req.URL.RawQuery)

	require.NoError(t, req.ParseForm())
	assert.Equal(t, "cafe", req.PostForm.Get("device"))
	assert.Equal(t, "phone", req.PostForm.Get("name"))
	assert.Equal(t, "k", req.PostForm.Get("api_key"))
}

func TestNewRequestMultipart(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "cat.png")
	txt := filepath.Join(dir, "notes.txt")
	odd := filepath.Join(dir, "blob.zzzunknown")
	require.NoError(t, os.WriteFile(png, []byte("\x89PNG\r\n\x1a\n0000"), 0o600))
	require.NoError(t, os.WriteFile(txt, []byte("hello"), 0o600))
	require.NoError(t, os.WriteFile(odd, []byte{0x00, 0x01, 0x02, 0xff}, 0o600))

	base := mustURL(t, "http://example.com/api/v1")
	req, err := PostMessageEndpoint("hi", "r1", []string{png, txt, odd}).NewRequest(context.Background(), base, "k")
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)
	assert.Equal(t, multipartBoundary, params["boundary"])

	reader := multipart.NewReader(req.Body, params["boundary"])
	fields := map[string]string{}
	type filePart struct{ filename, contentType, data string }
	var files []filePart
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(part)
		require.NoError(t, err)
		if part.FileName() == "" {
			fields[part.FormName()] = string(data)
			continue
		}
		assert.Equal(t, "files["+part.FileName()+"]", part.FormName())
		files = append(files, filePart{part.FileName(), part.Header.Get("Content-Type"), string(data)})
	}

	assert.Equal(t, map[string]string{"room_id": "r1", "message": "hi", "api_key": "k"}, fields)
	require.Len(t, files, 3)
	assert.Equal(t, filePart{"AsakusaSat.png", "image/png", "\x89PNG\r\n\x1a\n0000"}, files[0])
	assert.Equal(t, filePart{"AsakusaSat-1.txt", "text/plain", "hello"}, files[1])
	assert.Equal(t, "AsakusaSat-2.zzzunknown", files[2].filename)
	assert.Equal(t, "application/octet-stream", files[2].contentType)
}

func TestNewRequestMissingFile(t *testing.T) {
	base := mustURL(t, "http://example.com/api/v1")
	_, err := PostMessageEndpoint("hi", "r1", []string{filepath.Join(t.TempDir(), "missing.png")}).NewRequest(context.Background(), base, "k")
	assert.Error(t, err)
}

func TestAttachmentFilename(t *testing.T) {
	assert.Equal(t, "AsakusaSat.jpg", AttachmentFilename(0, "jpg"))
	assert.Equal(t, "AsakusaSat-1.jpg", AttachmentFilename(1, "jpg"))
	assert.Equal(t, "AsakusaSat-12.gif", AttachmentFilename(12, "gif"))
}

func TestAttachmentMimeType(t *testing.T) {
	assert.Equal(t, "image/jpeg", AttachmentMimeType("jpg", nil))
	assert.Equal(t, "image/gif", AttachmentMimeType("", []byte("GIF89a")))
	assert.Equal(t, "application/octet-stream", AttachmentMimeType("", []byte{0x00, 0x01, 0xfe}))
}

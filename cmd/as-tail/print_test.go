package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kabili207/asakusa-tools/pkg/api"
	"github.com/kabili207/asakusa-tools/pkg/models"
)

func testMessage() models.Message {
	return models.Message{
		ID:         "m1",
		Name:       "Alice",
		ScreenName: "alice",
		Body:       "look at this",
		HTMLBody:   "look at this",
		CreatedAt:  time.Date(2024, 3, 1, 12, 30, 0, 0, time.Local),
		Attachments: []models.Attachment{
			{URL: "/attachments/1/cat.png", Filename: "cat.png", ContentType: "image/png"},
			{URL: "https://cdn.example.org/doc.pdf", Filename: "doc.pdf", ContentType: "application/pdf"},
		},
	}
}

func TestPrinterText(t *testing.T) {
	var buf bytes.Buffer
	client := api.MustNewClient("https://as.example.com/", "key")

	require.NoError(t, newPrinter(&buf, client, false).Print(testMessage()))

	assert.Equal(t,
		"[2024-03-01 12:30:00] alice: look at this\n"+
			"    cat.png <https://as.example.com/attachments/1/cat.png>\n"+
			"    doc.pdf <https://cdn.example.org/doc.pdf>\n",
		buf.String())
}

func TestPrinterJSON(t *testing.T) {
	var buf bytes.Buffer
	client := api.MustNewClient("https://as.example.com/", "key")

	require.NoError(t, newPrinter(&buf, client, true).Print(testMessage()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "m1", got["id"])
	assert.Equal(t, "alice", got["screen_name"])
	assert.Len(t, got["attachment"], 2)
}

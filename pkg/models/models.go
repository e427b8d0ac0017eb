package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the format of every timestamp the server sends.
const TimeLayout = "2006-01-02 15:04:05-0700"

const okStatus = "ok"

// Many is an ordered list of models. Decoding fails as a whole when any
// element fails.
type Many[T any] []T

// Nothing is the result of endpoints whose body carries no payload.
type Nothing struct{}

func (n *Nothing) UnmarshalJSON([]byte) error {
	return nil
}

type ServiceInfo struct {
	MessagePusher MessagePusher `json:"message_pusher"`
}

type MessagePusher struct {
	Name  *string           `json:"name,omitempty"`
	Param map[string]string `json:"param"`
}

func (p MessagePusher) URL() (string, bool) {
	v, ok := p.Param["url"]
	return v, ok
}

func (p MessagePusher) Key() (string, bool) {
	v, ok := p.Param["key"]
	return v, ok
}

type User struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ScreenName      string `json:"screen_name"`
	ProfileImageURL string `json:"profile_image_url"`
}

type Room struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Owner   *User  `json:"user,omitempty"`
	Members []User `json:"members"`
}

// OwnerAndMembers returns the owner, when there is one, followed by the members.
func (r Room) OwnerAndMembers() []User {
	users := make([]User, 0, len(r.Members)+1)
	if r.Owner != nil {
		users = append(users, *r.Owner)
	}
	return append(users, r.Members...)
}

type PostMessage struct {
	MessageID string `json:"message_id"`
}

type Attachment struct {
	URL         string `json:"url"` // may be relative to the root URL
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

func (a Attachment) IsImage() bool {
	return strings.HasPrefix(a.ContentType, "image/")
}

func (a Attachment) String() string {
	return fmt.Sprintf("Attachment([%s] %s at %s)", a.ContentType, a.Filename, a.URL)
}

type Message struct {
	ID              string       `json:"id"`
	PrevID          *string      `json:"prev_id,omitempty"`
	Name            string       `json:"name"`
	ScreenName      string       `json:"screen_name"`
	Body            string       `json:"body"`
	HTMLBody        string       `json:"html_body"`
	CreatedAt       time.Time    `json:"created_at"`
	ProfileImageURL string       `json:"profile_image_url"`
	Attachments     []Attachment `json:"attachment,omitempty"`
}

func (m Message) ImageAttachments() []Attachment {
	var images []Attachment
	for _, a := range m.Attachments {
		if a.IsImage() {
			images = append(images, a)
		}
	}
	return images
}

func (m Message) String() string {
	prev := "<nil>"
	if m.PrevID != nil {
		prev = *m.PrevID
	}
	return fmt.Sprintf("Message([%s (prev = %s)] %s @%s(%s) ![%s]: %s %s)",
		m.ID, prev, m.CreatedAt.Format(TimeLayout), m.ScreenName, m.Name, m.ProfileImageURL, m.Body, m.HTMLBody)
}

func (m Message) MarshalJSON() ([]byte, error) {
	type alias Message
	return json.Marshal(struct {
		alias
		CreatedAt string `json:"created_at"`
	}{
		alias:     alias(m),
		CreatedAt: m.CreatedAt.Format(TimeLayout),
	})
}

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// ErrMalformedResponse is matched by every decode failure.
var ErrMalformedResponse = errors.New("malformed response")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	return v
}

// DecodeError reports which model could not be decoded and why.
type DecodeError struct {
	Model string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed %s: %v", e.Model, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool {
	return target == ErrMalformedResponse
}

func malformed(model string, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	return &DecodeError{Model: model, Err: err}
}

// Decode parses data as a T. Nothing is returned on failure, not even a
// partially filled value.
func Decode[T any](data []byte) (T, error) {
	var v T
	if _, ok := any(&v).(*Nothing); ok {
		return v, nil
	}
	if reflect.TypeOf(v).Kind() == reflect.Slice && isNull(data) {
		return v, malformed(typeName[T](), errors.New("expected an array, got null"))
	}
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, malformed(typeName[T](), err)
	}
	return v, nil
}

func typeName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

// checkRequired runs the validate tags of a wire struct. The wire structs
// use pointer fields so an absent key is told apart from an empty string.
func checkRequired(model string, wire any) error {
	if err := validate.Struct(wire); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &DecodeError{Model: model, Err: errors.Errorf("missing required field %q", verrs[0].Field())}
		}
		return malformed(model, err)
	}
	return nil
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

type serviceInfoWire struct {
	MessagePusher *MessagePusher `json:"message_pusher" validate:"required"`
}

func (s *ServiceInfo) UnmarshalJSON(data []byte) error {
	var w serviceInfoWire
	if err := json.Unmarshal(data, &w); err != nil {
		return malformed("ServiceInfo", err)
	}
	if err := checkRequired("ServiceInfo", w); err != nil {
		return err
	}
	*s = ServiceInfo{MessagePusher: *w.MessagePusher}
	return nil
}

type messagePusherWire struct {
	Name  *string            `json:"name"`
	Param *map[string]string `json:"param" validate:"required"`
}

func (p *MessagePusher) UnmarshalJSON(data []byte) error {
	var w messagePusherWire
	if err := json.Unmarshal(data, &w); err != nil {
		return malformed("MessagePusher", err)
	}
	if err := checkRequired("MessagePusher", w); err != nil {
		return err
	}
	*p = MessagePusher{Name: w.Name, Param: *w.Param}
	return nil
}

type userWire struct {
	ID              *string `json:"id" validate:"required"`
	Name            *string `json:"name" validate:"required"`
	ScreenName      *string `json:"screen_name" validate:"required"`
	ProfileImageURL *string `json:"profile_image_url" validate:"required"`
}

func (u *User) UnmarshalJSON(data []byte) error {
	var w userWire
	if err := json.Unmarshal(data, &w); err != nil {
		return malformed("User", err)
	}
	if err := checkRequired("User", w); err != nil {
		return err
	}
	*u = User{
		ID:              *w.ID,
		Name:            *w.Name,
		ScreenName:      *w.ScreenName,
		ProfileImageURL: *w.ProfileImageURL,
	}
	return nil
}

type roomWire struct {
	ID      *string `json:"id" validate:"required"`
	Name    *string `json:"name" validate:"required"`
	Owner   *User   `json:"user"`
	Members *[]User `json:"members" validate:"required"`
}

func (r *Room) UnmarshalJSON(data []byte) error {
	var w roomWire
	if err := json.Unmarshal(data, &w); err != nil {
		return malformed("Room", err)
	}
	if err := checkRequired("Room", w); err != nil {
		return err
	}
	*r = Room{ID: *w.ID, Name: *w.Name, Owner: w.Owner, Members: *w.Members}
	return nil
}

type postMessageWire struct {
	Status    *string         `json:"status"`
	Error     json.RawMessage `json:"error"`
	MessageID *string         `json:"message_id" validate:"required"`
}

func (p *PostMessage) UnmarshalJSON(data []byte) error {
	var w postMessageWire
	if err := json.Unmarshal(data, &w); err != nil {
		return malformed("PostMessage", err)
	}
	if len(w.Error) > 0 {
		var text string
		if err := json.Unmarshal(w.Error, &text); err != nil || text == "" {
			text = string(w.Error)
		}
		return &DecodeError{Model: "PostMessage", Err: errors.Errorf("server error: %s", text)}
	}
	if w.Status == nil || *w.Status != okStatus {
		status := "<missing>"
		if w.Status != nil {
			status = *w.Status
		}
		return &DecodeError{Model: "PostMessage", Err: errors.Errorf("status is %q", status)}
	}
	if err := checkRequired("PostMessage", w); err != nil {
		return err
	}
	*p = PostMessage{MessageID: *w.MessageID}
	return nil
}

type attachmentWire struct {
	URL         *string `json:"url" validate:"required"`
	Filename    *string `json:"filename" validate:"required"`
	ContentType *string `json:"content_type" validate:"required"`
}

func (a *Attachment) UnmarshalJSON(data []byte) error {
	var w attachmentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return malformed("Attachment", err)
	}
	if err := checkRequired("Attachment", w); err != nil {
		return err
	}
	*a = Attachment{URL: *w.URL, Filename: *w.Filename, ContentType: *w.ContentType}
	return nil
}

type messageWire struct {
	ID              *string      `json:"id" validate:"required"`
	PrevID          *string      `json:"prev_id"`
	Name            *string      `json:"name" validate:"required"`
	ScreenName      *string      `json:"screen_name" validate:"required"`
	Body            *string      `json:"body" validate:"required"`
	HTMLBody        *string      `json:"html_body" validate:"required"`
	CreatedAt       *string      `json:"created_at" validate:"required"`
	ProfileImageURL *string      `json:"profile_image_url" validate:"required"`
	Attachments     []Attachment `json:"attachment"`
}

func (m *Message) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return malformed("Message", errors.New("null message"))
	}
	var w messageWire
	if err := json.Unmarshal(data, &w); err != nil {
		return malformed("Message", err)
	}
	if err := checkRequired("Message", w); err != nil {
		return err
	}
	createdAt, err := time.Parse(TimeLayout, *w.CreatedAt)
	if err != nil {
		return malformed("Message", errors.Wrap(err, "created_at"))
	}
	// an empty list and no list are the same message
	if len(w.Attachments) == 0 {
		w.Attachments = nil
	}
	*m = Message{
		ID:              *w.ID,
		PrevID:          w.PrevID,
		Name:            *w.Name,
		ScreenName:      *w.ScreenName,
		Body:            *w.Body,
		HTMLBody:        *w.HTMLBody,
		CreatedAt:       createdAt,
		ProfileImageURL: *w.ProfileImageURL,
		Attachments:     w.Attachments,
	}
	return nil
}

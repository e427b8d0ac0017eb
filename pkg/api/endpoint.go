package api

import (
	"encoding/hex"
	"net/http"
)

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Endpoint describes a single API operation. Params is a struct carrying
// schema tags, or nil when the operation takes none.
type Endpoint struct {
	Name        string
	Method      string
	Path        string
	Params      any
	Files       []string
	RequiresKey bool

	order SortOrder
}

type postMessageParams struct {
	RoomID  string `schema:"room_id"`
	Message string `schema:"message"`
}

// MessageListParams selects a page of a room's messages. Zero values are
// left out of the request so the server applies its own defaults.
type MessageListParams struct {
	RoomID  string    `schema:"room_id"`
	Count   int       `schema:"count,omitempty"`
	SinceID string    `schema:"since_id,omitempty"`
	UntilID string    `schema:"until_id,omitempty"`
	Order   SortOrder `schema:"order,omitempty"`
}

type addDeviceParams struct {
	Device string `schema:"device"`
	Name   string `schema:"name"`
}

func ServiceInfoEndpoint() Endpoint {
	return Endpoint{Name: "service_info", Method: http.MethodGet, Path: "/service/info.json"}
}

func UserEndpoint() Endpoint {
	return Endpoint{Name: "user", Method: http.MethodGet, Path: "/user.json", RequiresKey: true}
}

func RoomListEndpoint() Endpoint {
	return Endpoint{Name: "room_list", Method: http.MethodGet, Path: "/room/list.json", RequiresKey: true}
}

// PostMessageEndpoint posts message to a room. Each entry of files is a
// local path that is uploaded along with the message.
func PostMessageEndpoint(message, roomID string, files []string) Endpoint {
	return Endpoint{
		Name:        "post_message",
		Method:      http.MethodPost,
		Path:        "/message.json",
		Params:      postMessageParams{RoomID: roomID, Message: message},
		Files:       files,
		RequiresKey: true,
	}
}

func MessageListEndpoint(params MessageListParams) Endpoint {
	return Endpoint{
		Name:        "message_list",
		Method:      http.MethodGet,
		Path:        "/message/list.json",
		Params:      params,
		RequiresKey: true,
		order:       params.Order,
	}
}

func AddDeviceEndpoint(deviceToken []byte, name string) Endpoint {
	return Endpoint{
		Name:        "add_device",
		Method:      http.MethodPost,
		Path:        "/user/add_device",
		Params:      addDeviceParams{Device: hex.EncodeToString(deviceToken), Name: name},
		RequiresKey: true,
	}
}

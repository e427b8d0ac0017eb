package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/kabili207/asakusa-tools/pkg/api"
	"github.com/kabili207/asakusa-tools/pkg/models"
	"github.com/kabili207/asakusa-tools/pkg/pusher"
)

type infoReport struct {
	Service models.ServiceInfo
	User    models.User
	Rooms   models.Many[models.Room]
}

// gatherInfo fetches the service info, user and room list concurrently.
func gatherInfo(ctx context.Context, client api.AsakusaClient) (*infoReport, error) {
	services := make(chan api.Response[models.ServiceInfo], 1)
	users := make(chan api.Response[models.User], 1)
	rooms := make(chan api.Response[models.Many[models.Room]], 1)

	api.Async(ctx, client.ServiceInfo, func(r api.Response[models.ServiceInfo]) { services <- r })
	api.Async(ctx, client.User, func(r api.Response[models.User]) { users <- r })
	api.Async(ctx, client.RoomList, func(r api.Response[models.Many[models.Room]]) { rooms <- r })

	s, u, r := <-services, <-users, <-rooms
	switch {
	case !s.Success():
		return nil, errors.Wrap(s.Err, "service info")
	case !u.Success():
		return nil, errors.Wrap(u.Err, "user")
	case !r.Success():
		return nil, errors.Wrap(r.Err, "room list")
	}
	return &infoReport{Service: s.Value, User: u.Value, Rooms: r.Value}, nil
}

func (r *infoReport) Write(w io.Writer) {
	engine := "none"
	if e, ok := pusher.EngineFor(r.Service.MessagePusher); ok {
		engine = e.String()
	} else if r.Service.MessagePusher.Name != nil {
		engine = *r.Service.MessagePusher.Name + " (unsupported)"
	}
	fmt.Fprintf(w, "Message pusher: %s\n", engine)
	fmt.Fprintf(w, "Signed in as:   %s (%s)\n", r.User.ScreenName, r.User.Name)

	fmt.Fprintf(w, "Rooms (%d):\n", len(r.Rooms))
	for _, room := range r.Rooms {
		names := make([]string, 0, len(room.Members)+1)
		for _, u := range room.OwnerAndMembers() {
			names = append(names, u.ScreenName)
		}
		fmt.Fprintf(w, "  %s  %s  [%s]\n", room.ID, room.Name, strings.Join(names, ", "))
	}
}

package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kabili207/asakusa-tools/pkg/api/mocks"
	"github.com/kabili207/asakusa-tools/pkg/models"
	"github.com/kabili207/asakusa-tools/pkg/pusher"
)

func keimaInfo() models.ServiceInfo {
	name := pusher.KeimaEngineName
	return models.ServiceInfo{MessagePusher: models.MessagePusher{
		Name:  &name,
		Param: map[string]string{"url": "https://keima.example.com", "key": "app-key"},
	}}
}

func TestGatherInfo(t *testing.T) {
	owner := models.User{ID: "u1", Name: "Alice", ScreenName: "alice"}
	client := mocks.NewAsakusaClient(t)
	client.On("ServiceInfo", mock.Anything).Return(keimaInfo(), nil)
	client.On("User", mock.Anything).Return(owner, nil)
	client.On("RoomList", mock.Anything).Return(models.Many[models.Room]{
		{ID: "r1", Name: "general", Owner: &owner, Members: []models.User{{ID: "u2", ScreenName: "bob"}}},
		{ID: "r2", Name: "public"},
	}, nil)

	report, err := gatherInfo(context.Background(), client)
	require.NoError(t, err)

	var buf bytes.Buffer
	report.Write(&buf)
	assert.Equal(t,
		"Message pusher: Engine(keima https://keima.example.com)\n"+
			"Signed in as:   alice (Alice)\n"+
			"Rooms (2):\n"+
			"  r1  general  [alice, bob]\n"+
			"  r2  public  []\n",
		buf.String())
}

func TestGatherInfoUnsupportedPusher(t *testing.T) {
	name := "pusher"
	report := &infoReport{Service: models.ServiceInfo{MessagePusher: models.MessagePusher{Name: &name}}}

	var buf bytes.Buffer
	report.Write(&buf)
	assert.Contains(t, buf.String(), "Message pusher: pusher (unsupported)\n")
}

func TestGatherInfoError(t *testing.T) {
	client := mocks.NewAsakusaClient(t)
	client.On("ServiceInfo", mock.Anything).Return(keimaInfo(), nil)
	client.On("User", mock.Anything).Return(models.User{}, errors.New("unauthorized"))
	client.On("RoomList", mock.Anything).Return(models.Many[models.Room]{}, nil)

	_, err := gatherInfo(context.Background(), client)
	assert.EqualError(t, err, "user: unauthorized")
}

package status

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rileyhilliard/perimeter/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotDecode(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCR   ControlRoom
		wantTemp *float64
		wantHum  *float64
		success  bool
	}{
		{
			name:     "full payload",
			body:     `{"status":"success","control_room":{"people_count":3,"door_open":1,"fence_alert":0},"sensors":{"temperature":21.5,"humidity":40.2}}`,
			wantCR:   ControlRoom{PeopleCount: 3, DoorOpen: 1, FenceAlert: 0},
			wantTemp: Float(21.5),
			wantHum:  Float(40.2),
			success:  true,
		},
		{
			name:    "missing sensors",
			body:    `{"status":"success","control_room":{"people_count":0,"door_open":0,"fence_alert":1},"sensors":{}}`,
			wantCR:  ControlRoom{FenceAlert: 1},
			success: true,
		},
		{
			name:    "float flags from influx",
			body:    `{"status":"success","control_room":{"people_count":4.0,"door_open":1.0,"fence_alert":0.0}}`,
			wantCR:  ControlRoom{PeopleCount: 4, DoorOpen: 1},
			success: true,
		},
		{
			name:    "bool flags",
			body:    `{"status":"success","control_room":{"door_open":true,"fence_alert":false}}`,
			wantCR:  ControlRoom{DoorOpen: 1},
			success: true,
		},
		{
			name:    "error tag",
			body:    `{"status":"error","message":"Unauthorized"}`,
			success: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var snap Snapshot
			require.NoError(t, json.Unmarshal([]byte(tt.body), &snap))

			assert.Equal(t, tt.success, snap.Success())
			assert.Equal(t, tt.wantCR, snap.ControlRoom)
			assert.Equal(t, tt.wantTemp, snap.Sensors.Temperature)
			assert.Equal(t, tt.wantHum, snap.Sensors.Humidity)
		})
	}
}

func TestControlRoomFlags(t *testing.T) {
	assert.True(t, ControlRoom{DoorOpen: 1}.DoorIsOpen())
	assert.False(t, ControlRoom{DoorOpen: 0}.DoorIsOpen())
	assert.False(t, ControlRoom{DoorOpen: 2}.DoorIsOpen(), "only exactly 1 counts as open")
	assert.True(t, ControlRoom{FenceAlert: 1}.FenceBreached())
	assert.False(t, ControlRoom{}.FenceBreached())
}

func TestSnapshotSuccess_Nil(t *testing.T) {
	var snap *Snapshot
	assert.False(t, snap.Success())
}

func TestClientFetch(t *testing.T) {
	var gotAccept, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","control_room":{"people_count":2,"door_open":0,"fence_alert":0},"sensors":{"temperature":24.1,"humidity":50}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/status", time.Second, WithUserAgent("perimeter-test"))
	assert.Equal(t, srv.URL+"/api/status", c.Endpoint())

	snap, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.True(t, snap.Success())
	assert.Equal(t, 2, snap.ControlRoom.PeopleCount)
	assert.InDelta(t, 24.1, *snap.Sensors.Temperature, 0.0001)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "perimeter-test", gotUA)
}

func TestClientFetch_UnauthorizedBodyIsNonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","message":"Unauthorized"}`))
	}))
	defer srv.Close()

	snap, err := NewClient(srv.URL, time.Second).Fetch(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.False(t, snap.Success())
	assert.Equal(t, "Unauthorized", snap.Message)
}

func TestClientFetch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		errMsg  string
	}{
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status":`))
			},
			errMsg: "isn't valid JSON",
		},
		{
			name: "server error with html body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(`<html>bad gateway</html>`))
			},
			errMsg: "502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			snap, err := NewClient(srv.URL, time.Second).Fetch(context.Background())
			require.Error(t, err)
			assert.Nil(t, snap)
			assert.True(t, errors.IsCode(err, errors.ErrFetch))
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestClientFetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrFetch))
	assert.Contains(t, err.Error(), "unreachable")
}

func TestClientFetch_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL, 0).Fetch(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

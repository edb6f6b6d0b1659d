package fleetservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

func TestClient_GetContainers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/carriers/7/containers", r.URL.Path)
		assert.Equal(t, "MSKU1234565,TGHU7654321", r.URL.Query().Get("numbers"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"number":"MSKU1234565","carrier_id":7,"status":"available"},
			{"number":"TGHU7654321","carrier_id":7,"status":"available"}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, noopLogger{})

	containers, err := client.GetContainers(context.Background(), 7, []string{"MSKU1234565", "TGHU7654321"})

	require.NoError(t, err)
	require.Len(t, containers, 2)
	assert.Equal(t, "MSKU1234565", containers[0].Number)
	assert.Equal(t, int64(7), containers[0].CarrierID)
}

func TestClient_GetContainers_PartialResultIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"number":"MSKU1234565","carrier_id":7,"status":"available"}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, noopLogger{})

	_, err := client.GetContainers(context.Background(), 7, []string{"MSKU1234565", "TGHU7654321"})

	assert.ErrorIs(t, err, ErrContainerNotFound)
}

func TestClient_GetContainers_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, noopLogger{})

	_, err := client.GetContainers(context.Background(), 7, []string{"MSKU1234565"})

	assert.ErrorIs(t, err, ErrContainerNotFound)
}

func TestClient_GetTruck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/carriers/7/trucks/42", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":42,"carrier_id":7,"license_plate":"AB1234CD","is_active":true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, noopLogger{})

	truck, err := client.GetTruck(context.Background(), 7, 42)

	require.NoError(t, err)
	assert.Equal(t, int64(42), truck.ID)
	assert.True(t, truck.IsActive)
}

func TestClient_GetTruck_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, noopLogger{})

	_, err := client.GetTruck(context.Background(), 7, 42)

	assert.ErrorIs(t, err, ErrTruckNotFound)
}

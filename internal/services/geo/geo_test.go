package geo

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient("test-key", srv.URL)
	return New(client, testLogger()), srv
}

func TestService_Geocode(t *testing.T) {
	var calls int
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/geocode/json", r.URL.Path)
		assert.Equal(t, "Parc Monceau, Paris", r.URL.Query().Get("address"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "Parc Monceau, 75008 Paris, France",
				"geometry": {"location": {"lat": 48.8797, "lng": 2.3089}}
			}]
		}`))
	})

	point, err := svc.Geocode(context.Background(), "Parc Monceau, Paris")

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.InDelta(t, 48.8797, point.Lat, 1e-6)
	assert.InDelta(t, 2.3089, point.Lng, 1e-6)
	assert.Equal(t, "Parc Monceau, 75008 Paris, France", point.Address)
}

func TestService_Geocode_BlankAddressSkipsCall(t *testing.T) {
	var calls int
	svc, _ := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Write([]byte(`{"status":"OK","results":[]}`))
	})

	point, err := svc.Geocode(context.Background(), "   ")

	require.NoError(t, err)
	assert.Zero(t, point)
	assert.Equal(t, 0, calls)
}

func TestService_Geocode_RemoteFailureDegrades(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	point, err := svc.Geocode(context.Background(), "somewhere")

	// Сбой провайдера — нулевой результат без ошибки.
	require.NoError(t, err)
	assert.Zero(t, point)
}

func TestService_Geocode_ZeroResults(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	})

	point, err := svc.Geocode(context.Background(), "nowhere at all")

	require.NoError(t, err)
	assert.Zero(t, point)
}

func TestService_ReverseGeocode(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "48.8797,2.3089", r.URL.Query().Get("latlng"))
		w.Write([]byte(`{
			"status": "OK",
			"results": [{"formatted_address": "Parc Monceau, 75008 Paris, France"}]
		}`))
	})

	address, err := svc.ReverseGeocode(context.Background(), 48.8797, 2.3089)

	require.NoError(t, err)
	assert.Equal(t, "Parc Monceau, 75008 Paris, France", address)
}

func TestService_ReverseGeocode_ZeroCoordinatesSkipCall(t *testing.T) {
	var calls int
	svc, _ := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
	})

	address, err := svc.ReverseGeocode(context.Background(), 0, 0)

	require.NoError(t, err)
	assert.Empty(t, address)
	assert.Equal(t, 0, calls)
}

func TestService_Distances_PartialElementFailure(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/distancematrix/json", r.URL.Path)
		w.Write([]byte(`{
			"status": "OK",
			"rows": [{
				"elements": [
					{"status": "OK", "distance": {"value": 5200}, "duration": {"value": 780}},
					{"status": "NOT_FOUND"}
				]
			}]
		}`))
	})

	matrix, err := svc.Distances(context.Background(), []string{"a"}, []string{"b", "c"})

	require.NoError(t, err)
	require.Len(t, matrix, 1)
	require.Len(t, matrix[0], 2)

	// Сбой одного элемента не портит остальные.
	assert.True(t, matrix[0][0].Known)
	assert.EqualValues(t, 5200, matrix[0][0].DistanceMeters)
	assert.EqualValues(t, 780, matrix[0][0].DurationSeconds)
	assert.False(t, matrix[0][1].Known)
}

func TestService_Distances_BatchFailureDegrades(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	matrix, err := svc.Distances(context.Background(), []string{"a"}, []string{"b"})

	require.NoError(t, err)
	assert.Nil(t, matrix)
}

func TestClient_MissingAPIKey(t *testing.T) {
	client := NewClient("", "https://geo.example")

	_, err := client.Geocode(context.Background(), "anywhere")

	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestClient_Raw_UnknownAction(t *testing.T) {
	client := NewClient("test-key", "https://geo.example")

	_, err := client.Raw(context.Background(), "teleport", nil)

	assert.Error(t, err)
}

package geocode_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"permata/pkg/geocode"

	"github.com/stretchr/testify/assert"
)

func nominatimStub(lat, lon string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"` + lat + `","lon":"` + lon + `"}]`))
	}
}

func TestForwardReturnsCoordinates(t *testing.T) {
	server := httptest.NewServer(nominatimStub("-6.2088", "106.8456"))
	defer server.Close()

	client := geocode.NewClient([]string{server.URL})
	result, err := client.Forward(context.Background(), "Jalan Sudirman, Jakarta")

	assert.NoError(t, err)
	assert.InDelta(t, -6.2088, result.Latitude, 0.0001)
	assert.InDelta(t, 106.8456, result.Longitude, 0.0001)
}

func TestForwardFallsBackToNextEndpoint(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	working := httptest.NewServer(nominatimStub("1.5", "2.5"))
	defer working.Close()

	client := geocode.NewClient([]string{broken.URL, working.URL})
	result, err := client.Forward(context.Background(), "anywhere")

	assert.NoError(t, err)
	assert.InDelta(t, 1.5, result.Latitude, 0.0001)
	assert.InDelta(t, 2.5, result.Longitude, 0.0001)
}

func TestForwardSkipsEndpointWithNoHits(t *testing.T) {
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer empty.Close()

	working := httptest.NewServer(nominatimStub("3.0", "4.0"))
	defer working.Close()

	client := geocode.NewClient([]string{empty.URL, working.URL})
	result, err := client.Forward(context.Background(), "somewhere obscure")

	assert.NoError(t, err)
	assert.InDelta(t, 3.0, result.Latitude, 0.0001)
}

func TestForwardAllEndpointsFailing(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()

	client := geocode.NewClient([]string{broken.URL, broken.URL})
	result, err := client.Forward(context.Background(), "anywhere")

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "all geocoding endpoints failed")
}

func TestForwardWithoutEndpoints(t *testing.T) {
	client := geocode.NewClient(nil)
	result, err := client.Forward(context.Background(), "anywhere")

	assert.Error(t, err)
	assert.Nil(t, result)
}

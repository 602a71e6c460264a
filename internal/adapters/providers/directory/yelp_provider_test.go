package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/diningconcierge/internal/domain/providers"
	apperrors "github.com/zatekoja/diningconcierge/pkg/errors"
)

func TestYelpProvider_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/businesses/search", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "italian restaurants", r.URL.Query().Get("term"))
		assert.Equal(t, "Manhattan, NY", r.URL.Query().Get("location"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "100", r.URL.Query().Get("offset"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"total": 1,
			"businesses": [{
				"id": "abc",
				"name": "Carbone",
				"review_count": 2500,
				"rating": 4.5,
				"coordinates": {"latitude": 40.72794, "longitude": -74.00003},
				"location": {"zip_code": "10012", "display_address": ["181 Thompson St", "New York, NY 10012"]}
			}]
		}`))
	}))
	defer server.Close()

	provider := NewYelpProviderWithOptions("test-key", server.URL, server.Client(), 0)
	businesses, err := provider.Search(context.Background(), providers.DirectoryQuery{
		Term:     "italian restaurants",
		Location: "Manhattan, NY",
		Offset:   100,
		Limit:    50,
	})

	require.NoError(t, err)
	require.Len(t, businesses, 1)
	assert.Equal(t, "abc", businesses[0].ID)
	assert.Equal(t, "4.5", businesses[0].Rating.String())
	assert.Equal(t, "40.72794", businesses[0].Coordinates.Latitude.String())
	assert.Equal(t, []string{"181 Thompson St", "New York, NY 10012"}, businesses[0].Location.DisplayAddress)
}

func TestYelpProvider_SearchErrors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
	}{
		{name: "Unauthorized", statusCode: http.StatusUnauthorized, body: `{"error": {"code": "TOKEN_INVALID"}}`},
		{name: "Server error", statusCode: http.StatusInternalServerError, body: "oops"},
		{name: "Malformed body", statusCode: http.StatusOK, body: "not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			provider := NewYelpProviderWithOptions("test-key", server.URL, server.Client(), 0)
			_, err := provider.Search(context.Background(), providers.DirectoryQuery{Term: "thai restaurants", Limit: 50})

			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
		})
	}
}

func TestYelpProvider_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	provider := NewYelpProviderWithOptions("test-key", url, nil, 0)
	_, err := provider.Search(context.Background(), providers.DirectoryQuery{Term: "thai restaurants", Limit: 50})

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
}

package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vastralabs/vastra-backend/pkg/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(config.GeocodeConfig{BaseURL: srv.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c
}

func TestLookupSuccess(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/pincode/110001", r.URL.Path)
		w.Write([]byte(`[{"Status":"Success","PostOffice":[{"Name":"Connaught Place","District":"New Delhi","State":"Delhi"}]}]`))
	})

	info, err := c.Lookup(context.Background(), "110001")
	require.NoError(t, err)
	assert.Equal(t, "Connaught Place", info.City)
	assert.Equal(t, "Delhi", info.State)
}

func TestLookupNotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[{"Status":"Error","PostOffice":null}]`))
	})

	_, err := c.Lookup(context.Background(), "999999")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLookupRejectsShortPincode(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {})
	_, err := c.Lookup(context.Background(), "1100")
	require.Error(t, err)
}

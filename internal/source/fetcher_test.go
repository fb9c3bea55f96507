package source

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesargomez89/menusync/internal/logger"
)

const menuURL = "https://menus.test/todaysmenu.pdf"

func newTestFetcher(transport http.RoundTripper) *Fetcher {
	return NewFetcher(logger.Discard(),
		WithHTTPClient(&http.Client{Transport: transport}),
		WithRetry(2, time.Millisecond, 2*time.Millisecond),
	)
}

func TestFetcher_Fetch(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder(http.MethodGet, menuURL, httpmock.NewStringResponder(http.StatusOK, "ENTREE\nSamosa $8.00"))

	data, err := newTestFetcher(transport).Fetch(context.Background(), menuURL)

	require.NoError(t, err)
	assert.Equal(t, "ENTREE\nSamosa $8.00", string(data))
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestFetcher_NotFoundIsNotRetried(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder(http.MethodGet, menuURL, httpmock.NewStringResponder(http.StatusNotFound, "missing"))

	_, err := newTestFetcher(transport).Fetch(context.Background(), menuURL)

	var statusErr StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestFetcher_ServerErrorsAreRetried(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder(http.MethodGet, menuURL, httpmock.NewStringResponder(http.StatusBadGateway, "upstream"))

	_, err := newTestFetcher(transport).Fetch(context.Background(), menuURL)

	var statusErr StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Equal(t, 3, transport.GetTotalCallCount())
}

func TestFetcher_EmptyBody(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder(http.MethodGet, menuURL, httpmock.NewStringResponder(http.StatusOK, ""))

	_, err := newTestFetcher(transport).Fetch(context.Background(), menuURL)

	assert.True(t, errors.Is(err, ErrEmptySource))
}

func TestFetcher_NetworkError(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder(http.MethodGet, menuURL, httpmock.NewErrorResponder(errors.New("connection refused")))

	_, err := newTestFetcher(transport).Fetch(context.Background(), menuURL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch source")
}

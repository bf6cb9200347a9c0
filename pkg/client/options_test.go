package client

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/monitoring/logging"
)

func TestOptions_Apply(t *testing.T) {
	hc := &http.Client{Timeout: 7 * time.Second}
	logger := logging.NewNopLogger()

	c, err := New("http://localhost",
		WithHTTPClient(hc),
		WithLogger(logger),
		WithTimeout(3*time.Second),
		WithUserAgent("ua"),
		WithHeader("X-GitHub-Api-Version", "2022-11-28"),
		WithAuthorization("Token", "abc"),
	)
	require.NoError(t, err)

	assert.Same(t, hc, c.httpClient)
	assert.Equal(t, 7*time.Second, c.httpClient.Timeout, "explicit client timeout is kept")
	assert.Equal(t, 3*time.Second, c.timeout)
	assert.Equal(t, "ua", c.userAgent)
	assert.Equal(t, "2022-11-28", c.header.Get("X-GitHub-Api-Version"))
	assert.Equal(t, "Token abc", c.header.Get("Authorization"))
}

func TestOptions_IgnoreZeroValues(t *testing.T) {
	c, err := New("http://localhost",
		WithHTTPClient(nil),
		WithLogger(nil),
		WithTimeout(0),
		WithUserAgent(""),
	)
	require.NoError(t, err)

	assert.NotNil(t, c.httpClient)
	assert.NotNil(t, c.logger)
	assert.Equal(t, 30*time.Second, c.timeout)
	assert.Contains(t, c.userAgent, Version)
}

//Personal.AI order the ending

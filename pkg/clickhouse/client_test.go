package clickhouse

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	cfg := defaultConfig()
	for _, opt := range []ClientOption{
		WithHost("ch.local"),
		WithPort(9440),
		WithDatabase("nycalc"),
		WithCredentials("reader", "p@ss"),
		WithTimeouts(2*time.Second, 15*time.Second),
		WithMaxExecutionTime(90 * time.Second),
		WithCompression(true),
	} {
		opt(&cfg)
	}

	u, err := url.Parse(buildDSN(cfg))
	require.NoError(t, err)

	assert.Equal(t, "clickhouse", u.Scheme)
	assert.Equal(t, "ch.local:9440", u.Host)
	assert.Equal(t, "/nycalc", u.Path)
	assert.Equal(t, "reader", u.User.Username())
	pw, _ := u.User.Password()
	assert.Equal(t, "p@ss", pw)

	q := u.Query()
	assert.Equal(t, "2s", q.Get("dial_timeout"))
	assert.Equal(t, "15s", q.Get("read_timeout"))
	assert.Equal(t, "90", q.Get("max_execution_time"))
	assert.Equal(t, "lz4", q.Get("compress"))
}

func TestBuildDSN_HTTP(t *testing.T) {
	cfg := defaultConfig()
	WithHost("localhost")(&cfg)
	WithHTTP(true)(&cfg)
	WithPort(8123)(&cfg)

	u, err := url.Parse(buildDSN(cfg))
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
	assert.Equal(t, "localhost:8123", u.Host)
}

func TestNewClient_RequiresHost(t *testing.T) {
	_, err := NewClient()
	assert.ErrorContains(t, err, "host is required")
}

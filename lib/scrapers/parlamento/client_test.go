package parlamento

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClientGet(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	c := NewClient(ClientOptions{Politeness: time.Millisecond * 50})
	ctx := context.Background()

	body, err := c.get(ctx, server.URL)
	require.NoError(t, err)
	require.Equal(t, "<html>ok</html>", body)

	// the second request waits out the politeness delay
	start := time.Now()
	_, err = c.get(ctx, server.URL)
	require.NoError(t, err)
	require.GreaterOrEqual(t, time.Since(start), time.Millisecond*50)

	// 4xx surfaces as an error without retries
	before := hits
	_, err = c.get(ctx, server.URL+"/missing")
	require.Error(t, err)
	require.Equal(t, before+1, hits)
}

func TestClientGetCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	c := NewClient(ClientOptions{Politeness: time.Second * 10})
	ctx := context.Background()

	_, err := c.get(ctx, server.URL)
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = c.get(cancelled, server.URL)
	require.ErrorIs(t, err, context.Canceled)
}

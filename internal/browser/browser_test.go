package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	if _, found := launcher.LookPath(); !found {
		t.Skip("no Chrome or Chromium installed")
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><div id="app"></div><script>
			document.getElementById("app").innerHTML = '<form id="late"><input name="email"></form>';
		</script></body></html>`))
	}))
	defer ts.Close()

	markup, err := Snapshot(context.Background(), ts.URL, Options{Timeout: 20 * time.Second})
	require.NoError(t, err)
	assert.Contains(t, markup, `<form id="late">`, "forms rendered by scripts are captured")
}

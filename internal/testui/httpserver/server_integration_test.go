package httpserver_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rbrinkke/testing-ui/internal/testui/pages"
	"github.com/rbrinkke/testing-ui/internal/testui/testutil"
)

func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func TestPagesRenderWithTitle(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)

	for _, page := range pages.Table() {
		page := page
		t.Run(page.Route, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/test" + page.Route)
			require.NoError(t, err)
			body := testutil.ReadBody(t, resp)

			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))

			doc := testutil.ParseHTML(t, body)
			require.Equal(t, page.Title, testutil.Title(doc))
			require.Equal(t, page.Title, strings.TrimSpace(doc.Find("h1").First().Text()))
		})
	}
}

func TestPagesRenderIdempotently(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)

	for _, page := range pages.Table() {
		url := ts.URL + "/test" + page.Route

		first, err := http.Get(url)
		require.NoError(t, err)
		firstBody := testutil.ReadBody(t, first)

		second, err := http.Get(url)
		require.NoError(t, err)
		secondBody := testutil.ReadBody(t, second)

		require.Equal(t, http.StatusOK, first.StatusCode)
		require.Equal(t, http.StatusOK, second.StatusCode)
		require.Equal(t, firstBody, secondBody, "route %s", page.Route)
	}
}

func TestUndefinedPathsReturn404(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)

	for _, path := range []string{"/test/unknown", "/test/notifications/archive", "/test", "/other"} {
		resp, err := noRedirectClient().Get(ts.URL + path)
		require.NoError(t, err)
		testutil.ReadBody(t, resp)
		require.Equal(t, http.StatusNotFound, resp.StatusCode, "path %s", path)
	}
}

func TestWrongMethodReturns405(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)

	resp, err := http.Post(ts.URL+"/test/auth", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	testutil.ReadBody(t, resp)
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHeadServesPages(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)

	resp, err := http.Head(ts.URL + "/test/notifications/live")
	require.NoError(t, err)
	body := testutil.ReadBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))
	require.Empty(t, body)
}

func TestTrailingSlashRedirects(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)

	resp, err := noRedirectClient().Get(ts.URL + "/test/login/")
	require.NoError(t, err)
	testutil.ReadBody(t, resp)
	require.Equal(t, http.StatusMovedPermanently, resp.StatusCode)
	require.True(t, strings.HasSuffix(resp.Header.Get("Location"), "/test/login"), "location %q", resp.Header.Get("Location"))
}

func TestRequestObjectReachesTemplate(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)

	resp, err := http.Get(ts.URL + "/test/notifications")
	require.NoError(t, err)
	doc := testutil.ParseHTML(t, testutil.ReadBody(t, resp))

	path, ok := doc.Find("body").Attr("data-path")
	require.True(t, ok)
	require.Equal(t, "/test/notifications", path)
}

func TestCustomPrefix(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t, testutil.WithPrefix("/ui/"))

	resp, err := http.Get(ts.URL + "/ui/auth")
	require.NoError(t, err)
	testutil.ReadBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/test/auth")
	require.NoError(t, err)
	testutil.ReadBody(t, resp)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	body := testutil.ReadBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", string(body))
}

func TestRequestsAreLogged(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	ts := testutil.NewServer(t, testutil.WithLogger(zap.New(core)))

	resp, err := http.Get(ts.URL + "/test/auth")
	require.NoError(t, err)
	testutil.ReadBody(t, resp)

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "/test/auth", fields["path"])
	require.Equal(t, "/test/auth", fields["route"])
	require.EqualValues(t, http.StatusOK, fields["status"])
	require.NotEmpty(t, fields["request_id"])
}

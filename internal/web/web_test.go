package web_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/quailholm/wolfgame-go/internal/factory"
	"github.com/quailholm/wolfgame-go/internal/web"
)

// webTestServer drives the web console like one browser would: it holds a
// cookie jar, so a second player is a second webTestServer sharing the same
// underlying app
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.App
	cookies *cookieJar
}

// newWebTestServer creates a test server with all dependencies wired
func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	router := web.NewRouter(web.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		Registry:       app.Registry,
		GameController: app.GameController,
		HubManager:     app.HubManager,
	})

	return &webTestServer{
		t:       t,
		handler: router,
		app:     app,
		cookies: newCookieJar(),
	}
}

// newBrowser returns a fresh cookie jar against the same server, which is
// how a second player shows up
func (ts *webTestServer) newBrowser() *webTestServer {
	return &webTestServer{
		t:       ts.t,
		handler: ts.handler,
		app:     ts.app,
		cookies: newCookieJar(),
	}
}

// request makes an HTTP request and returns the response
func (ts *webTestServer) request(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	ts.cookies.addTo(req)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	ts.cookies.extract(rr)

	return rr
}

// get makes a GET request
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil)
}

// post makes a POST request with form data
func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form)
}

// parseHTML parses the response body as HTML
func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

// cookieJar maintains cookies across requests (like a browser would)
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{
		cookies: make(map[string]*http.Cookie),
	}
}

// addTo adds all cookies to the request
func (j *cookieJar) addTo(req *http.Request) {
	for _, cookie := range j.cookies {
		req.AddCookie(cookie)
	}
}

// extract extracts Set-Cookie headers from response
func (j *cookieJar) extract(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			// Cookie being deleted
			delete(j.cookies, cookie.Name)
		} else {
			j.cookies[cookie.Name] = cookie
		}
	}
}

// hasSession returns true if the session cookie is set
func (j *cookieJar) hasSession() bool {
	_, ok := j.cookies["session"]
	return ok
}

// Helper functions for common test operations

// createRoom opens a room as moderator and returns the room code
func (ts *webTestServer) createRoom(moderatorName string) string {
	ts.t.Helper()
	form := url.Values{"moderator_name": {moderatorName}}
	rr := ts.post("/rooms", form)
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "Expected redirect after room creation")
	require.True(ts.t, ts.cookies.hasSession(), "Expected session cookie to be set")

	location := rr.Header().Get("Location")
	require.Contains(ts.t, location, "/rooms/", "Expected redirect to room page")

	parts := strings.Split(location, "/rooms/")
	require.Len(ts.t, parts, 2, "Expected location to contain /rooms/{code}")
	return parts[1]
}

// joinRoom takes a seat in a room by code
func (ts *webTestServer) joinRoom(code, displayName string) {
	ts.t.Helper()
	form := url.Values{"code": {code}, "display_name": {displayName}}
	rr := ts.post("/rooms/join", form)
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "Expected redirect after joining room")
	require.Equal(ts.t, "/rooms/"+code, rr.Header().Get("Location"),
		"Expected redirect into the room after joining")
}

// roomDoc fetches and parses the room page
func (ts *webTestServer) roomDoc(code string) *goquery.Document {
	ts.t.Helper()
	rr := ts.get("/rooms/" + code)
	require.Equal(ts.t, http.StatusOK, rr.Code, "Expected room page to render")
	return parseHTML(rr.Body)
}

// ownRole reads the viewer's role off their room page. Living players see
// only their own card, so the page carries at most one role span.
func (ts *webTestServer) ownRole(code string) string {
	ts.t.Helper()
	doc := ts.roomDoc(code)
	return strings.TrimSpace(doc.Find("span.role").First().Text())
}

// followRedirect follows a redirect and returns the response
func (ts *webTestServer) followRedirect(rr *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	ts.t.Helper()
	location := rr.Header().Get("Location")
	require.NotEmpty(ts.t, location, "Expected Location header for redirect")
	return ts.get(location)
}

// Assertion helpers

// assertContainsElement asserts that the document contains an element matching the selector
func assertContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
	}
}

// assertNotContainsElement asserts that the document does not contain an element matching the selector
func assertNotContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() > 0 {
		t.Errorf("Expected NOT to find element matching %q, but found %d", selector, doc.Find(selector).Length())
	}
}

// assertContainsText asserts that the element matching the selector contains the text
func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	el := doc.Find(selector)
	if el.Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
		return
	}
	if !strings.Contains(el.Text(), text) {
		t.Errorf("Expected element %q to contain %q, but got %q", selector, text, el.Text())
	}
}

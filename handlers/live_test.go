package handlers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (a *testApp) dialLive(t *testing.T, token string) *websocket.Conn {
	t.Helper()
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	url := "ws" + strings.TrimPrefix(a.srv.URL, "http") + "/ws/session"
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) LiveFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f LiveFrame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestLive_RedirectsWithoutSession(t *testing.T) {
	app := newTestApp(t)
	conn := app.dialLive(t, "")

	f := readFrame(t, conn)
	assert.Equal(t, "redirect", f.Type)
	assert.Equal(t, "/", f.To)
}

func TestLive_IdentityPrefsAndSignOut(t *testing.T) {
	app := newTestApp(t)
	token := app.apiToken(t, "lena@example.com")
	conn := app.dialLive(t, token)

	f := readFrame(t, conn)
	require.Equal(t, "identity", f.Type)
	assert.Equal(t, "lena@example.com", f.Email)
	require.NotNil(t, f.Prefs)
	assert.False(t, f.Prefs.DarkMode)

	require.NoError(t, conn.WriteJSON(LiveCommand{Type: "toggle_dark_mode"}))
	f = readFrame(t, conn)
	require.Equal(t, "prefs", f.Type)
	assert.True(t, f.Prefs.DarkMode)

	require.NoError(t, conn.WriteJSON(LiveCommand{Type: "dance"}))
	f = readFrame(t, conn)
	assert.Equal(t, "error", f.Type)
	assert.Equal(t, "Unknown command.", f.Message)

	require.NoError(t, conn.WriteJSON(LiveCommand{Type: "signout"}))
	f = readFrame(t, conn)
	assert.Equal(t, "redirect", f.Type)
	assert.Equal(t, "/", f.To)

	resp, _ := app.api(t, token, http.MethodGet, "/api/session", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLive_FollowsOtherTabs(t *testing.T) {
	app := newTestApp(t)
	token := app.apiToken(t, "max@example.com")
	conn := app.dialLive(t, token)
	require.Equal(t, "identity", readFrame(t, conn).Type)

	resp, _ := app.api(t, token, http.MethodPut, "/api/prefs", map[string]bool{"sidebar_collapsed": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	f := readFrame(t, conn)
	require.Equal(t, "prefs", f.Type)
	assert.True(t, f.Prefs.SidebarCollapsed)

	// Another user's changes are not pushed here.
	other := app.apiToken(t, "nina@example.com")
	resp, _ = app.api(t, other, http.MethodPut, "/api/prefs", map[string]bool{"dark_mode": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.api(t, token, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	f = readFrame(t, conn)
	assert.Equal(t, "redirect", f.Type, "the next frame is the redirect, not the other user's prefs")
}

func TestLive_TerminatedFromAnotherDevice(t *testing.T) {
	app := newTestApp(t)
	phone := app.apiToken(t, "omar@example.com")
	laptop := app.apiToken(t, "omar@example.com")
	conn := app.dialLive(t, phone)
	require.Equal(t, "identity", readFrame(t, conn).Type)

	resp, body := app.api(t, laptop, http.MethodPost, "/api/sessions/terminate-all", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, body["terminated"])

	f := readFrame(t, conn)
	assert.Equal(t, "redirect", f.Type)
}

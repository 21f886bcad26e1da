// handlers/live.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"finlit-platform/auth"
	"finlit-platform/guard"
	"finlit-platform/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// The default origin check only accepts same-host pages, which is what the
// layout script is.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// LiveFrame is pushed to an open page.
type LiveFrame struct {
	Type      string              `json:"type"`
	To        string              `json:"to,omitempty"`
	Email     string              `json:"email,omitempty"`
	SubjectID string              `json:"subject_id,omitempty"`
	Prefs     *models.Preferences `json:"prefs,omitempty"`
	Message   string              `json:"message,omitempty"`
}

// LiveCommand is sent by an open page.
type LiveCommand struct {
	Type string `json:"type"`
}

// outbox queues frames from guard and prefs callbacks without ever blocking them.
type outbox struct {
	mu     sync.Mutex
	frames []LiveFrame
	wake   chan struct{}
}

func newOutbox() *outbox {
	return &outbox{wake: make(chan struct{}, 1)}
}

func (o *outbox) push(f LiveFrame) {
	o.mu.Lock()
	o.frames = append(o.frames, f)
	o.mu.Unlock()
	select {
	case o.wake <- struct{}{}:
	default:
	}
}

func (o *outbox) take() []LiveFrame {
	o.mu.Lock()
	defer o.mu.Unlock()
	frames := o.frames
	o.frames = nil
	return frames
}

// LiveSession keeps an open page in step with its session: the page learns who
// is signed in, is told to leave when the session ends anywhere, and sees
// preference changes made from any of the viewer's tabs.
func LiveSession(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			env.logger().Debug("websocket upgrade failed", zap.Error(err))
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		out := newOutbox()
		g := guard.New(env.client(r), guard.Options{
			Logger: env.logger(),
			OnAuthenticated: func(s models.Session) {
				p := env.Prefs.Get(s.SubjectID)
				out.push(LiveFrame{Type: "identity", Email: s.Email, SubjectID: s.SubjectID, Prefs: &p})
			},
			OnUnauthenticated: func() {
				out.push(LiveFrame{Type: "redirect", To: "/"})
			},
		})

		stopPrefs := env.Prefs.Subscribe(func(subjectID string, p models.Preferences) {
			if s, ok := g.Session(); ok && s.SubjectID == subjectID {
				out.push(LiveFrame{Type: "prefs", Prefs: &p})
			}
		})
		defer stopPrefs()

		g.Start(ctx)
		defer func() {
			g.Close()
			<-g.Done()
		}()

		writerDone := make(chan struct{})
		go func() {
			defer close(writerDone)
			env.writeLive(ctx, conn, out)
		}()

		env.readLive(ctx, conn, g, out)
		cancel()
		<-writerDone
	}
}

func (env *Env) writeLive(ctx context.Context, conn *websocket.Conn, out *outbox) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
			conn.Close()
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				return
			}
		case <-out.wake:
			for _, f := range out.take() {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(f); err != nil {
					conn.Close()
					return
				}
				if f.Type == "redirect" {
					// The page is leaving; closing unblocks the reader.
					conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"), time.Now().Add(writeWait))
					conn.Close()
					return
				}
			}
		}
	}
}

func (env *Env) readLive(ctx context.Context, conn *websocket.Conn, g *guard.Guard, out *outbox) {
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				env.logger().Debug("live session closed", zap.Error(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		var cmd LiveCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			out.push(LiveFrame{Type: "error", Message: "Invalid command."})
			continue
		}

		switch cmd.Type {
		case "signout":
			// The redirect frame arrives through the guard once the session is gone.
			if err := g.SignOut(ctx); err != nil {
				out.push(LiveFrame{Type: "error", Message: auth.Message(err)})
			}
		case "toggle_dark_mode":
			if s, ok := g.Session(); ok {
				env.Prefs.ToggleDarkMode(s.SubjectID)
			}
		case "toggle_sidebar":
			if s, ok := g.Session(); ok {
				env.Prefs.ToggleSidebar(s.SubjectID)
			}
		default:
			out.push(LiveFrame{Type: "error", Message: "Unknown command."})
		}
	}
}

package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"task-tracker-api/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	feedBuffer     = 256
	feedWriteWait  = 5 * time.Second
	feedPongWait   = 60 * time.Second
	feedPingPeriod = feedPongWait / 2
)

// sessionFeed streams one session's events to one websocket connection.
// Every frame is written by run, so hub broadcasts from concurrent requests
// never touch the connection directly.
type sessionFeed struct {
	conn    *websocket.Conn
	outbox  chan []byte
	closing chan struct{}
	once    sync.Once
}

func newSessionFeed(conn *websocket.Conn) *sessionFeed {
	return &sessionFeed{
		conn:    conn,
		outbox:  make(chan []byte, feedBuffer),
		closing: make(chan struct{}),
	}
}

// Send queues message without blocking. It reports false once the feed is
// closed or when a slow reader has let the queue fill up.
func (f *sessionFeed) Send(message []byte) bool {
	select {
	case <-f.closing:
		return false
	default:
	}
	select {
	case f.outbox <- message:
		return true
	default:
		return false
	}
}

// Close asks run to flush what is queued, say goodbye and hang up.
func (f *sessionFeed) Close() {
	f.once.Do(func() { close(f.closing) })
}

func (f *sessionFeed) write(kind int, payload []byte) error {
	if err := f.conn.SetWriteDeadline(time.Now().Add(feedWriteWait)); err != nil {
		return err
	}
	return f.conn.WriteMessage(kind, payload)
}

// run is the only writer on the connection.
func (f *sessionFeed) run() {
	ticker := time.NewTicker(feedPingPeriod)
	defer func() {
		ticker.Stop()
		f.conn.Close()
	}()

	for {
		select {
		case msg := <-f.outbox:
			if err := f.write(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := f.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-f.closing:
			if !f.flush() {
				return
			}
			bye := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended")
			_ = f.write(websocket.CloseMessage, bye)
			return
		}
	}
}

// flush writes whatever is still queued. session_ended is queued before
// Close, so it goes out ahead of the close frame.
func (f *sessionFeed) flush() bool {
	for {
		select {
		case msg := <-f.outbox:
			if err := f.write(websocket.TextMessage, msg); err != nil {
				return false
			}
		default:
			return true
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers are admitted by the session token, not by origin
	CheckOrigin: func(*http.Request) bool { return true },
}

// WebSocket streams the current session's change events. The connection is
// closed with a normal closure frame when the session ends or expires.
func (h *Handler) WebSocket(c *gin.Context) {
	sessionID := c.GetString(middleware.SessionIDKey)
	if sessionID == "" || h.hub == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session has ended"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("websocket upgrade error:", err)
		return
	}

	feed := newSessionFeed(conn)
	writerDone := make(chan struct{})
	go func() {
		feed.run()
		close(writerDone)
	}()
	h.hub.Register(sessionID, feed)

	// Clients only listen; reading keeps pongs and the close handshake flowing
	conn.SetReadLimit(1024)
	if err := conn.SetReadDeadline(time.Now().Add(feedPongWait)); err != nil {
		log.Println("websocket read deadline:", err)
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(feedPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.hub.Unregister(sessionID, feed)
	feed.Close()
	<-writerDone
}

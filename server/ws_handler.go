package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	errs "github.com/techagentng/cleancity/errors"
	"github.com/techagentng/cleancity/models"
	"github.com/techagentng/cleancity/realtime"
	"github.com/techagentng/cleancity/server/response"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers don't send useful origins from the mobile webview; auth
	// already happened in the middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// handleTaskFeed streams assignment events to the connected worker. The
// notifier subscription lives exactly as long as the socket: closing
// the dashboard closes the connection, which stops the notifier.
func (s *Server) handleTaskFeed() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}
		if !user.IsWorker() {
			response.JSON(c, "only workers receive task assignments", http.StatusForbidden, nil, errs.New("forbidden", http.StatusForbidden))
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("Error upgrading task feed for %s: %v", user.UserID, err)
			return
		}

		var writeMu sync.Mutex
		writeJSON := func(v interface{}) error {
			writeMu.Lock()
			defer writeMu.Unlock()
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			return conn.WriteJSON(v)
		}

		notifier := realtime.NewTaskNotifier(s.Hub, user.UserID, func(report models.WasteReport) {
			if err := writeJSON(report); err != nil {
				log.Printf("Error writing assignment to worker %s: %v", user.UserID, err)
			}
		})

		done := make(chan struct{})

		// Reader loop only exists to notice the peer going away.
		go func() {
			defer close(done)
			conn.SetReadDeadline(time.Now().Add(pongWait))
			conn.SetPongHandler(func(string) error {
				conn.SetReadDeadline(time.Now().Add(pongWait))
				return nil
			})
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(pingPeriod)
		defer func() {
			ticker.Stop()
			notifier.Stop()
			conn.Close()
		}()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				writeMu.Lock()
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				err := conn.WriteMessage(websocket.PingMessage, nil)
				writeMu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}
}

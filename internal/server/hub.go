package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"OrbWatch/internal/view"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// runHub owns the client set. Slow clients are dropped rather than
// allowed to block the broadcast.
func (s *Server) runHub() {
	for {
		select {
		case client := <-s.register:
			s.clients[client] = struct{}{}
			s.connections.Add(1)
			client.send <- s.board.Snapshot()

		case client := <-s.unregister:
			s.drop(client)

		case snap := <-s.broadcast:
			for client := range s.clients {
				select {
				case client.send <- snap:
				default:
					log.Println("[WARN] websocket client too slow, disconnecting")
					s.drop(client)
				}
			}

		case <-s.quit:
			for client := range s.clients {
				s.drop(client)
			}
			return
		}
	}
}

func (s *Server) drop(client *Client) {
	if _, ok := s.clients[client]; ok {
		delete(s.clients, client)
		close(client.send)
		s.connections.Add(-1)
	}
}

// publish is the board subscriber; it must not block.
func (s *Server) publish(snap view.Snapshot) {
	select {
	case s.broadcast <- snap:
	default:
		log.Println("[WARN] websocket broadcast queue full, dropping update")
	}
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WARN] websocket upgrade: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		send: make(chan view.Snapshot, 16),
	}

	select {
	case s.register <- client:
	case <-s.quit:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

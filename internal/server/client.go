package server

import (
	"encoding/json"
	"time"

	"jungle-server/internal/rooms"
	"jungle-server/pkg/api"
	"jungle-server/pkg/utils"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client - посредник между Websocket и протоколом комнат.
type Client struct {
	ID   rooms.ConnID
	srv  *Server
	Conn *websocket.Conn
	// Send - личный почтовый ящик из Hub. Закрывается при Unregister.
	Send <-chan api.Envelope
	log  *logrus.Entry
}

func NewClient(srv *Server, conn *websocket.Conn) *Client {
	id := rooms.ConnID(utils.GenerateID())
	return &Client{
		ID:   id,
		srv:  srv,
		Conn: conn,
		Send: srv.Hub.Register(id),
		log:  srv.log.WithField("conn", id),
	}
}

// readPump читает кадры от клиента и отдает их диспетчеру.
// Кадры одного соединения обрабатываются строго по очереди.
func (c *Client) readPump() {
	defer func() {
		// Сначала комната: соседу уходит PLAYER_DISCONNECT
		c.srv.disconnect(c.ID)
		c.srv.Hub.Unregister(c.ID)
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		c.log.Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	c.log.Info("Client connected")

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.WithError(err).Warn("WS read error")
			}
			return
		}

		var env api.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.log.WithError(err).Debug("Malformed frame dropped")
			c.srv.sendError(c.ID, api.CodeBadPayload, "malformed frame")
			continue
		}
		c.srv.dispatch(c, env)
	}
}

// writePump отправляет кадры клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				c.log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}

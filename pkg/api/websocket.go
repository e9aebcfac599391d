package api

import (
	"context"
	"net/http"

	"github.com/boristopalov/mazerace/pkg/messaging"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var (
	upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
)

const wsBuffer = 64

// handleWebsocket streams every broker message to the client as JSON until
// either side hangs up.
func handleWebsocket(logger *log.Logger, broker messaging.Broker) echo.HandlerFunc {
	return func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			logger.Error(err)
			return err
		}
		defer conn.Close()

		id := "ws-" + uuid.NewString()
		ch := make(chan messaging.Message, wsBuffer)
		if err := broker.Subscribe(id, ch); err != nil {
			logger.Error("subscribe", "id", id, "err", err)
			return nil
		}
		defer broker.Unsubscribe(id)
		logger.Debug("websocket connected", "id", id)

		ctx, cancel := context.WithCancel(c.Request().Context())
		defer cancel()
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					logger.Debug("ws read", "err", err, "id", id)
					return
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return nil
			case msg := <-ch:
				if err := conn.WriteJSON(msg); err != nil {
					logger.Debug("ws write", "err", err, "id", id)
					return nil
				}
			}
		}
	}
}

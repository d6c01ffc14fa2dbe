package handler

import (
	"net/http"

	"ReviewHub/pkg/util/myjwt"
	"ReviewHub/pkg/ws"
	"ReviewHub/pkg/zlog"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WsHandler struct {
	hub *ws.Hub
}

func NewWsHandler(hub *ws.Hub) *WsHandler {
	return &WsHandler{hub: hub}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Connect 浏览器 WebSocket 无法带自定义 Header，token 走 query，这里自行校验
func (h *WsHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	claims, err := myjwt.ParseToken(token)
	if err != nil || claims == nil || claims.Uuid == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zlog.Error("ws upgrade failed", zap.Error(err))
		return
	}

	client := ws.NewClient(claims.Uuid, conn)
	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump(h.hub)
}

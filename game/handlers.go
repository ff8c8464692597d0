package game

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	socketWriteWait = 10 * time.Second
	socketPongWait  = 60 * time.Second
)

// Origin policy lives in the router middleware, so the upgrader itself lets
// everything through.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// GorillaWebSocketWrapper adapts a gorilla/websocket connection to
// NetworkSession. Events are JSON text frames.
type GorillaWebSocketWrapper struct {
	conn *websocket.Conn
}

func NewGorillaWebSocketWrapper(conn *websocket.Conn) *GorillaWebSocketWrapper {
	conn.SetReadDeadline(time.Now().Add(socketPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(socketPongWait))
	})
	return &GorillaWebSocketWrapper{conn: conn}
}

func (w *GorillaWebSocketWrapper) Read() ([]byte, error) {
	_, data, err := w.conn.ReadMessage()
	return data, err
}

func (w *GorillaWebSocketWrapper) Write(data []byte) error {
	if err := w.conn.SetWriteDeadline(time.Now().Add(socketWriteWait)); err != nil {
		return err
	}
	return w.conn.WriteMessage(websocket.TextMessage, data)
}

func (w *GorillaWebSocketWrapper) Ping() error {
	if err := w.conn.SetWriteDeadline(time.Now().Add(socketWriteWait)); err != nil {
		return err
	}
	return w.conn.WriteMessage(websocket.PingMessage, nil)
}

func (w *GorillaWebSocketWrapper) Close(reason string) {
	deadline := time.Now().Add(socketWriteWait)
	message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
	if err := w.conn.WriteControl(websocket.CloseMessage, message, deadline); err != nil {
		slog.Debug("could not write close frame", "err", err)
	}
	if err := w.conn.Close(); err != nil {
		slog.Debug("could not close connection", "err", err)
	}
}

type GameHandler struct {
	lobby Lobby
	words RandomWordGenerator
	clock Clock
}

func NewGameHandler(lobby Lobby, words RandomWordGenerator, clock Clock) *GameHandler {
	return &GameHandler{lobby: lobby, words: words, clock: clock}
}

type createRoomBody struct {
	PlayerName string `json:"playerName"`
}

type roomInfoResponse struct {
	Id          string `json:"id"`
	PlayerCount int    `json:"playerCount"`
	GameState   string `json:"gameState"`
	MaxPlayers  int    `json:"maxPlayers"`
}

// CreateRoomHandler makes a room for the given host name and returns its
// code. The host still joins over the websocket like everyone else.
func (h *GameHandler) CreateRoomHandler(ctx *gin.Context) {
	var body createRoomBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}
	hostName := strings.TrimSpace(body.PlayerName)
	if hostName == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "playerName is required"})
		return
	}

	code, err := h.lobby.CreateRoom(ctx.Request.Context(), NewRoom(hostName, h.words, h.clock))
	if err != nil {
		slog.Error("could not create room", "err", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not create room"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"roomCode": code})
}

// GetRoomHandler reports whether a room exists and its public description.
func (h *GameHandler) GetRoomHandler(ctx *gin.Context) {
	code := ctx.Param("code")
	desc, ok := h.lobby.GetRoomDescription(ctx.Request.Context(), code)
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": ErrRoomNotFound.Error()})
		return
	}
	ctx.JSON(http.StatusOK, roomInfoResponse{
		Id:          desc.code,
		PlayerCount: desc.playersCount,
		GameState:   desc.state,
		MaxPlayers:  desc.maxPlayers,
	})
}

// WebsocketHandler upgrades the connection and starts the player's pumps.
// Room membership comes later, through a join-room event.
func (h *GameHandler) WebsocketHandler(ctx *gin.Context) {
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "err", err)
		return
	}
	p := NewPlayer(uuid.NewString())
	socket := NewGorillaWebSocketWrapper(conn)
	go p.WritePump(socket)
	go p.ReadPump(h.lobby, socket)
	slog.Debug("player connected", "player", p.Id())
}

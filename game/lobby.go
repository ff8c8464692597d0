package game

import (
	"context"
	"log/slog"
	"time"
)

const (
	roomTickInterval   = 1 * time.Second
	playerPingInterval = 30 * time.Second
)

type createRoomRequest struct {
	room     Room
	respChan chan string
}

type descriptionRequest struct {
	code     string
	respChan chan roomDescription
}

// lobby is the registry actor. It owns the room map, mints unique room codes,
// routes join requests, serves description lookups for the REST handlers, and
// fans the shared tickers out to every room.
type lobby struct {
	rooms            map[string]Room
	roomDescriptions map[string]roomDescription

	createRoomChan chan createRoomRequest
	removeRoomChan chan string
	joinRoomReqs   chan roomJoinRequest
	descUpdates    chan roomDescription
	descRequests   chan descriptionRequest

	codeGen       RoomCodeGenerator
	tickerCreator PeriodicTickerChannelCreator
}

func NewLobby(codeGen RoomCodeGenerator, tickerCreator PeriodicTickerChannelCreator) *lobby {
	return &lobby{
		rooms:            make(map[string]Room),
		roomDescriptions: make(map[string]roomDescription),
		createRoomChan:   make(chan createRoomRequest),
		removeRoomChan:   make(chan string, 32),
		joinRoomReqs:     make(chan roomJoinRequest),
		descUpdates:      make(chan roomDescription, 256),
		descRequests:     make(chan descriptionRequest),
		codeGen:          codeGen,
		tickerCreator:    tickerCreator,
	}
}

// LobbyActor runs until the process exits. started is closed once the tickers
// are wired, so callers can wait for the actor to be live.
func (l *lobby) LobbyActor(started chan struct{}) {
	ticker := l.tickerCreator.Create(roomTickInterval)
	pingTicker := l.tickerCreator.Create(playerPingInterval)
	close(started)
	slog.Info("lobby started")
	for {
		select {
		case now := <-ticker:
			for _, r := range l.rooms {
				r.Tick(now)
			}
		case <-pingTicker:
			for _, r := range l.rooms {
				r.PingPlayers()
			}
		case req := <-l.createRoomChan:
			l.handleCreateRoom(req)
		case code := <-l.removeRoomChan:
			l.handleRemoveRoom(code)
		case jreq := <-l.joinRoomReqs:
			l.handleJoinRequest(jreq)
		case desc := <-l.descUpdates:
			l.roomDescriptions[desc.code] = desc
		case req := <-l.descRequests:
			l.handleDescriptionRequest(req)
		}
	}
}

func (l *lobby) handleCreateRoom(req createRoomRequest) {
	code := l.codeGen.Generate()
	for {
		if _, taken := l.rooms[code]; !taken {
			break
		}
		code = l.codeGen.Generate()
	}
	req.room.SetCode(code)
	req.room.SetParentLobby(l)
	l.rooms[code] = req.room
	l.roomDescriptions[code] = req.room.Description()
	go req.room.GameLoop()
	req.respChan <- code
	slog.Info("room created", "room", code)
}

func (l *lobby) handleRemoveRoom(code string) {
	room, ok := l.rooms[code]
	if !ok {
		return
	}
	delete(l.rooms, code)
	delete(l.roomDescriptions, code)
	room.CloseAndRelease()
	slog.Info("room removed", "room", code)
}

func (l *lobby) handleJoinRequest(jreq roomJoinRequest) {
	room, ok := l.rooms[jreq.roomCode]
	if !ok {
		jreq.errChan <- ErrRoomNotFound
		close(jreq.errChan)
		return
	}
	go room.RequestJoin(context.Background(), jreq)
}

func (l *lobby) handleDescriptionRequest(req descriptionRequest) {
	if desc, ok := l.roomDescriptions[req.code]; ok {
		req.respChan <- desc
	}
	close(req.respChan)
}

// CreateRoom registers the room under a fresh unique code, starts its game
// loop, and returns the code.
func (l *lobby) CreateRoom(ctx context.Context, r Room) (string, error) {
	req := createRoomRequest{room: r, respChan: make(chan string, 1)}
	select {
	case l.createRoomChan <- req:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	select {
	case code := <-req.respChan:
		return code, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (l *lobby) ForwardPlayerJoinRequestToRoom(ctx context.Context, jreq roomJoinRequest) {
	select {
	case l.joinRoomReqs <- jreq:
	case <-ctx.Done():
		jreq.errChan <- ctx.Err()
		close(jreq.errChan)
	}
}

// GetRoomDescription reports a room's public description, or false when no
// such room exists.
func (l *lobby) GetRoomDescription(ctx context.Context, code string) (roomDescription, bool) {
	req := descriptionRequest{code: code, respChan: make(chan roomDescription, 1)}
	select {
	case l.descRequests <- req:
	case <-ctx.Done():
		return roomDescription{}, false
	}
	select {
	case desc, ok := <-req.respChan:
		return desc, ok
	case <-ctx.Done():
		return roomDescription{}, false
	}
}

// RequestUpdateDescription is best effort; a dropped update is overwritten by
// the next one.
func (l *lobby) RequestUpdateDescription(desc roomDescription) {
	select {
	case l.descUpdates <- desc:
	default:
		slog.Debug("dropping description update", "room", desc.code)
	}
}

func (l *lobby) RemoveRoom(code string) {
	l.removeRoomChan <- code
}

package game

import (
	"context"
	"time"
)

// NetworkSession is the transport a player actor talks through. The production
// implementation wraps a gorilla/websocket connection.
type NetworkSession interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Ping() error
	Close(reason string)
}

// Player is a room's handle on a connected client.
type Player interface {
	Id() string
	Send(data []byte) error
	Ping() error
	SetRoom(r Room)
	CancelAndRelease()
}

// Room is the lobby's and the players' handle on a room actor.
type Room interface {
	SetCode(code string)
	SetParentLobby(l Lobby)
	Description() roomDescription
	GameLoop()
	Send(ctx context.Context, e clientEventEnvelope)
	RequestJoin(ctx context.Context, jreq roomJoinRequest)
	RemoveMe(ctx context.Context, p Player)
	Tick(now time.Time)
	PingPlayers()
	CloseAndRelease()
}

// Lobby is what rooms and HTTP handlers need from the lobby actor.
type Lobby interface {
	CreateRoom(ctx context.Context, r Room) (string, error)
	ForwardPlayerJoinRequestToRoom(ctx context.Context, jreq roomJoinRequest)
	GetRoomDescription(ctx context.Context, code string) (roomDescription, bool)
	RequestUpdateDescription(desc roomDescription)
	RemoveRoom(code string)
}

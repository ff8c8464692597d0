package game

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

const playerSendBufferSize = 256

var errSendBufferFull = errors.New("player send buffer full")

// player is the connection-side actor. ReadPump and WritePump each run in
// their own goroutine; everything the room needs goes through the Player
// interface.
type player struct {
	id        string
	limiter   *rate.Limiter
	inbox     chan []byte
	pingChan  chan struct{}
	ctx       context.Context
	cancelCtx context.CancelFunc

	mu   sync.Mutex
	room Room
}

func NewPlayer(id string) *player {
	ctx, cancel := context.WithCancel(context.Background())
	return &player{
		id:        id,
		limiter:   rate.NewLimiter(rate.Limit(1), 5),
		inbox:     make(chan []byte, playerSendBufferSize),
		pingChan:  make(chan struct{}, 1),
		ctx:       ctx,
		cancelCtx: cancel,
	}
}

func (p *player) Id() string {
	return p.id
}

func (p *player) SetRoom(r Room) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.room = r
}

func (p *player) Room() Room {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.room
}

// Send queues data for the write pump. Slow consumers get dropped traffic
// rather than blocking the room.
func (p *player) Send(data []byte) error {
	select {
	case p.inbox <- data:
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	default:
		return errSendBufferFull
	}
}

func (p *player) Ping() error {
	select {
	case p.pingChan <- struct{}{}:
	default:
	}
	return nil
}

func (p *player) CancelAndRelease() {
	p.cancelCtx()
}

// ReadPump drains the socket until it errors, dispatching each envelope.
// join-room goes to the lobby; everything else goes to the player's room.
// A read error means the connection is gone, which counts as leaving.
func (p *player) ReadPump(lobby Lobby, socket NetworkSession) {
	defer socket.Close("read pump done")
	for {
		data, err := socket.Read()
		if err != nil {
			break
		}
		var env eventEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			slog.Debug("dropping malformed envelope", "player", p.id, "err", err)
			continue
		}
		switch env.Event {
		case EventJoinRoom:
			p.handleJoinRoom(lobby, env.Data)
		case EventSendMessage:
			if !p.limiter.Allow() {
				slog.Debug("rate limited message", "player", p.id)
				continue
			}
			p.forwardToRoom(env)
		case EventDrawing, EventLeaveRoom:
			p.forwardToRoom(env)
		default:
			slog.Debug("dropping unknown event", "player", p.id, "event", env.Event)
		}
	}
	if r := p.Room(); r != nil {
		r.RemoveMe(p.ctx, p)
	} else {
		p.CancelAndRelease()
	}
}

func (p *player) handleJoinRoom(lobby Lobby, data json.RawMessage) {
	var d JoinRoomData
	if err := json.Unmarshal(data, &d); err != nil || strings.TrimSpace(d.PlayerName) == "" {
		if err := p.Send(MakeJoinError(ErrMalformedRequest.Error())); err != nil {
			slog.Debug("could not deliver join error", "player", p.id, "err", err)
		}
		return
	}
	if p.Room() != nil {
		// Already a member somewhere; joining twice is not a thing.
		return
	}
	jreq := roomJoinRequest{
		roomCode: d.RoomCode,
		name:     strings.TrimSpace(d.PlayerName),
		player:   p,
		errChan:  make(chan error, 1),
	}
	lobby.ForwardPlayerJoinRequestToRoom(p.ctx, jreq)
	if err := <-jreq.errChan; err != nil {
		if sendErr := p.Send(MakeJoinError(err.Error())); sendErr != nil {
			slog.Debug("could not deliver join error", "player", p.id, "err", sendErr)
		}
	}
}

func (p *player) forwardToRoom(env eventEnvelope) {
	r := p.Room()
	if r == nil {
		return
	}
	r.Send(p.ctx, clientEventEnvelope{event: env.Event, data: env.Data, from: p})
}

// WritePump owns all writes on the socket. It exits when the player context is
// canceled or a write fails, closing the socket so ReadPump unblocks too.
func (p *player) WritePump(socket NetworkSession) {
	defer socket.Close("write pump done")
	for {
		select {
		case data := <-p.inbox:
			if err := socket.Write(data); err != nil {
				slog.Debug("write failed, removing player", "player", p.id, "err", err)
				if r := p.Room(); r != nil {
					r.RemoveMe(p.ctx, p)
				}
				return
			}
		case <-p.pingChan:
			if err := socket.Ping(); err != nil {
				slog.Debug("ping failed, removing player", "player", p.id, "err", err)
				if r := p.Room(); r != nil {
					r.RemoveMe(p.ctx, p)
				}
				return
			}
		case <-p.ctx.Done():
			return
		}
	}
}

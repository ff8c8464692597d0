package game

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

type gameState string

const (
	StateWaiting gameState = "waiting"
	StatePlaying gameState = "playing"
)

const (
	MaxPlayers        = 8
	MinPlayersToStart = 2
	RoundSeconds      = 60

	timesUpGraceDelay = 1 * time.Second
	correctGuessDelay = 3 * time.Second

	// Rooms created over HTTP whose host never connects get reaped.
	neverJoinedTTL = 5 * time.Minute
)

const (
	MessageTypeChat  = "chat"
	MessageTypeGuess = "guess"
)

type clientEventEnvelope struct {
	event string
	data  json.RawMessage
	from  Player
}

type roomJoinRequest struct {
	roomCode string
	name     string
	player   Player
	errChan  chan error
}

type roomDescription struct {
	code         string
	playersCount int
	state        string
	maxPlayers   int
}

type playerState struct {
	player    Player
	name      string
	score     int
	isDrawing bool
}

// pendingAdvance is the single scheduled round advance a room can hold.
// Scheduling overwrites it; it fires only while its token still matches the
// room's advanceToken, so a canceled or superseded advance is a no-op.
type pendingAdvance struct {
	at    time.Time
	token uint64
}

type dataSendTask struct {
	to   Player
	data []byte
}

func (st dataSendTask) String() string {
	toId := "<nil>"
	if st.to != nil {
		toId = st.to.Id()
	}
	return fmt.Sprintf("dataSendTask{to: %s, data: %s}", toId, string(st.data))
}

type pingSendTask struct {
	to Player
}

func (st pingSendTask) String() string {
	toId := "<nil>"
	if st.to != nil {
		toId = st.to.Id()
	}
	return fmt.Sprintf("pingSendTask{to: %s}", toId)
}

// room is the per-room actor. All fields below the channel block are owned by
// the GameLoop goroutine; nothing else touches them.
type room struct {
	inbox        chan clientEventEnvelope
	joinRequests chan roomJoinRequest
	removals     chan Player
	ticks        chan time.Time
	pingReqs     chan struct{}
	done         chan struct{}

	code         string
	hostName     string
	maxPlayers   int
	players      []*playerState
	state        gameState
	currentWord  string
	roundNumber  int
	drawerIndex  int
	timeLeft     int
	countingDown bool
	advanceToken uint64
	pending      *pendingAdvance
	messages     []ChatMessage
	createdAt    time.Time

	parentLobby Lobby
	words       RandomWordGenerator
	clock       Clock

	dataSendTasks []dataSendTask
	pingSendTasks []pingSendTask
}

func NewRoom(hostName string, words RandomWordGenerator, clock Clock) *room {
	return &room{
		inbox:         make(chan clientEventEnvelope, 1024),
		joinRequests:  make(chan roomJoinRequest),
		removals:      make(chan Player, MaxPlayers),
		ticks:         make(chan time.Time, 16),
		pingReqs:      make(chan struct{}, 1),
		done:          make(chan struct{}),
		hostName:      hostName,
		maxPlayers:    MaxPlayers,
		players:       make([]*playerState, 0, MaxPlayers),
		state:         StateWaiting,
		currentWord:   words.Generate(),
		roundNumber:   1,
		timeLeft:      RoundSeconds,
		messages:      make([]ChatMessage, 0),
		createdAt:     clock.Now(),
		words:         words,
		clock:         clock,
		dataSendTasks: make([]dataSendTask, 0),
		pingSendTasks: make([]pingSendTask, 0),
	}
}

func (r *room) SetCode(code string) {
	r.code = code
}

func (r *room) SetParentLobby(l Lobby) {
	r.parentLobby = l
}

func (r *room) Description() roomDescription {
	return roomDescription{
		code:         r.code,
		playersCount: len(r.players),
		state:        string(r.state),
		maxPlayers:   r.maxPlayers,
	}
}

// GameLoop drains the room's channels one event at a time and flushes the
// outbound tasks the handler accumulated. This is the only goroutine that
// mutates room state.
func (r *room) GameLoop() {
	for {
		select {
		case e := <-r.inbox:
			r.handleClientEvent(e)
		case jreq := <-r.joinRequests:
			r.handleJoinRequest(jreq)
		case p := <-r.removals:
			r.handleRemovePlayer(p)
		case now := <-r.ticks:
			r.handleTick(now)
		case <-r.pingReqs:
			r.handlePingPlayers()
		case <-r.done:
			return
		}
		r.flushSendTasks()
	}
}

func (r *room) Send(ctx context.Context, e clientEventEnvelope) {
	select {
	case r.inbox <- e:
	case <-r.done:
	case <-ctx.Done():
	}
}

func (r *room) RequestJoin(ctx context.Context, jreq roomJoinRequest) {
	select {
	case r.joinRequests <- jreq:
	case <-r.done:
		jreq.errChan <- ErrRoomNotFound
		close(jreq.errChan)
	case <-ctx.Done():
	}
}

func (r *room) RemoveMe(ctx context.Context, p Player) {
	select {
	case r.removals <- p:
	case <-r.done:
	case <-ctx.Done():
	}
}

// Tick never blocks the lobby; a busy room just misses a tick.
func (r *room) Tick(now time.Time) {
	select {
	case r.ticks <- now:
	default:
	}
}

func (r *room) PingPlayers() {
	select {
	case r.pingReqs <- struct{}{}:
	default:
	}
}

func (r *room) CloseAndRelease() {
	close(r.done)
}

func (r *room) flushSendTasks() {
	for _, task := range r.dataSendTasks {
		if err := task.to.Send(task.data); err != nil {
			slog.Debug("dropping outbound data", "room", r.code, "player", task.to.Id(), "err", err)
		}
	}
	for _, task := range r.pingSendTasks {
		if err := task.to.Ping(); err != nil {
			slog.Debug("dropping ping", "room", r.code, "player", task.to.Id(), "err", err)
		}
	}
	r.dataSendTasks = make([]dataSendTask, 0)
	r.pingSendTasks = make([]pingSendTask, 0)
}

func (r *room) broadcast(data []byte) {
	for _, ps := range r.players {
		r.dataSendTasks = append(r.dataSendTasks, dataSendTask{to: ps.player, data: data})
	}
}

func (r *room) broadcastExcept(except Player, data []byte) {
	for _, ps := range r.players {
		if ps.player == except {
			continue
		}
		r.dataSendTasks = append(r.dataSendTasks, dataSendTask{to: ps.player, data: data})
	}
}

func (r *room) sendTo(p Player, data []byte) {
	r.dataSendTasks = append(r.dataSendTasks, dataSendTask{to: p, data: data})
}

func (r *room) find(p Player) *playerState {
	for _, ps := range r.players {
		if ps.player == p {
			return ps
		}
	}
	return nil
}

func (r *room) snapshot() []PlayerInfo {
	infos := make([]PlayerInfo, 0, len(r.players))
	for _, ps := range r.players {
		infos = append(infos, PlayerInfo{
			Id:        ps.player.Id(),
			Name:      ps.name,
			Score:     ps.score,
			IsDrawing: ps.isDrawing,
		})
	}
	return infos
}

func (r *room) currentDrawer() *playerState {
	for _, ps := range r.players {
		if ps.isDrawing {
			return ps
		}
	}
	return nil
}

// assignDrawer recomputes the drawing flags from drawerIndex. Nobody draws
// while the room is waiting.
func (r *room) assignDrawer() {
	for _, ps := range r.players {
		ps.isDrawing = false
	}
	if r.state != StatePlaying || len(r.players) == 0 {
		return
	}
	r.players[r.drawerIndex%len(r.players)].isDrawing = true
}

func (r *room) scheduleAdvance(at time.Time) {
	r.pending = &pendingAdvance{at: at, token: r.advanceToken}
}

func (r *room) handleJoinRequest(jreq roomJoinRequest) {
	if len(r.players) >= r.maxPlayers {
		jreq.errChan <- ErrRoomFull
		close(jreq.errChan)
		return
	}
	for _, ps := range r.players {
		if ps.name == jreq.name {
			jreq.errChan <- ErrNameTaken
			close(jreq.errChan)
			return
		}
	}

	ps := &playerState{player: jreq.player, name: jreq.name}
	r.players = append(r.players, ps)
	jreq.player.SetRoom(r)

	if r.state == StateWaiting && len(r.players) >= MinPlayersToStart {
		r.state = StatePlaying
		r.countingDown = true
	}
	r.assignDrawer()

	close(jreq.errChan)

	r.sendTo(jreq.player, MakeJoinSuccess(r.code, jreq.player.Id(), r.snapshot(), string(r.state), r.timeLeft, r.currentWord))
	joined := PlayerInfo{Id: jreq.player.Id(), Name: ps.name, Score: ps.score, IsDrawing: ps.isDrawing}
	r.broadcastExcept(jreq.player, MakePlayerJoined(joined, r.snapshot(), string(r.state), r.timeLeft))

	r.parentLobby.RequestUpdateDescription(r.Description())
	slog.Debug("player joined", "room", r.code, "player", jreq.player.Id(), "name", ps.name, "count", len(r.players))
}

func (r *room) handleRemovePlayer(p Player) {
	idx := -1
	for i, ps := range r.players {
		if ps.player == p {
			idx = i
			break
		}
	}
	if idx == -1 {
		// Already gone; removal is idempotent.
		return
	}
	left := r.players[idx]
	r.players = append(r.players[:idx], r.players[idx+1:]...)
	p.CancelAndRelease()

	if len(r.players) == 0 {
		r.cancelPendingAdvance()
		r.countingDown = false
		r.parentLobby.RemoveRoom(r.code)
		slog.Debug("room emptied", "room", r.code)
		return
	}

	if r.state == StatePlaying && len(r.players) < MinPlayersToStart {
		r.state = StateWaiting
		r.countingDown = false
		r.cancelPendingAdvance()
		r.timeLeft = RoundSeconds
		r.assignDrawer()
		r.broadcast(MakeTimerUpdate(r.timeLeft))
	}

	r.broadcast(MakePlayerLeft(p.Id(), left.name, r.snapshot(), string(r.state), r.timeLeft))
	r.parentLobby.RequestUpdateDescription(r.Description())
	slog.Debug("player left", "room", r.code, "player", p.Id(), "count", len(r.players))
}

// cancelPendingAdvance invalidates any scheduled advance. The slot is left in
// place; the tick that reaches its deadline sees the token mismatch and drops
// it.
func (r *room) cancelPendingAdvance() {
	r.advanceToken++
}

func (r *room) handleClientEvent(e clientEventEnvelope) {
	switch e.event {
	case EventDrawing:
		r.handleDrawing(e)
	case EventSendMessage:
		r.handleMessage(e)
	case EventLeaveRoom:
		r.handleRemovePlayer(e.from)
	default:
		slog.Debug("dropping unexpected event", "room", r.code, "event", e.event)
	}
}

func (r *room) handleDrawing(e clientEventEnvelope) {
	var d DrawingData
	if err := json.Unmarshal(e.data, &d); err != nil {
		slog.Debug("dropping malformed drawing", "room", r.code, "err", err)
		return
	}
	if r.find(e.from) == nil || (d.RoomCode != "" && d.RoomCode != r.code) {
		return
	}
	if d.isClearCanvas() {
		r.broadcastExcept(e.from, MakeClearCanvas())
		return
	}
	r.broadcastExcept(e.from, MakeDrawing(d))
}

func (r *room) handleMessage(e clientEventEnvelope) {
	var d SendMessageData
	if err := json.Unmarshal(e.data, &d); err != nil {
		slog.Debug("dropping malformed message", "room", r.code, "err", err)
		return
	}
	ps := r.find(e.from)
	if ps == nil {
		return
	}
	msgType := d.Type
	if msgType != MessageTypeGuess {
		msgType = MessageTypeChat
	}
	if ps.isDrawing && msgType == MessageTypeGuess {
		// The drawer knows the word; their guesses do not exist.
		return
	}

	msg := ChatMessage{
		Id:      uuid.NewString(),
		Player:  ps.name,
		Message: d.Message,
		Type:    msgType,
	}
	r.messages = append(r.messages, msg)
	r.broadcast(MakeNewMessage(msg))

	if msgType == MessageTypeGuess && r.state == StatePlaying &&
		r.currentWord != "" && strings.EqualFold(d.Message, r.currentWord) {
		r.handleCorrectGuess(ps)
	}
}

func (r *room) handleCorrectGuess(guesser *playerState) {
	guesser.score += 10
	drawerName := ""
	if drawer := r.currentDrawer(); drawer != nil {
		drawer.score += 5
		drawerName = drawer.name
	}
	r.countingDown = false
	r.broadcast(MakeCorrectGuess(guesser.name, drawerName, r.currentWord, r.snapshot()))
	r.scheduleAdvance(r.clock.Now().Add(correctGuessDelay))
	slog.Debug("correct guess", "room", r.code, "player", guesser.name, "word", r.currentWord)
}

func (r *room) handleTick(now time.Time) {
	if r.pending != nil && !now.Before(r.pending.at) {
		fire := r.pending.token == r.advanceToken
		r.pending = nil
		if fire {
			r.advanceRound()
			return
		}
	}

	if len(r.players) == 0 {
		if now.Sub(r.createdAt) > neverJoinedTTL {
			slog.Debug("reaping never-joined room", "room", r.code)
			r.parentLobby.RemoveRoom(r.code)
		}
		return
	}

	if r.state != StatePlaying || !r.countingDown {
		return
	}
	if r.timeLeft > 0 {
		r.timeLeft--
		r.broadcast(MakeTimerUpdate(r.timeLeft))
		return
	}
	// Time is up. Stop counting and give clients a short grace before the
	// next round starts.
	r.countingDown = false
	r.scheduleAdvance(now.Add(timesUpGraceDelay))
}

func (r *room) advanceRound() {
	if len(r.players) == 0 {
		return
	}
	r.advanceToken++
	r.drawerIndex = (r.drawerIndex + 1) % len(r.players)
	r.roundNumber++
	r.currentWord = r.words.Generate()
	r.timeLeft = RoundSeconds
	r.assignDrawer()
	r.countingDown = true
	r.pending = nil

	r.broadcast(MakeClearCanvas())
	r.broadcast(MakeNewRound(r.currentWord, r.snapshot(), r.roundNumber, r.timeLeft))
	slog.Debug("round advanced", "room", r.code, "round", r.roundNumber, "word", r.currentWord)
}

func (r *room) handlePingPlayers() {
	for _, ps := range r.players {
		r.pingSendTasks = append(r.pingSendTasks, pingSendTask{to: ps.player})
	}
}

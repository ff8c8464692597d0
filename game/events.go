package game

import "encoding/json"

// Inbound event names. Every event a client can send has exactly one case in
// the room/player dispatch switches; anything else is dropped.
const (
	EventJoinRoom    = "join-room"
	EventDrawing     = "drawing"
	EventSendMessage = "send-message"
	EventLeaveRoom   = "leave-room"
)

// Outbound event names.
const (
	EventJoinSuccess  = "join-success"
	EventJoinError    = "join-error"
	EventPlayerJoined = "player-joined"
	EventPlayerLeft   = "player-left"
	EventClearCanvas  = "clear-canvas"
	EventNewMessage   = "new-message"
	EventCorrectGuess = "correct-guess"
	EventNewRound     = "new-round"
	EventTimerUpdate  = "timer-update"
)

// A drawing event carrying this color with an oversized stroke width is a
// whole-canvas clear, not a stroke.
const (
	clearCanvasColor   = "#FFFFFF"
	clearCanvasMinSize = 500
)

type eventEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type JoinRoomData struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

type DrawingData struct {
	RoomCode string  `json:"roomCode"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	LastX    float64 `json:"lastX"`
	LastY    float64 `json:"lastY"`
	Color    string  `json:"color"`
	Size     float64 `json:"size"`
	Tool     string  `json:"tool"`
}

func (d DrawingData) isClearCanvas() bool {
	return d.Color == clearCanvasColor && d.Size > clearCanvasMinSize
}

type SendMessageData struct {
	RoomCode string `json:"roomCode"`
	Message  string `json:"message"`
	Type     string `json:"type"`
}

type LeaveRoomData struct {
	RoomCode string `json:"roomCode"`
}

// PlayerInfo is the public view of a room member used in snapshots.
type PlayerInfo struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	IsDrawing bool   `json:"isDrawing"`
}

// ChatMessage is one entry of a room's message log.
type ChatMessage struct {
	Id      string `json:"id"`
	Player  string `json:"player"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type joinSuccessData struct {
	RoomCode    string       `json:"roomCode"`
	PlayerId    string       `json:"playerId"`
	Players     []PlayerInfo `json:"players"`
	GameState   string       `json:"gameState"`
	TimeLeft    int          `json:"timeLeft"`
	CurrentWord string       `json:"currentWord"`
}

type joinErrorData struct {
	Message string `json:"message"`
}

type playerJoinedData struct {
	Player    PlayerInfo   `json:"player"`
	Players   []PlayerInfo `json:"players"`
	GameState string       `json:"gameState"`
	TimeLeft  int          `json:"timeLeft"`
}

type playerLeftData struct {
	PlayerId   string       `json:"playerId"`
	PlayerName string       `json:"playerName"`
	Players    []PlayerInfo `json:"players"`
	GameState  string       `json:"gameState"`
	TimeLeft   int          `json:"timeLeft"`
}

type correctGuessData struct {
	GuessingPlayer string       `json:"guessingPlayer"`
	DrawingPlayer  string       `json:"drawingPlayer,omitempty"`
	Word           string       `json:"word"`
	Players        []PlayerInfo `json:"players"`
}

type newRoundData struct {
	CurrentWord string       `json:"currentWord"`
	Players     []PlayerInfo `json:"players"`
	RoundNumber int          `json:"roundNumber"`
	TimeLeft    int          `json:"timeLeft"`
}

type timerUpdateData struct {
	TimeLeft int `json:"timeLeft"`
}

// encodeEvent marshals an outbound envelope. Payload types are our own
// structs, so marshaling cannot fail.
func encodeEvent(event string, data any) []byte {
	var raw json.RawMessage
	if data != nil {
		raw, _ = json.Marshal(data)
	}
	out, _ := json.Marshal(eventEnvelope{Event: event, Data: raw})
	return out
}

func MakeJoinSuccess(roomCode, playerId string, players []PlayerInfo, gameState string, timeLeft int, currentWord string) []byte {
	return encodeEvent(EventJoinSuccess, joinSuccessData{
		RoomCode:    roomCode,
		PlayerId:    playerId,
		Players:     players,
		GameState:   gameState,
		TimeLeft:    timeLeft,
		CurrentWord: currentWord,
	})
}

func MakeJoinError(message string) []byte {
	return encodeEvent(EventJoinError, joinErrorData{Message: message})
}

func MakePlayerJoined(joined PlayerInfo, players []PlayerInfo, gameState string, timeLeft int) []byte {
	return encodeEvent(EventPlayerJoined, playerJoinedData{
		Player:    joined,
		Players:   players,
		GameState: gameState,
		TimeLeft:  timeLeft,
	})
}

func MakePlayerLeft(playerId, playerName string, players []PlayerInfo, gameState string, timeLeft int) []byte {
	return encodeEvent(EventPlayerLeft, playerLeftData{
		PlayerId:   playerId,
		PlayerName: playerName,
		Players:    players,
		GameState:  gameState,
		TimeLeft:   timeLeft,
	})
}

func MakeDrawing(d DrawingData) []byte {
	return encodeEvent(EventDrawing, d)
}

func MakeClearCanvas() []byte {
	return encodeEvent(EventClearCanvas, nil)
}

func MakeNewMessage(msg ChatMessage) []byte {
	return encodeEvent(EventNewMessage, msg)
}

func MakeCorrectGuess(guessingPlayer, drawingPlayer, word string, players []PlayerInfo) []byte {
	return encodeEvent(EventCorrectGuess, correctGuessData{
		GuessingPlayer: guessingPlayer,
		DrawingPlayer:  drawingPlayer,
		Word:           word,
		Players:        players,
	})
}

func MakeNewRound(currentWord string, players []PlayerInfo, roundNumber, timeLeft int) []byte {
	return encodeEvent(EventNewRound, newRoundData{
		CurrentWord: currentWord,
		Players:     players,
		RoundNumber: roundNumber,
		TimeLeft:    timeLeft,
	})
}

func MakeTimerUpdate(timeLeft int) []byte {
	return encodeEvent(EventTimerUpdate, timerUpdateData{TimeLeft: timeLeft})
}

package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPlayer_ReadPump(t *testing.T) {
	t.Parallel()

	joinMsg := []byte(`{"event":"join-room","data":{"roomCode":"ROOMAAAAAA","playerName":"alice"}}`)
	chatMsg := []byte(`{"event":"send-message","data":{"roomCode":"ROOMAAAAAA","message":"hi","type":"chat"}}`)
	drawMsg := []byte(`{"event":"drawing","data":{"roomCode":"ROOMAAAAAA","x":1,"y":2,"color":"#000000","size":4}}`)

	t.Run("join-room goes to the lobby", func(t *testing.T) {
		t.Parallel()
		p := NewPlayer("p1")
		lobby := &MockLobby{}
		socket := &MockNetworkSession{}

		lobby.On("ForwardPlayerJoinRequestToRoom", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			jreq := args.Get(1).(roomJoinRequest)
			assert.Equal(t, "ROOMAAAAAA", jreq.roomCode)
			assert.Equal(t, "alice", jreq.name)
			close(jreq.errChan)
		}).Return().Once()

		socket.On("Read").Return(joinMsg, nil).Once()
		socket.On("Read").Return([]byte{}, errors.New("connection closed")).Once()
		socket.On("Close", mock.Anything).Return()

		p.ReadPump(lobby, socket)

		assert.Empty(t, p.inbox, "no join-error on success")
		assert.Error(t, p.ctx.Err(), "player released after disconnect")
		lobby.AssertExpectations(t)
		socket.AssertExpectations(t)
	})

	t.Run("join failure is reported to the client only", func(t *testing.T) {
		t.Parallel()
		p := NewPlayer("p1")
		lobby := &MockLobby{}
		socket := &MockNetworkSession{}

		lobby.On("ForwardPlayerJoinRequestToRoom", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			jreq := args.Get(1).(roomJoinRequest)
			jreq.errChan <- ErrRoomNotFound
			close(jreq.errChan)
		}).Return().Once()

		socket.On("Read").Return(joinMsg, nil).Once()
		socket.On("Read").Return([]byte{}, errors.New("connection closed")).Once()
		socket.On("Close", mock.Anything).Return()

		p.ReadPump(lobby, socket)

		assert.Equal(t, MakeJoinError("Room not found"), <-p.inbox)
		lobby.AssertExpectations(t)
	})

	t.Run("blank player name is rejected without asking the lobby", func(t *testing.T) {
		t.Parallel()
		p := NewPlayer("p1")
		lobby := &MockLobby{}
		socket := &MockNetworkSession{}

		socket.On("Read").Return([]byte(`{"event":"join-room","data":{"roomCode":"ROOMAAAAAA","playerName":"   "}}`), nil).Once()
		socket.On("Read").Return([]byte{}, errors.New("connection closed")).Once()
		socket.On("Close", mock.Anything).Return()

		p.ReadPump(lobby, socket)

		assert.Equal(t, MakeJoinError("Malformed request"), <-p.inbox)
		lobby.AssertNotCalled(t, "ForwardPlayerJoinRequestToRoom", mock.Anything, mock.Anything)
	})

	t.Run("garbage frames are skipped", func(t *testing.T) {
		t.Parallel()
		p := NewPlayer("p1")
		lobby := &MockLobby{}
		socket := &MockNetworkSession{}
		room := &MockRoom{}
		p.SetRoom(room)

		socket.On("Read").Return([]byte("{{{not json"), nil).Once()
		socket.On("Read").Return(drawMsg, nil).Once()
		socket.On("Read").Return([]byte{}, errors.New("connection closed")).Once()
		socket.On("Close", mock.Anything).Return()
		room.On("Send", mock.Anything, mock.Anything).Return().Once()
		room.On("RemoveMe", mock.Anything, p).Return().Once()

		p.ReadPump(lobby, socket)

		room.AssertExpectations(t)
	})

	t.Run("disconnect removes the player from its room", func(t *testing.T) {
		t.Parallel()
		p := NewPlayer("p1")
		lobby := &MockLobby{}
		socket := &MockNetworkSession{}
		room := &MockRoom{}
		p.SetRoom(room)

		socket.On("Read").Return([]byte{}, errors.New("connection closed")).Once()
		socket.On("Close", mock.Anything).Return()
		room.On("RemoveMe", mock.Anything, p).Return().Once()

		p.ReadPump(lobby, socket)

		room.AssertExpectations(t)
	})

	t.Run("chat is rate limited", func(t *testing.T) {
		t.Parallel()
		p := NewPlayer("p1")
		lobby := &MockLobby{}
		socket := &MockNetworkSession{}
		room := &MockRoom{}
		p.SetRoom(room)

		sends := 0
		room.On("Send", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			sends++
		}).Return()
		room.On("RemoveMe", mock.Anything, p).Return().Once()

		socket.On("Read").Return(chatMsg, nil).Times(50)
		socket.On("Read").Return([]byte{}, errors.New("connection closed")).Once()
		socket.On("Close", mock.Anything).Return()

		p.ReadPump(lobby, socket)

		assert.Equal(t, 5, sends, "only the burst goes through")
	})

	t.Run("drawing is not rate limited", func(t *testing.T) {
		t.Parallel()
		p := NewPlayer("p1")
		lobby := &MockLobby{}
		socket := &MockNetworkSession{}
		room := &MockRoom{}
		p.SetRoom(room)

		sends := 0
		room.On("Send", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			sends++
		}).Return()
		room.On("RemoveMe", mock.Anything, p).Return().Once()

		socket.On("Read").Return(drawMsg, nil).Times(50)
		socket.On("Read").Return([]byte{}, errors.New("connection closed")).Once()
		socket.On("Close", mock.Anything).Return()

		p.ReadPump(lobby, socket)

		assert.Equal(t, 50, sends)
	})
}

func TestPlayer_WritePump(t *testing.T) {
	t.Parallel()

	t.Run("writes queued data", func(t *testing.T) {
		t.Parallel()
		p := NewPlayer("p1")
		socket := &MockNetworkSession{}
		data := MakeTimerUpdate(42)
		require.NoError(t, p.Send(data))

		socket.On("Write", data).Run(func(mock.Arguments) {
			p.CancelAndRelease()
		}).Return(nil).Once()
		socket.On("Close", mock.Anything).Return()

		p.WritePump(socket)

		socket.AssertExpectations(t)
	})

	t.Run("ping request pings the socket", func(t *testing.T) {
		t.Parallel()
		p := NewPlayer("p1")
		socket := &MockNetworkSession{}
		require.NoError(t, p.Ping())

		socket.On("Ping").Run(func(mock.Arguments) {
			p.CancelAndRelease()
		}).Return(nil).Once()
		socket.On("Close", mock.Anything).Return()

		p.WritePump(socket)

		socket.AssertExpectations(t)
	})

	t.Run("write failure removes the player from its room", func(t *testing.T) {
		t.Parallel()
		p := NewPlayer("p1")
		socket := &MockNetworkSession{}
		room := &MockRoom{}
		p.SetRoom(room)
		data := MakeTimerUpdate(7)
		require.NoError(t, p.Send(data))

		socket.On("Write", data).Return(errors.New("broken pipe")).Once()
		socket.On("Close", mock.Anything).Return()
		room.On("RemoveMe", mock.Anything, p).Return().Once()

		p.WritePump(socket)

		room.AssertExpectations(t)
		socket.AssertExpectations(t)
	})
}

func TestPlayer_SendDropsWhenBufferIsFull(t *testing.T) {
	t.Parallel()
	p := NewPlayer("p1")
	data := MakeTimerUpdate(1)
	for i := 0; i < playerSendBufferSize; i++ {
		require.NoError(t, p.Send(data))
	}
	assert.ErrorIs(t, p.Send(data), errSendBufferFull)
}

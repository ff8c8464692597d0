package game

import "math/rand/v2"

// RoomCodeGenerator produces candidate room codes. Uniqueness against live
// rooms is the lobby's job, not the generator's.
type RoomCodeGenerator interface {
	Generate() string
}

const (
	roomCodePrefix   = "ROOM"
	roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	roomCodeLength   = 6
)

type roomCodeGenerator struct{}

func NewRoomCodeGenerator() roomCodeGenerator {
	return roomCodeGenerator{}
}

func (roomCodeGenerator) Generate() string {
	suffix := make([]byte, roomCodeLength)
	for i := range suffix {
		suffix[i] = roomCodeAlphabet[rand.IntN(len(roomCodeAlphabet))]
	}
	return roomCodePrefix + string(suffix)
}

package game

import "math/rand/v2"

// RandomWordGenerator hands out the next word to draw. Implementations must be
// safe to call from the room goroutines.
type RandomWordGenerator interface {
	Generate() string
}

var defaultWords = []string{
	"CAT", "DOG", "HOUSE", "TREE", "CAR", "FLOWER", "BIRD", "FISH",
	"SUN", "MOON", "APPLE", "BOOK", "PHONE", "COMPUTER", "MUSIC", "DANCE",
	"SOCCER", "PIZZA", "GUITAR", "CAMERA", "MOUNTAIN", "OCEAN", "RAINBOW",
	"BUTTERFLY", "ELEPHANT", "ROCKET", "CASTLE", "ROBOT", "DRAGON", "WIZARD",
}

type wordList struct {
	words []string
}

// NewWordList picks uniformly from the given words, or from the built-in list
// when none are given. Repeats across rounds are allowed.
func NewWordList(words ...string) wordList {
	if len(words) == 0 {
		words = defaultWords
	}
	return wordList{words: words}
}

func (w wordList) Generate() string {
	return w.words[rand.IntN(len(w.words))]
}

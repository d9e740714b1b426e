package quiz

import "github.com/ericogr/sphere-quiz/internal/rng"

// Deck deals questions from a shuffled copy of a bank, reshuffling the full
// bank once every question has been dealt.
type Deck struct {
	bank      Bank
	remaining []Question
	src       rng.Source
}

// NewDeck returns a deck over bank. The bank must be non-empty.
func NewDeck(bank Bank, src rng.Source) (*Deck, error) {
	if len(bank) == 0 {
		return nil, ErrEmptyBank
	}
	d := &Deck{bank: bank, src: src}
	d.shuffle()
	return d, nil
}

func (d *Deck) shuffle() {
	d.remaining = make([]Question, len(d.bank))
	copy(d.remaining, d.bank)
	rng.Shuffle(d.src, d.remaining)
}

// Draw removes and returns the next question.
func (d *Deck) Draw() Question {
	if len(d.remaining) == 0 {
		d.shuffle()
	}
	q := d.remaining[0]
	d.remaining = d.remaining[1:]
	return q
}

// Remaining is the number of questions left before the next reshuffle.
func (d *Deck) Remaining() int { return len(d.remaining) }

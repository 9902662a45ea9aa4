// Package phrase holds the preset phrase catalog players perform from.
// Notation is ABC; the ids are shared with the web client.
package phrase

type Phrase struct {
	Id   string `json:"id"`
	Name string `json:"name"`
	ABC  string `json:"abc"`
}

var presets = []Phrase{
	{
		Id:   "sentence-1",
		Name: "Classic Sentence",
		ABC: `X:1
%%MIDI program 0
M:4/4
L:1/4
K:C
c2 e2 | d2 G2 | c2 e2 | d2 G2 |
e f g a | g f e d | c G B, d | c4 |]`,
	},
	{
		Id:   "parallel-period",
		Name: "Parallel Period",
		ABC: `X:2
%%MIDI program 0
M:4/4
L:1/4
K:C
c e g f | e c d2 | c e g f | e2 d2 |
c e g f | e c d2 | c e d B | c4 |]`,
	},
	{
		Id:   "interrupted-period",
		Name: "Interrupted Period",
		ABC: `X:3
%%MIDI program 0
M:4/4
L:1/4
K:C
c e g2 | d f a2 | g e c2 | B d G2 |
c e g2 | d f a2 | g b d' f' | e'4 |]`,
	},
	{
		Id:   "italian-6th",
		Name: "Italian 6th",
		ABC: `X:4
%%MIDI program 40
M:4/4
L:1/2
K:C
[_A, ^F] | [G, G] |]`,
	},
	{
		Id:   "alberti-bass",
		Name: "Alberti Bass",
		ABC: `X:9
%%MIDI program 0
M:2/4
L:1/16
K:C
C E G E C E G E | F, A, D A, F, A, D A, | G, B, D B, G, B, D B, | C4 z4 |]`,
	},
}

func Presets() []Phrase {
	return presets
}

func Lookup(id string) (Phrase, bool) {
	for _, p := range presets {
		if p.Id == id {
			return p, true
		}
	}

	return Phrase{}, false
}

// Notation returns the ABC body for a phrase id, in the shape the
// scheduler's NotationSource expects.
func Notation(id string) (string, bool) {
	p, ok := Lookup(id)
	return p.ABC, ok
}

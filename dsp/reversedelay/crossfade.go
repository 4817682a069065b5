package reversedelay

// CrossFade is a linear two-input mixer with a held position.
//
// Position 0 weights input a fully and position 1 weights input b fully,
// mixing out = a + (b-a)*pos. The position persists between SetPos calls,
// so outside an active fade the mixer rests at the endpoint that weights
// the live segment at full scale.
type CrossFade struct {
	pos float64
}

// SetPos sets the mix position, clamped into [0, 1].
func (x *CrossFade) SetPos(pos float64) {
	if pos < 0 {
		pos = 0
	} else if pos > 1 {
		pos = 1
	}
	x.pos = pos
}

// Pos returns the held mix position.
func (x *CrossFade) Pos() float64 {
	return x.pos
}

// Process mixes a and b at the held position.
func (x *CrossFade) Process(a, b float64) float64 {
	return a + (b-a)*x.pos
}

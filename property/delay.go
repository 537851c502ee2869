package property

// Delay is an integer or fixed-point delay value, in the architecture's
// native time unit.
type Delay int64

// DelayPair is a (min, max) delay bound.
type DelayPair struct {
	Min, Max Delay
}

// Add returns the component-wise sum of two DelayPairs.
func (d DelayPair) Add(o DelayPair) DelayPair {
	return DelayPair{Min: d.Min + o.Min, Max: d.Max + o.Max}
}

// Sub returns the component-wise difference of two DelayPairs.
func (d DelayPair) Sub(o DelayPair) DelayPair {
	return DelayPair{Min: d.Min - o.Min, Max: d.Max - o.Max}
}

// DelayQuad is a four-quadrant (rise/fall, min/max) delay value.
type DelayQuad struct {
	Rise, Fall DelayPair
}

// MinRise returns the minimum rise delay.
func (d DelayQuad) MinRise() Delay { return d.Rise.Min }

// MaxRise returns the maximum rise delay.
func (d DelayQuad) MaxRise() Delay { return d.Rise.Max }

// MinFall returns the minimum fall delay.
func (d DelayQuad) MinFall() Delay { return d.Fall.Min }

// MaxFall returns the maximum fall delay.
func (d DelayQuad) MaxFall() Delay { return d.Fall.Max }

// Min returns the smaller of the rise and fall minimum delays.
func (d DelayQuad) Min() Delay {
	if d.Rise.Min < d.Fall.Min {
		return d.Rise.Min
	}
	return d.Fall.Min
}

// Max returns the larger of the rise and fall maximum delays.
func (d DelayQuad) Max() Delay {
	if d.Rise.Max > d.Fall.Max {
		return d.Rise.Max
	}
	return d.Fall.Max
}

// Pair collapses the quad to a single (min, max) pair across both edges.
func (d DelayQuad) Pair() DelayPair {
	return DelayPair{Min: d.Min(), Max: d.Max()}
}

// Add returns the component-wise sum of two DelayQuads.
func (d DelayQuad) Add(o DelayQuad) DelayQuad {
	return DelayQuad{Rise: d.Rise.Add(o.Rise), Fall: d.Fall.Add(o.Fall)}
}

// Sub returns the component-wise difference of two DelayQuads.
func (d DelayQuad) Sub(o DelayQuad) DelayQuad {
	return DelayQuad{Rise: d.Rise.Sub(o.Rise), Fall: d.Fall.Sub(o.Fall)}
}

package playback

import "time"

// Pacer caps how often a host drains its frame queue. A zero rate lets every
// refresh through.
type Pacer struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	nowFunc     func() time.Time
}

func NewPacer(stepsPerSecond int) *Pacer {
	return NewPacerWithClock(stepsPerSecond, time.Now)
}

// NewPacerWithClock is NewPacer with an injectable clock.
func NewPacerWithClock(stepsPerSecond int, now func() time.Time) *Pacer {
	p := &Pacer{nowFunc: now}
	p.SetRate(stepsPerSecond)
	return p
}

func (p *Pacer) SetRate(stepsPerSecond int) {
	if stepsPerSecond <= 0 {
		p.step = 0
		return
	}
	p.step = time.Second / time.Duration(stepsPerSecond)
	p.accumulator = p.step
}

// Ready reports whether the host should run the next frame now.
func (p *Pacer) Ready() bool {
	if p.step == 0 {
		return true
	}
	now := p.nowFunc()
	if p.last.IsZero() {
		p.last = now
	}
	p.accumulator += now.Sub(p.last)
	p.last = now
	if p.accumulator > 4*p.step {
		p.accumulator = p.step
	}
	if p.accumulator >= p.step {
		p.accumulator -= p.step
		return true
	}
	return false
}

package adaptloop

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-auditory/dsp/core"
)

// Per-loop coefficient record layout inside the arena.
const (
	coefDecay  = iota // exp(-1/(tau*fs))
	coefWeight        // 1 - decay
	coefFactor
	coefExpFac
	coefOffset
	coefRest // loop state at the minimum input level
	coefStride
)

// LoopCoefficients describes one configured loop.
type LoopCoefficients struct {
	TimeConstant float64 // seconds
	DecayFactor  float64 // exp(-1/(tau*fs)), in (0, 1)
	Ceiling      float64 // limiter asymptote, +Inf when limiting is off; a ratio to the equilibrium with LimiterEquilibrium
	RestLevel    float64 // integrator level at the minimum input
}

// BankT is a cascade of adaptation loops processing several independent
// channels. The zero value is not usable; construct with [NewT], [New] or
// [New32] and call [BankT.Configure] before processing.
//
// All loop state and coefficients live in one arena sized at construction:
// the first loops*channels values hold the running state (the loops of a
// channel are adjacent), followed by one coefficient record per loop.
type BankT[F core.Float] struct {
	channels int
	loops    int

	arena []F
	state []F
	coef  []F

	cfg        config
	sampleRate float64
	limiting   bool
	relative   bool // limiter ceiling follows the input equilibrium
	minLevel   F
	maxValue   F
	correction F
	multiplier F

	configured bool
	released   bool
}

// Bank is the float64 specialization.
type Bank = BankT[float64]

// Bank32 is the float32 specialization.
type Bank32 = BankT[float32]

// NewT allocates a bank for the given number of channels and cascaded loops.
// The bank must be configured before it can process signals.
func NewT[F core.Float](channels, loops int) (*BankT[F], error) {
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}

	if loops < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLoops, loops)
	}

	stateLen := channels * loops
	arena := make([]F, stateLen+loops*coefStride)

	return &BankT[F]{
		channels: channels,
		loops:    loops,
		arena:    arena,
		state:    arena[:stateLen:stateLen],
		coef:     arena[stateLen:],
		cfg:      defaultConfig(),
		maxValue: core.MaxFinite[F](),
	}, nil
}

// New allocates a float64 bank.
func New(channels, loops int) (*Bank, error) {
	return NewT[float64](channels, loops)
}

// New32 allocates a float32 bank.
func New32(channels, loops int) (*Bank32, error) {
	return NewT[float32](channels, loops)
}

// Configure derives the loop coefficients for sampleRate and the given
// options. Options not given keep their previous value (initially the
// [PresetDau1996] parameters with unit output scaling), except the state reset
// which defaults to true on every call.
//
// On error nothing changes: the previous coefficients and the running state
// are left as they were.
func (b *BankT[F]) Configure(sampleRate float64, opts ...Option) error {
	if b.released {
		return ErrReleased
	}

	if err := validateFinitePositive(sampleRate, "sample rate"); err != nil {
		return err
	}

	cfg := b.cfg.clone()
	cfg.resetState = true

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return err
		}
	}

	if len(cfg.timeConstants) != b.loops {
		return fmt.Errorf("%w: got %d time constants for %d loops",
			ErrInvalidConfig, len(cfg.timeConstants), b.loops)
	}

	coef := make([]F, len(b.coef))
	limiting := cfg.limit > 1

	for i, tau := range cfg.timeConstants {
		decay := math.Exp(-1 / (tau * sampleRate))
		weight := 1 - decay
		if !(decay > 0 && decay < 1) || F(weight) == 0 {
			return fmt.Errorf("%w: time constant %d (%g s) unusable at %g Hz",
				ErrInvalidConfig, i, tau, sampleRate)
		}

		rest := math.Pow(cfg.minLevel, 1/math.Exp2(float64(i+1)))

		rec := coef[i*coefStride : (i+1)*coefStride]
		rec[coefDecay] = F(decay)
		rec[coefWeight] = F(weight)
		rec[coefRest] = F(rest)

		if !limiting {
			continue
		}

		ceiling := loopCeiling(cfg.limiterMode, cfg.limit, rest)
		if ceiling <= 1 {
			return fmt.Errorf("%w: overshoot limit %g leaves loop %d without headroom (ceiling %g)",
				ErrInvalidConfig, cfg.limit, i, ceiling)
		}

		factor, expfac, offset := limiterCoefficients(ceiling)
		rec[coefFactor] = F(factor)
		rec[coefExpFac] = F(expfac)
		rec[coefOffset] = F(offset)
	}

	correction, multiplier := 0.0, cfg.multiplier
	if cfg.outputScale == OutputModelUnits {
		correction = math.Pow(cfg.minLevel, 1/math.Exp2(float64(b.loops)))
		multiplier = modelUnitsScale / (1 - correction)
	}

	reset := cfg.resetState || !b.configured
	cfg.resetState = true

	copy(b.coef, coef)
	b.cfg = cfg
	b.sampleRate = sampleRate
	b.limiting = limiting
	b.relative = limiting && cfg.limiterMode == LimiterEquilibrium
	b.minLevel = F(cfg.minLevel)
	b.correction = F(correction)
	b.multiplier = F(multiplier)
	b.configured = true

	if reset {
		b.Reset()
	} else {
		b.floorState()
	}

	return nil
}

// Reset returns every loop of every channel to its rest state, the
// equilibrium for an input at the minimum level.
func (b *BankT[F]) Reset() {
	if !b.configured {
		return
	}

	for c := range b.channels {
		st := b.channelState(c)
		for i := range st {
			st[i] = b.coef[i*coefStride+coefRest]
		}
	}
}

// Release drops all buffers owned by the bank. Every later call except
// Release reports [ErrReleased]; releasing twice is a no-op.
func (b *BankT[F]) Release() {
	b.arena = nil
	b.state = nil
	b.coef = nil
	b.configured = false
	b.released = true
}

// Process runs a channel-major signal through the bank: src holds the
// samples of channel 0, then channel 1, and so on, each len(src)/Channels()
// samples long. dst receives the output in the same layout and may alias src.
// An empty src is a no-op.
func (b *BankT[F]) Process(dst, src []F) error {
	n, err := b.checkBlock(dst, src)
	if err != nil || n == 0 {
		return err
	}

	for c := range b.channels {
		st := b.channelState(c)
		in := src[c*n : (c+1)*n]
		out := dst[c*n : (c+1)*n]

		for t, x := range in {
			out[t] = b.step(st, x)
		}
	}

	return nil
}

// ProcessInPlace runs a channel-major buffer through the bank in place.
func (b *BankT[F]) ProcessInPlace(buf []F) error {
	return b.Process(buf, buf)
}

// ProcessInterleaved runs an interleaved signal (frame by frame, one sample
// per channel) through the bank. dst may alias src.
func (b *BankT[F]) ProcessInterleaved(dst, src []F) error {
	n, err := b.checkBlock(dst, src)
	if err != nil || n == 0 {
		return err
	}

	for t := range n {
		frame := t * b.channels
		for c := range b.channels {
			dst[frame+c] = b.step(b.channelState(c), src[frame+c])
		}
	}

	return nil
}

// ProcessPlanar runs one slice per channel through the bank. All channel
// slices must have the same length; dst[c] may alias src[c].
func (b *BankT[F]) ProcessPlanar(dst, src [][]F) error {
	if err := b.checkRunnable(); err != nil {
		return err
	}

	if len(src) != b.channels || len(dst) != b.channels {
		return fmt.Errorf("%w: got %d input and %d output channels, want %d",
			ErrChannelMismatch, len(src), len(dst), b.channels)
	}

	n := len(src[0])
	for c := range b.channels {
		if len(src[c]) != n || len(dst[c]) != n {
			return fmt.Errorf("%w: channel %d has %d input and %d output samples, want %d",
				ErrLengthMismatch, c, len(src[c]), len(dst[c]), n)
		}
	}

	for c := range b.channels {
		st := b.channelState(c)
		out := dst[c]

		for t, x := range src[c] {
			out[t] = b.step(st, x)
		}
	}

	return nil
}

// ProcessFrame processes a single sample per channel.
func (b *BankT[F]) ProcessFrame(dst, src []F) error {
	if err := b.checkRunnable(); err != nil {
		return err
	}

	if len(src) != b.channels || len(dst) != b.channels {
		return fmt.Errorf("%w: frame of %d/%d samples, want %d",
			ErrChannelMismatch, len(src), len(dst), b.channels)
	}

	for c, x := range src {
		dst[c] = b.step(b.channelState(c), x)
	}

	return nil
}

// step advances one channel by one sample.
func (b *BankT[F]) step(st []F, x F) F {
	// NaN fails the comparison and x-x is non-zero for NaN and ±Inf.
	if !(x >= b.minLevel) || x-x != 0 {
		x = b.minLevel
	}

	// eq is the equilibrium output of loop i for the current input.
	eq := x

	for i, level := range st {
		rec := b.coef[i*coefStride : (i+1)*coefStride : (i+1)*coefStride]

		y := x / level
		if y > b.maxValue {
			y = b.maxValue
		}

		if b.relative {
			eq = F(math.Sqrt(float64(eq)))
			if r := y / eq; r > 1 {
				y = eq * compress(r, rec[coefFactor], rec[coefExpFac], rec[coefOffset])
			}
		} else if b.limiting && y > 1 {
			y = compress(y, rec[coefFactor], rec[coefExpFac], rec[coefOffset])
		}

		level += rec[coefWeight] * (y - level)
		if !(level >= b.minLevel) {
			level = b.minLevel
		}

		st[i] = level
		x = y
	}

	out := (x - b.correction) * b.multiplier
	if out > b.maxValue {
		out = b.maxValue
	}

	return out
}

func (b *BankT[F]) channelState(c int) []F {
	return b.state[c*b.loops : (c+1)*b.loops : (c+1)*b.loops]
}

func (b *BankT[F]) floorState() {
	for i, v := range b.state {
		if !(v >= b.minLevel) {
			b.state[i] = b.minLevel
		}
	}
}

func (b *BankT[F]) checkRunnable() error {
	if b.released {
		return ErrReleased
	}

	if !b.configured {
		return ErrNotConfigured
	}

	return nil
}

// checkBlock validates a flat multi-channel block and returns the number of
// samples per channel.
func (b *BankT[F]) checkBlock(dst, src []F) (int, error) {
	if err := b.checkRunnable(); err != nil {
		return 0, err
	}

	if len(dst) != len(src) {
		return 0, fmt.Errorf("%w: dst=%d src=%d", ErrLengthMismatch, len(dst), len(src))
	}

	if len(src)%b.channels != 0 {
		return 0, fmt.Errorf("%w: %d samples for %d channels", ErrChannelMismatch, len(src), b.channels)
	}

	return len(src) / b.channels, nil
}

// State returns a copy of the running loop levels, channel-major: the value
// of loop i in channel c is at index c*Loops()+i.
func (b *BankT[F]) State() []F {
	out := make([]F, len(b.state))
	copy(out, b.state)

	return out
}

// SetState restores loop levels previously obtained from [BankT.State].
// Every level must be finite and at least the configured minimum level.
func (b *BankT[F]) SetState(state []F) error {
	if err := b.checkRunnable(); err != nil {
		return err
	}

	if len(state) != len(b.state) {
		return fmt.Errorf("%w: state has %d values, want %d", ErrLengthMismatch, len(state), len(b.state))
	}

	for i, v := range state {
		if !core.IsFinite(float64(v)) || v < b.minLevel {
			return fmt.Errorf("adaptloop: state value %d out of range: %v", i, v)
		}
	}

	copy(b.state, state)

	return nil
}

// SteadyState returns the output the bank settles to under a constant input
// v, computed in float64. This is v^(1/2^Loops()) before output scaling, not
// v itself: the cascade compresses stationary levels. Only [LimiterMuenkner]
// with v > 1 can pull each loop's equilibrium below the square root of
// its input.
func (b *BankT[F]) SteadyState(v float64) float64 {
	minLevel := b.cfg.minLevel
	if !(v >= minLevel) || math.IsInf(v, 0) {
		v = minLevel
	}

	x := v
	for i := range b.loops {
		ceiling := math.Inf(1)
		if b.limiting && !b.relative {
			rest := math.Pow(minLevel, 1/math.Exp2(float64(i+1)))
			ceiling = loopCeiling(b.cfg.limiterMode, b.cfg.limit, rest)
		}

		x = loopEquilibrium(x, ceiling)
	}

	return (x - float64(b.correction)) * float64(b.multiplier)
}

// loopEquilibrium returns the level s with s = limit(x/s), which is also the
// loop output at equilibrium.
func loopEquilibrium(x, ceiling float64) float64 {
	s := math.Sqrt(x)
	if x <= 1 || math.IsInf(ceiling, 1) {
		return s
	}

	// s - limit(x/s) increases with s and changes sign on [1, sqrt(x)].
	lo, hi := 1.0, s
	for range 100 {
		mid := 0.5 * (lo + hi)
		if mid-OvershootCurve(x/mid, ceiling) > 0 {
			hi = mid
		} else {
			lo = mid
		}
	}

	return 0.5 * (lo + hi)
}

// Coefficients returns the configured per-loop coefficients, outer loop first.
// It returns nil for an unconfigured or released bank.
func (b *BankT[F]) Coefficients() []LoopCoefficients {
	if !b.configured {
		return nil
	}

	out := make([]LoopCoefficients, b.loops)
	for i := range out {
		rec := b.coef[i*coefStride : (i+1)*coefStride]

		ceiling := math.Inf(1)
		if b.limiting {
			ceiling = float64(rec[coefFactor] - rec[coefOffset])
		}

		out[i] = LoopCoefficients{
			TimeConstant: b.cfg.timeConstants[i],
			DecayFactor:  float64(rec[coefDecay]),
			Ceiling:      ceiling,
			RestLevel:    float64(rec[coefRest]),
		}
	}

	return out
}

// Channels returns the number of channels.
func (b *BankT[F]) Channels() int { return b.channels }

// Loops returns the number of cascaded loops.
func (b *BankT[F]) Loops() int { return b.loops }

// Configured reports whether the bank can process signals.
func (b *BankT[F]) Configured() bool { return b.configured }

// SampleRate returns the configured sample rate in Hz.
func (b *BankT[F]) SampleRate() float64 { return b.sampleRate }

// TimeConstants returns a copy of the per-loop time constants in seconds.
func (b *BankT[F]) TimeConstants() []float64 {
	return append([]float64(nil), b.cfg.timeConstants...)
}

// Limit returns the overshoot limit.
func (b *BankT[F]) Limit() float64 { return b.cfg.limit }

// Limiting reports whether the overshoot limiter is active.
func (b *BankT[F]) Limiting() bool { return b.limiting }

// LimiterMode returns the limiter ceiling rule.
func (b *BankT[F]) LimiterMode() LimiterMode { return b.cfg.limiterMode }

// MinLevel returns the linear minimum input level.
func (b *BankT[F]) MinLevel() float64 { return b.cfg.minLevel }

// OutputScale returns the output scaling mode.
func (b *BankT[F]) OutputScale() OutputScale { return b.cfg.outputScale }

// Correction returns the value subtracted from the cascade output before
// scaling.
func (b *BankT[F]) Correction() float64 { return float64(b.correction) }

// Multiplier returns the output multiplier.
func (b *BankT[F]) Multiplier() float64 { return float64(b.multiplier) }

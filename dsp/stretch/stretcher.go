package stretch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-stretch/dsp/window"
)

// ProcessFunc observes each windowed current-block chunk before it is summed
// into the output. The engine ignores anything the hook does to the samples;
// the hook exists for side effects such as accumulating analysis state. The
// chunk is reused after the call returns, so implementations that retain
// data must copy it.
type ProcessFunc func(chunk [][]float64)

// cursors is the complete mutable position state of a Stretcher. Keeping it
// in one value makes Pull's all-or-nothing rollback a plain assignment.
type cursors struct {
	semiBlock  int // offset within the current semi-block, [0, semiBlockSamples]
	inputBlock int // absolute input position of the current-block read head
	sumBuffer  int // absolute input position of the summing-buffer read head
	output     int // cumulative output samples produced
}

// Stretcher performs time-domain overlap-add time stretching.
//
// It iterates over semi-blocks (half of blockSize). Each semi-block sums a
// Hann-windowed read at the current-block head with a complementarily
// windowed read at the summing-buffer head; the stretch rate only moves
// where the current block is taken from the input.
//
// A Stretcher is not safe for concurrent use. Callers must serialize all
// method calls on one instance.
type Stretcher struct {
	src              Source
	blockSize        int
	channels         int
	semiBlockSamples int
	win              []float64 // Hann(blockSize); identical for every channel
	invTimeFactor    float64
	hook             ProcessFunc

	cur cursors
}

// Option configures a Stretcher at construction. Invalid values are ignored
// in favor of the defaults; use the setters for checked mutation.
type Option func(*Stretcher)

// WithRate sets the initial input-to-output advance ratio.
func WithRate(rate float64) Option {
	return func(s *Stretcher) {
		if isFinitePositive(rate) {
			s.invTimeFactor = rate
		}
	}
}

// WithTimeFactor sets the initial stretch factor (reciprocal of the rate).
func WithTimeFactor(factor float64) Option {
	return func(s *Stretcher) {
		if isFinitePositive(factor) {
			s.invTimeFactor = 1 / factor
		}
	}
}

// WithBlockHook installs a per-semi-block processing hook.
func WithBlockHook(fn ProcessFunc) Option {
	return func(s *Stretcher) {
		s.hook = fn
	}
}

// New constructs a Stretcher reading from src.
//
// blockSize is the analysis window length in samples and must be positive
// and even (typically 64-1024). channels is the expected channel count of
// the source. The default rate is 1 (no stretch).
func New(src Source, blockSize, channels int, opts ...Option) (*Stretcher, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: source must not be nil", ErrInvalidParameter)
	}

	if blockSize <= 0 || blockSize%2 != 0 {
		return nil, fmt.Errorf("%w: block size must be positive and even: %d", ErrInvalidParameter, blockSize)
	}

	if channels <= 0 {
		return nil, fmt.Errorf("%w: channels must be > 0: %d", ErrInvalidParameter, channels)
	}

	s := &Stretcher{
		src:              src,
		blockSize:        blockSize,
		channels:         channels,
		semiBlockSamples: blockSize / 2,
		win:              window.Generate(window.TypeHann, blockSize),
		invTimeFactor:    1,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s, nil
}

// BlockSize returns the analysis window length in samples.
func (s *Stretcher) BlockSize() int { return s.blockSize }

// Channels returns the channel count.
func (s *Stretcher) Channels() int { return s.channels }

// Rate returns the current input-to-output advance ratio.
func (s *Stretcher) Rate() float64 { return s.invTimeFactor }

// TimeFactor returns the current stretch factor (reciprocal of the rate).
func (s *Stretcher) TimeFactor() float64 { return 1 / s.invTimeFactor }

// InputPosition returns the absolute input position of the current-block
// read head, i.e. how far into the source the engine has advanced.
func (s *Stretcher) InputPosition() int { return s.cur.inputBlock }

// OutputCount returns the cumulative number of output samples produced.
func (s *Stretcher) OutputCount() int { return s.cur.output }

// SetRate sets the input-to-output advance ratio directly. A rate of 2
// consumes input twice as fast as output is produced (halving duration).
//
// The change takes effect at the next block boundary, since the input read
// head is only recomputed there.
func (s *Stretcher) SetRate(rate float64) error {
	if !isFinitePositive(rate) {
		return fmt.Errorf("%w: rate must be positive and finite: %f", ErrInvalidParameter, rate)
	}

	s.invTimeFactor = rate

	return nil
}

// SetTimeFactor sets the stretch factor. A factor of 2 doubles the output
// duration, a factor of 0.5 halves it. Zero and other non-positive values
// fail without mutating the current rate.
//
// Like SetRate, the change takes effect at the next block boundary.
func (s *Stretcher) SetTimeFactor(factor float64) error {
	if !isFinitePositive(factor) {
		return fmt.Errorf("%w: time factor must be positive and finite: %f", ErrInvalidParameter, factor)
	}

	s.invTimeFactor = 1 / factor

	return nil
}

// Reset rewinds all cursors to zero for processing a new stream from the
// start of the source. The rate and hook are kept.
func (s *Stretcher) Reset() {
	s.cur = cursors{}
}

// Pull produces the next n output samples per channel.
//
// Requests of any size are satisfied by iterating over semi-blocks: the
// remainder of the current semi-block is emitted, the block heads advance
// (see updateBlockIndices), and the loop continues until n samples have
// accumulated. This is the iterative form of the natural recursion
// "emit remainder, advance, recurse", chosen so large requests cannot grow
// the call stack.
//
// Pull is all-or-nothing: on any error the cursors are rolled back to their
// state at entry and no samples are returned. n == 0 yields an empty
// channels-length matrix without touching the source or the cursors.
func (s *Stretcher) Pull(n int) ([][]float64, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: sample count must be >= 0: %d", ErrInvalidRequest, n)
	}

	out := make([][]float64, s.channels)
	for ch := range out {
		out[ch] = make([]float64, 0, n)
	}

	if n == 0 {
		return out, nil
	}

	saved := s.cur

	remaining := n
	for remaining > 0 {
		free := s.semiBlockSamples - s.cur.semiBlock
		if free == 0 {
			s.updateBlockIndices()
			continue
		}

		k := min(remaining, free)

		chunk, err := s.takeFromSemiBlock(k)
		if err != nil {
			s.cur = saved
			return nil, err
		}

		for ch := range out {
			out[ch] = append(out[ch], chunk[ch]...)
		}

		remaining -= k
	}

	return out, nil
}

// takeFromSemiBlock emits k samples of the current semi-block; the caller
// guarantees k fits in its remainder. The leading window half shapes the
// current-block read, the trailing half shapes the summing-buffer read one
// semi-block behind, and their sum is the crossfaded overlap-add join.
func (s *Stretcher) takeFromSemiBlock(k int) ([][]float64, error) {
	cur, err := s.readWindowed(s.cur.inputBlock, s.cur.semiBlock, k)
	if err != nil {
		return nil, err
	}

	add, err := s.readWindowed(s.cur.sumBuffer, s.semiBlockSamples+s.cur.semiBlock, k)
	if err != nil {
		return nil, err
	}

	s.cur.inputBlock += k
	s.cur.sumBuffer += k
	s.cur.output += k
	s.cur.semiBlock += k

	if s.hook != nil {
		s.hook(cur)
	}

	for ch := range cur {
		vecmath.AddBlockInPlace(cur[ch], add[ch])
	}

	return cur, nil
}

// readWindowed reads k samples per channel at absolute source position start
// and multiplies them by window columns [winStart, winStart+k).
func (s *Stretcher) readWindowed(start, winStart, k int) ([][]float64, error) {
	block, err := s.src.Slice(start, k)
	if err != nil {
		return nil, fmt.Errorf("stretch: source slice [%d, %d): %w", start, start+k, err)
	}

	if len(block) != s.channels {
		return nil, fmt.Errorf("%w: source returned %d channels, want %d",
			ErrRangeUnavailable, len(block), s.channels)
	}

	coeffs := s.win[winStart : winStart+k]

	out := make([][]float64, s.channels)
	for ch := range block {
		if len(block[ch]) != k {
			return nil, fmt.Errorf("%w: channel %d returned %d samples, want %d",
				ErrRangeUnavailable, ch, len(block[ch]), k)
		}

		out[ch] = make([]float64, k)
		vecmath.MulBlock(out[ch], block[ch], coeffs)
	}

	return out, nil
}

// updateBlockIndices advances to the next 50%-overlapped block: the block
// that was current becomes the summing buffer, and the current-block read
// head is recomputed from the cumulative output and the present rate. Tying
// the mapping to output progress rather than input progress is what lets
// the rate change live without phase drift.
//
// The fractional position rounds half away from zero (math.Round); all
// positions here are non-negative, so this matches the conventional
// int(round(x)) and keeps long-run drift within half a sample per boundary.
func (s *Stretcher) updateBlockIndices() {
	s.cur.sumBuffer = s.cur.inputBlock
	s.cur.inputBlock = int(math.Round(float64(s.cur.output) * s.invTimeFactor))
	s.cur.semiBlock = 0
}

func isFinitePositive(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

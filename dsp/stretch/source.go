package stretch

import "fmt"

// Source supplies random-access sample data to a [Stretcher].
//
// Slice returns a channel-major matrix of shape channels x length covering
// absolute sample positions [start, start+length). A Source must either
// return the full requested range or an error; short or misshapen results
// are treated as [ErrRangeUnavailable] by the engine. Returned rows may
// alias internal storage; the engine never mutates them.
type Source interface {
	Slice(start, length int) ([][]float64, error)
}

// SliceSource serves samples from an in-memory channel-major matrix.
// Requests beyond the stored extent fail with [ErrRangeUnavailable].
type SliceSource struct {
	data [][]float64
}

// NewSliceSource wraps a channel-major matrix without copying.
// All channel rows must have equal length and at least one channel is required.
func NewSliceSource(data [][]float64) (*SliceSource, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: source needs at least one channel", ErrInvalidParameter)
	}

	for ch := 1; ch < len(data); ch++ {
		if len(data[ch]) != len(data[0]) {
			return nil, fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d",
				ErrInvalidParameter, ch, len(data[ch]), len(data[0]))
		}
	}

	return &SliceSource{data: data}, nil
}

// Channels returns the channel count.
func (s *SliceSource) Channels() int { return len(s.data) }

// Len returns the number of samples per channel.
func (s *SliceSource) Len() int { return len(s.data[0]) }

// Slice returns the rows for positions [start, start+length).
// The rows alias the underlying matrix and must not be modified.
func (s *SliceSource) Slice(start, length int) ([][]float64, error) {
	if start < 0 || length < 0 || start+length > s.Len() {
		return nil, fmt.Errorf("%w: [%d, %d) of %d stored samples",
			ErrRangeUnavailable, start, start+length, s.Len())
	}

	out := make([][]float64, len(s.data))
	for ch := range s.data {
		out[ch] = s.data[ch][start : start+length]
	}

	return out, nil
}

// SampleFunc computes the sample value for a channel at an absolute position.
type SampleFunc func(channel, index int) float64

// FuncSource generates samples on demand from a function. Its extent is
// unbounded ahead of any position, which makes it convenient for test
// signals (ramps, sinusoids, silence) and synthetic streams.
type FuncSource struct {
	channels int
	fn       SampleFunc
}

// NewFuncSource returns a generator source with the given channel count.
func NewFuncSource(channels int, fn SampleFunc) (*FuncSource, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: channels must be > 0: %d", ErrInvalidParameter, channels)
	}

	if fn == nil {
		return nil, fmt.Errorf("%w: sample function must not be nil", ErrInvalidParameter)
	}

	return &FuncSource{channels: channels, fn: fn}, nil
}

// Channels returns the channel count.
func (f *FuncSource) Channels() int { return f.channels }

// Slice evaluates the sample function over [start, start+length).
func (f *FuncSource) Slice(start, length int) ([][]float64, error) {
	if start < 0 || length < 0 {
		return nil, fmt.Errorf("%w: [%d, %d)", ErrRangeUnavailable, start, start+length)
	}

	out := make([][]float64, f.channels)
	for ch := range out {
		row := make([]float64, length)
		for i := range row {
			row[i] = f.fn(ch, start+i)
		}
		out[ch] = row
	}

	return out, nil
}

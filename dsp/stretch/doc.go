// Package stretch implements time-domain overlap-add (OLA) time stretching
// of multi-channel audio.
//
// A [Stretcher] reads windowed, 50%-overlapping blocks from a [Source] and
// sums them into an output stream whose duration is scaled by a mutable
// stretch factor while pitch is preserved. Output is produced on demand via
// [Stretcher.Pull], which satisfies arbitrarily sized requests from
// fixed-size internal semi-blocks.
//
// The engine performs no I/O of its own; anything that can serve random
// access, channel-major sample ranges can act as the input. [SliceSource]
// and [FuncSource] cover in-memory data and generated signals.
package stretch

// Package capture produces rigid-body frames for the dispatch pipeline.
//
// A Source owns a single producer goroutine and calls its FrameHandler
// synchronously, one frame at a time:
//   - Synthetic drives bodies around circles at a fixed rate
//   - Periodic tracking dropouts mark bodies invalid
//   - Reset restarts the frame index and clock
package capture

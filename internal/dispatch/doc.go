// Package dispatch implements the per-frame callback that turns a capture
// frame into one wire record and hands it to the connection.
//
// For each frame the Dispatcher:
//   - Skips bodies whose tracking flag is invalid
//   - Adapts every remaining pose to engine coordinates
//   - Encodes one line per body into a single buffer
//   - Calls Send exactly once if the buffer is non-empty
//
// Dispatch is called synchronously by a single producer. A failed send
// drops the frame; nothing is buffered for later.
package dispatch

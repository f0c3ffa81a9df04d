// Package connection implements the resilient TCP sender.
//
// The Client:
//   - Owns exactly one outbound TCP socket to a fixed IPv4 endpoint
//   - Connects synchronously; there is no background dialing
//   - Writes each buffer in a single blocking attempt, never surfacing faults
//   - Reconnects after a failed write when persistent, gated by a wait period
//     (fixed 2s by default, optionally exponential)
//   - Drops the failed buffer; nothing is queued for retry
package connection

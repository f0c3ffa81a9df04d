// Package console is the interactive operator loop.
//
// Keys:
//   - q: quit
//   - f: show the most recent frame
//   - p: show peer and connection status
//   - r: reset the capture source
package console

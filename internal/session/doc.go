// Package session owns one bridge run: the outbound connection, the frame
// dispatcher and the capture source that drives it.
package session

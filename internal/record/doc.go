// Package record encodes rigid-body samples into the newline-delimited
// text wire format and parses it back.
//
// One line per body per frame:
//
//	x y z qw qx qy qz timestamp id\n
//
// Fields are space separated. There is no length prefix, framing or
// acknowledgement; consumers delimit records by newline.
package record

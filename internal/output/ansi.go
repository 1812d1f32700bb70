// Package output turns raw openclaw process output into structured values.
//
// The CLI mixes coloured log lines, human readable status lines and, for some
// commands, a single JSON document in the same stream. Every function here is
// pure and total: a missing structure is reported through a boolean, never an
// error, and callers must still validate anything they extract.
package output

import "strings"

const escape = '\x1b'

// stripState is the scanner state used by StripANSI.
type stripState int

const (
	stateNormal    stripState = iota // copying characters through
	stateSawEscape                   // previous character was ESC
	stateInCSI                       // inside ESC [ ... waiting for the final letter
)

// StripANSI removes ANSI CSI escape sequences (ESC [ ... <letter>) from s.
//
// A CSI sequence ends at the first ASCII letter, which is consumed with it.
// An ESC that is not followed by '[' is dropped on its own and the characters
// after it are kept, so OSC and other non-CSI sequences leave their payload
// behind. A truncated sequence swallows the rest of the input.
func StripANSI(s string) string {
	if strings.IndexByte(s, escape) < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	state := stateNormal
	for _, r := range s {
		switch state {
		case stateNormal:
			if r == escape {
				state = stateSawEscape
				continue
			}
			b.WriteRune(r)
		case stateSawEscape:
			switch {
			case r == '[':
				state = stateInCSI
			case r == escape:
				// stay: a second ESC starts a new candidate sequence
			default:
				state = stateNormal
				b.WriteRune(r)
			}
		case stateInCSI:
			if isCSIFinal(r) {
				state = stateNormal
			}
		}
	}
	return b.String()
}

// isCSIFinal reports whether r terminates a CSI sequence.
func isCSIFinal(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

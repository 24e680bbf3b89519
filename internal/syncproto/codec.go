// Package syncproto carries color and mode changes from the eyes node to the
// mouth node as newline-terminated ASCII tokens: "C<n>" or "M<n>".
package syncproto

import (
	"bytes"
	"fmt"
	"strconv"
)

type Kind byte

const (
	Color Kind = 'C'
	Mode  Kind = 'M'
)

func (k Kind) String() string {
	switch k {
	case Color:
		return "color"
	case Mode:
		return "mode"
	default:
		return fmt.Sprintf("kind(%q)", byte(k))
	}
}

// Event is one decoded state change.
type Event struct {
	Kind  Kind
	Value int
}

func ColorChanged(index int) Event { return Event{Kind: Color, Value: index} }

func ModeChanged(mode int) Event { return Event{Kind: Mode, Value: mode} }

func (e Event) String() string {
	return fmt.Sprintf("%c%d", byte(e.Kind), e.Value)
}

// Append encodes e with its terminating newline onto dst.
func Append(dst []byte, e Event) []byte {
	dst = append(dst, byte(e.Kind))
	dst = strconv.AppendInt(dst, int64(e.Value), 10)
	return append(dst, '\n')
}

func Encode(e Event) []byte {
	return Append(make([]byte, 0, 8), e)
}

// ParseToken accepts exactly a tag followed by one or more decimal digits.
func ParseToken(tok []byte) (Event, bool) {
	if len(tok) < 2 {
		return Event{}, false
	}
	k := Kind(tok[0])
	if k != Color && k != Mode {
		return Event{}, false
	}
	for _, c := range tok[1:] {
		if c < '0' || c > '9' {
			return Event{}, false
		}
	}
	v, err := strconv.Atoi(string(tok[1:]))
	if err != nil {
		return Event{}, false
	}
	return Event{Kind: k, Value: v}, true
}

// Decode splits data on whitespace and returns the well-formed events in
// order. Malformed tokens are passed to drop when it is not nil.
func Decode(data []byte, drop func(tok []byte)) []Event {
	var out []Event
	for _, tok := range bytes.Fields(data) {
		if e, ok := ParseToken(tok); ok {
			out = append(out, e)
		} else if drop != nil {
			drop(tok)
		}
	}
	return out
}

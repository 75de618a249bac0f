package input

import (
	"bufio"
	"sync"
)

// Key is a game key decoded from terminal bytes or a browser key name.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyReset
	KeyQuit
)

var keyNames = map[Key]string{
	KeyNone:  "none",
	KeyUp:    "up",
	KeyDown:  "down",
	KeyLeft:  "left",
	KeyRight: "right",
	KeyReset: "reset",
	KeyQuit:  "quit",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "unknown"
}

// browserKeys maps KeyboardEvent.key values to game keys.
var browserKeys = map[string]Key{
	"ArrowUp":    KeyUp,
	"ArrowDown":  KeyDown,
	"ArrowLeft":  KeyLeft,
	"ArrowRight": KeyRight,
	"Enter":      KeyReset,
	"w":          KeyUp,
	"W":          KeyUp,
	"s":          KeyDown,
	"S":          KeyDown,
	"a":          KeyLeft,
	"A":          KeyLeft,
	"d":          KeyRight,
	"D":          KeyRight,
}

// KeyFromName looks up a browser key name. Unknown names report false.
func KeyFromName(name string) (Key, bool) {
	k, ok := browserKeys[name]
	return k, ok
}

// decoder states
const (
	stateGround = iota
	stateEscape   // after ESC
	stateCSI      // after ESC [ or ESC O
	stateCSIParam // inside a CSI sequence carrying parameters, e.g. ESC [ 1 ; 5
)

// Decoder turns raw terminal bytes into keys.
// Arrow keys arrive as ESC [ A..D (or ESC O A..D in application cursor mode).
type Decoder struct {
	state  int
	lastCR bool
}

// Feed consumes one byte and returns the key it completes, if any.
func (d *Decoder) Feed(b byte) (Key, bool) {
	switch d.state {
	case stateEscape:
		if b == '[' || b == 'O' {
			d.state = stateCSI
			return KeyNone, false
		}
		// Lone ESC: decode b on its own.
		d.state = stateGround
	case stateCSI, stateCSIParam:
		if b >= 0x20 && b <= 0x3f {
			// Parameter or intermediate byte; wait for the final byte.
			d.state = stateCSIParam
			return KeyNone, false
		}
		plain := d.state == stateCSI
		d.state = stateGround
		if !plain {
			// Modified arrows and other parameterised keys are ignored.
			return KeyNone, false
		}
		switch b {
		case 'A':
			return KeyUp, true
		case 'B':
			return KeyDown, true
		case 'C':
			return KeyRight, true
		case 'D':
			return KeyLeft, true
		}
		return KeyNone, false
	}

	// Treat CR LF as a single Enter.
	cr := d.lastCR
	d.lastCR = b == '\r'

	switch b {
	case '\x1b':
		d.state = stateEscape
	case '\r':
		return KeyReset, true
	case '\n':
		if !cr {
			return KeyReset, true
		}
	case 'w', 'W', 'k', 'K':
		return KeyUp, true
	case 's', 'S', 'j', 'J':
		return KeyDown, true
	case 'a', 'A', 'h', 'H':
		return KeyLeft, true
	case 'd', 'D', 'l', 'L':
		return KeyRight, true
	case 'q', 'Q', '\x03':
		return KeyQuit, true
	}
	return KeyNone, false
}

// Stream delivers decoded keys via a channel.
type Stream struct {
	ch   chan Key
	done chan struct{}
	stop sync.Once
}

// StartStream spawns a goroutine that reads from r and sends decoded keys to the stream.
// The channel is closed when r returns an error or the stream is stopped.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch:   make(chan Key, 128),
		done: make(chan struct{}),
	}
	go func() {
		defer close(s.ch)
		var dec Decoder
		for {
			b, err := r.ReadByte()
			if err != nil {
				return
			}
			k, ok := dec.Feed(b)
			if !ok {
				continue
			}
			select {
			case s.ch <- k:
			case <-s.done:
				return
			}
		}
	}()
	return s
}

// Stop releases the reader goroutine once nobody consumes keys any more.
// A goroutine blocked in a read exits when that read returns.
func (s *Stream) Stop() {
	s.stop.Do(func() { close(s.done) })
}

// Keys returns the channel of decoded keys.
func (s *Stream) Keys() <-chan Key {
	return s.ch
}

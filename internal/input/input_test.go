package input

import (
	"bufio"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeAll(s string) []Key {
	var d Decoder
	var keys []Key
	for i := 0; i < len(s); i++ {
		if k, ok := d.Feed(s[i]); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

func TestDecoderArrows(t *testing.T) {
	got := decodeAll("\x1b[A\x1b[B\x1b[C\x1b[D")
	assert.Equal(t, []Key{KeyUp, KeyDown, KeyRight, KeyLeft}, got)

	got = decodeAll("\x1bOA\x1bOD")
	assert.Equal(t, []Key{KeyUp, KeyLeft}, got)
}

func TestDecoderLetters(t *testing.T) {
	got := decodeAll("wasdkjhlq")
	assert.Equal(t, []Key{KeyUp, KeyLeft, KeyDown, KeyRight, KeyUp, KeyDown, KeyLeft, KeyRight, KeyQuit}, got)
	assert.Equal(t, []Key{KeyQuit}, decodeAll("\x03"))
	assert.Empty(t, decodeAll("xyz1 "))
}

func TestDecoderEnter(t *testing.T) {
	assert.Equal(t, []Key{KeyReset}, decodeAll("\r"))
	assert.Equal(t, []Key{KeyReset}, decodeAll("\n"))
	assert.Equal(t, []Key{KeyReset}, decodeAll("\r\n"))
	assert.Equal(t, []Key{KeyReset, KeyReset}, decodeAll("\r\r"))
}

func TestDecoderIgnoresParameterisedSequences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Key
	}{
		{"shift left", "\x1b[1;2D", nil},
		{"ctrl up", "\x1b[1;5A", nil},
		{"delete", "\x1b[3~", nil},
		{"all three", "\x1b[1;2D\x1b[1;5A\x1b[3~", nil},
		{"arrow after modified arrow", "\x1b[1;5C\x1b[B", []Key{KeyDown}},
		{"letter after delete", "\x1b[3~d", []Key{KeyRight}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeAll(tt.in))
		})
	}
}

func TestDecoderLoneEscape(t *testing.T) {
	// ESC followed by a normal key decodes the key.
	assert.Equal(t, []Key{KeyUp}, decodeAll("\x1bw"))
	// Unknown CSI final byte is dropped.
	assert.Equal(t, []Key{KeyDown}, decodeAll("\x1b[Zs"))
}

func TestKeyFromName(t *testing.T) {
	cases := map[string]Key{
		"ArrowUp":    KeyUp,
		"ArrowDown":  KeyDown,
		"ArrowLeft":  KeyLeft,
		"ArrowRight": KeyRight,
		"Enter":      KeyReset,
		"w":          KeyUp,
	}
	for name, want := range cases {
		got, ok := KeyFromName(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, ok := KeyFromName("Escape")
	assert.False(t, ok)
	_, ok = KeyFromName("")
	assert.False(t, ok)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "up", KeyUp.String())
	assert.Equal(t, "reset", KeyReset.String())
	assert.Equal(t, "unknown", Key(99).String())
}

func TestStream(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("w\x1b[Bq")))

	var got []Key
	timeout := time.After(time.Second)
	for {
		select {
		case k, ok := <-s.Keys():
			if !ok {
				assert.Equal(t, []Key{KeyUp, KeyDown, KeyQuit}, got)
				return
			}
			got = append(got, k)
		case <-timeout:
			t.Fatal("stream did not close")
		}
	}
}

// endless never reaches EOF, so only Stop can end its stream.
type endless struct{}

func (endless) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 'w'
	}
	return len(p), nil
}

var _ io.Reader = endless{}

func TestStreamStopReleasesReader(t *testing.T) {
	s := StartStream(bufio.NewReader(endless{}))
	require.Eventually(t, func() bool { return len(s.Keys()) == cap(s.Keys()) }, time.Second, time.Millisecond,
		"buffer fills while nobody reads")

	s.Stop()
	s.Stop() // idempotent

	timeout := time.After(time.Second)
	for {
		select {
		case _, ok := <-s.Keys():
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("stream did not close after Stop")
		}
	}
}

package metronome

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogChannelWriter_ForwardsRecords(t *testing.T) {
	ch := make(chan string, 2)
	w := NewLogChannelWriter(ch)

	n, err := w.Write([]byte("hello\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, "hello\n", <-ch)
}

func TestLogChannelWriter_DropsWhenFull(t *testing.T) {
	ch := make(chan string, 1)
	w := NewLogChannelWriter(ch)

	_, err := w.Write([]byte("first\n"))
	require.NoError(t, err)

	// Channel is full: the write must not block and must still succeed.
	n, err := w.Write([]byte("second\n"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	assert.Equal(t, "first\n", <-ch)
	select {
	case line := <-ch:
		t.Fatalf("expected second record to be dropped, got %q", line)
	default:
	}
}

func TestLogChannelWriter_NilChannelPanics(t *testing.T) {
	assert.Panics(t, func() { NewLogChannelWriter(nil) })
}

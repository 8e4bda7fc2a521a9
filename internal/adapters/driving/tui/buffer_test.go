package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/margin-labs/margo/internal/adapters/driving/tui/messages"
	"github.com/margin-labs/margo/internal/core/domain"
)

func TestNewDocBuffer(t *testing.T) {
	buf := NewDocBuffer("One.\nTwo.\n")

	assert.Equal(t, 3, buf.LineCount(), "trailing newline opens an empty last line")

	from, to := buf.Viewport()
	assert.Zero(t, from)
	assert.Equal(t, 10, to, "viewport starts covering the whole document")
}

func TestDocBuffer_Line(t *testing.T) {
	buf := NewDocBuffer("One.\nTwo.\n")

	line, err := buf.Line(2)
	require.NoError(t, err)
	assert.Equal(t, domain.Line{Number: 2, From: 5, Text: "Two."}, line)

	_, err = buf.Line(0)
	assert.ErrorIs(t, err, domain.ErrLineOutOfRange)

	_, err = buf.Line(4)
	assert.ErrorIs(t, err, domain.ErrLineOutOfRange)
}

func TestDocBuffer_LineAt(t *testing.T) {
	buf := NewDocBuffer("One.\nTwo.\n")

	line, err := buf.LineAt(5)
	require.NoError(t, err)
	assert.Equal(t, 2, line.Number)

	// End-of-line offsets resolve to the line they terminate.
	line, err = buf.LineAt(4)
	require.NoError(t, err)
	assert.Equal(t, 1, line.Number)

	line, err = buf.LineAt(10)
	require.NoError(t, err)
	assert.Equal(t, 3, line.Number)

	_, err = buf.LineAt(-1)
	assert.ErrorIs(t, err, domain.ErrPositionOutOfRange)

	_, err = buf.LineAt(11)
	assert.ErrorIs(t, err, domain.ErrPositionOutOfRange)
}

func TestDocBuffer_SetViewportLines(t *testing.T) {
	buf := NewDocBuffer("One.\nTwo.\n")

	changed := buf.SetViewportLines(2, 3)
	assert.True(t, changed)

	from, to := buf.Viewport()
	assert.Equal(t, 5, from)
	assert.Equal(t, 10, to)

	assert.False(t, buf.SetViewportLines(2, 3), "same range reports no change")

	assert.True(t, buf.SetViewportLines(-5, 99), "out-of-range bounds are clamped")
	from, to = buf.Viewport()
	assert.Zero(t, from)
	assert.Equal(t, 10, to)
}

func TestDocBuffer_ExclusionsComeFromScanner(t *testing.T) {
	buf := NewDocBuffer("Prose with `code` span.")

	line, err := buf.Line(1)
	require.NoError(t, err)

	assert.Equal(t, []domain.Exclusion{{From: 11, To: 17}}, buf.Exclusions(line))
}

func TestDocBuffer_WaitUntilParsed(t *testing.T) {
	buf := NewDocBuffer("Some prose.\nMore prose.\n")

	require.NoError(t, buf.WaitUntilParsed(context.Background(), 12))
}

func TestDocBuffer_SetTextClampsViewport(t *testing.T) {
	buf := NewDocBuffer("A longer document.")

	buf.SetText("Hi", 0)

	from, to := buf.Viewport()
	assert.Zero(t, from)
	assert.Equal(t, 2, to)
}

func TestDocBuffer_DispatchNotifies(t *testing.T) {
	buf := NewDocBuffer("Alpha beta.")

	received := make(chan tea.Msg, 1)
	buf.SetNotify(func(msg tea.Msg) { received <- msg })

	span, err := domain.NewSpan(0, 11, "Alpha beta.", 1)
	require.NoError(t, err)
	buf.Dispatch(domain.AddMarker{
		Span:   span,
		Marker: domain.Marker{At: span.To, Suggestions: []string{"note"}},
	})

	assert.Equal(t, 1, buf.Markers().Len())
	select {
	case msg := <-received:
		assert.IsType(t, messages.MarkersUpdated{}, msg)
	default:
		t.Fatal("expected a notification after dispatch")
	}
}

func TestDocBuffer_DispatchWithoutNotify(t *testing.T) {
	buf := NewDocBuffer("Alpha beta.")

	span, err := domain.NewSpan(0, 11, "Alpha beta.", 1)
	require.NoError(t, err)

	// No notify callback installed; dispatch still records markers.
	buf.Dispatch(domain.AddMarker{
		Span:   span,
		Marker: domain.Marker{At: span.To, Suggestions: []string{"note"}},
	})

	assert.Equal(t, 1, buf.Markers().Len())
}

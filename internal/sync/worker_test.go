package sync

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/sync/errgroup"
)

const workerTestPayload = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\n" +
	"BEGIN:VEVENT\r\nUID:w@test\r\nSUMMARY:Algo CM\r\n" +
	"DTSTART:20240115T080000Z\r\nDTEND:20240115T100000Z\r\nEND:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	p := NewParser(slog.New(slog.DiscardHandler))
	t.Cleanup(p.Close)
	return p
}

func TestParser_ParseThroughWorker(t *testing.T) {
	p := newTestParser(t)

	res, err := p.Parse(context.Background(), workerTestPayload)

	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	assert.Equal(t, "w@test", res.Events[0].UID)
}

func TestParser_ConcurrentParses(t *testing.T) {
	p := newTestParser(t)

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			res, err := p.Parse(context.Background(), workerTestPayload)
			if err != nil {
				return err
			}
			if len(res.Events) != 1 {
				return fmt.Errorf("expected 1 event, got %d", len(res.Events))
			}
			return nil
		})
	}
	assert.NoError(t, g.Wait())
}

func TestParser_ParseAfterCloseIsRejected(t *testing.T) {
	p := NewParser(slog.New(slog.DiscardHandler))
	p.Close()

	_, err := p.Parse(context.Background(), workerTestPayload)

	assert.ErrorIs(t, err, ErrWorkerTerminated)
}

func TestParser_CloseIsIdempotent(t *testing.T) {
	p := NewParser(slog.New(slog.DiscardHandler))
	p.Close()
	p.Close()
}

func TestParser_FallbackIsStickyAndWorks(t *testing.T) {
	p := newTestParser(t)
	p.activateFallback()

	res, err := p.Parse(context.Background(), workerTestPayload)

	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	assert.Equal(t, modeFallback, p.currentMode())
}

func TestParser_FallbackSurvivesClose(t *testing.T) {
	p := NewParser(slog.New(slog.DiscardHandler))
	p.activateFallback()
	p.Close()

	res, err := p.Parse(context.Background(), workerTestPayload)

	require.NoError(t, err)
	assert.Len(t, res.Events, 1)
}

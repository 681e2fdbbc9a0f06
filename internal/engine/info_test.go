package engine

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sciezk/Demolito/internal/board"
)

func TestInfoPrint(t *testing.T) {
	var in Info
	pv := []board.Move{board.NewMove(board.E2, board.E4), board.NewMove(board.E7, board.E5)}

	in.Update(7, 35, 123456, pv)
	require.True(t, in.Updated())

	var buf bytes.Buffer
	in.Print(&buf)

	assert.Equal(t, "info depth 7 score cp 35 nodes 123456 pv e2e4 e7e5\n", buf.String())
	assert.False(t, in.Updated(), "Print must clear the fresh-data marker")
}

func TestInfoPrintMateScore(t *testing.T) {
	var in Info

	in.Update(12, MateScore-5, 1, nil)
	var buf bytes.Buffer
	in.Print(&buf)
	assert.Contains(t, buf.String(), "score mate 3")

	in.Update(12, -(MateScore - 4), 1, nil)
	buf.Reset()
	in.Print(&buf)
	assert.Contains(t, buf.String(), "score mate -2")
}

func TestInfoClear(t *testing.T) {
	var in Info
	in.Update(3, 10, 42, []board.Move{board.NewMove(board.D2, board.D4)})

	in.Clear()
	assert.False(t, in.Updated())

	var buf bytes.Buffer
	in.Print(&buf)
	assert.Equal(t, "info depth 0 score cp 0 nodes 0\n", buf.String())
}

func TestInfoUpdateCopiesPV(t *testing.T) {
	var in Info
	pv := []board.Move{board.NewMove(board.E2, board.E4)}

	in.Update(1, 0, 0, pv)
	pv[0] = board.NewMove(board.A2, board.A3) // caller reuses its buffer

	var buf bytes.Buffer
	in.Print(&buf)
	assert.Contains(t, buf.String(), "pv e2e4")
}

// TestInfoAtomicity hammers Update from concurrent workers and checks
// that every printed line is internally consistent: all fields from a
// single Update call, never a mixture.
func TestInfoAtomicity(t *testing.T) {
	var in Info

	const workers = 8
	const rounds = 200

	// Worker i reports depth d, score d*7, nodes d*11 and a PV of d%4+1
	// copies of the same move; any cross-worker mix breaks the relation.
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				d := w*rounds + r + 1
				pv := make([]board.Move, d%4+1)
				for i := range pv {
					pv[i] = board.NewMove(board.E2, board.E4)
				}
				in.Update(d, d*7, uint64(d*11), pv)
			}
		}(w)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	check := func(line string) {
		line = strings.TrimSuffix(line, "\n")
		var depth, score int
		var nodes uint64
		_, err := fmt.Sscanf(line, "info depth %d score cp %d nodes %d", &depth, &score, &nodes)
		require.NoError(t, err, "unparseable info line: %q", line)
		if depth == 0 {
			return // nothing reported yet
		}
		assert.Equal(t, depth*7, score, "torn update observed: %q", line)
		assert.Equal(t, uint64(depth*11), nodes, "torn update observed: %q", line)
		assert.Equal(t, depth%4+1, strings.Count(line, "e2e4"), "torn pv observed: %q", line)
	}

	for {
		select {
		case <-done:
			var buf bytes.Buffer
			in.Print(&buf)
			check(buf.String())
			return
		default:
			var buf bytes.Buffer
			in.Print(&buf)
			check(buf.String())
		}
	}
}

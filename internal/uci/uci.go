// Package uci implements the controller-facing text shell for the
// board-state and memoization core. Search commands (go, stop) belong to
// the excluded search layer and only answer with an informational string.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sciezk/Demolito/internal/board"
	"github.com/sciezk/Demolito/internal/engine"
	"github.com/sciezk/Demolito/internal/storage"
)

// UCI implements the Universal Chess Interface protocol for the core.
type UCI struct {
	tt       *engine.TranspositionTable
	info     engine.Info
	position *board.Position
	hashMB   int

	// Optional persistent analysis store
	store   *storage.AnalysisStore
	session *storage.Session

	out io.Writer
}

// New creates a UCI protocol handler with the given hash size in MB.
func New(hashMB int) *UCI {
	return &UCI{
		tt:       engine.NewTranspositionTable(hashMB),
		position: board.NewPosition(),
		hashMB:   hashMB,
		out:      os.Stdout,
	}
}

// SetStore attaches a persistent analysis store. Optional.
func (u *UCI) SetStore(s *storage.AnalysisStore) {
	u.store = s
}

// Run starts the UCI main loop, reading commands from r until EOF or quit.
func (u *UCI) Run(r io.Reader) {
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			fmt.Fprintln(u.out, "readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "setoption":
			u.handleSetOption(args)
		case "go", "stop":
			fmt.Fprintln(u.out, "info string search is not part of this build")
		case "quit":
			return
		// Debug commands
		case "d":
			fmt.Fprintln(u.out, u.position.String())
		case "fen":
			fmt.Fprintln(u.out, u.position.ToFEN())
		case "key":
			fmt.Fprintf(u.out, "%016x\n", u.position.Key)
		case "hashfull":
			fmt.Fprintln(u.out, u.tt.Permille())
		case "probe":
			u.handleProbe()
		case "persist":
			u.handlePersist()
		case "recall":
			u.handleRecall()
		}
	}
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	fmt.Fprintln(u.out, "id name Demolito")
	fmt.Fprintln(u.out, "id author the Demolito authors")
	fmt.Fprintln(u.out)
	fmt.Fprintln(u.out, "option name Hash type spin default 64 min 1 max 4096")
	fmt.Fprintln(u.out, "uciok")
}

// handleNewGame resets position, table contents and reported line.
func (u *UCI) handleNewGame() {
	u.tt.Clear()
	u.tt.NewSearch()
	u.info.Clear()
	u.position = board.NewPosition()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos [moves ...]
//   - position fen <fen> [moves ...]
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var moveStart int

	switch args[0] {
	case "startpos":
		u.position = board.NewPosition()
		moveStart = len(args)
	case "fen":
		fenEnd := len(args)
		for i, arg := range args[1:] {
			if arg == "moves" {
				fenEnd = i + 1
				break
			}
		}

		pos, err := board.ParseFEN(strings.Join(args[1:fenEnd], " "))
		if err != nil {
			fmt.Fprintf(os.Stderr, "info string Invalid FEN: %v\n", err)
			return
		}
		u.position = pos
		moveStart = len(args)
	default:
		return
	}

	for i, arg := range args {
		if arg == "moves" {
			moveStart = i + 1
			break
		}
	}

	for _, moveStr := range args[moveStart:] {
		m, err := board.ParseMove(moveStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "info string Invalid move: %s\n", moveStr)
			return
		}
		child := u.position.Play(u.remapCastling(m))
		u.position = &child
	}
}

// remapCastling translates a standard UCI castling move (king jumps two
// files) into the internal king-takes-rook encoding. Other moves pass
// through untouched.
func (u *UCI) remapCastling(m board.Move) board.Move {
	from, to := m.From(), m.To()
	if u.position.PieceTypeOn(from) != board.King || from.Rank() != to.Rank() {
		return m
	}

	diff := to.File() - from.File()
	if diff != 2 && diff != -2 {
		return m
	}

	rooks := u.position.CastlableRooks & board.RankMask[from.Rank()]
	for rooks != 0 {
		sq := rooks.PopLSB()
		if (sq > from) == (to > from) {
			return board.NewMove(from, sq)
		}
	}
	return m
}

// handleSetOption processes "setoption name <name> value <value>".
func (u *UCI) handleSetOption(args []string) {
	var name, value string
	target := (*string)(nil)

	for _, arg := range args {
		switch arg {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			if target != nil {
				if *target != "" {
					*target += " "
				}
				*target += arg
			}
		}
	}

	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil || mb < 1 {
			fmt.Fprintf(os.Stderr, "info string Invalid Hash value: %s\n", value)
			return
		}
		u.hashMB = mb
		u.tt.Prepare(mb)
	}
}

// handleProbe reads the table entry for the current position and, on a
// hit, reports it through the info aggregator.
func (u *UCI) handleProbe() {
	entry, ok := u.tt.Read(u.position.Key, 0)
	if !ok {
		fmt.Fprintln(u.out, "info string no table entry")
		return
	}

	var pv []board.Move
	if entry.Move != board.NoMove {
		pv = append(pv, entry.Move)
	}
	u.info.Update(int(entry.Depth), int(entry.Score), 0, pv)
	u.info.Print(u.out)
}

// handlePersist writes the current position's table entry to the
// analysis store.
func (u *UCI) handlePersist() {
	if u.store == nil {
		fmt.Fprintln(u.out, "info string no analysis store configured")
		return
	}

	entry, ok := u.tt.Read(u.position.Key, 0)
	if !ok {
		fmt.Fprintln(u.out, "info string no table entry to persist")
		return
	}

	if u.session == nil {
		sess, err := u.store.BeginSession(u.hashMB)
		if err != nil {
			log.Printf("storage: begin session: %v", err)
			return
		}
		u.session = sess
	}

	rec := &storage.AnalysisRecord{
		FEN:      u.position.ToFEN(),
		BestMove: entry.Move.String(),
		Score:    int(entry.Score),
		Depth:    int(entry.Depth),
		Bound:    boundLabel(entry.Bound),
		Session:  u.session.ID,
		Analyzed: time.Now(),
	}
	if err := u.store.PutAnalysis(u.position.Key, rec); err != nil {
		log.Printf("storage: put analysis: %v", err)
		return
	}

	u.session.Positions++
	if err := u.store.SaveSession(u.session); err != nil {
		log.Printf("storage: save session: %v", err)
	}
	fmt.Fprintln(u.out, "info string analysis persisted")
}

// handleRecall loads the stored analysis for the current position and
// reports it through the info aggregator.
func (u *UCI) handleRecall() {
	if u.store == nil {
		fmt.Fprintln(u.out, "info string no analysis store configured")
		return
	}

	rec, ok, err := u.store.GetAnalysis(u.position.Key)
	if err != nil {
		log.Printf("storage: get analysis: %v", err)
		return
	}
	if !ok {
		fmt.Fprintln(u.out, "info string no stored analysis")
		return
	}

	var pv []board.Move
	if m, err := board.ParseMove(rec.BestMove); err == nil && m != board.NoMove {
		pv = append(pv, m)
	}
	u.info.Update(rec.Depth, rec.Score, 0, pv)
	u.info.Print(u.out)
}

func boundLabel(b engine.Bound) string {
	switch b {
	case engine.BoundLower:
		return "lower"
	case engine.BoundExact:
		return "exact"
	default:
		return "upper"
	}
}

// Package engine implements the search-support layer: the shared
// transposition table and the search info aggregator.
package engine

import (
	"github.com/sciezk/Demolito/internal/board"
)

// Score constants shared by the search layer.
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
)

// Bound indicates the type of score stored in the transposition table.
type Bound uint8

const (
	BoundLower Bound = iota // Failed high (beta cutoff)
	BoundExact              // Exact score
	BoundUpper              // Failed low
)

// Entry is the payload probed from and stored into the table. Scores are
// node-relative: Read and Write re-base any mate-distance component
// through the caller's ply.
type Entry struct {
	Move  board.Move // Best move found, or NoMove
	Score int16      // Search score, bounded by Bound
	Eval  int16      // Static evaluation, independently cacheable
	Depth int8       // Depth the stored result is valid for
	Bound Bound
}

// slot is the in-table record: 16 bytes, one cache-line-friendly record
// per index. The bound (2 bits) and generation tag (6 bits) share a byte.
type slot struct {
	key       uint64
	move      board.Move
	score     int16
	eval      int16
	depth     int8
	boundDate uint8
}

const slotSize = 16 // bytes, keep in sync with the struct above

func (s *slot) date() uint8 {
	return s.boundDate >> 2
}

func (s *slot) bound() Bound {
	return Bound(s.boundDate & 3)
}

// TranspositionTable is a fixed-capacity, direct-mapped memo store keyed
// by position fingerprint. One slot per index, no chaining.
//
// The table is deliberately accessed without per-slot locking: concurrent
// workers may race on the same slot, and a torn read can pair a key with
// another write's payload. The probe's key-equality check is the only
// (probabilistic) safeguard. Memoization is a performance optimization,
// not a correctness-critical store; locking here collapses throughput.
type TranspositionTable struct {
	slots []slot
	mask  uint64
	date  uint8 // Current generation, wraps modulo 64
}

// NewTranspositionTable creates a table sized to sizeMB megabytes.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	tt := &TranspositionTable{}
	tt.Prepare(sizeMB)
	return tt
}

// Prepare (re)allocates the table so that its slots fit within sizeMB
// megabytes, and clears every slot. The previous allocation is released
// to the garbage collector. The generation counter is not reset.
//
// Prepare must not run concurrently with Read/Write against the table
// being replaced; quiescing workers is the caller's responsibility.
func (tt *TranspositionTable) Prepare(sizeMB int) {
	if sizeMB < 1 {
		sizeMB = 1
	}
	count := roundDownToPowerOf2(uint64(sizeMB) * 1024 * 1024 / slotSize)

	tt.slots = make([]slot, count)
	tt.mask = count - 1
}

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Clear empties every slot without resizing. The generation counter is
// left alone.
func (tt *TranspositionTable) Clear() {
	for i := range tt.slots {
		tt.slots[i] = slot{}
	}
}

// NewSearch advances the generation counter. Call once per search episode;
// replacement prefers slots stamped with the current generation.
func (tt *TranspositionTable) NewSearch() {
	tt.date = (tt.date + 1) & 63
}

// Generation returns the current generation tag.
func (tt *TranspositionTable) Generation() uint8 {
	return tt.date
}

// EntryCount returns the number of slots in the table.
func (tt *TranspositionTable) EntryCount() uint64 {
	return uint64(len(tt.slots))
}

// Prefetch hints that the slot for key is about to be probed, pulling its
// cache line. It has no observable state effect and needs no matching Read.
func (tt *TranspositionTable) Prefetch(key uint64) {
	_ = tt.slots[key&tt.mask].key
}

// Read probes the table. On a hit the slot is refreshed to the current
// generation and the entry is returned with any mate-distance score
// re-based from the storing node to the probing node's ply.
func (tt *TranspositionTable) Read(key uint64, ply int) (Entry, bool) {
	s := &tt.slots[key&tt.mask]
	if s.key != key {
		return Entry{}, false
	}

	s.boundDate = uint8(s.bound()) | tt.date<<2

	return Entry{
		Move:  s.move,
		Score: int16(scoreFromTT(int(s.score), ply)),
		Eval:  s.eval,
		Depth: s.depth,
		Bound: s.bound(),
	}, true
}

// Write stores an entry for key. The existing slot survives only when it
// belongs to the current generation, is at least as deep as the new entry,
// and describes a different position; same-position entries are always
// updated. Mate-distance scores are normalized to be ply-independent
// before storage.
func (tt *TranspositionTable) Write(key uint64, e Entry, ply int) {
	s := &tt.slots[key&tt.mask]

	if s.key != key && s.date() == tt.date && s.depth >= e.Depth {
		return
	}

	s.key = key
	s.move = e.Move
	s.score = int16(scoreToTT(int(e.Score), ply))
	s.eval = e.Eval
	s.depth = e.Depth
	s.boundDate = uint8(e.Bound)&3 | tt.date<<2
}

// Permille returns, in parts per thousand, the fraction of sampled slots
// that are occupied and stamped with the current generation. The first
// 1000 slots stand in for the whole table.
func (tt *TranspositionTable) Permille() int {
	sample := 1000
	if uint64(sample) > tt.EntryCount() {
		sample = int(tt.EntryCount())
	}

	used := 0
	for i := 0; i < sample; i++ {
		if tt.slots[i].key != 0 && tt.slots[i].date() == tt.date {
			used++
		}
	}

	return used * 1000 / sample
}

// scoreToTT normalizes a mate-distance score for storage: stored scores
// are relative to the storing node, independent of its ply.
func scoreToTT(score, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}

// scoreFromTT re-bases a stored mate-distance score to the probing node,
// so "mate in N from root" reads consistently wherever it was cached.
func scoreFromTT(score, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}

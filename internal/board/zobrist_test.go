package board

import "testing"

// TestZobristDeterminism checks that the fixed-seed tables give the same
// fingerprint across independently parsed copies of one position.
func TestZobristDeterminism(t *testing.T) {
	a := NewPosition()
	b := NewPosition()

	if a.Key != b.Key {
		t.Errorf("same position, different keys: %016x vs %016x", a.Key, b.Key)
	}
	if a.Key == 0 {
		t.Errorf("starting position hashed to zero")
	}
}

func TestZobristEnPassantSentinel(t *testing.T) {
	if got := ZobristEnPassant(NoSquare); got != 0 {
		t.Errorf("ZobristEnPassant(NoSquare) = %016x, want 0", got)
	}
	if got := ZobristEnPassant(E3); got == 0 {
		t.Errorf("ZobristEnPassant(e3) = 0, want nonzero")
	}
}

// TestZobristEnPassantByFile checks that targets on the same file share a
// term and targets on different files do not.
func TestZobristEnPassantByFile(t *testing.T) {
	if ZobristEnPassant(E3) != ZobristEnPassant(E6) {
		t.Errorf("e3 and e6 must share the e-file term")
	}
	if ZobristEnPassant(E3) == ZobristEnPassant(D3) {
		t.Errorf("e3 and d3 must not share a term")
	}
}

// TestZobristCastlingLinearity checks the XOR-linearity Play relies on to
// fold a rights delta into the key in one step.
func TestZobristCastlingLinearity(t *testing.T) {
	before := SquareBB(A1) | SquareBB(H1) | SquareBB(A8) | SquareBB(H8)
	after := SquareBB(A8) | SquareBB(H8)

	delta := ZobristCastling(before) ^ ZobristCastling(after)
	if delta != ZobristCastling(before^after) {
		t.Errorf("castling terms are not XOR-linear over square sets")
	}

	if ZobristCastling(0) != 0 {
		t.Errorf("empty rook set must contribute nothing")
	}
}

package board

import "testing"

// TestFENRoundTrip parses representative positions and checks that
// re-serialization reproduces the input and that the incrementally built
// key matches a from-scratch recomputation.
func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
		"r3k2r/8/8/8/8/8/8/R3K2R b Kq - 4 1",
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		"1r2k3/8/8/8/8/8/8/1R2K3 w Bb - 0 1",
		"8/P7/8/8/8/8/7k/K7 w - - 12 1",
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			pos, err := ParseFEN(fen)
			if err != nil {
				t.Fatalf("ParseFEN(%q) failed: %v", fen, err)
			}

			if got := pos.ToFEN(); got != fen {
				t.Errorf("round trip = %q, want %q", got, fen)
			}

			if pos.Key != pos.ComputeKey() {
				t.Errorf("incremental key %016x != recomputed %016x", pos.Key, pos.ComputeKey())
			}
		})
	}
}

// TestFENFiveFields checks that the full-move number is optional and that
// omitting it changes nothing.
func TestFENFiveFields(t *testing.T) {
	withSix, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if err != nil {
		t.Fatalf("six-field FEN rejected: %v", err)
	}

	withFive, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0")
	if err != nil {
		t.Fatalf("five-field FEN rejected: %v", err)
	}

	if withFive.Key != withSix.Key {
		t.Errorf("key differs between five and six field FEN: %016x vs %016x",
			withFive.Key, withSix.Key)
	}
	if *withFive != *withSix {
		t.Errorf("position differs between five and six field FEN")
	}
}

// TestFENStartingPosition spot-checks the parsed starting position.
func TestFENStartingPosition(t *testing.T) {
	pos := NewPosition()

	if pos.Turn != White {
		t.Errorf("Turn = %v, want White", pos.Turn)
	}
	if pos.EPSquare != NoSquare {
		t.Errorf("EPSquare = %v, want NoSquare", pos.EPSquare)
	}
	if pos.Rule50 != 0 {
		t.Errorf("Rule50 = %d, want 0", pos.Rule50)
	}

	wantRooks := SquareBB(A1) | SquareBB(H1) | SquareBB(A8) | SquareBB(H8)
	if pos.CastlableRooks != wantRooks {
		t.Errorf("CastlableRooks = %v, want corner rooks", pos.CastlableRooks)
	}

	if pos.ByColor[White].PopCount() != 16 || pos.ByColor[Black].PopCount() != 16 {
		t.Errorf("piece counts: white %d black %d, want 16 each",
			pos.ByColor[White].PopCount(), pos.ByColor[Black].PopCount())
	}
	if pos.ByColor[White]&pos.ByColor[Black] != 0 {
		t.Errorf("color bitboards overlap")
	}

	if pos.PieceTypeOn(E1) != King || pos.ColorOn(E1) != White {
		t.Errorf("expected white king on e1")
	}
	if pos.PieceTypeOn(D8) != Queen || pos.ColorOn(D8) != Black {
		t.Errorf("expected black queen on d8")
	}
}

// TestFENShredderCastling checks that file-letter castling tokens resolve
// to the named rook squares.
func TestFENShredderCastling(t *testing.T) {
	pos, err := ParseFEN("1r2k3/8/8/8/8/8/8/1R2K3 w Bb - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}

	want := SquareBB(B1) | SquareBB(B8)
	if pos.CastlableRooks != want {
		t.Errorf("CastlableRooks = %v, want b1 and b8", pos.CastlableRooks)
	}
}

// TestFENErrors checks that malformed descriptions are rejected.
func TestFENErrors(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq",      // too few fields
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",          // 7 ranks
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - 0 1", // bad piece
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1", // bad side
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkz - 0 1", // bad castling
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e9 0 1", // bad ep
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - x 1",  // bad clock
	}

	for _, fen := range bad {
		if _, err := ParseFEN(fen); err == nil {
			t.Errorf("ParseFEN(%q) accepted malformed input", fen)
		}
	}
}

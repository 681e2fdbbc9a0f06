package board

import "fmt"

// DebugKeyCheck enables the expensive key invariant check after every
// Play. A divergence is a programming error and panics.
var DebugKeyCheck = false

// Position represents a complete chess position.
//
// Positions are values: Play returns a new child position and never
// mutates its receiver, so concurrent search workers exploring different
// lines never contend on a shared instance.
type Position struct {
	// Piece placement, color-major and kind-major. A square is occupied
	// iff it is set in exactly one ByColor set and exactly one ByPiece set.
	ByColor [2]Bitboard
	ByPiece [6]Bitboard

	// Game state
	Turn           Color
	CastlableRooks Bitboard // Rook squares that still retain castling rights
	EPSquare       Square   // En passant target square, NoSquare if none
	Rule50         int      // Moves since last pawn move or capture

	// Zobrist fingerprint, maintained incrementally. Always equal to
	// ComputeKey() after set-up and after every Play.
	Key uint64
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, _ := ParseFEN(StartFEN)
	return pos
}

// Occupied returns the bitboard of all occupied squares.
func (p *Position) Occupied() Bitboard {
	return p.ByColor[White] | p.ByColor[Black]
}

// Pieces returns the bitboard of pieces of the given color and type.
func (p *Position) Pieces(c Color, pt PieceType) Bitboard {
	return p.ByColor[c] & p.ByPiece[pt]
}

// ColorOn returns the color of the piece on an occupied square.
func (p *Position) ColorOn(sq Square) Color {
	if p.ByColor[White].IsSet(sq) {
		return White
	}
	return Black
}

// PieceTypeOn returns the type of the piece on an occupied square.
func (p *Position) PieceTypeOn(sq Square) PieceType {
	// Pawns first (most frequent)
	if p.ByPiece[Pawn].IsSet(sq) {
		return Pawn
	}
	for pt := Knight; pt <= King; pt++ {
		if p.ByPiece[pt].IsSet(sq) {
			return pt
		}
	}
	return NoPieceType
}

// setPiece places a piece and folds its Zobrist term into the key.
func (p *Position) setPiece(c Color, pt PieceType, sq Square) {
	bb := SquareBB(sq)
	p.ByColor[c] |= bb
	p.ByPiece[pt] |= bb
	p.Key ^= zobristPiece[c][pt][sq]
}

// clearPiece removes a piece and folds its Zobrist term out of the key.
func (p *Position) clearPiece(c Color, pt PieceType, sq Square) {
	bb := SquareBB(sq)
	p.ByColor[c] &^= bb
	p.ByPiece[pt] &^= bb
	p.Key ^= zobristPiece[c][pt][sq]
}

// pushDelta returns the pawn push direction for the given color.
func pushDelta(c Color) int {
	if c == White {
		return 8
	}
	return -8
}

// backRank returns the back-rank mask for the given color.
func backRank(c Color) Bitboard {
	return RankMask[7*int(c)]
}

// Play produces the position reached by applying m. The receiver is never
// mutated. The move must be consistent with the position: applying a move
// that is not is a contract violation with undefined results.
//
// Castling is encoded as the king capturing its own rook; en passant is
// recognized by a pawn landing on the en passant target square.
func (p *Position) Play(m Move) Position {
	pos := *p
	pos.Rule50++

	us, them := p.Turn, p.Turn.Other()
	piece := p.PieceTypeOn(m.From())

	// Capture piece on the destination square, if any. The victim's owner
	// comes from the board, not from "the opponent": a king capturing its
	// own rook is the castling encoding.
	if p.Occupied().IsSet(m.To()) {
		pos.Rule50 = 0
		pos.clearPiece(p.ColorOn(m.To()), p.PieceTypeOn(m.To()), m.To())

		// Capturing a rook revokes the corresponding castling right
		if p.PieceTypeOn(m.To()) == Rook {
			pos.CastlableRooks = pos.CastlableRooks.Clear(m.To())
		}
	}

	// Move our piece
	pos.clearPiece(us, piece, m.From())
	pos.setPiece(us, piece, m.To())

	if piece == Pawn {
		push := pushDelta(us)
		pos.Rule50 = 0

		if int(m.To()) == int(m.From())+2*push {
			pos.EPSquare = Square(int(m.From()) + push)
		} else {
			pos.EPSquare = NoSquare
		}

		if m.To() == p.EPSquare {
			// En passant capture: the victim sits behind the target square
			pos.clearPiece(them, Pawn, Square(int(m.To())-push))
		} else if r := m.To().Rank(); r == 0 || r == 7 {
			pos.clearPiece(us, Pawn, m.To())
			pos.setPiece(us, m.Promotion(), m.To())
		}
	} else {
		pos.EPSquare = NoSquare

		if piece == Rook {
			pos.CastlableRooks = pos.CastlableRooks.Clear(m.From())
		} else if piece == King {
			// The king loses all castling rights by moving
			pos.CastlableRooks &^= backRank(us)

			if p.ByColor[us].IsSet(m.To()) {
				// Capturing our own piece can only be castling, encoded KxR
				rank := m.From().Rank()
				ksq, rsq := NewSquare(6, rank), NewSquare(5, rank)
				if m.To() < m.From() {
					ksq, rsq = NewSquare(2, rank), NewSquare(3, rank)
				}

				pos.clearPiece(us, King, m.To())
				pos.setPiece(us, King, ksq)
				pos.setPiece(us, Rook, rsq)
			}
		}
	}

	pos.Turn = them
	pos.Key ^= zobristSideToMove
	pos.Key ^= ZobristEnPassant(p.EPSquare) ^ ZobristEnPassant(pos.EPSquare)
	pos.Key ^= ZobristCastling(p.CastlableRooks ^ pos.CastlableRooks)

	if DebugKeyCheck && pos.Key != pos.ComputeKey() {
		panic("board: incremental key diverged from recomputation")
	}

	return pos
}

// ComputeKey recomputes the Zobrist fingerprint from scratch. The
// incrementally maintained Key must always equal this value; it is the
// correctness anchor for the whole incremental-update design.
func (p *Position) ComputeKey() uint64 {
	var key uint64

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := p.Pieces(c, pt)
			for bb != 0 {
				key ^= zobristPiece[c][pt][bb.PopLSB()]
			}
		}
	}

	if p.Turn == Black {
		key ^= zobristSideToMove
	}
	key ^= ZobristEnPassant(p.EPSquare)
	key ^= ZobristCastling(p.CastlableRooks)

	return key
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	s := "\n"
	for rank := 7; rank >= 0; rank-- {
		s += fmt.Sprintf("%d  ", rank+1)
		for file := 0; file < 8; file++ {
			sq := NewSquare(file, rank)
			switch {
			case p.Occupied().IsSet(sq):
				s += string(p.PieceTypeOn(sq).Char(p.ColorOn(sq))) + " "
			case sq == p.EPSquare:
				s += "* "
			default:
				s += ". "
			}
		}
		s += "\n"
	}
	s += "\n   a b c d e f g h\n\n"
	s += fmt.Sprintf("Side to move: %s\n", p.Turn)
	s += fmt.Sprintf("Castling: %s\n", p.castlingString())
	s += fmt.Sprintf("En passant: %s\n", p.EPSquare)
	s += fmt.Sprintf("Rule 50: %d\n", p.Rule50)
	s += fmt.Sprintf("Key: %016x\n", p.Key)
	return s
}

package board

import "fmt"

// Move encodes a chess move in 16 bits:
// bits 0-5:   from square (0-63)
// bits 6-11:  to square (0-63)
// bits 12-14: promotion piece type (Knight..Queen), 0 if none
//
// Castling is encoded as the king capturing its own rook, so no flag
// bits are needed: Play recognizes the pattern from the board itself.
type Move uint16

// NoMove represents an invalid or null move.
const NoMove Move = 0

// NewMove creates a move without promotion.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// NewPromotion creates a pawn promotion move.
func NewPromotion(from, to Square, promo PieceType) Move {
	return NewMove(from, to) | Move(promo)<<12
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Promotion returns the promotion piece type, or NoPieceType if this is
// not a promotion.
func (m Move) Promotion() PieceType {
	promo := PieceType(m >> 12)
	if promo == 0 {
		return NoPieceType
	}
	return promo
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m>>12 != 0
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()

	if m.IsPromotion() {
		promoChars := []byte{'n', 'b', 'r', 'q'}
		s += string(promoChars[m.Promotion()-Knight])
	}

	return s
}

// ParseMove parses a UCI format move string. The move is syntactic only:
// whether it is consistent with a given position is the caller's contract.
func ParseMove(s string) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	if len(s) == 5 {
		promo := PromotionFromChar(s[4])
		if promo == NoPieceType {
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		return NewPromotion(from, to, promo), nil
	}

	return NewMove(from, to), nil
}

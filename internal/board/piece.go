package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// PieceType represents the type of a chess piece.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType PieceType = 6
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// pieceLabel holds the FEN character for each (color, piece type) pair.
// Index 0 is white (uppercase), index 1 is black (lowercase).
var pieceLabel = [2]string{"PNBRQK", "pnbrqk"}

// Char returns the FEN character for the piece type as seen by the given color.
func (pt PieceType) Char(c Color) byte {
	if pt >= NoPieceType || c >= NoColor {
		return '.'
	}
	return pieceLabel[c][pt]
}

// PieceTypeFromChar converts a FEN character to its color and piece type.
// Returns NoColor/NoPieceType for characters that do not name a piece.
func PieceTypeFromChar(ch byte) (Color, PieceType) {
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			if pieceLabel[c][pt] == ch {
				return c, pt
			}
		}
	}
	return NoColor, NoPieceType
}

// PromotionFromChar converts a lowercase promotion character (n, b, r, q)
// to a piece type. Returns NoPieceType for anything else.
func PromotionFromChar(ch byte) PieceType {
	switch ch {
	case 'n':
		return Knight
	case 'b':
		return Bishop
	case 'r':
		return Rook
	case 'q':
		return Queen
	default:
		return NoPieceType
	}
}

package board

// Zobrist hash keys for position hashing.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristPiece      [2][6][64]uint64 // [Color][PieceType][Square]
	zobristEnPassant  [8]uint64        // One per file
	zobristCastling   [64]uint64       // One per castlable rook square
	zobristSideToMove uint64           // XOR when black to move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234) // Fixed seed

	// Piece keys
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}

	// En passant keys (one per file)
	for file := 0; file < 8; file++ {
		zobristEnPassant[file] = rng.next()
	}

	// Castling keys (one per rook square)
	for sq := A1; sq <= H8; sq++ {
		zobristCastling[sq] = rng.next()
	}

	// Side to move key
	zobristSideToMove = rng.next()
}

// ZobristPiece returns the Zobrist key for a piece on a square.
func ZobristPiece(c Color, pt PieceType, sq Square) uint64 {
	return zobristPiece[c][pt][sq]
}

// ZobristEnPassant returns the Zobrist key for an en passant target,
// keyed by file. The NoSquare sentinel contributes nothing.
func ZobristEnPassant(sq Square) uint64 {
	if sq >= NoSquare {
		return 0
	}
	return zobristEnPassant[sq.File()]
}

// ZobristCastling returns the combined Zobrist key for a set of castlable
// rook squares: the XOR of one fixed key per set square. XOR-linearity is
// what lets Play fold a rights delta into the position key in one step.
func ZobristCastling(rooks Bitboard) uint64 {
	var key uint64
	for rooks != 0 {
		key ^= zobristCastling[rooks.PopLSB()]
	}
	return key
}

// ZobristSideToMove returns the Zobrist key for side to move.
func ZobristSideToMove() uint64 {
	return zobristSideToMove
}

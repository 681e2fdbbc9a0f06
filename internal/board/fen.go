package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string and returns a Position.
//
// Five fields are required: placement, side to move, castling rights,
// en passant target, half-move clock. A sixth full-move-number field is
// accepted and ignored. Castling tokens may be the usual KQkq shorthands
// or file letters naming the rook's file (Shredder style); either way the
// right is resolved to a concrete rook square.
//
// Parsing is best effort: a description that passes these checks but does
// not describe a legal position is propagated as-is, so callers needing
// strict validation must pre-check.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 5 {
		return nil, fmt.Errorf("invalid FEN: need at least 5 fields, got %d", len(parts))
	}

	pos := &Position{EPSquare: NoSquare}

	// Parse piece placement (field 0)
	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	// Parse side to move (field 1)
	switch parts[1] {
	case "w":
		pos.Turn = White
	case "b":
		pos.Turn = Black
		pos.Key ^= zobristSideToMove
	default:
		return nil, fmt.Errorf("invalid side to move: %s", parts[1])
	}

	// Parse castling rights (field 2)
	if err := parseCastlingRights(pos, parts[2]); err != nil {
		return nil, err
	}
	pos.Key ^= ZobristCastling(pos.CastlableRooks)

	// Parse en passant square (field 3)
	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square: %s", parts[3])
		}
		pos.EPSquare = sq
		pos.Key ^= ZobristEnPassant(sq)
	}

	// Parse half-move clock (field 4)
	rule50, err := strconv.Atoi(parts[4])
	if err != nil {
		return nil, fmt.Errorf("invalid half-move clock: %s", parts[4])
	}
	pos.Rule50 = rule50

	// A trailing full-move number (field 5) is accepted but carries no state.

	return pos, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
// Each placement goes through setPiece, so the key accumulates incrementally.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for j := 0; j < len(rankStr); j++ {
			ch := rankStr[j]
			if file > 7 {
				return fmt.Errorf("too many squares in rank %d", rank+1)
			}

			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}

			c, pt := PieceTypeFromChar(ch)
			if pt == NoPieceType {
				return fmt.Errorf("invalid piece character: %c", ch)
			}
			pos.setPiece(c, pt, NewSquare(file, rank))
			file++
		}

		if file != 8 {
			return fmt.Errorf("invalid number of squares in rank %d: got %d", rank+1, file)
		}
	}

	return nil
}

// parseCastlingRights resolves each castling token to a rook square.
func parseCastlingRights(pos *Position, castling string) error {
	if castling == "-" {
		return nil
	}

	for j := 0; j < len(castling); j++ {
		ch := castling[j]

		rank := 0
		if ch >= 'a' && ch <= 'z' {
			rank = 7
			ch -= 'a' - 'A'
		}

		var file int
		switch {
		case ch == 'K':
			file = 7
		case ch == 'Q':
			file = 0
		case ch >= 'A' && ch <= 'H':
			file = int(ch - 'A')
		default:
			return fmt.Errorf("invalid castling character: %c", castling[j])
		}

		pos.CastlableRooks = pos.CastlableRooks.Set(NewSquare(file, rank))
	}

	return nil
}

// ToFEN returns the FEN representation of the position.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	// Piece placement
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			sq := NewSquare(file, rank)
			if !p.Occupied().IsSet(sq) {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(p.PieceTypeOn(sq).Char(p.ColorOn(sq)))
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	// Side to move
	sb.WriteByte(' ')
	if p.Turn == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	// Castling rights
	sb.WriteByte(' ')
	sb.WriteString(p.castlingString())

	// En passant
	sb.WriteByte(' ')
	sb.WriteString(p.EPSquare.String())

	// Half-move clock; the full-move number is not tracked
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.Rule50))
	sb.WriteString(" 1")

	return sb.String()
}

// castlingString renders CastlableRooks as FEN castling tokens. Corner
// rooks get the classic K/Q shorthand, others their file letter.
func (p *Position) castlingString() string {
	if p.CastlableRooks.Empty() {
		return "-"
	}

	var sb strings.Builder
	for c := White; c <= Black; c++ {
		rooks := p.CastlableRooks & backRank(c)
		for file := 7; file >= 0; file-- {
			sq := NewSquare(file, 7*int(c))
			if !rooks.IsSet(sq) {
				continue
			}
			var ch byte
			switch file {
			case 7:
				ch = 'K'
			case 0:
				ch = 'Q'
			default:
				ch = byte('A' + file)
			}
			if c == Black {
				ch += 'a' - 'A'
			}
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}

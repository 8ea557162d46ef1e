package model

import "fmt"

// Position addresses a square. Row 0 is black's back rank, row 7 is white's.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < 8 && p.Col >= 0 && p.Col < 8
}

func (p Position) Offset(dRow, dCol int) Position {
	return Position{Row: p.Row + dRow, Col: p.Col + dCol}
}

// Square returns the algebraic name of the square, e.g. "e4".
func (p Position) Square() string {
	return fmt.Sprintf("%c%d", p.Col+'a', 8-p.Row)
}

func (p Position) File() string {
	return fmt.Sprintf("%c", p.Col+'a')
}

func (p Position) String() string {
	return p.Square()
}

// ParseSquare converts algebraic notation ("e4") into a Position.
func ParseSquare(s string) (Position, bool) {
	if len(s) != 2 {
		return Position{}, false
	}
	pos := Position{Row: 8 - int(s[1]-'0'), Col: int(s[0] - 'a')}
	if !pos.InBounds() {
		return Position{}, false
	}
	return pos, true
}

// Board is an 8x8 grid of optional pieces. It is a value: assigning a Board copies
// the grid, so callers can derive new boards without affecting the original.
type Board [8][8]*Piece

func (b *Board) At(pos Position) *Piece {
	if !pos.InBounds() {
		return nil
	}
	return b[pos.Row][pos.Col]
}

// With returns a copy of the board with the given square set.
func (b Board) With(pos Position, piece *Piece) Board {
	b[pos.Row][pos.Col] = piece
	return b
}

// Relocate returns a copy of the board with the piece on from moved to to.
func (b Board) Relocate(from, to Position) Board {
	b[to.Row][to.Col] = b[from.Row][from.Col]
	b[from.Row][from.Col] = nil
	return b
}

func (b *Board) FindKing(color Color) (Position, bool) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := b[row][col]
			if piece != nil && piece.Type == King && piece.Color == color {
				return Position{Row: row, Col: col}, true
			}
		}
	}
	return Position{}, false
}

// Squares returns the positions of every piece of the given color, scanning from row 0.
func (b *Board) Squares(color Color) []Position {
	squares := []Position{}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if b[row][col] != nil && b[row][col].Color == color {
				squares = append(squares, Position{Row: row, Col: col})
			}
		}
	}
	return squares
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// InitializeBoard returns the standard starting position.
func InitializeBoard() Board {
	var board Board
	for col := 0; col < 8; col++ {
		board[0][col] = NewPiece(backRank[col], Black)
		board[1][col] = NewPiece(Pawn, Black)
		board[6][col] = NewPiece(Pawn, White)
		board[7][col] = NewPiece(backRank[col], White)
	}
	return board
}

package model

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// Letter returns the algebraic notation letter for the piece type. Pawns have none.
func (p PieceType) Letter() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

func (p PieceType) Valid() bool {
	switch p {
	case King, Queen, Rook, Bishop, Knight, Pawn:
		return true
	}
	return false
}

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) Valid() bool {
	return c == White || c == Black
}

// Piece is an immutable value. Moving or promoting a piece produces a new Piece.
type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"hasMoved"`
}

func NewPiece(t PieceType, c Color) *Piece {
	return &Piece{Type: t, Color: c}
}

// Moved returns a copy of the piece marked as having moved.
func (p Piece) Moved() *Piece {
	p.HasMoved = true
	return &p
}

// PromotedTo returns a copy of the piece with a new type.
func (p Piece) PromotedTo(t PieceType) *Piece {
	p.Type = t
	p.HasMoved = true
	return &p
}

var pieceSymbols = map[Color]map[PieceType]string{
	White: {
		King:   "♔",
		Queen:  "♕",
		Rook:   "♖",
		Bishop: "♗",
		Knight: "♘",
		Pawn:   "♙",
	},
	Black: {
		King:   "♚",
		Queen:  "♛",
		Rook:   "♜",
		Bishop: "♝",
		Knight: "♞",
		Pawn:   "♟",
	},
}

// PieceSymbol returns the display glyph for a piece.
func PieceSymbol(piece Piece) string {
	return pieceSymbols[piece.Color][piece.Type]
}

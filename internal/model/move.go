package model

// Move records one applied (or candidate) ply. Piece holds the mover as it was before the move.
type Move struct {
	From        Position  `json:"from"`
	To          Position  `json:"to"`
	Piece       Piece     `json:"piece"`
	Captured    *Piece    `json:"captured,omitempty"`
	IsEnPassant bool      `json:"isEnPassant,omitempty"`
	IsCastling  bool      `json:"isCastling,omitempty"`
	IsPromotion bool      `json:"isPromotion,omitempty"`
	PromotedTo  PieceType `json:"promotedTo,omitempty"`
	Notation    string    `json:"notation,omitempty"`
}

func (m Move) IsCapture() bool {
	return m.Captured != nil || m.IsEnPassant
}

// SimpleMove is what clients send: a from/to pair plus an optional promotion choice.
type SimpleMove struct {
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
}

package model

// GameState is a snapshot of a game. Transitions always produce a new GameState.
type GameState struct {
	Board           Board     `json:"board"`
	CurrentPlayer   Color     `json:"currentPlayer"`
	MoveHistory     []Move    `json:"moveHistory"`
	IsCheck         bool      `json:"isCheck"`
	IsCheckmate     bool      `json:"isCheckmate"`
	IsStalemate     bool      `json:"isStalemate"`
	IsDraw          bool      `json:"isDraw"`
	HalfMoveClock   int       `json:"halfMoveClock"`
	FullMoveNumber  int       `json:"fullMoveNumber"`
	EnPassantTarget *Position `json:"enPassantTarget"`
}

func NewGameState() GameState {
	return GameState{
		Board:          InitializeBoard(),
		CurrentPlayer:  White,
		MoveHistory:    make([]Move, 0),
		FullMoveNumber: 1,
	}
}

// Clone returns a copy that shares nothing mutable with the receiver.
func (s GameState) Clone() GameState {
	history := make([]Move, len(s.MoveHistory))
	copy(history, s.MoveHistory)
	s.MoveHistory = history
	if s.EnPassantTarget != nil {
		target := *s.EnPassantTarget
		s.EnPassantTarget = &target
	}
	return s
}

func (s GameState) IsOver() bool {
	return s.IsCheckmate || s.IsStalemate || s.IsDraw
}

func (s GameState) LastMove() (Move, bool) {
	if len(s.MoveHistory) == 0 {
		return Move{}, false
	}
	return s.MoveHistory[len(s.MoveHistory)-1], true
}

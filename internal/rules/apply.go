package rules

import (
	"fmt"

	"github.com/benbeisheim/chessmate-backend/internal/model"
)

// ApplyMove validates a from/to pair against the legal moves of the side to move and
// returns the resulting state together with the fully described move. The input
// state is never modified. An empty promotion defaults to a queen.
func ApplyMove(state model.GameState, from, to model.Position, promotion model.PieceType) (model.GameState, model.Move, error) {
	if state.IsOver() {
		return state, model.Move{}, ErrGameOver
	}
	if !from.InBounds() || !to.InBounds() {
		return state, model.Move{}, fmt.Errorf("%w: out of bounds", ErrIllegalMove)
	}
	piece := state.Board.At(from)
	if piece == nil {
		return state, model.Move{}, ErrNoPiece
	}
	if piece.Color != state.CurrentPlayer {
		return state, model.Move{}, ErrNotYourTurn
	}

	if !containsPosition(LegalMoves(&state.Board, from, state.CurrentPlayer, state.EnPassantTarget), to) {
		return state, model.Move{}, fmt.Errorf("%w: %s%s", ErrIllegalMove, from.Square(), to.Square())
	}

	if promotion == "" {
		promotion = model.Queen
	}
	if isPromotionSquare(piece, to) && !validPromotion(promotion) {
		return state, model.Move{}, fmt.Errorf("%w: %q", ErrInvalidPromotion, promotion)
	}

	move := describeMove(&state.Board, from, to, state.EnPassantTarget, promotion)
	next := Play(state, move)
	UpdateStatus(&next)
	return next, next.MoveHistory[len(next.MoveHistory)-1], nil
}

func validPromotion(t model.PieceType) bool {
	switch t {
	case model.Queen, model.Rook, model.Bishop, model.Knight:
		return true
	}
	return false
}

func containsPosition(positions []model.Position, target model.Position) bool {
	for _, p := range positions {
		if p == target {
			return true
		}
	}
	return false
}

// Play applies a move taken from AllLegalMoves without validating it and without
// deriving the check and termination flags. It is the transition used for lookahead.
func Play(state model.GameState, move model.Move) model.GameState {
	next := state.Clone()
	board := next.Board
	mover := move.Piece

	if move.IsEnPassant {
		board[move.From.Row][move.To.Col] = nil
	}
	if move.IsCastling {
		rookFrom, rookTo := castlingRookSquares(move)
		if rook := board.At(rookFrom); rook != nil {
			board[rookTo.Row][rookTo.Col] = rook.Moved()
			board[rookFrom.Row][rookFrom.Col] = nil
		}
	}

	landed := mover.Moved()
	if move.IsPromotion {
		landed = mover.PromotedTo(move.PromotedTo)
	}
	board[move.To.Row][move.To.Col] = landed
	board[move.From.Row][move.From.Col] = nil

	next.EnPassantTarget = nil
	if mover.Type == model.Pawn && abs(move.To.Row-move.From.Row) == 2 {
		next.EnPassantTarget = &model.Position{Row: (move.From.Row + move.To.Row) / 2, Col: move.From.Col}
	}

	if move.IsCapture() || mover.Type == model.Pawn {
		next.HalfMoveClock = 0
	} else {
		next.HalfMoveClock++
	}
	if mover.Color == model.Black {
		next.FullMoveNumber++
	}

	move.Notation = model.MoveToNotation(move, state.Board)
	next.MoveHistory = append(next.MoveHistory, move)
	next.Board = board
	next.CurrentPlayer = state.CurrentPlayer.Opposite()
	next.IsCheck, next.IsCheckmate, next.IsStalemate, next.IsDraw = false, false, false, false
	return next
}

func castlingRookSquares(move model.Move) (from, to model.Position) {
	row := move.From.Row
	if move.To.Col > move.From.Col {
		return model.Position{Row: row, Col: 7}, model.Position{Row: row, Col: 5}
	}
	return model.Position{Row: row, Col: 0}, model.Position{Row: row, Col: 3}
}

// UpdateStatus derives the check, checkmate, stalemate and draw flags for the side
// to move.
func UpdateStatus(state *model.GameState) {
	state.IsCheck = IsInCheck(&state.Board, state.CurrentPlayer)
	hasMoves := HasLegalMoves(state)
	state.IsCheckmate = state.IsCheck && !hasMoves
	state.IsStalemate = !state.IsCheck && !hasMoves
	state.IsDraw = IsFiftyMoveDraw(state) || HasInsufficientMaterial(&state.Board)
}

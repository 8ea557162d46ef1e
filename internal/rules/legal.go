package rules

import "github.com/benbeisheim/chessmate-backend/internal/model"

// LegalMoves returns the destinations the piece on from may move to without leaving
// its own king in check. The result is empty when from is empty, out of bounds, or
// holds a piece that is not color's.
func LegalMoves(board *model.Board, from model.Position, color model.Color, enPassantTarget *model.Position) []model.Position {
	piece := board.At(from)
	if piece == nil || piece.Color != color {
		return []model.Position{}
	}

	legal := []model.Position{}
	for _, to := range PseudoMoves(board, from, enPassantTarget) {
		if !leavesKingInCheck(board, from, to, color, enPassantTarget) {
			legal = append(legal, to)
		}
	}
	return legal
}

// leavesKingInCheck simulates the relocation on a copy of the board. Castling rook
// moves and promotions do not change whether the mover's king is attacked, so only
// the primary relocation and the en passant victim are applied.
func leavesKingInCheck(board *model.Board, from, to model.Position, color model.Color, enPassantTarget *model.Position) bool {
	next := board.Relocate(from, to)
	if isEnPassantCapture(board, from, to, enPassantTarget) {
		next[from.Row][to.Col] = nil
	}
	if _, ok := next.FindKing(color); !ok {
		return true
	}
	return IsInCheck(&next, color)
}

func isEnPassantCapture(board *model.Board, from, to model.Position, enPassantTarget *model.Position) bool {
	piece := board.At(from)
	return piece != nil && piece.Type == model.Pawn &&
		enPassantTarget != nil && *enPassantTarget == to &&
		from.Col != to.Col && board.At(to) == nil
}

func isPromotionSquare(piece *model.Piece, to model.Position) bool {
	return piece.Type == model.Pawn && (to.Row == 0 || to.Row == 7)
}

func isCastlingMove(piece *model.Piece, from, to model.Position) bool {
	return piece.Type == model.King && abs(to.Col-from.Col) == 2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// AllLegalMoves expands every legal move of the side to move into a Move, scanning the
// board from row 0. Promotions default to a queen.
func AllLegalMoves(state *model.GameState) []model.Move {
	moves := []model.Move{}
	color := state.CurrentPlayer
	for _, from := range state.Board.Squares(color) {
		for _, to := range LegalMoves(&state.Board, from, color, state.EnPassantTarget) {
			moves = append(moves, describeMove(&state.Board, from, to, state.EnPassantTarget, model.Queen))
		}
	}
	return moves
}

// HasLegalMoves reports whether the side to move has at least one legal move.
func HasLegalMoves(state *model.GameState) bool {
	color := state.CurrentPlayer
	for _, from := range state.Board.Squares(color) {
		if len(LegalMoves(&state.Board, from, color, state.EnPassantTarget)) > 0 {
			return true
		}
	}
	return false
}

// describeMove fills in the metadata of a from/to pair as seen on board.
func describeMove(board *model.Board, from, to model.Position, enPassantTarget *model.Position, promotion model.PieceType) model.Move {
	piece := board.At(from)
	move := model.Move{
		From:     from,
		To:       to,
		Piece:    *piece,
		Captured: board.At(to),
	}
	if isEnPassantCapture(board, from, to, enPassantTarget) {
		move.IsEnPassant = true
		move.Captured = board[from.Row][to.Col]
	}
	if isCastlingMove(piece, from, to) {
		move.IsCastling = true
	}
	if isPromotionSquare(piece, to) {
		move.IsPromotion = true
		move.PromotedTo = promotion
	}
	return move
}

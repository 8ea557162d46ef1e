package rules

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/benbeisheim/chessmate-backend/internal/model"
)

// InitialFEN is the FEN of the standard starting position.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var fenPieces = map[byte]model.PieceType{
	'p': model.Pawn,
	'n': model.Knight,
	'b': model.Bishop,
	'r': model.Rook,
	'q': model.Queen,
	'k': model.King,
}

var fenLetters = map[model.PieceType]byte{
	model.Pawn:   'p',
	model.Knight: 'n',
	model.Bishop: 'b',
	model.Rook:   'r',
	model.Queen:  'q',
	model.King:   'k',
}

// ParseFEN builds a game state from a FEN string. Castling rights are expressed by
// leaving the king and the matching rook unmoved; every other king or rook is
// marked as moved. Check and termination flags are derived before returning.
func ParseFEN(fen string) (model.GameState, error) {
	parts := strings.Fields(fen)
	if len(parts) < 2 {
		return model.GameState{}, fmt.Errorf("%w: expected at least 2 fields, got %d", ErrInvalidFEN, len(parts))
	}

	state := model.GameState{
		MoveHistory:    make([]model.Move, 0),
		FullMoveNumber: 1,
	}
	if err := parsePlacement(&state.Board, parts[0]); err != nil {
		return model.GameState{}, err
	}

	switch parts[1] {
	case "w":
		state.CurrentPlayer = model.White
	case "b":
		state.CurrentPlayer = model.Black
	default:
		return model.GameState{}, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, parts[1])
	}

	castling := "-"
	if len(parts) > 2 {
		castling = parts[2]
	}
	applyCastlingRights(&state.Board, castling)

	if len(parts) > 3 && parts[3] != "-" {
		target, ok := model.ParseSquare(parts[3])
		if !ok {
			return model.GameState{}, fmt.Errorf("%w: en passant square %q", ErrInvalidFEN, parts[3])
		}
		state.EnPassantTarget = &target
	}

	if len(parts) > 4 {
		n, err := strconv.Atoi(parts[4])
		if err != nil || n < 0 {
			return model.GameState{}, fmt.Errorf("%w: halfmove clock %q", ErrInvalidFEN, parts[4])
		}
		state.HalfMoveClock = n
	}
	if len(parts) > 5 {
		n, err := strconv.Atoi(parts[5])
		if err != nil || n < 1 {
			return model.GameState{}, fmt.Errorf("%w: fullmove number %q", ErrInvalidFEN, parts[5])
		}
		state.FullMoveNumber = n
	}

	UpdateStatus(&state)
	return state, nil
}

func parsePlacement(board *model.Board, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: expected 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	for row, rank := range ranks {
		col := 0
		for _, c := range rank {
			if c >= '1' && c <= '8' {
				col += int(c - '0')
				continue
			}
			if c >= utf8.RuneSelf {
				return fmt.Errorf("%w: piece character %q", ErrInvalidFEN, c)
			}
			t, ok := fenPieces[byte(unicode.ToLower(c))]
			if !ok {
				return fmt.Errorf("%w: piece character %q", ErrInvalidFEN, c)
			}
			if col > 7 {
				return fmt.Errorf("%w: rank %d overflows", ErrInvalidFEN, 8-row)
			}
			color := model.Black
			if unicode.IsUpper(c) {
				color = model.White
			}
			piece := model.NewPiece(t, color)
			switch t {
			case model.Pawn:
				piece.HasMoved = row != pawnStartRow(color)
			case model.King, model.Rook:
				piece.HasMoved = true
			}
			board[row][col] = piece
			col++
		}
		if col != 8 {
			return fmt.Errorf("%w: rank %d has %d squares", ErrInvalidFEN, 8-row, col)
		}
	}
	return nil
}

func homeRow(color model.Color) int {
	if color == model.White {
		return 7
	}
	return 0
}

func applyCastlingRights(board *model.Board, castling string) {
	for _, c := range castling {
		color := model.White
		if unicode.IsLower(c) {
			color = model.Black
		}
		rookCol := -1
		switch unicode.ToLower(c) {
		case 'k':
			rookCol = 7
		case 'q':
			rookCol = 0
		}
		if rookCol < 0 {
			continue
		}
		row := homeRow(color)
		king := board[row][4]
		rook := board[row][rookCol]
		if king == nil || king.Type != model.King || king.Color != color ||
			rook == nil || rook.Type != model.Rook || rook.Color != color {
			continue
		}
		board[row][4] = &model.Piece{Type: model.King, Color: color}
		board[row][rookCol] = &model.Piece{Type: model.Rook, Color: color}
	}
}

// ToFEN renders a game state as FEN. Castling rights are read back from unmoved
// kings and rooks on their home squares.
func ToFEN(state model.GameState) string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		empty := 0
		for col := 0; col < 8; col++ {
			piece := state.Board[row][col]
			if piece == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			letter := fenLetters[piece.Type]
			if piece.Color == model.White {
				letter = byte(unicode.ToUpper(rune(letter)))
			}
			sb.WriteByte(letter)
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if row < 7 {
			sb.WriteByte('/')
		}
	}

	side := "w"
	if state.CurrentPlayer == model.Black {
		side = "b"
	}

	enPassant := "-"
	if state.EnPassantTarget != nil {
		enPassant = state.EnPassantTarget.Square()
	}

	return fmt.Sprintf("%s %s %s %s %d %d", sb.String(), side, castlingField(&state.Board), enPassant,
		state.HalfMoveClock, state.FullMoveNumber)
}

func castlingField(board *model.Board) string {
	var sb strings.Builder
	for _, color := range []model.Color{model.White, model.Black} {
		row := homeRow(color)
		king := board[row][4]
		if king == nil || king.Type != model.King || king.Color != color || king.HasMoved {
			continue
		}
		for _, side := range []struct {
			col    int
			letter rune
		}{{7, 'k'}, {0, 'q'}} {
			if !unmovedRook(board, model.Position{Row: row, Col: side.col}, color) {
				continue
			}
			if color == model.White {
				sb.WriteRune(unicode.ToUpper(side.letter))
			} else {
				sb.WriteRune(side.letter)
			}
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

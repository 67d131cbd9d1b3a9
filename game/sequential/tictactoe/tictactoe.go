// Package tictactoe implements the 3x3 board, its canonical state keys and
// an adapter to the sequential playout engine.
//
// Package tictactoe は3x3の盤面、正規化された状態キー、
// 逐次ゲームエンジンへのアダプタを提供します。
package tictactoe

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidKey = errors.New("キーエラー: 長さ9の' ', 'x', 'o'からなる文字列である必要があります")
)

type Mark byte

const (
	EmptyMark Mark = ' '
	Cross     Mark = 'x'
	Nought    Mark = 'o'
)

func (m Mark) Opposite() Mark {
	switch m {
	case Cross:
		return Nought
	case Nought:
		return Cross
	}
	return m
}

func (m Mark) String() string {
	return string(m)
}

const (
	Rows  = 3
	Cols  = 3
	Cells = Rows * Cols
)

// 勝敗が決まるライン(横、縦、斜め)
var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Board represents the 3x3 Tic-Tac-Toe grid in row-major order.
// A Board is a value; copying it is how lookahead is done.
//
// Boardは3x3の三目並べの盤面を行優先で表します。
type Board [Cells]Mark

// NewBoard returns an empty board.
//
// NewBoardは空の盤面を返します。
func NewBoard() Board {
	var b Board
	for i := range b {
		b[i] = EmptyMark
	}
	return b
}

// NewBoardFromKey rebuilds the board encoded by a key, read from Cross's
// perspective.
func NewBoardFromKey(k Key) Board {
	var b Board
	for i := range b {
		b[i] = Mark(k[i])
	}
	return b
}

// Set writes mark into position (1..9). It is the only way a board changes.
// Callers must pass a position obtained from LegalMoves.
//
// Setはposition(1..9)にmarkを書き込みます。
func (b *Board) Set(position int, mark Mark) {
	if position < 1 || position > Cells {
		panic(fmt.Sprintf("BUG: position %d は盤面の範囲外です", position))
	}
	if mark != Cross && mark != Nought {
		panic(fmt.Sprintf("BUG: mark %q は置けません", byte(mark)))
	}
	idx := position - 1
	if b[idx] != EmptyMark {
		panic(fmt.Sprintf("BUG: position %d には既に %q が置かれています", position, byte(b[idx])))
	}
	b[idx] = mark
}

// LegalMoves returns the 1-based positions of all empty cells in ascending order.
//
// LegalMovesは空いているマスの位置(1始まり)を昇順で返します。
func (b Board) LegalMoves() []int {
	moves := make([]int, 0, Cells)
	for i, mark := range b {
		if mark == EmptyMark {
			moves = append(moves, i+1)
		}
	}
	return moves
}

// IsFull checks if all cells on the board are occupied.
//
// IsFullは、盤面の全てのセルが埋まっているかを確認します。
func (b Board) IsFull() bool {
	for _, mark := range b {
		if mark == EmptyMark {
			return false
		}
	}
	return true
}

// IsDraw reports whether no move is left. It does not look at lines, so
// IsWin has to be checked first.
//
// IsDrawは合法手が残っていないかを返します。勝敗判定は行わないので、先にIsWinを確認すること。
func (b Board) IsDraw() bool {
	return b.IsFull()
}

// IsWin reports whether any row, column or diagonal is entirely mark.
//
// IsWinは、いずれかのラインがmarkで揃っているかを返します。
func (b Board) IsWin(mark Mark) bool {
	if mark == EmptyMark {
		return false
	}
	for _, line := range lines {
		if b[line[0]] == mark && b[line[1]] == mark && b[line[2]] == mark {
			return true
		}
	}
	return false
}

// Winner returns the mark that completed a line, if any.
func (b Board) Winner() (Mark, bool) {
	for _, mark := range [...]Mark{Cross, Nought} {
		if b.IsWin(mark) {
			return mark, true
		}
	}
	return EmptyMark, false
}

// CanonicalKey encodes the board from mark's perspective: as-is for Cross,
// with every x and o swapped for Nought. Either side's "own" stones are
// therefore always 'x' in the key.
//
// CanonicalKeyはmarkの視点で盤面を符号化します。自分の石は常に'x'になります。
func (b Board) CanonicalKey(mark Mark) Key {
	var sb strings.Builder
	sb.Grow(Cells)
	for _, m := range b {
		if mark == Nought {
			m = m.Opposite()
		}
		sb.WriteByte(byte(m))
	}
	return Key(sb.String())
}

// String renders the board row by row, showing the position number of each
// empty cell.
//
// Stringは盤面を行ごとに描画します。空きマスは位置番号で表示されます。
func (b Board) String() string {
	var sb strings.Builder
	for i, mark := range b {
		if i%Cols == 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('|')
		if mark == EmptyMark {
			sb.WriteString(strconv.Itoa(i + 1))
		} else {
			sb.WriteByte(byte(mark))
		}
		if i%Cols == Cols-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Key is a canonical state key: nine cells over ' ', 'x' and 'o', where 'x'
// always stands for the side the key was computed for.
type Key string

func ParseKey(s string) (Key, error) {
	if len(s) != Cells {
		return "", fmt.Errorf("%w: len=%d key=%q", ErrInvalidKey, len(s), s)
	}
	for i := 0; i < len(s); i++ {
		switch Mark(s[i]) {
		case EmptyMark, Cross, Nought:
		default:
			return "", fmt.Errorf("%w: idx=%d key=%q", ErrInvalidKey, i, s)
		}
	}
	return Key(s), nil
}

// Swap returns the key seen from the other side.
func (k Key) Swap() Key {
	bs := []byte(k)
	for i, c := range bs {
		bs[i] = byte(Mark(c).Opposite())
	}
	return Key(bs)
}

func (k Key) Board() Board {
	return NewBoardFromKey(k)
}

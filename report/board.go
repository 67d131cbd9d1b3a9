package report

import (
	"strconv"
	"strings"

	"github.com/logrusorgru/aurora"
	ttt "github.com/sw965/tdttt/game/sequential/tictactoe"
)

// ColorBoard renders b like Board.String, with x in red, o in blue and the
// numbers of empty cells dimmed. With colors false it is plain text.
func ColorBoard(b ttt.Board, colors bool) string {
	au := aurora.NewAurora(colors)
	var sb strings.Builder
	for i, mark := range b {
		if i%ttt.Cols == 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(au.White("|").String())
		switch mark {
		case ttt.Cross:
			sb.WriteString(au.Red(mark.String()).String())
		case ttt.Nought:
			sb.WriteString(au.Blue(mark.String()).String())
		default:
			sb.WriteString(au.Faint(strconv.Itoa(i + 1)).String())
		}
		if i%ttt.Cols == ttt.Cols-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

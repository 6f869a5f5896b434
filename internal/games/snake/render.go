package snake

import (
	"fmt"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake/engine"
)

const (
	leaderboardWidth = 18
	leaderboardGap   = 2
)

var startLines = []string{
	"simple snake",
	"",
	"Use arrow keys to control",
	"",
	"[Enter] Start",
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	snap := g.session.Snapshot()

	g.renderHUD(dst, snap)

	if g.tooSmall {
		w, h := g.RequiredSize()
		g.renderOverlay(dst, dst.Bounds(), dst.Bounds(), []string{
			"Window too small",
			fmt.Sprintf("Need %dx%d", w, h),
		})
		return
	}

	board := core.NewRect(0, g.hudHeight, boardScreenWidth(snap.Width), snap.Height+2)
	g.renderBoard(dst, board, snap)

	// Overlays may be wider than a small board; the leaderboard starts
	// past the widest one so they never overlap.
	play := board
	play.W = max(board.W, overlayWidth(startLines))
	if dst.Width() >= play.Right()+leaderboardGap+leaderboardWidth {
		renderLeaderboard(dst, play.Right()+leaderboardGap, board.Y, snap.TopScores)
	}

	switch {
	case snap.State == engine.StateStart:
		g.renderOverlay(dst, board, play, startLines)
	case snap.State == engine.StateEnd:
		g.renderOverlay(dst, board, play, g.endLines(snap))
	case g.paused:
		g.renderOverlay(dst, board, play, []string{"Paused", "Press P to continue"})
	}
}

func (g *Game) endLines(snap engine.Snapshot) []string {
	lines := []string{"game over", "", fmt.Sprintf("Score: %d", snap.Score)}
	switch {
	case snap.Qualifies:
		lines = append(lines, "", "New high score!", "Enter your initials")
	case g.lastRank > 0:
		lines = append(lines, "", fmt.Sprintf("Saved at #%d", g.lastRank), "", "[R] Play Again")
	default:
		lines = append(lines, "", "[R] Play Again")
	}
	return lines
}

// renderHUD draws the score line and a separator.
func (g *Game) renderHUD(dst *core.Screen, snap engine.Snapshot) {
	hud := fmt.Sprintf(" Score: %d   High Score: %d", snap.Score, snap.HighScore)
	dst.DrawText(0, 0, hud, core.ColorDefault)

	for x := range dst.Width() {
		dst.Set(x, 1, '─')
	}
}

// renderBoard draws the framed board and the snake. Each cell is two
// characters wide so cells look square in a terminal.
func (g *Game) renderBoard(dst *core.Screen, frame core.Rect, snap engine.Snapshot) {
	dst.DrawBox(frame, core.ColorGray)

	for y := 0; y < snap.Height; y++ {
		for x := 0; x < snap.Width; x++ {
			sx, sy := frame.X+1+x*2, frame.Y+1+y
			if snap.Occupied(engine.P(x, y)) {
				dst.SetCell(sx, sy, '█', g.theme.Snake)
				dst.SetCell(sx+1, sy, '█', g.theme.Snake)
				continue
			}
			dst.SetCell(sx, sy, '·', g.theme.Board)
		}
	}

	if snap.Alive {
		return
	}
	sx, sy := frame.X+1+snap.Head.X*2, frame.Y+1+snap.Head.Y
	if snap.OnBoard() {
		// Self collision: mark the fatal cell
		dst.SetCell(sx, sy, '>', core.ColorBrightRed)
		dst.SetCell(sx+1, sy, '<', core.ColorBrightRed)
		return
	}

	// Wall collision: mark the border where the head left the board
	sx = core.Clamp(sx, frame.X, frame.Right()-1)
	sy = core.Clamp(sy, frame.Y, frame.Bottom()-1)
	dst.SetCell(sx, sy, 'X', core.ColorBrightRed)
	if snap.Head.Y < 0 || snap.Head.Y >= snap.Height {
		dst.SetCell(sx+1, sy, 'X', core.ColorBrightRed)
	}
}

// renderLeaderboard draws the ten leaderboard rows; unused rows show "---".
func renderLeaderboard(dst *core.Screen, x, y int, top []engine.ScoreEntry) {
	dst.DrawText(x, y, "High Scores", core.ColorBrightYellow)
	for i := 0; i < engine.MaxTopScores; i++ {
		line := fmt.Sprintf("%2d. ---  %6d", i+1, 0)
		if i < len(top) {
			line = fmt.Sprintf("%2d. %-3s  %6d", i+1, top[i].Initials, top[i].Score)
		}
		dst.DrawText(x, y+2+i, line, core.ColorDefault)
	}
}

// overlayWidth is the framed width of a message box holding lines.
func overlayWidth(lines []string) int {
	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len([]rune(l)))
	}
	return maxLen + 4
}

// renderOverlay draws a framed message box centered inside area and kept
// within limit.
func (g *Game) renderOverlay(dst *core.Screen, area, limit core.Rect, lines []string) {
	box := core.CenteredRect(area, overlayWidth(lines), len(lines)+2)
	right := min(limit.Right(), dst.Width())
	box.X = core.Clamp(box.X, limit.X, max(limit.X, right-box.W))
	box.Y = core.Clamp(box.Y, 0, max(0, dst.Height()-box.H))

	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorBrightWhite)
	for i, l := range lines {
		dst.DrawTextCentered(box, box.Y+1+i, l, core.ColorBrightWhite)
	}
}

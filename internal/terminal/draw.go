package terminal

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"asteroids/internal/game"
)

// view maps world coordinates onto terminal cells below the HUD.
type view struct {
	sx, sy float64
	top    int
	w, h   int
	scr    tcell.Screen
	fill   tcell.Style
}

func (v view) cell(p game.Vec2) (int, int) {
	return int(math.Floor(p.X * v.sx)), v.top + int(math.Floor(p.Y*v.sy))
}

func (v view) set(x, y int, r rune, style tcell.Style) {
	if x < 0 || x >= v.w || y < v.top || y >= v.h {
		return
	}
	_, bg, _ := v.fill.Decompose()
	v.scr.SetContent(x, y, r, nil, style.Background(bg))
}

func (v view) plot(p game.Vec2, r rune, style tcell.Style) {
	x, y := v.cell(p)
	v.set(x, y, r, style)
}

// line draws from a to b with Bresenham's algorithm in cell space.
func (v view) line(a, b game.Vec2, r rune, style tcell.Style) {
	x0, y0 := v.cell(a)
	x1, y1 := v.cell(b)
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		v.set(x0, y0, r, style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

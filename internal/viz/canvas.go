package viz

import (
	"math"
	"strings"
)

// Braille cells hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blankCell = 0x2800

// Canvas is a dot grid of Width*2 by Height*4 pixels rendered as braille.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the dot at pixel (x, y). Out of range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blankCell
		}
	}
}

// DrawLine is Bresenham's line.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) FillRect(x0, y0, x1, y1 int) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.Set(x, y)
		}
	}
}

// DrawSpring draws a wall on the left, a coil, and a block whose left
// edge sits at frac of the track width.
func (c *Canvas) DrawSpring(frac float64) {
	w, h := c.Width*2, c.Height*4
	mid := h / 2
	block := h / 3

	frac = math.Max(0, math.Min(1, frac))
	track := w - block - 4
	mass := 2 + int(frac*float64(track))

	c.DrawLine(0, mid-block, 0, mid+block)

	const coils = 8
	amp := block / 2
	prevX, prevY := 1, mid
	for i := 1; i <= coils*2; i++ {
		x := 1 + (mass-1)*i/(coils*2)
		y := mid
		if i < coils*2 {
			if i%2 == 0 {
				y = mid + amp
			} else {
				y = mid - amp
			}
		}
		c.DrawLine(prevX, prevY, x, y)
		prevX, prevY = x, y
	}

	c.FillRect(mass, mid-block/2, mass+block, mid+block/2)
	c.DrawLine(0, mid+block+1, w-1, mid+block+1)
}

// DrawPoint marks (fx, fy), each in [0, 1], with a small cross.
func (c *Canvas) DrawPoint(fx, fy float64) {
	w, h := c.Width*2, c.Height*4
	x := int(math.Max(0, math.Min(1, fx)) * float64(w-1))
	y := int((1 - math.Max(0, math.Min(1, fy))) * float64(h-1))
	c.DrawLine(x-1, y, x+1, y)
	c.DrawLine(x, y-1, x, y+1)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package domain

import "fmt"

// Размеры доски
const (
	Rows = 9
	Cols = 7
)

// Square - клетка доски. Row растет сверху вниз (строка 0 - сторона белых).
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds возвращает true, если клетка лежит внутри доски 9x7.
func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < Rows && s.Col >= 0 && s.Col < Cols
}

// Shift возвращает новую клетку со смещением, не меняя текущую.
func (s Square) Shift(dRow, dCol int) Square {
	return Square{Row: s.Row + dRow, Col: s.Col + dCol}
}

// IsAdjacent возвращает true для соседней клетки по ортогонали.
func (s Square) IsAdjacent(other Square) bool {
	dr := s.Row - other.Row
	dc := s.Col - other.Col
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return dr+dc == 1
}

func (s Square) String() string {
	return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
}

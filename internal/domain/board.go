package domain

import "strings"

// Board - сетка 9x7. Это массив, а не слайс: присваивание копирует доску
// целиком, поэтому снимки истории не делят память с текущей доской.
type Board [Rows][Cols]Piece

// EmptyBoard возвращает доску только с маркерами рельефа, без фигур.
// Используется как заглушка до старта партии.
func EmptyBoard() Board {
	return Board(terrainGrid)
}

// initialLayout - стартовая расстановка фигур. Белые сверху, черные снизу.
var initialLayout = map[Square]Piece{
	{0, 0}: Animal(White, Lion),
	{0, 6}: Animal(White, Tiger),
	{1, 1}: Animal(White, Dog),
	{1, 5}: Animal(White, Cat),
	{2, 0}: Animal(White, Mouse),
	{2, 2}: Animal(White, Leopard),
	{2, 4}: Animal(White, Wolf),
	{2, 6}: Animal(White, Elephant),

	{6, 0}: Animal(Black, Elephant),
	{6, 2}: Animal(Black, Wolf),
	{6, 4}: Animal(Black, Leopard),
	{6, 6}: Animal(Black, Mouse),
	{7, 1}: Animal(Black, Cat),
	{7, 5}: Animal(Black, Dog),
	{8, 0}: Animal(Black, Tiger),
	{8, 6}: Animal(Black, Lion),
}

// InitialBoard возвращает каноническую стартовую позицию.
func InitialBoard() Board {
	b := EmptyBoard()
	for sq, p := range initialLayout {
		b.Set(sq, p)
	}
	return b
}

// At возвращает содержимое клетки. Вызывающий обязан проверить InBounds.
func (b *Board) At(sq Square) Piece {
	return b[sq.Row][sq.Col]
}

// Set кладет значение в клетку.
func (b *Board) Set(sq Square, p Piece) {
	b[sq.Row][sq.Col] = p
}

// Pieces возвращает клетки, занятые фигурами стороны owner, в порядке обхода
// строк сверху вниз.
func (b *Board) Pieces(owner Owner) []Square {
	var out []Square
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			p := b[r][c]
			if p.IsAnimal() && p.Owner() == owner {
				out = append(out, Square{r, c})
			}
		}
	}
	return out
}

// String рисует доску построчно кодами клеток, удобно для логов и debug.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(b[r][c].String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Codes возвращает доску как слайс строк кодов (формат снимка для клиента).
func (b *Board) Codes() [][]string {
	out := make([][]string, Rows)
	for r := 0; r < Rows; r++ {
		out[r] = make([]string, Cols)
		for c := 0; c < Cols; c++ {
			out[r][c] = b[r][c].String()
		}
	}
	return out
}

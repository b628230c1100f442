package domain

// Статическая геометрия доски. Не меняется в течение партии.
var (
	// RiverSquares - два блока реки 3x2.
	RiverSquares = []Square{
		{3, 1}, {3, 2}, {3, 4}, {3, 5},
		{4, 1}, {4, 2}, {4, 4}, {4, 5},
		{5, 1}, {5, 2}, {5, 4}, {5, 5},
	}

	BlackTraps = []Square{{8, 2}, {7, 3}, {8, 4}}
	WhiteTraps = []Square{{0, 2}, {1, 3}, {0, 4}}

	BlackDen = Square{8, 3}
	WhiteDen = Square{0, 3}
)

// Terrain - тип рельефа клетки без учета фигур.
type Terrain uint8

const (
	TerrainLand Terrain = iota
	TerrainRiver
	TerrainTrap
	TerrainDen
)

func (t Terrain) String() string {
	switch t {
	case TerrainRiver:
		return "river"
	case TerrainTrap:
		return "trap"
	case TerrainDen:
		return "den"
	default:
		return "land"
	}
}

// terrainGrid - предрасчитанные пустые маркеры для каждой клетки.
var terrainGrid = buildTerrain()

func buildTerrain() [Rows][Cols]Piece {
	var grid [Rows][Cols]Piece // нулевое значение Piece - суша

	for _, sq := range RiverSquares {
		grid[sq.Row][sq.Col] = River()
	}
	for _, sq := range BlackTraps {
		grid[sq.Row][sq.Col] = Trap(Black)
	}
	for _, sq := range WhiteTraps {
		grid[sq.Row][sq.Col] = Trap(White)
	}
	grid[BlackDen.Row][BlackDen.Col] = Den(Black)
	grid[WhiteDen.Row][WhiteDen.Col] = Den(White)
	return grid
}

// TerrainAt возвращает пустой маркер рельефа клетки (Land, River, Trap, Den).
// Для клеток вне доски возвращает Land.
func TerrainAt(sq Square) Piece {
	if !sq.InBounds() {
		return Land()
	}
	return terrainGrid[sq.Row][sq.Col]
}

// TerrainOf классифицирует клетку. Для ловушек и логов вторым значением
// возвращается владелец.
func TerrainOf(sq Square) (Terrain, Owner) {
	p := TerrainAt(sq)
	switch p.Tag() {
	case TagRiver:
		return TerrainRiver, NoOwner
	case TagTrap:
		return TerrainTrap, p.Owner()
	case TagDen:
		return TerrainDen, p.Owner()
	default:
		return TerrainLand, NoOwner
	}
}

func IsRiver(sq Square) bool {
	return sq.InBounds() && terrainGrid[sq.Row][sq.Col].Tag() == TagRiver
}

// IsTrap проверяет, что клетка - ловушка стороны owner.
func IsTrap(sq Square, owner Owner) bool {
	return sq.InBounds() && terrainGrid[sq.Row][sq.Col] == Trap(owner)
}

// IsDen проверяет, что клетка - логово стороны owner.
func IsDen(sq Square, owner Owner) bool {
	return sq.InBounds() && terrainGrid[sq.Row][sq.Col] == Den(owner)
}

// IsLand - ни река, ни ловушка, ни логово.
func IsLand(sq Square) bool {
	return sq.InBounds() && terrainGrid[sq.Row][sq.Col].Tag() == TagLand
}

// DenOf возвращает клетку логова стороны.
func DenOf(owner Owner) Square {
	if owner == White {
		return WhiteDen
	}
	return BlackDen
}

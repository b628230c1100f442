package domain

import "fmt"

// PieceTag различает варианты содержимого клетки.
type PieceTag uint8

const (
	TagLand PieceTag = iota
	TagRiver
	TagTrap
	TagDen
	TagAnimal
)

// Piece - содержимое одной клетки доски. Это сумма вариантов:
//
//	Land | River | Trap(owner) | Den(owner) | Animal(owner, kind)
//
// Поля закрыты, конструировать значения нужно через Land(), River(), Trap(),
// Den() и Animal(). Piece сравнима через ==.
type Piece struct {
	tag   PieceTag
	owner Owner
	kind  AnimalKind
}

func Land() Piece  { return Piece{tag: TagLand} }
func River() Piece { return Piece{tag: TagRiver} }

// Trap - пустая ловушка стороны owner.
func Trap(owner Owner) Piece { return Piece{tag: TagTrap, owner: owner} }

// Den - пустое логово стороны owner.
func Den(owner Owner) Piece { return Piece{tag: TagDen, owner: owner} }

// Animal - фигура стороны owner.
func Animal(owner Owner, kind AnimalKind) Piece {
	return Piece{tag: TagAnimal, owner: owner, kind: kind}
}

func (p Piece) Tag() PieceTag { return p.tag }

// Owner возвращает сторону для ловушки, логова и фигуры; NoOwner для суши и реки.
func (p Piece) Owner() Owner { return p.owner }

// Kind имеет смысл только при IsAnimal().
func (p Piece) Kind() AnimalKind { return p.kind }

// IsAnimal возвращает true, если в клетке стоит фигура.
func (p Piece) IsAnimal() bool { return p.tag == TagAnimal }

// IsEmpty - в клетке нет фигуры (только маркер рельефа).
func (p Piece) IsEmpty() bool { return p.tag != TagAnimal }

// Is проверяет, что в клетке стоит фигура kind стороны owner.
func (p Piece) Is(owner Owner, kind AnimalKind) bool {
	return p.tag == TagAnimal && p.owner == owner && p.kind == kind
}

// String возвращает код клетки в формате клиента: "L", "R", "BTrap",
// "WDen", "BLion" и т.д.
func (p Piece) String() string {
	switch p.tag {
	case TagLand:
		return "L"
	case TagRiver:
		return "R"
	case TagTrap:
		return p.owner.String() + "Trap"
	case TagDen:
		return p.owner.String() + "Den"
	case TagAnimal:
		return p.owner.String() + p.kind.String()
	default:
		return "?"
	}
}

// MarshalText кодирует клетку строковым кодом (используется в JSON снимках доски).
func (p Piece) MarshalText() ([]byte, error) {
	if p.tag > TagAnimal {
		return nil, fmt.Errorf("invalid piece tag %d", p.tag)
	}
	return []byte(p.String()), nil
}

// UnmarshalText разбирает код клетки, обратный String().
func (p *Piece) UnmarshalText(data []byte) error {
	parsed, err := ParsePiece(string(data))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePiece разбирает строковый код клетки.
func ParsePiece(s string) (Piece, error) {
	switch s {
	case "L":
		return Land(), nil
	case "R":
		return River(), nil
	}
	if len(s) < 2 {
		return Piece{}, fmt.Errorf("invalid piece code %q", s)
	}

	owner := ParseOwner(s[:1])
	if owner == NoOwner {
		return Piece{}, fmt.Errorf("invalid piece owner in %q", s)
	}

	rest := s[1:]
	switch rest {
	case "Trap":
		return Trap(owner), nil
	case "Den":
		return Den(owner), nil
	}
	kind, ok := ParseAnimal(rest)
	if !ok {
		return Piece{}, fmt.Errorf("invalid animal in %q", s)
	}
	return Animal(owner, kind), nil
}

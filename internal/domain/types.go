package domain

import "strings"

// Owner - сторона, которой принадлежит фигура, ловушка или логово.
type Owner uint8

const (
	NoOwner Owner = iota
	Black
	White
)

// Opponent возвращает противоположную сторону. Для NoOwner возвращает NoOwner.
func (o Owner) Opponent() Owner {
	switch o {
	case Black:
		return White
	case White:
		return Black
	default:
		return NoOwner
	}
}

// String возвращает однобуквенный код стороны ("B", "W") или пустую строку.
func (o Owner) String() string {
	switch o {
	case Black:
		return "B"
	case White:
		return "W"
	default:
		return ""
	}
}

func (o Owner) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Owner) UnmarshalText(data []byte) error {
	*o = ParseOwner(string(data))
	return nil
}

// ParseOwner разбирает код стороны без учета регистра.
func ParseOwner(s string) Owner {
	switch strings.ToUpper(s) {
	case "B", "BLACK":
		return Black
	case "W", "WHITE":
		return White
	default:
		return NoOwner
	}
}

// AnimalKind - вид животного. Числовое значение совпадает с рангом:
// Mouse=0 ... Elephant=7.
type AnimalKind uint8

const (
	Mouse AnimalKind = iota
	Cat
	Wolf
	Dog
	Leopard
	Tiger
	Lion
	Elephant
)

// AnimalKinds перечисляет всех животных от младшего к старшему.
var AnimalKinds = [...]AnimalKind{Mouse, Cat, Wolf, Dog, Leopard, Tiger, Lion, Elephant}

var animalNames = map[AnimalKind]string{
	Mouse:    "Mouse",
	Cat:      "Cat",
	Wolf:     "Wolf",
	Dog:      "Dog",
	Leopard:  "Leopard",
	Tiger:    "Tiger",
	Lion:     "Lion",
	Elephant: "Elephant",
}

var animalByName = map[string]AnimalKind{
	"Mouse":    Mouse,
	"Cat":      Cat,
	"Wolf":     Wolf,
	"Dog":      Dog,
	"Leopard":  Leopard,
	"Tiger":    Tiger,
	"Lion":     Lion,
	"Elephant": Elephant,
}

// Rank используется при сравнении в бою.
func (k AnimalKind) Rank() int {
	return int(k)
}

func (k AnimalKind) String() string {
	if name, ok := animalNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ParseAnimal возвращает вид животного по имени ("Lion").
func ParseAnimal(s string) (AnimalKind, bool) {
	k, ok := animalByName[s]
	return k, ok
}

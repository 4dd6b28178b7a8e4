package domain

type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
)

type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Location struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	ImagePath   string               `json:"image_path"`
	Coordinates Coordinates          `json:"coordinates"`
	Connections map[Direction]string `json:"connections"`
}

// Directions returns the directions that lead somewhere, in a fixed order.
func (l Location) Directions() []Direction {
	out := make([]Direction, 0, len(l.Connections))
	for _, d := range []Direction{DirectionLeft, DirectionRight, DirectionUp, DirectionDown} {
		if _, ok := l.Connections[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

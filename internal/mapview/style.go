package mapview

// StyleToken names the resolved classification rendering of a building.
type StyleToken string

const (
	TokenUnassigned    StyleToken = "unassigned"
	TokenResidential   StyleToken = "residential"
	TokenCommercial    StyleToken = "commercial"
	TokenInstitutional StyleToken = "institutional"
	// TokenDual marks buildings with a commercial ground floor and a
	// residential upper floor.
	TokenDual StyleToken = "dual"
)

// Style mirrors the leaflet path options the frontend applies.
type Style struct {
	Color       string  `json:"color"`
	FillColor   string  `json:"fillColor"`
	FillOpacity float64 `json:"fillOpacity,omitempty"`
	Weight      int     `json:"weight,omitempty"`
}

// BaseStyle is the resting color scheme per classification.
func BaseStyle(t StyleToken) Style {
	switch t {
	case TokenDual:
		return Style{Color: "blue", FillColor: "green"}
	case TokenResidential:
		return Style{Color: "green", FillColor: "green", FillOpacity: 0.1, Weight: 3}
	case TokenCommercial:
		return Style{Color: "blue", FillColor: "blue"}
	case TokenInstitutional:
		return Style{Color: "purple", FillColor: "purple"}
	default:
		return Style{Color: "gray", FillColor: "gray", FillOpacity: 0.1, Weight: 1}
	}
}

// HoverStyle is the transient recoloring while the pointer rests on a
// building. Hovering never changes the resolved classification.
func HoverStyle(t StyleToken) Style {
	switch t {
	case TokenDual:
		return Style{Color: "blue", FillColor: "#66cc66"}
	case TokenResidential:
		return Style{Color: "#66cc66", FillColor: "#66cc66", Weight: 3}
	case TokenCommercial:
		return Style{Color: "#6699ff", FillColor: "#6699ff"}
	case TokenInstitutional:
		return Style{Color: "#b266ff", FillColor: "#b266ff"}
	default:
		return Style{Color: "orange", FillColor: "#F59E0B"}
	}
}

func RoadStyle() Style {
	return Style{Color: "#333446", FillColor: "#333446", FillOpacity: 0.3, Weight: 1}
}

func RoadHoverStyle() Style {
	return Style{Color: "gray", FillColor: "gray", FillOpacity: 0.3}
}

func BorderStyle() Style {
	return Style{Color: "black", FillColor: "#FAF7F3", Weight: 1}
}

// ZoneStyle colors the seven barangay zones; anything else renders
// gray.
func ZoneStyle(id int64) Style {
	colors := map[int64]string{
		1: "red",
		2: "blue",
		3: "green",
		4: "purple",
		5: "orange",
		6: "brown",
		7: "pink",
	}
	c, ok := colors[id]
	if !ok {
		c = "gray"
	}
	return Style{Color: c, FillColor: c, FillOpacity: 0.1}
}

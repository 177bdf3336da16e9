package entity

// Property mirrors a row of the properties table.
type Property struct {
	ID                  string            `json:"id"`
	Title               string            `json:"title"`
	City                string            `json:"city"`
	Zone                string            `json:"zone"`
	Address             string            `json:"address,omitempty"`
	Price               int               `json:"price"`
	Rooms               int               `json:"rooms"`
	Bathrooms           int               `json:"bathrooms"`
	Sqm                 int               `json:"sqm"`
	Floor               int               `json:"floor"`
	TotalFloors         int               `json:"total_floors"`
	Elevator            bool              `json:"elevator"`
	Specs               map[string]string `json:"specs,omitempty"`
	DescriptionOriginal string            `json:"description_original,omitempty"`
	DescriptionAI       string            `json:"description_ai,omitempty"`
	Images              []PropertyImage   `json:"images,omitempty"`
}

type PropertyImage struct {
	URL      string `json:"url"`
	RoomType string `json:"room_type,omitempty"`
	IsMain   bool   `json:"is_main"`
}

// SearchText is the text embedded into the vector index for a property.
func (p Property) SearchText() string {
	switch {
	case p.DescriptionAI != "":
		return p.Title + "\n" + p.DescriptionAI
	case p.DescriptionOriginal != "":
		return p.Title + "\n" + p.DescriptionOriginal
	default:
		return p.Title
	}
}

// PropertyHit is a vector-search match.
type PropertyHit struct {
	PropertyID string  `json:"property_id"`
	Title      string  `json:"title"`
	Zone       string  `json:"zone"`
	Price      int     `json:"price"`
	Score      float32 `json:"score"`
}

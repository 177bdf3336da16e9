package entity

// RenovationMode selects between a single room and the whole house.
type RenovationMode string

const (
	ModeRoom  RenovationMode = "room"
	ModeHouse RenovationMode = "house"
)

const (
	DefaultStyle = "Modern"
	DefaultSqm   = 80
)

// PlaceholderImageURL is returned as the primary result when no image could be generated.
const PlaceholderImageURL = "https://via.placeholder.com/800x600?text=Generation+Error"

type RenovationRequest struct {
	ImageURL      string         `json:"image_url"`
	GalleryImages []string       `json:"gallery_images"`
	Mode          RenovationMode `json:"mode"`
	Prompt        string         `json:"prompt"`
	Style         string         `json:"style"`
	Sqm           int            `json:"sqm"`
}

// Normalize fills the defaults the frontend relies on.
func (r *RenovationRequest) Normalize() {
	if r.Mode != ModeHouse {
		r.Mode = ModeRoom
	}
	if r.Style == "" {
		r.Style = DefaultStyle
	}
	if r.Sqm <= 0 {
		r.Sqm = DefaultSqm
	}
}

type ContractorQuote struct {
	Name   string  `json:"name"`
	Price  int     `json:"price"`
	Rating float64 `json:"rating"`
}

type RenovationResult struct {
	PrimaryResultURL  string            `json:"renovated_image_url"`
	GalleryResultURLs []string          `json:"renovated_gallery"`
	CostEstimateLow   int               `json:"estimated_cost_min"`
	CostEstimateHigh  int               `json:"estimated_cost_max"`
	ContractorQuotes  []ContractorQuote `json:"contractors"`
}

// GalleryPolicy decides what happens to the slot of an image whose generation failed.
type GalleryPolicy string

const (
	// GalleryCompact drops failed slots, so output indexes do not map to input indexes.
	GalleryCompact GalleryPolicy = "compact"
	// GalleryPlaceholder keeps every slot and puts PlaceholderImageURL where generation failed.
	GalleryPlaceholder GalleryPolicy = "placeholder"
)

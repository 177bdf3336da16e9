package client

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"immobiliare-core/internal/domain/entity"
)

func TestDescriptionPrompt(t *testing.T) {
	p := entity.Property{
		ID:                  "p-1",
		Title:               "Trilocale Isola",
		City:                "Milano",
		Zone:                "Isola",
		Sqm:                 85,
		Rooms:               3,
		Bathrooms:           1,
		Floor:               2,
		TotalFloors:         5,
		Elevator:            true,
		Specs:               map[string]string{"state": "Buono", "heating": "Autonomo"},
		DescriptionOriginal: "Luminoso, doppia esposizione.",
		Images:              []entity.PropertyImage{{RoomType: "living"}, {RoomType: "kitchen"}},
	}

	prompt := DescriptionPrompt(p)
	require.Contains(t, prompt, `named "Trilocale Isola"`)
	require.Contains(t, prompt, "- Location: Isola, Milano\n")
	require.Contains(t, prompt, "- Size: 85 sqm, 3 rooms, 1 bathrooms\n")
	require.Contains(t, prompt, "elevator: true")
	require.Contains(t, prompt, "- Photographed rooms: living, kitchen\n")
	require.Contains(t, prompt, "- Agent notes: Luminoso, doppia esposizione.\n")
	require.Less(t, strings.Index(prompt, "- heating:"), strings.Index(prompt, "- state:"))
}

func TestDescriptionPrompt_SkipsMissingFacts(t *testing.T) {
	prompt := DescriptionPrompt(entity.Property{Title: "Loft"})
	require.NotContains(t, prompt, "Photographed rooms")
	require.NotContains(t, prompt, "Agent notes")
}

package client

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/genai"

	"immobiliare-core/internal/domain/entity"
)

// GeminiDescriber writes the short marketing description stored in
// properties.description_ai.
type GeminiDescriber struct {
	client *genai.Client
	model  string
}

func NewGeminiDescriber(client *genai.Client, model string) *GeminiDescriber {
	return &GeminiDescriber{client: client, model: model}
}

func (d *GeminiDescriber) Describe(ctx context.Context, p entity.Property) (string, error) {
	resp, err := d.client.Models.GenerateContent(ctx, d.model, genai.Text(DescriptionPrompt(p)), nil)
	if err != nil {
		return "", fmt.Errorf("describe %s with %s: %w", p.ID, d.model, err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("describe %s with %s: %w", p.ID, d.model, entity.ErrAgentEmptyReply)
	}
	return text, nil
}

// DescriptionPrompt asks for a premium three-sentence listing text based only
// on the facts stored for the property.
func DescriptionPrompt(p entity.Property) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a captivating real estate description (max 3 sentences) for a property named %q.\n", p.Title)
	sb.WriteString("Base it strictly on these facts:\n")
	fmt.Fprintf(&sb, "- Location: %s, %s\n", p.Zone, p.City)
	fmt.Fprintf(&sb, "- Size: %d sqm, %d rooms, %d bathrooms\n", p.Sqm, p.Rooms, p.Bathrooms)
	fmt.Fprintf(&sb, "- Floor: %d of %d, elevator: %t\n", p.Floor, p.TotalFloors, p.Elevator)

	keys := make([]string, 0, len(p.Specs))
	for k := range p.Specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "- %s: %s\n", k, p.Specs[k])
	}

	var rooms []string
	for _, img := range p.Images {
		if img.RoomType != "" {
			rooms = append(rooms, img.RoomType)
		}
	}
	if len(rooms) > 0 {
		fmt.Fprintf(&sb, "- Photographed rooms: %s\n", strings.Join(rooms, ", "))
	}
	if p.DescriptionOriginal != "" {
		fmt.Fprintf(&sb, "- Agent notes: %s\n", p.DescriptionOriginal)
	}
	sb.WriteString("Focus on the vibe, the light and the condition. Do not list rooms mechanically. Make it sound like a premium listing. Answer with the description only.")
	return sb.String()
}

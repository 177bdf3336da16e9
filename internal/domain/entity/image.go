package entity

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// SourceImage is the original photo downloaded before generation.
type SourceImage struct {
	URL      string
	Data     []byte
	MIMEType string
}

type payloadKind int

const (
	payloadDirect payloadKind = iota + 1
	payloadEncoded
)

// ImagePayload is the image returned by a generation model. Models answer
// either with raw bytes or with a base64 string, and the variant is fixed once
// at the client boundary.
type ImagePayload struct {
	kind     payloadKind
	data     []byte
	encoded  string
	MIMEType string
}

func DirectPayload(data []byte, mimeType string) ImagePayload {
	return ImagePayload{kind: payloadDirect, data: data, MIMEType: mimeType}
}

// EncodedPayload accepts plain base64 or a data URI ("data:image/png;base64,...").
func EncodedPayload(encoded, mimeType string) ImagePayload {
	encoded = strings.TrimSpace(encoded)
	if rest, ok := strings.CutPrefix(encoded, "data:"); ok {
		if header, body, found := strings.Cut(rest, ","); found {
			encoded = body
			if mimeType == "" {
				mimeType = strings.TrimSuffix(header, ";base64")
			}
		}
	}
	return ImagePayload{kind: payloadEncoded, encoded: encoded, MIMEType: mimeType}
}

func (p ImagePayload) IsEncoded() bool { return p.kind == payloadEncoded }

func (p ImagePayload) IsZero() bool { return p.kind == 0 }

// Bytes resolves the payload into raw image bytes.
func (p ImagePayload) Bytes() ([]byte, error) {
	switch p.kind {
	case payloadDirect:
		if len(p.data) == 0 {
			return nil, ErrNoImageInResponse
		}
		return p.data, nil
	case payloadEncoded:
		data, err := base64.StdEncoding.DecodeString(p.encoded)
		if err != nil {
			return nil, fmt.Errorf("decode base64 image: %w", err)
		}
		if len(data) == 0 {
			return nil, ErrNoImageInResponse
		}
		return data, nil
	default:
		return nil, ErrNoImageInResponse
	}
}

// GenerationRequest is what a renovation task sends to an image model.
type GenerationRequest struct {
	Prompt string
	Source *SourceImage
}

// GeneratedImage is a model answer along with the model that produced it.
type GeneratedImage struct {
	Payload      ImagePayload
	Model        string
	FallbackUsed bool
}

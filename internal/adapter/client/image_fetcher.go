package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"immobiliare-core/internal/domain/entity"
)

const (
	DefaultFetchTimeout = 10 * time.Second
	// MaxRedirects is how many 3xx hops a source photo may take.
	MaxRedirects = 5
)

// ImageFetcher downloads source photos with fiber's fasthttp client.
type ImageFetcher struct {
	timeout time.Duration
}

func NewImageFetcher(timeout time.Duration) *ImageFetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &ImageFetcher{timeout: timeout}
}

// Fetch follows up to MaxRedirects redirects. The timeout covers the whole
// chain, not each hop.
func (f *ImageFetcher) Fetch(_ context.Context, rawURL string) (*entity.SourceImage, error) {
	deadline := time.Now().Add(f.timeout)
	target := rawURL

	for hop := 0; ; hop++ {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("%w: timeout after %d redirects", entity.ErrImageFetch, hop)
		}

		code, body, location, err := get(target, remaining)
		if err != nil {
			return nil, err
		}

		if isRedirect(code) {
			if hop >= MaxRedirects {
				return nil, fmt.Errorf("%w: more than %d redirects", entity.ErrImageFetch, MaxRedirects)
			}
			next, err := resolveLocation(target, location)
			if err != nil {
				return nil, err
			}
			target = next
			continue
		}

		if code < 200 || code >= 300 {
			return nil, fmt.Errorf("%w: unexpected status %d", entity.ErrImageFetch, code)
		}
		if len(body) == 0 {
			return nil, fmt.Errorf("%w: empty body", entity.ErrImageFetch)
		}
		return &entity.SourceImage{
			URL:      rawURL,
			Data:     body,
			MIMEType: http.DetectContentType(body),
		}, nil
	}
}

// get performs one GET without following redirects.
func get(target string, timeout time.Duration) (code int, body []byte, location string, err error) {
	resp := fiber.AcquireResponse()
	defer fiber.ReleaseResponse(resp)

	agent := fiber.Get(target).Timeout(timeout).SetResponse(resp)
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return 0, nil, "", fmt.Errorf("%w: %v", entity.ErrImageFetch, err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return 0, nil, "", fmt.Errorf("%w: %w", entity.ErrImageFetch, errors.Join(errs...))
	}
	return code, body, string(resp.Header.Peek(fiber.HeaderLocation)), nil
}

func isRedirect(code int) bool {
	switch code {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

func resolveLocation(current, location string) (string, error) {
	if location == "" {
		return "", fmt.Errorf("%w: redirect without location", entity.ErrImageFetch)
	}
	base, err := url.Parse(current)
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrImageFetch, err)
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("%w: bad redirect location: %v", entity.ErrImageFetch, err)
	}
	return base.ResolveReference(ref).String(), nil
}

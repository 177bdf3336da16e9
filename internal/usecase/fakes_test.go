package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"immobiliare-core/internal/domain/entity"
)

type fakeGenerator struct {
	model string
	mu    sync.Mutex
	calls []entity.GenerationRequest
	// failFor makes Generate fail when the source URL contains one of the keys.
	failFor []string
	err     error
}

func (g *fakeGenerator) Generate(_ context.Context, req entity.GenerationRequest) (*entity.GeneratedImage, error) {
	g.mu.Lock()
	g.calls = append(g.calls, req)
	g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	for _, key := range g.failFor {
		if req.Source != nil && strings.Contains(req.Source.URL, key) {
			return nil, fmt.Errorf("%s refused %s", g.model, key)
		}
	}
	return &entity.GeneratedImage{
		Payload: entity.DirectPayload([]byte("img:"+req.Source.URL), "image/png"),
		Model:   g.model,
	}, nil
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

type fakeFetcher struct {
	mu      sync.Mutex
	fetched []string
	failFor map[string]bool
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*entity.SourceImage, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, url)
	f.mu.Unlock()
	if f.failFor[url] {
		return nil, fmt.Errorf("%w: 404", entity.ErrImageFetch)
	}
	return &entity.SourceImage{URL: url, Data: []byte("src"), MIMEType: "image/jpeg"}, nil
}

func (f *fakeFetcher) fetchedURLs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.fetched...)
}

type fakeImageStore struct {
	mu    sync.Mutex
	saved int
	err   error
}

func (s *fakeImageStore) Save(_ context.Context, img *entity.GeneratedImage) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	data, err := img.Payload.Bytes()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved++
	// "img:<source url>" -> "http://cdn/<source url>.png"
	return "http://cdn/" + strings.TrimPrefix(string(data), "img:") + ".png", nil
}

type fakeAgent struct {
	reply   string
	err     error
	prompts []string
}

func (a *fakeAgent) Run(_ context.Context, prompt string) (string, error) {
	a.prompts = append(a.prompts, prompt)
	return a.reply, a.err
}

type fakeHistory struct {
	turns     map[string][]entity.ConversationTurn
	readErr   error
	writeErr  error
	appends   int
	lastLimit int
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{turns: map[string][]entity.ConversationTurn{}}
}

func (h *fakeHistory) Recent(_ context.Context, sessionID string, n int) ([]entity.ConversationTurn, error) {
	h.lastLimit = n
	if h.readErr != nil {
		return nil, h.readErr
	}
	all := h.turns[sessionID]
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all, nil
}

func (h *fakeHistory) Append(_ context.Context, sessionID string, turns ...entity.ConversationTurn) error {
	h.appends++
	if h.writeErr != nil {
		return h.writeErr
	}
	h.turns[sessionID] = append(h.turns[sessionID], turns...)
	return nil
}

var errBoom = errors.New("boom")

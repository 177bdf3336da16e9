package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"immobiliare-core/internal/domain/entity"
	"immobiliare-core/internal/domain/repository"
)

// MaxParallelImages is the most images a single renovation request will
// generate, and the highest allowed concurrency.
const MaxParallelImages = 4

// Dispatcher fans one renovation request out into independent per-image tasks.
type Dispatcher struct {
	fetcher     repository.ImageFetcher
	generator   repository.ImageGenerator
	store       repository.ImageStore
	maxParallel int
}

func NewDispatcher(fetcher repository.ImageFetcher, generator repository.ImageGenerator, store repository.ImageStore, maxParallel int) *Dispatcher {
	if maxParallel <= 0 || maxParallel > MaxParallelImages {
		maxParallel = MaxParallelImages
	}
	return &Dispatcher{
		fetcher:     fetcher,
		generator:   generator,
		store:       store,
		maxParallel: maxParallel,
	}
}

// Dispatch renovates every URL concurrently and returns one outcome per
// dispatched URL, in input order. URLs beyond MaxParallelImages are dropped,
// never queued; maxParallel only limits how many run at once. A failing task
// never cancels its siblings.
func (d *Dispatcher) Dispatch(ctx context.Context, urls []string, style, notes string) []entity.TaskOutcome {
	if len(urls) > MaxParallelImages {
		log.Info().Str("component", "RENOVATE").Int("requested", len(urls)).Int("dispatched", MaxParallelImages).Msg("truncating gallery")
		urls = urls[:MaxParallelImages]
	}

	outcomes := make([]entity.TaskOutcome, len(urls))
	var g errgroup.Group
	g.SetLimit(d.maxParallel)
	for i, url := range urls {
		g.Go(func() error {
			outcomes[i] = d.runTask(ctx, url, style, notes)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// runTask walks Pending -> Fetching -> Generating -> Saving -> Succeeded, or
// stops at Failed with the stage it was in.
func (d *Dispatcher) runTask(ctx context.Context, url, style, notes string) entity.TaskOutcome {
	out := entity.TaskOutcome{SourceURL: url}
	fail := func(stage entity.TaskStage, err error) entity.TaskOutcome {
		var failure *entity.TaskFailure
		if !errors.As(err, &failure) {
			failure = &entity.TaskFailure{Stage: stage, Err: err}
		}
		out.Failure = failure
		log.Warn().Err(failure.Err).Str("component", "RENOVATE").Str("stage", string(failure.Stage)).Str("image", shortURL(url)).Msg("image renovation failed")
		return out
	}

	src, err := d.fetcher.Fetch(ctx, url)
	if err != nil {
		return fail(entity.StageFetching, err)
	}

	img, err := d.generator.Generate(ctx, entity.GenerationRequest{
		Prompt: RenovationPrompt(style, notes),
		Source: src,
	})
	if err != nil {
		return fail(entity.StageGeneratingPrimary, err)
	}

	publicURL, err := d.store.Save(ctx, img)
	if err != nil {
		return fail(entity.StageSaving, err)
	}

	log.Info().Str("component", "RENOVATE").Str("model", img.Model).Bool("fallback_used", img.FallbackUsed).Str("url", publicURL).Msg("image saved")
	out.URL = publicURL
	return out
}

// Collect turns outcomes into the primary URL and the gallery. When every
// task failed the primary is the placeholder and the gallery is empty,
// whatever the policy.
func Collect(outcomes []entity.TaskOutcome, policy entity.GalleryPolicy) (primary string, gallery []string) {
	gallery = []string{}
	for _, o := range outcomes {
		if o.Stage() == entity.StageSucceeded {
			if primary == "" {
				primary = o.URL
			}
			gallery = append(gallery, o.URL)
		} else if policy == entity.GalleryPlaceholder {
			gallery = append(gallery, entity.PlaceholderImageURL)
		}
	}
	if primary == "" {
		return entity.PlaceholderImageURL, []string{}
	}
	return primary, gallery
}

// RenovationPrompt is the interior-design instruction sent with every source image.
func RenovationPrompt(style, notes string) string {
	var sb strings.Builder
	sb.WriteString("Act as a professional interior designer.\n")
	fmt.Fprintf(&sb, "Renovate this room in a **%s** style.\n", style)
	fmt.Fprintf(&sb, "Preserve the structural elements (windows, ceiling, general layout) but completely replace furniture, flooring, and decor to match the %s aesthetic.\n", style)
	sb.WriteString("High quality, photorealistic 4k render.")
	notes = strings.TrimSpace(notes)
	if notes != "" && !strings.EqualFold(notes, style) {
		fmt.Fprintf(&sb, "\nClient notes: %s", notes)
	}
	return sb.String()
}

func shortURL(url string) string {
	if len(url) <= 40 {
		return url
	}
	return "..." + url[len(url)-37:]
}

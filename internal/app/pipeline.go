package app

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/cesargomez89/menusync/internal/cache"
	"github.com/cesargomez89/menusync/internal/config"
	"github.com/cesargomez89/menusync/internal/constants"
	"github.com/cesargomez89/menusync/internal/domain"
	"github.com/cesargomez89/menusync/internal/downloader"
	"github.com/cesargomez89/menusync/internal/logger"
	"github.com/cesargomez89/menusync/internal/menuparse"
	"github.com/cesargomez89/menusync/internal/metrics"
	"github.com/cesargomez89/menusync/internal/source"
	"github.com/cesargomez89/menusync/internal/state"
	"github.com/cesargomez89/menusync/internal/storage"
)

// errSuperseded aborts a run whose record was taken over by a newer run or
// reset by an administrator.
var errSuperseded = errors.New("run superseded")

const (
	stageAnalyzeLLM      = "Analyzing menu structure with AI..."
	stageAnalyzeFallback = "Analyzing menu structure (Local fallback)..."
	stagePlaceholder     = "Placeholder menu shown: no items recognised."
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type ImageQueue interface {
	Enqueue(sourceURL, targetName, label string) <-chan downloader.Result
}

type PipelineConfig struct {
	State      *state.Service
	Cache      *cache.Manager
	Fetcher    Fetcher
	Extract    func([]byte) (string, error)
	Parser     *menuparse.Parser
	Catalog    *menuparse.Catalog
	Images     ImageQueue
	Supervisor *downloader.Supervisor
	Metrics    *metrics.Metrics
	Logger     *logger.Logger

	ImageProviderURL  string
	ImageNameTemplate string
	Now               func() time.Time
}

// Pipeline runs one refresh of a location: fetch, extract, structure,
// enrich, complete. Every write is conditional on the run still owning the
// record.
type Pipeline struct {
	cfg    PipelineConfig
	logger *logger.Logger
}

func NewPipeline(cfg PipelineConfig) *Pipeline {
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	if cfg.Extract == nil {
		cfg.Extract = source.ExtractText
	}
	if cfg.Supervisor == nil {
		cfg.Supervisor = downloader.NewSupervisor(cfg.Logger)
	}
	if cfg.Parser == nil {
		cfg.Parser = menuparse.NewParser(nil, cfg.Logger)
	}
	if cfg.ImageProviderURL == "" {
		cfg.ImageProviderURL = constants.DefaultImageProviderURL
	}
	if cfg.ImageNameTemplate == "" {
		cfg.ImageNameTemplate = constants.DefaultImageNameTmpl
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Pipeline{cfg: cfg, logger: cfg.Logger.WithComponent("pipeline")}
}

type pendingImage struct {
	itemID      string
	name        string
	description string
	result      <-chan downloader.Result
}

// Run executes the run identified by runID. Failures end in the error status
// and never propagate to the caller.
func (p *Pipeline) Run(ctx context.Context, loc config.Location, runID string) {
	log := p.cfg.Logger.WithRun(loc.Name, runID)
	start := time.Now()

	err := p.run(ctx, loc, runID, log)
	switch {
	case err == nil:
		p.cfg.Metrics.RunFinished(loc.Name, "complete")
		log.Info("Menu update complete", "duration", time.Since(start).Round(time.Millisecond))
	case errors.Is(err, errSuperseded):
		p.cfg.Metrics.RunFinished(loc.Name, "superseded")
		log.Info("Menu update superseded")
	default:
		p.cfg.Metrics.RunFinished(loc.Name, "error")
		log.Error("Menu update failed", "error", err)
		p.fail(ctx, loc.Name, runID, err, log)
	}
}

func (p *Pipeline) run(ctx context.Context, loc config.Location, runID string, log *logger.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Menu update panicked", "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	data, err := p.cfg.Fetcher.Fetch(ctx, loc.SourceURL)
	if err != nil {
		return err
	}

	stage := fmt.Sprintf("Source fetched (%s). Parsing content...", humanize.Bytes(uint64(len(data))))
	if err := p.advance(ctx, loc.Name, runID, domain.StatusParsingSource, constants.ProgressParse, stage); err != nil {
		return err
	}

	text, err := p.cfg.Extract(data)
	if err != nil {
		return err
	}
	text = source.CleanText(text)
	sourceDate := source.DateLabel(text)
	log.Debug("Source text extracted", "chars", len(text), "source_date", sourceDate)

	stage = stageAnalyzeFallback
	if p.cfg.Parser.UsesStructurer() {
		stage = stageAnalyzeLLM
	} else {
		log.Warn("No structurer configured, menu parsing will use the heuristic parser")
	}
	if err := p.advance(ctx, loc.Name, runID, domain.StatusGeneratingContent, constants.ProgressGenerate, stage); err != nil {
		return err
	}

	result := p.cfg.Parser.Parse(ctx, text)
	sections, pending, err := p.enrich(ctx, loc.Name, runID, result.Sections, log)
	if err != nil {
		p.followUp(loc.Name, pending, log)
		return err
	}

	items := menuparse.CountItems(result.Sections)
	final := fmt.Sprintf("Success! Found %d items.", items)
	if result.Placeholder() {
		final = stagePlaceholder
	}
	now := p.cfg.Now()
	err = p.write(ctx, loc.Name, runID, func(st *domain.LocationState) {
		st.Status = domain.StatusComplete
		st.Sections = sections
		st.CompletedAt = now
		st.SourceDate = sourceDate
		st.Error = ""
		st.IsPlaceholder = result.Placeholder()
		st.Progress = &domain.Progress{Current: constants.ProgressTotal, Total: constants.ProgressTotal, Stage: final}
	})

	// Images already on their way still belong in the cache even when the
	// record moved on.
	p.followUp(loc.Name, pending, log)

	if err != nil {
		return err
	}
	log.Info("Menu parsed", "method", result.Method, "sections", len(sections), "items", items, "pending_images", len(pending))
	return nil
}

func (p *Pipeline) advance(ctx context.Context, location, runID string, status domain.MenuStatus, current int, stage string) error {
	return p.write(ctx, location, runID, func(st *domain.LocationState) {
		st.Status = status
		st.Progress = &domain.Progress{Current: current, Total: constants.ProgressTotal, Stage: stage}
	})
}

// write applies mutate only while runID still owns the record.
func (p *Pipeline) write(ctx context.Context, location, runID string, mutate func(*domain.LocationState)) error {
	_, applied, err := p.cfg.State.UpdateIf(ctx, location, func(st *domain.LocationState) bool {
		if st.RunID != runID {
			return false
		}
		mutate(st)
		return true
	})
	if err != nil {
		return err
	}
	if !applied {
		return errSuperseded
	}
	return nil
}

func (p *Pipeline) fail(ctx context.Context, location, runID string, cause error, log *logger.Logger) {
	msg := cause.Error()
	err := p.write(ctx, location, runID, func(st *domain.LocationState) {
		current := 0
		if st.Progress != nil {
			current = st.Progress.Current
		}
		st.Status = domain.StatusError
		st.Error = msg
		st.Progress = &domain.Progress{Current: current, Total: constants.ProgressTotal, Stage: "Error: " + msg}
	})
	if err != nil && !errors.Is(err, errSuperseded) {
		log.Error("Failed to record run error", "error", err)
	}
}

func (p *Pipeline) enrich(ctx context.Context, location, runID string, raw []menuparse.RawSection, log *logger.Logger) ([]domain.MenuSection, []pendingImage, error) {
	c, err := p.cfg.Cache.Load(ctx)
	if err != nil {
		log.Warn("Enrichment cache unavailable, continuing without it", "error", err)
		c = p.cfg.Cache.Empty()
	}

	total := menuparse.CountItems(raw)
	processed := 0
	sections := make([]domain.MenuSection, 0, len(raw))
	var pending []pendingImage

	for _, sec := range raw {
		out := domain.MenuSection{Title: sec.Title, Items: make([]domain.MenuItem, 0, len(sec.Items))}
		for _, rawItem := range sec.Items {
			item, img := p.enrichItem(c, location, sec.Title, rawItem, log)
			out.Items = append(out.Items, item)
			if img != nil {
				pending = append(pending, *img)
			}

			processed++
			if processed%constants.ProgressBatch != 0 && processed != total {
				continue
			}
			current := constants.ProgressEnrichStart + processed*constants.ProgressEnrichSpan/total
			err := p.write(ctx, location, runID, func(st *domain.LocationState) {
				st.Progress = &domain.Progress{Current: current, Total: constants.ProgressTotal, Stage: "Processing: " + item.Name}
			})
			if err != nil {
				return nil, pending, err
			}
		}
		sections = append(sections, out)
	}

	if c.Dirty() {
		err := p.cfg.Cache.Apply(ctx, func(stored *cache.Cache) { stored.Merge(c) })
		if err != nil {
			log.Warn("Failed to save enrichment cache", "error", err)
		}
	}
	return sections, pending, nil
}

func (p *Pipeline) enrichItem(c *cache.Cache, location, category string, raw menuparse.RawItem, log *logger.Logger) (domain.MenuItem, *pendingImage) {
	item := domain.MenuItem{
		ID:       domain.ItemID(raw.Name),
		Name:     raw.Name,
		Price:    float64(raw.Price),
		Category: category,
	}

	if entry, ok := c.Get(raw.Name); ok {
		item.Description = entry.Description
		item.Image = entry.ImageReference
		if item.Image != "" {
			return item, nil
		}
		return item, p.requestImage(item, location, log)
	}

	item.Description = raw.Description
	if item.Description == "" {
		item.Description = menuparse.Describe(raw.Name)
	}
	if url, ok := p.cfg.Catalog.Lookup(raw.Name); ok {
		item.Image = url
	}
	c.Put(raw.Name, item.Description, item.Image)

	if item.Image != "" {
		return item, nil
	}
	return item, p.requestImage(item, location, log)
}

func (p *Pipeline) requestImage(item domain.MenuItem, location string, log *logger.Logger) *pendingImage {
	if p.cfg.Images == nil {
		return nil
	}
	data := storage.NewImageNameData(item.Name, item.Category, location)
	target, err := storage.BuildImageName(p.cfg.ImageNameTemplate, data, constants.ExtJPG)
	if err != nil {
		log.Warn("Cannot name image file", "item", item.Name, "error", err)
		return nil
	}

	url := downloader.ImageURL(p.cfg.ImageProviderURL, menuparse.ImagePrompt(item.Name, item.Category), data.Seed)
	return &pendingImage{
		itemID:      item.ID,
		name:        item.Name,
		description: item.Description,
		result:      p.cfg.Images.Enqueue(url, target, item.Name),
	}
}

// followUp waits for queued images in the background, patches them into the
// location record and stores the downloaded ones in the enrichment cache.
// Fallback images are not cached so the next run tries again.
func (p *Pipeline) followUp(location string, pending []pendingImage, log *logger.Logger) {
	if len(pending) == 0 {
		return
	}

	p.cfg.Supervisor.Go("images:"+location, func() {
		ctx := context.Background()
		saved := make([]pendingImage, 0, len(pending))
		refs := make(map[string]string, len(pending))

		for _, img := range pending {
			res := <-img.result
			if res.Reference == "" {
				continue
			}
			if _, err := p.cfg.State.UpdateItemImage(ctx, location, img.itemID, res.Reference); err != nil {
				log.Warn("Failed to patch item image", "item", img.name, "error", err)
			}
			if !res.Fallback {
				saved = append(saved, img)
				refs[img.name] = res.Reference
			}
		}
		if len(saved) == 0 {
			return
		}

		err := p.cfg.Cache.Apply(ctx, func(c *cache.Cache) {
			for _, img := range saved {
				if !c.SetImage(img.name, refs[img.name]) {
					c.Put(img.name, img.description, refs[img.name])
				}
			}
		})
		if err != nil {
			log.Warn("Failed to store image references", "error", err)
			return
		}
		log.Info("Item images stored", "count", len(saved))
	})
}

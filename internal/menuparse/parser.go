package menuparse

import (
	"context"

	"github.com/cesargomez89/menusync/internal/logger"
)

// Parser prefers the structurer and falls back to the heuristic parser, then
// to the placeholder menu. Parse never returns an empty result.
type Parser struct {
	structurer Structurer
	logger     *logger.Logger
}

func NewParser(structurer Structurer, log *logger.Logger) *Parser {
	if log == nil {
		log = logger.Default()
	}
	return &Parser{structurer: structurer, logger: log.WithComponent("menuparse")}
}

// UsesStructurer reports whether Parse will try the structurer first.
func (p *Parser) UsesStructurer() bool {
	if p.structurer == nil {
		return false
	}
	if e, ok := p.structurer.(interface{ Enabled() bool }); ok {
		return e.Enabled()
	}
	return true
}

func (p *Parser) Parse(ctx context.Context, text string) Result {
	if p.UsesStructurer() {
		sections, err := p.structurer.Structure(ctx, text)
		if err == nil && CountItems(sections) > 0 {
			return Result{Sections: sections, Method: MethodLLM}
		}
		if err == nil {
			err = ErrNoSections
		}
		p.logger.Warn("Structurer failed, using heuristic parser", "error", err)
	}

	sections := ParseHeuristic(text)
	if CountItems(sections) > 0 {
		p.logger.Debug("Heuristic parse", "sections", len(sections), "items", CountItems(sections))
		return Result{Sections: sections, Method: MethodHeuristic}
	}

	p.logger.Warn("No items recognised, using placeholder menu")
	return Result{Sections: PlaceholderMenu(), Method: MethodPlaceholder}
}

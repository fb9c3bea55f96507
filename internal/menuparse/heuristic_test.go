package menuparse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesargomez89/menusync/internal/logger"
)

const sampleMenu = `TODAY'S MENU 01.02.2026
Welcome $5 off on Tuesdays
ENTREE
Samosa $8.00 (2 pcs)
ONION BHAJI $9.5
----------------
MAIN COURSE
Butter Chicken $22.00
Lamb Rogan Josh   $24
No price here
BREADS
Garlic Naan $4.50
Ro $3.00
DESSERT
`

func TestParseHeuristic(t *testing.T) {
	sections := ParseHeuristic(sampleMenu)

	require.Len(t, sections, 3)
	assert.Equal(t, "ENTREE", sections[0].Title)
	assert.Equal(t, []RawItem{
		{Name: "Samosa (2 pcs)", Price: 8},
		{Name: "Onion Bhaji", Price: 9.5},
	}, sections[0].Items)

	assert.Equal(t, "MAIN COURSE", sections[1].Title)
	assert.Equal(t, []RawItem{
		{Name: "Butter Chicken", Price: 22},
		{Name: "Lamb Rogan Josh", Price: 24},
	}, sections[1].Items)

	assert.Equal(t, "BREADS", sections[2].Title)
	assert.Equal(t, []RawItem{{Name: "Garlic Naan", Price: 4.5}}, sections[2].Items)
}

func TestParseHeuristic_LongLinesAreNotHeaders(t *testing.T) {
	text := "MAINS\nOur special curry of the day changes often\nDal $10"

	sections := ParseHeuristic(text)

	require.Len(t, sections, 1)
	assert.Equal(t, "MAINS", sections[0].Title)
	assert.Len(t, sections[0].Items, 1)
}

func TestParser_FallsBackToPlaceholder(t *testing.T) {
	p := NewParser(nil, logger.Discard())

	res := p.Parse(context.Background(), "nothing useful\nat all")

	assert.True(t, res.Placeholder())
	assert.Equal(t, MethodPlaceholder, res.Method)
	assert.Equal(t, 7, CountItems(res.Sections))
	assert.Equal(t, "Entrees", res.Sections[0].Title)
}

type stubStructurer struct {
	sections []RawSection
	err      error
	calls    int
}

func (s *stubStructurer) Structure(context.Context, string) ([]RawSection, error) {
	s.calls++
	return s.sections, s.err
}

func TestParser_PrefersStructurer(t *testing.T) {
	stub := &stubStructurer{sections: []RawSection{{Title: "Mains", Items: []RawItem{{Name: "Korma", Price: 20}}}}}
	p := NewParser(stub, logger.Discard())

	res := p.Parse(context.Background(), sampleMenu)

	assert.Equal(t, MethodLLM, res.Method)
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, "Korma", res.Sections[0].Items[0].Name)
}

func TestParser_StructurerFailureUsesHeuristic(t *testing.T) {
	stub := &stubStructurer{err: ErrEmptyResponse}
	p := NewParser(stub, logger.Discard())

	res := p.Parse(context.Background(), sampleMenu)

	assert.Equal(t, MethodHeuristic, res.Method)
	assert.Equal(t, 5, CountItems(res.Sections))
}

func TestParser_DisabledStructurerIsSkipped(t *testing.T) {
	var llm *LLMStructurer
	p := NewParser(llm, logger.Discard())

	assert.False(t, p.UsesStructurer())
	assert.Equal(t, MethodHeuristic, p.Parse(context.Background(), sampleMenu).Method)
}

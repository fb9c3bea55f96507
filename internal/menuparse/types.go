// Package menuparse turns extracted menu text into sections of priced items.
package menuparse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var ErrNoSections = errors.New("no menu sections found")

// Method records which parser produced a result.
type Method string

const (
	MethodLLM         Method = "llm"
	MethodHeuristic   Method = "heuristic"
	MethodPlaceholder Method = "placeholder"
)

var priceNumberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Price accepts a JSON number or a string such as "$12.50".
type Price float64

func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*p = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = Price(parsePrice(s))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*p = Price(f)
	return nil
}

func parsePrice(s string) float64 {
	num := priceNumberRe.FindString(strings.ReplaceAll(s, ",", ""))
	if num == "" {
		return 0
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	return f
}

type RawItem struct {
	Name        string `json:"name"`
	Price       Price  `json:"price"`
	Description string `json:"description,omitempty"`
}

type RawSection struct {
	Title string    `json:"title"`
	Items []RawItem `json:"items"`
}

func CountItems(sections []RawSection) int {
	n := 0
	for _, s := range sections {
		n += len(s.Items)
	}
	return n
}

// Structurer converts raw menu text into sections, typically through an LLM.
type Structurer interface {
	Structure(ctx context.Context, text string) ([]RawSection, error)
}

type Result struct {
	Sections []RawSection
	Method   Method
}

func (r Result) Placeholder() bool {
	return r.Method == MethodPlaceholder
}

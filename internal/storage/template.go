package storage

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"strings"
	"text/template"
	"unicode"
)

// ImageNameData holds the data for image file name template execution
type ImageNameData struct {
	Slug     string
	Location string
	Category string
	Seed     uint32
}

// NewImageNameData creates ImageNameData for a dish
func NewImageNameData(name, category, location string) *ImageNameData {
	return &ImageNameData{
		Slug:     Slug(name),
		Location: Slug(location),
		Category: Slug(category),
		Seed:     Seed(name),
	}
}

// BuildImageName executes the template and returns a flat file name with ext.
func BuildImageName(templateStr string, data *ImageNameData, ext string) (string, error) {
	tmpl, err := template.New("image").Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	name := Sanitize(strings.TrimSpace(buf.String()))
	if name == "" {
		return "", fmt.Errorf("template %q produced an empty name", templateStr)
	}
	return name + ParseExtension(ext), nil
}

// Slug lower-cases s and collapses every run of non alphanumerics into a dash.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Seed derives a deterministic image generation seed from a dish name.
func Seed(name string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	return h.Sum32() & 0x7fffffff
}

// ParseExtension parses an extension string, ensuring it starts with a dot
func ParseExtension(ext string) string {
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}

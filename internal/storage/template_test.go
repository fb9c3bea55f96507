package storage

import "testing"

func TestBuildImageName(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     *ImageNameData
		ext      string
		want     string
		wantErr  bool
	}{
		{
			name:     "default template",
			template: "{{.Slug}}",
			data:     &ImageNameData{Slug: "butter-chicken"},
			ext:      ".jpg",
			want:     "butter-chicken.jpg",
		},
		{
			name:     "location prefix and bare extension",
			template: "{{.Location}}-{{.Slug}}-{{.Seed}}",
			data:     &ImageNameData{Slug: "roti", Location: "dural", Seed: 42},
			ext:      "png",
			want:     "dural-roti-42.png",
		},
		{
			name:     "path separators are stripped",
			template: "{{.Category}}/{{.Slug}}",
			data:     &ImageNameData{Slug: "roti", Category: "breads"},
			ext:      ".jpg",
			want:     "breadsroti.jpg",
		},
		{
			name:     "invalid template syntax",
			template: "{{.Slug",
			data:     &ImageNameData{},
			wantErr:  true,
		},
		{
			name:     "unknown field",
			template: "{{.Price}}",
			data:     &ImageNameData{},
			wantErr:  true,
		},
		{
			name:     "empty result",
			template: "{{.Slug}}",
			data:     &ImageNameData{},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildImageName(tt.template, tt.data, tt.ext)
			if (err != nil) != tt.wantErr {
				t.Fatalf("BuildImageName() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("BuildImageName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Butter Chicken", "butter-chicken"},
		{"  Jeera & Peas Pulao ", "jeera-peas-pulao"},
		{"Gulab Jamun (2pcs)", "gulab-jamun-2pcs"},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := Slug(tt.input); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSeedIsDeterministic(t *testing.T) {
	if Seed("Garlic Naan") != Seed(" garlic naan ") {
		t.Error("Seed should ignore case and surrounding space")
	}
	if Seed("Garlic Naan") == Seed("Cheese Naan") {
		t.Error("different dishes should not share a seed")
	}
}

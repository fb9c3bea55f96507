package menuparse

import "testing"

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Butter Chicken", "Tender boneless chicken pieces marinated in yogurt and spices, then cooked in a rich, creamy tomato and butter sauce with fenugreek leaves."},
		{"LAMB KORMA", "Meat or vegetables braised in a mild, velvety sauce made with yogurt, cream, ground cashews, and aromatic spices like cardamom and cinnamon."},
		{"Chilli Chicken", "Succulent pieces of chicken cooked to perfection with a blend of traditional aromatic Indian spices, fresh herbs, and a rich, flavorful sauce."},
		{"Prawn Pakora", "Fresh seafood delicacy simmered in a tangy and spicy coconut-based sauce, bursting with coastal flavors and fresh herbs."},
		{"Mixed Veg Pulao", "A delightful medley of fresh garden vegetables cooked in an aromatic spice mix and savory sauce, perfect for vegetarians."},
		{"Jeera Rice", genericDescription},
	}

	for _, tt := range tests {
		if got := Describe(tt.name); got != tt.want {
			t.Errorf("Describe(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestImageContext(t *testing.T) {
	tests := []struct {
		name     string
		category string
		want     string
	}{
		{"Mango Lassi", "Specials", contextDrink},
		{"Coke", "Cold Drinks", contextDrink},
		{"Gulab Jamun", "DESSERT", contextDessert},
		{"Garlic Naan", "Breads", contextBread},
		{"Butter Chicken", "Mains", contextDefault},
	}

	for _, tt := range tests {
		if got := ImageContext(tt.name, tt.category); got != tt.want {
			t.Errorf("ImageContext(%q, %q) = %q, want %q", tt.name, tt.category, got, tt.want)
		}
	}

	if got := ImagePrompt("Roti", "Breads"); got != "Roti "+contextBread {
		t.Errorf("ImagePrompt() = %q", got)
	}
}

func TestCatalogLookup(t *testing.T) {
	c := NewCatalog(map[string]string{
		"Butter Chicken":        "https://img.test/butter.jpg",
		"butter chicken (kids)": "https://img.test/kids.jpg",
		"garlic naan":           "https://img.test/naan.jpg",
		"":                      "https://img.test/empty.jpg",
	})

	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"butter chicken", "https://img.test/butter.jpg", true},
		{"Butter Chicken (Kids) Meal", "https://img.test/kids.jpg", true},
		{"Naan", "https://img.test/naan.jpg", true},
		{"Jeera Rice", "", false},
	}

	for _, tt := range tests {
		got, ok := c.Lookup(tt.name)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Lookup(%q) = (%q, %v), want (%q, %v)", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}

	var empty *Catalog
	if _, ok := empty.Lookup("samosa"); ok {
		t.Error("nil catalog matched")
	}
}

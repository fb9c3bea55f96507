package menuparse

// PlaceholderMenu is shown when nothing in the source could be recognised.
func PlaceholderMenu() []RawSection {
	return []RawSection{
		{
			Title: "Entrees",
			Items: []RawItem{
				{Name: "Samosa", Price: 8.00, Description: "Crispy, golden-fried pastry triangles generously filled with a savory mixture of spiced potatoes, green peas, and aromatic herbs."},
				{Name: "Chicken Tikka", Price: 14.00, Description: "Succulent boneless chicken pieces marinated overnight in yogurt and traditional spices, then roasted to smoky perfection in a clay tandoor oven."},
			},
		},
		{
			Title: "Mains",
			Items: []RawItem{
				{Name: "Butter Chicken", Price: 22.00, Description: "Tender, boneless chicken pieces simmered in a rich, creamy tomato and butter sauce, delicately flavored with fenugreek leaves and mild spices."},
				{Name: "Lamb Rogan Josh", Price: 24.00, Description: "A classic aromatic lamb curry slow-cooked with a blend of traditional spices, fennel seeds, ginger, and Kashmiri chilies for a deep, rich flavor."},
				{Name: "Palak Paneer", Price: 20.00, Description: "Fresh, soft cottage cheese cubes simmered in a smooth, spiced spinach gravy, finished with a touch of cream and ginger."},
			},
		},
		{
			Title: "Breads",
			Items: []RawItem{
				{Name: "Garlic Naan", Price: 4.50, Description: "Soft, leavened flatbread baked in a tandoor oven and generously topped with minced garlic and fresh cilantro."},
				{Name: "Roti", Price: 4.00, Description: "Traditional whole wheat flatbread cooked in a tandoor, offering a wholesome and slightly smoky flavor, perfect for scooping up curries."},
			},
		},
	}
}

package menuparse

import "strings"

// dishDescriptions is matched in order; the first key found in the name wins.
var dishDescriptions = []struct {
	key         string
	description string
}{
	{"butter chicken", "Tender boneless chicken pieces marinated in yogurt and spices, then cooked in a rich, creamy tomato and butter sauce with fenugreek leaves."},
	{"tikka masala", "Succulent roasted marinated chicken chunks simmered in a spiced, creamy curry sauce with tomatoes, onions, and coriander."},
	{"rogan josh", "Aromatic lamb dish of Persian origin, slow-cooked with Kashmiri chilies, fennel seeds, ginger, and yogurt for a deep red color and rich flavor."},
	{"vindaloo", "A spicy and tangy Goan curry made with vinegar, garlic, ginger, and red chilies, offering a bold and fiery flavor profile."},
	{"korma", "Meat or vegetables braised in a mild, velvety sauce made with yogurt, cream, ground cashews, and aromatic spices like cardamom and cinnamon."},
	{"madras", "A fairly hot curry sauce originating from South India, featuring a rich blend of toasted spices, coconut milk, and fresh curry leaves."},
	{"saag", "A nutritious dish made with leafy greens like spinach and mustard greens, cooked with garlic, ginger, and spices until smooth and flavorful."},
	{"palak", "Fresh spinach pureed and cooked with garlic, ginger, and spices to create a smooth, vibrant green gravy."},
	{"dal makhani", "Whole black lentils and red kidney beans slow-cooked overnight with butter and cream for a rich, velvety texture."},
	{"biryani", "A fragrant rice dish layered with marinated meat or vegetables, saffron-infused basmati rice, fried onions, and aromatic spices."},
	{"samosa", "Crispy, golden-fried pastry triangles filled with a savory mixture of spiced potatoes, green peas, and herbs."},
	{"naan", "Soft, pillowy leavened flatbread baked in a traditional tandoor oven, perfect for scooping up curries."},
	{"roti", "Traditional unleavened whole wheat flatbread cooked in a tandoor, offering a wholesome and slightly smoky flavor."},
	{"lassi", "A refreshing and creamy yogurt-based drink, available in sweet, salty, or fruit-flavored varieties like mango."},
	{"gulab jamun", "Soft, melt-in-your-mouth milk solid dumplings fried until golden and soaked in a warm, rose-scented sugar syrup."},
	{"tandoori", "Marinated in yogurt and a blend of spices, then roasted to perfection in a clay tandoor oven for a smoky, charred flavor."},
	{"chana masala", "Chickpeas cooked in a spicy and tangy tomato-based sauce with onions, ginger, garlic, and a blend of ground spices."},
	{"aloo gobi", "A comforting vegetarian dish made with potatoes (aloo) and cauliflower (gobi) tossed with turmeric, cumin, and coriander."},
	{"paneer", "Fresh, firm Indian cottage cheese used in various curries and snacks, absorbing the flavors of the spices it is cooked with."},
	{"malai kofta", "Fried dumplings made of mashed potatoes and paneer, served in a rich, creamy, and mildly spiced white gravy."},
	{"fish curry", "Tender fish fillets simmered in a tangy and spicy gravy, often enriched with coconut milk, tamarind, and curry leaves."},
	{"prawn masala", "Juicy prawns cooked in a thick, spicy masala sauce made with onions, tomatoes, ginger, garlic, and fresh herbs."},
	{"onion bhaji", "Crispy, golden fritters made with sliced onions coated in a spiced chickpea flour batter and deep-fried."},
	{"papdi chaat", "A popular street food snack featuring crisp dough wafers topped with boiled potatoes, chickpeas, yogurt, and tangy chutneys."},
	{"mango chicken", "Tender chicken pieces cooked in a mild, creamy sauce infused with sweet mango pulp and aromatic spices."},
	{"goat curry", "Tender, bone-in goat meat slow-cooked in a robust and spicy gravy with onions, tomatoes, and traditional Indian spices."},
	{"lamb korma", "Succulent pieces of lamb cooked in a mild, creamy sauce with ground cashews, yogurt, and delicate spices."},
	{"beef vindaloo", "A fiery and tangy beef curry made with vinegar, garlic, and a blend of hot spices, typical of Goan cuisine."},
	{"vegetable korma", "A medley of fresh vegetables cooked in a mild, creamy sauce with coconut milk, nuts, and aromatic spices."},
	{"daal tadka", "Yellow lentils cooked until soft and tempered with ghee, cumin seeds, garlic, and dried red chilies for a burst of flavor."},
	{"cheese naan", "Soft, fluffy naan bread stuffed with melted mozzarella and cheddar cheese, baked in a tandoor."},
	{"garlic naan", "Leavened flatbread topped with minced garlic and fresh cilantro, baked in a tandoor for a fragrant and savory taste."},
	{"kashmiri naan", "A sweet and savory naan bread stuffed with a mixture of dried fruits, nuts, and coconut."},
	{"raita", "A cooling side dish made with yogurt, cucumber, carrots, and roasted cumin, perfect for balancing spicy curries."},
	{"papadum", "Thin, crisp, disc-shaped wafers made from peeled black gram flour, often served as an appetizer or accompaniment."},
	{"mango lassi", "A thick, creamy, and refreshing drink made by blending yogurt with sweet mango pulp and a touch of cardamom."},
	{"soft drink", "A selection of refreshing carbonated beverages to complement your meal."},
	{"masala chai", "Traditional Indian spiced tea brewed with black tea leaves, milk, sugar, and aromatic spices like cardamom, ginger, and cloves."},
}

var proteinDescriptions = []struct {
	keys        []string
	description string
}{
	{[]string{"chicken"}, "Succulent pieces of chicken cooked to perfection with a blend of traditional aromatic Indian spices, fresh herbs, and a rich, flavorful sauce."},
	{[]string{"lamb"}, "Tender chunks of lamb slow-cooked in a rich, flavorful gravy infused with exotic spices, garlic, ginger, and fresh herbs."},
	{[]string{"beef"}, "Hearty and robust beef curry simmered with a complex blend of spices, garlic, ginger, and onions for a deep, savory taste."},
	{[]string{"goat"}, "Traditional bone-in goat curry, slow-cooked until tender in a thick, spicy sauce rich in authentic flavors and aromatic spices."},
	{[]string{"fish", "prawn"}, "Fresh seafood delicacy simmered in a tangy and spicy coconut-based sauce, bursting with coastal flavors and fresh herbs."},
	{[]string{"paneer"}, "Fresh, soft cottage cheese cubes cooked in a savory, creamy gravy with a delicate balance of spices and fresh ingredients."},
	{[]string{"vegetable", "veg"}, "A delightful medley of fresh garden vegetables cooked in an aromatic spice mix and savory sauce, perfect for vegetarians."},
}

const genericDescription = "A delicious, authentic traditional Indian dish prepared with fresh, high-quality ingredients and time-honored cooking techniques."

// Describe returns a stock description for a dish name.
func Describe(name string) string {
	lower := strings.ToLower(name)
	for _, d := range dishDescriptions {
		if strings.Contains(lower, d.key) {
			return d.description
		}
	}
	for _, p := range proteinDescriptions {
		for _, k := range p.keys {
			if strings.Contains(lower, k) {
				return p.description
			}
		}
	}
	return genericDescription
}

const (
	contextDrink   = "drink in a glass refreshing beverage professional photography"
	contextDessert = "dessert sweet dish professional photography"
	contextBread   = "indian bread basket professional photography"
	contextDefault = "Indian food dish close up professional photography"
)

// ImageContext picks the photographic framing for an item's generated image.
func ImageContext(name, category string) string {
	title := strings.ToLower(category)
	lower := strings.ToLower(name)

	switch {
	case containsAny(title, "drink", "beverage") || containsAny(lower, "lassi", "coke", "soda"):
		return contextDrink
	case containsAny(title, "dessert", "sweet"):
		return contextDessert
	case containsAny(title, "bread", "naan", "roti"):
		return contextBread
	}
	return contextDefault
}

// ImagePrompt is the text sent to the image provider.
func ImagePrompt(name, category string) string {
	return name + " " + ImageContext(name, category)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

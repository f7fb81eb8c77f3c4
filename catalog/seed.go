package catalog

import "heritage/models"

func price(v int64) *int64 { return &v }

// Seed is the launch collection served when no backend is configured.
var Seed = []models.Product{
	{
		ID:               "1",
		Name:             "Sabz Sitara",
		Price:            89999,
		OriginalPrice:    price(109999),
		Images:           []string{"/static/products/sabzsitara1.jpg", "/static/products/sabzsitara2.jpg"},
		Category:         "Bridal",
		Occasion:         "Wedding",
		Fabric:           "Pure Silk with Gold Zari",
		Embroidery:       "Hand-embroidered with Zardozi work",
		Colors:           []string{"Deep Red", "Gold", "Maroon"},
		Sizes:            []string{"S", "M", "L", "XL", "Custom"},
		Description:      "Emerald green Banarsi shirt with plazo and a laama dupatta sprinkled with delicate chan, finished with hand-done kora and dabka work.",
		CareInstructions: "Dry clean only. Store in muslin cloth.",
		Stock:            5,
		IsNew:            true,
		IsFeatured:       true,
	},
	{
		ID:               "2",
		Name:             "Zari Zewar",
		Price:            45999,
		Images:           []string{"/static/products/zarizewar1.jpg", "/static/products/zarizewar2.jpg"},
		Category:         "Formal",
		Occasion:         "Mehndi",
		Fabric:           "Georgette with Net",
		Embroidery:       "Mirror work and thread embroidery",
		Colors:           []string{"Rose Gold", "Peach", "Champagne"},
		Sizes:            []string{"S", "M", "L", "XL"},
		Description:      "Golden laama frock with kora and dabka work, paired with a messouri straight trouser and a lama dupatta finished with chan.",
		CareInstructions: "Dry clean only.",
		Stock:            8,
		IsFeatured:       true,
	},
	{
		ID:               "3",
		Name:             "Mastaani haryali",
		Price:            35999,
		Images:           []string{"/static/products/mastaaniharyali1.jpg", "/static/products/mastaaniharyali2.jpg"},
		Category:         "Formal",
		Occasion:         "Formal",
		Fabric:           "Pure Cotton Silk",
		Embroidery:       "Chikankari work",
		Colors:           []string{"Ivory", "Off White", "Cream"},
		Sizes:            []string{"S", "M", "L", "XL"},
		Description:      "Timeless ivory anarkali with traditional chikankari embroidery for formal occasions.",
		CareInstructions: "Hand wash or dry clean.",
		Stock:            12,
		IsNew:            true,
	},
	{
		ID:               "4",
		Name:             "Rangeen Khayal",
		Price:            55999,
		Images:           []string{"/static/products/rangeenkhayal1.jpg", "/static/products/rangeenkhayal2.jpg"},
		Category:         "Bridal",
		Occasion:         "Walima",
		Fabric:           "Pure Silk Velvet",
		Embroidery:       "Pearl and bead work",
		Colors:           []string{"Emerald Green", "Navy Blue", "Burgundy"},
		Sizes:            []string{"One Size"},
		Description:      "Deep purple sheesha silk shirt, palazzo and dupatta embellished with hand-done kora and dabka work.",
		CareInstructions: "Dry clean only. Handle with care.",
		Stock:            3,
		IsFeatured:       true,
	},
	{
		ID:               "5",
		Name:             "Barfi Blush",
		Price:            25999,
		Images:           []string{"/static/products/barfiblush1.jpg", "/static/products/barfiblush2.jpg"},
		Category:         "Party Wear",
		Occasion:         "Party",
		Fabric:           "Chiffon with Silk lining",
		Embroidery:       "Sequin work",
		Colors:           []string{"Black", "Navy", "Wine"},
		Sizes:            []string{"S", "M", "L", "XL"},
		Description:      "Modern party dress with elegant sequin detailing for contemporary celebrations.",
		CareInstructions: "Dry clean recommended.",
		Stock:            20,
	},
	{
		ID:               "6",
		Name:             "Rangreza",
		Price:            42999,
		Images:           []string{"/static/products/rangreza1.jpg", "/static/products/rangreza2.jpg"},
		Category:         "Formal",
		Occasion:         "Mehndi",
		Fabric:           "Raw Silk",
		Embroidery:       "Gota work with thread embroidery",
		Colors:           []string{"Yellow", "Orange", "Pink"},
		Sizes:            []string{"S", "M", "L", "XL"},
		Description:      "Traditional gharara set with authentic gota work, perfect for mehndi celebrations.",
		CareInstructions: "Dry clean only.",
		Stock:            9,
	},
}

package catalog

const (
	coverImage   = "https://i.pinimg.com/736x/8f/85/87/8f8587df52d364a4109a675399eedcc8.jpg"
	detailImageA = "https://i.pinimg.com/736x/2c/70/c9/2c70c9554554ae887c9391c0b0ea3b96.jpg"
	detailImageB = "https://i.pinimg.com/736x/78/82/f8/7882f8d3a2873d410e0a631137952d4b.jpg"
)

// Products is the compiled-in catalog. Prices are whole rupees.
var Products = []Product{
	{
		ID:       1,
		Name:     "balalaaa",
		Price:    12713,
		Image:    coverImage,
		Category: "Plush",
		Images: []string{
			coverImage,
			"https://preview.redd.it/just-made-this-cute-crochet-bunny-v0-sbgy94fqr6dd1.jpg?width=640&crop=smart&auto=webp&s=da649e913ce1ea2738ec153278dd5f28a703663e",
			"https://i.etsystatic.com/41528957/r/il/1f32ba/6068034790/il_fullxfull.6068034790_qx7z.jpg",
		},
	},
	{
		ID:       2,
		Name:     "Amigurumi Bunny",
		Price:    7063,
		Image:    coverImage,
		Category: "Plush",
		Images:   []string{coverImage, detailImageA, detailImageB},
	},
	{
		ID:       3,
		Name:     "Flower Coasters (Set of 4)",
		Price:    5085,
		Image:    coverImage,
		Category: "Keychains",
		Images:   []string{coverImage, detailImageA, detailImageB},
	},
	{
		ID:       4,
		Name:     "Strawberry Beanie",
		Price:    6215,
		Image:    coverImage,
		Category: "Keychains",
		Images:   []string{coverImage, detailImageA, detailImageB},
	},
	{
		ID:       5,
		Name:     "Heart Garland",
		Price:    8475,
		Image:    coverImage,
		Category: "Keychains",
		Images:   []string{coverImage, detailImageA, detailImageB},
	},
	{
		ID:       6,
		Name:     "Crochet Plant Hanger",
		Price:    4238,
		Image:    coverImage,
		Category: "Keychains",
		Images:   []string{coverImage, detailImageA, detailImageB},
	},
	{
		ID:       7,
		Name:     "Granny Square Throw",
		Price:    18363,
		Image:    coverImage,
		Category: "Keychains",
		Images:   []string{coverImage, detailImageA, detailImageB},
	},
	{
		ID:       8,
		Name:     "Amigurumi Elephant",
		Price:    7910,
		Image:    coverImage,
		Category: "Keychains",
		Images:   []string{coverImage, detailImageA, detailImageB},
	},
	{
		ID:       9,
		Name:     "Rainbow Wall Hanging",
		Price:    9888,
		Image:    coverImage,
		Category: "Bouquets",
		Images:   []string{coverImage, detailImageA, detailImageB},
	},
	{
		ID:       10,
		Name:     "Slouchy Winter Hat",
		Price:    6780,
		Image:    coverImage,
		Category: "Bouquets",
		Images:   []string{coverImage, detailImageA, detailImageB},
	},
	{
		ID:       11,
		Name:     "Cotton Market Bag",
		Price:    9040,
		Image:    coverImage,
		Category: "Bouquets",
		Images:   []string{coverImage, detailImageA, detailImageB},
	},
	{
		ID:       12,
		Name:     "Baby Booties",
		Price:    5085,
		Image:    coverImage,
		Category: "Baby",
		Images:   []string{coverImage, detailImageA, detailImageB},
	},
	{
		ID:       13,
		Name:     "Pumpkin Decorations (Set of 3)",
		Price:    7628,
		Image:    coverImage,
		Category: "Bouquets",
		Images:   []string{coverImage, detailImageA, detailImageB},
	},
	{
		ID:       14,
		Name:     "Chunky Throw Pillow",
		Price:    11300,
		Image:    coverImage,
		Category: "Bouquets",
		Images:   []string{coverImage, detailImageA, detailImageB},
	},
	{
		ID:       15,
		Name:     "Fingerless Gloves",
		Price:    5650,
		Image:    coverImage,
		Category: "Plush",
		Images:   []string{coverImage, detailImageA, detailImageB},
	},
	{
		ID:       16,
		Name:     "Cactus Collection (Set of 2)",
		Price:    6215,
		Image:    coverImage,
		Category: "Plush",
		Images:   []string{coverImage, detailImageA, detailImageB},
	},
	{
		ID:       17,
		Name:     "Pumpkin Decorations (Set of 2)",
		Price:    7628,
		Image:    coverImage,
		Category: "Plush",
		Images:   []string{coverImage, detailImageA, detailImageB},
	},
}

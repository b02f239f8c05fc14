package platform

// wixDescriptor targets Wix Stores' data-hook attributes, which survive
// theme changes better than class names do.
var wixDescriptor = descriptor{
	paths: []string{
		"/",
		"/shop",
		"/store",
		"/about",
		"/policies",
		"/contact",
	},
	productSelector:    `[data-hook="product-item-root"], .product-item`,
	nameSelector:       `[data-hook="product-item-name"], h3`,
	priceSelector:      `[data-hook="product-item-price-to-pay"], .price`,
	descSelector:       `[data-hook="product-item-description"]`,
	linkSelector:       "a",
	collectionSelector: `[data-hook="side-filters-category-name"], .category-name`,
	catalogHints:       []string{"/product-page/", "/store", "/shop"},
}

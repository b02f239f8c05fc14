package platform

// wooDescriptor targets WooCommerce's stock theme markup: product loops as
// li.product with the standard woocommerce- class prefixes.
var wooDescriptor = descriptor{
	paths: []string{
		"/",
		"/shop",
		"/about",
		"/about-us",
		"/shipping",
		"/refund-policy",
		"/privacy-policy",
		"/contact",
	},
	productSelector:    "li.product, .wc-block-grid__product",
	nameSelector:       "h2.woocommerce-loop-product__title, .wc-block-grid__product-title, h2",
	priceSelector:      "span.woocommerce-Price-amount, .price",
	descSelector:       ".woocommerce-product-details__short-description",
	linkSelector:       "a.woocommerce-LoopProduct-link, a",
	collectionSelector: ".product-category h2, .wc-block-product-categories-list-item",
	catalogHints:       []string{"/product/", "/product-category/", "/shop"},
}

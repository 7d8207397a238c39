package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/safar/go-storefront/internal/models"
)

var (
	colorVariants = []string{"black", "white", "blue", "red", "gray"}
	sizeVariants  = []string{"xs", "s", "m", "l", "xl", "xxl"}
)

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func wasPrice(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// DefaultProducts is the built-in product list.
func DefaultProducts() []models.Product {
	products := []models.Product{
		{
			ID: "1", Name: "Wireless Bluetooth Headphones with Noise Cancellation", Brand: "Sony",
			Category: "electronics", Price: price("199.99"), OriginalPrice: wasPrice("249.99"),
			Rating: 4.5, ReviewCount: 1247, Stock: 15, IsOnSale: true, FreeShipping: true,
			Image: "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=400&h=400&fit=crop",
		},
		{
			ID: "2", Name: "Premium Running Shoes for Men", Brand: "Nike",
			Category: "sports", Price: price("129.99"),
			Rating: 4.8, ReviewCount: 892, Stock: 8, IsNew: true, FreeShipping: true,
			Image: "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=400&h=400&fit=crop",
		},
		{
			ID: "3", Name: "Smart Fitness Watch with Heart Rate Monitor", Brand: "Apple",
			Category: "electronics", Price: price("299.99"), OriginalPrice: wasPrice("349.99"),
			Rating: 4.7, ReviewCount: 2156, Stock: 23, IsOnSale: true, FreeShipping: true,
			Image: "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=400&h=400&fit=crop",
		},
		{
			ID: "4", Name: "Organic Cotton T-Shirt - Sustainable Fashion", Brand: "Adidas",
			Category: "clothing", Price: price("29.99"),
			Rating: 4.3, ReviewCount: 456, Stock: 0,
			Image: "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=400&h=400&fit=crop",
		},
		{
			ID: "5", Name: "Professional Camera Lens 50mm f/1.8", Brand: "Canon",
			Category: "electronics", Price: price("449.99"), OriginalPrice: wasPrice("499.99"),
			Rating: 4.9, ReviewCount: 234, Stock: 5, IsNew: true, IsOnSale: true, FreeShipping: true,
			Image: "https://images.unsplash.com/photo-1606983340126-99ab4feaa64a?w=400&h=400&fit=crop",
		},
		{
			ID: "6", Name: "Ergonomic Office Chair with Lumbar Support", Brand: "Herman Miller",
			Category: "home", Price: price("599.99"), OriginalPrice: wasPrice("699.99"),
			Rating: 4.6, ReviewCount: 789, Stock: 12, IsOnSale: true, FreeShipping: true,
			Image: "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=400&h=400&fit=crop",
		},
		{
			ID: "7", Name: "Wireless Gaming Mouse with RGB Lighting", Brand: "Logitech",
			Category: "electronics", Price: price("79.99"),
			Rating: 4.4, ReviewCount: 1567, Stock: 34, FreeShipping: true,
			Image: "https://images.unsplash.com/photo-1527864550417-7fd91fc51a46?w=400&h=400&fit=crop",
		},
		{
			ID: "8", Name: "Stainless Steel Water Bottle 32oz", Brand: "Hydro Flask",
			Category: "sports", Price: price("39.99"), OriginalPrice: wasPrice("44.99"),
			Rating: 4.8, ReviewCount: 923, Stock: 67, IsOnSale: true,
			Image: "https://images.unsplash.com/photo-1602143407151-7111542de6e8?w=400&h=400&fit=crop",
		},
	}

	for i := range products {
		p := &products[i]
		p.InStock = p.Stock > 0
		if RequiresOptions(*p) {
			p.Variants = colorVariants
		}
	}
	return products
}

// RequiresOptions reports whether adding p to the cart needs a colour and
// size choice.
func RequiresOptions(p models.Product) bool {
	return p.Category == "clothing" || p.Category == "sports"
}

func Sizes() []string { return sizeVariants }

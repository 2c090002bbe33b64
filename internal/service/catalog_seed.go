package service

import (
	"context"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
)

// SeedProducts is the built-in storefront assortment.
type SeedProducts struct{}

func (SeedProducts) GetProducts(context.Context) ([]models.Product, error) {
	return []models.Product{
		{
			ID:          "1",
			Name:        "Premium Wireless Headphones",
			Description: "Experience crystal-clear sound with our premium wireless headphones. Featuring active noise cancellation and 30-hour battery life.",
			Price:       decimal.RequireFromString("249.99"),
			Image:       "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3",
			Category:    "Electronics",
			Rating:      4,
			Reviews:     128,
			Details:     []string{"Active noise cancellation", "30-hour battery life", "Bluetooth 5.0", "Built-in microphone", "Foldable design"},
		},
		{
			ID:          "2",
			Name:        "Smart Fitness Watch",
			Description: "Track your fitness goals with our advanced smart watch. Features heart rate monitoring, sleep tracking, and water resistance.",
			Price:       decimal.RequireFromString("199.99"),
			Image:       "https://images.unsplash.com/photo-1579586337278-3befd40fd17a?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3",
			Category:    "Electronics",
			Rating:      5,
			Reviews:     94,
			Details:     []string{"Heart rate monitoring", "Sleep tracking", "Water resistant up to 50m", "7-day battery life", "Compatible with iOS and Android"},
		},
		{
			ID:          "3",
			Name:        "Ultra HD 4K Monitor",
			Description: "Enhance your viewing experience with our Ultra HD 4K monitor. Perfect for gaming, design work, and multimedia consumption.",
			Price:       decimal.RequireFromString("349.99"),
			Image:       "https://images.unsplash.com/photo-1527443224154-c4a3942d3acf?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3",
			Category:    "Electronics",
			Rating:      4,
			Reviews:     76,
			Details:     []string{"27-inch display", "4K Ultra HD resolution", "1ms response time", "HDR support", "Adjustable stand"},
		},
		{
			ID:          "4",
			Name:        "Ergonomic Office Chair",
			Description: "Work in comfort with our ergonomic office chair. Designed to provide optimal support for long working hours.",
			Price:       decimal.RequireFromString("299.99"),
			Image:       "https://images.unsplash.com/photo-1505843490701-5be5d0b19d58?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3",
			Category:    "Furniture",
			Rating:      5,
			Reviews:     52,
			Details:     []string{"Adjustable height", "Lumbar support", "Breathable mesh back", "360° swivel", "Weight capacity: 300 lbs"},
		},
		{
			ID:          "5",
			Name:        "Professional DSLR Camera",
			Description: "Capture stunning photos with our professional DSLR camera. Ideal for both beginners and experienced photographers.",
			Price:       decimal.RequireFromString("899.99"),
			Image:       "https://images.unsplash.com/photo-1516035069371-29a1b244cc32?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3",
			Category:    "Electronics",
			Rating:      5,
			Reviews:     43,
			Details:     []string{"24.1 megapixel sensor", "4K video recording", "3-inch LCD screen", "Built-in Wi-Fi and Bluetooth", "Includes 18-55mm lens"},
		},
		{
			ID:          "6",
			Name:        "Portable Bluetooth Speaker",
			Description: "Take your music anywhere with our portable Bluetooth speaker. Waterproof, dustproof, and with 20-hour battery life.",
			Price:       decimal.RequireFromString("129.99"),
			Image:       "https://images.unsplash.com/photo-1608043152269-423dbba4e7e1?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3",
			Category:    "Electronics",
			Rating:      4,
			Reviews:     87,
			Details:     []string{"360° sound", "Waterproof and dustproof (IP67)", "20-hour battery life", "Built-in microphone for calls", "Compact and lightweight"},
		},
		{
			ID:          "7",
			Name:        "Leather Messenger Bag",
			Description: "Carry your essentials in style with our genuine leather messenger bag. Features multiple compartments and adjustable strap.",
			Price:       decimal.RequireFromString("159.99"),
			Image:       "https://images.unsplash.com/photo-1548036328-c9fa89d128fa?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3",
			Category:    "Fashion",
			Rating:      4,
			Reviews:     29,
			Details:     []string{"Genuine full-grain leather", "Fits laptops up to 15 inches", "Multiple compartments", "Adjustable shoulder strap", "Magnetic closures"},
		},
		{
			ID:          "8",
			Name:        "Smart Home Security System",
			Description: "Protect your home with our comprehensive smart security system. Includes cameras, motion sensors, and mobile app control.",
			Price:       decimal.RequireFromString("399.99"),
			Image:       "https://images.unsplash.com/photo-1558002038-1055907df827?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3",
			Category:    "Home",
			Rating:      4,
			Reviews:     38,
			Details:     []string{"1080p HD cameras", "Motion and door sensors", "Mobile app control", "24/7 monitoring option", "Easy DIY installation"},
		},
	}, nil
}

package jsonstore

import "github.com/blackforge/storefront/domain/catalog"

// SeedCatalog returns the default catalog a fresh or recovered store
// starts from.
func SeedCatalog() catalog.Catalog {
	return catalog.Catalog{
		Games: []catalog.Item{
			{
				ID:          "iron-horizon",
				Title:       "Iron Horizon",
				Genre:       "Action RPG",
				Description: "Open world sci-fi RPG with co-op raids.",
				PriceCents:  2999,
				PriceRef:    "price_game_iron_horizon",
				Image:       "./imagenes/iron-horizon.jpg",
			},
			{
				ID:          "neon-rush-2088",
				Title:       "Neon Rush 2088",
				Genre:       "Racing",
				Description: "Arcade racing with online seasons and clans.",
				PriceCents:  2499,
				PriceRef:    "price_game_neon_rush",
				Image:       "./imagenes/neon-rush-2088.jpg",
			},
			{
				ID:          "echo-protocol",
				Title:       "Echo Protocol",
				Genre:       "Narrative",
				Description: "Story-driven thriller with branching endings.",
				PriceCents:  3499,
				PriceRef:    "price_game_echo_protocol",
				Image:       "./imagenes/echo-protocol.jpg",
			},
		},
		Plans: []catalog.Plan{
			{
				ID:         "bf-golden",
				Name:       "BF Golden",
				Interval:   catalog.IntervalMonth,
				PriceCents: 799,
				PriceRef:   "price_pass_bf_golden",
				Tier:       "Base",
				Highlight:  "Equivalente a EA Play",
				Perks: []string{
					"Acceso al catalogo base",
					"Pruebas anticipadas de nuevos builds",
					"10% de descuento en compras",
				},
				Access: catalog.Unrestricted(),
			},
			{
				ID:         "bf-nocturna",
				Name:       "BF: Nocturna",
				Interval:   catalog.IntervalMonth,
				PriceCents: 1499,
				PriceRef:   "price_pass_bf_nocturna",
				Tier:       "Pro",
				Highlight:  "Version pro estilo EA Play Pro",
				Perks: []string{
					"Todo lo de BF Golden",
					"Lanzamientos dia 1",
					"Contenido adicional exclusivo",
					"Prioridad en servidores y eventos",
				},
				Access: catalog.Unrestricted(),
			},
		},
		Coupons: []catalog.Coupon{
			{
				Code:        "FORJA10",
				Type:        catalog.CouponPercent,
				Value:       10,
				Description: "10% de descuento en juegos del marketplace",
				Active:      true,
				Visible:     true,
				Expires:     "2026-12-31",
			},
			{
				Code:        "NUEVO5",
				Type:        catalog.CouponFixed,
				Value:       5,
				Description: "$5 USD de descuento en compra total",
				Active:      true,
				Visible:     true,
				Expires:     "2026-08-31",
			},
		},
	}
}

package kpi

var defaultCatalogs = []Catalog{
	{
		ReportKey: "marketing.campaigns",
		Name:      "Campaign Performance",
		Tiles: []Tile{
			{ID: "spend", Label: "Spend", Helper: "Total media spend in the period"},
			{ID: "revenue", Label: "Attributed Revenue"},
			{ID: "roas", Label: "ROAS", Helper: "Revenue divided by spend"},
			{ID: "conversions", Label: "Conversions"},
			{ID: "cpa", Label: "Cost per Acquisition"},
			{ID: "ctr", Label: "Click-through Rate"},
		},
	},
	{
		ReportKey: "marketing.coupons",
		Name:      "Coupon Redemption",
		Tiles: []Tile{
			{ID: "issued", Label: "Coupons Issued"},
			{ID: "redeemed", Label: "Coupons Redeemed"},
			{ID: "redemption_rate", Label: "Redemption Rate", Helper: "Redeemed over issued"},
			{ID: "discount_value", Label: "Discount Value"},
			{ID: "avg_ticket", Label: "Average Ticket"},
		},
	},
	{
		ReportKey: "marketing.journeys",
		Name:      "Customer Journeys",
		Tiles: []Tile{
			{ID: "entered", Label: "Customers Entered"},
			{ID: "completed", Label: "Journeys Completed"},
			{ID: "completion_rate", Label: "Completion Rate"},
			{ID: "retained_30d", Label: "30-day Retention", Helper: "Customers returning within 30 days"},
			{ID: "ltv", Label: "Lifetime Value"},
		},
	},
}

// DefaultCatalogs returns the built-in marketing report catalogs.
func DefaultCatalogs() []Catalog {
	out := make([]Catalog, len(defaultCatalogs))
	for i, catalog := range defaultCatalogs {
		out[i] = Catalog{
			ReportKey: catalog.ReportKey,
			Name:      catalog.Name,
			Tiles:     append([]Tile{}, catalog.Tiles...),
		}
	}
	return out
}

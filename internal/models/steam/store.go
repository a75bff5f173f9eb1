// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

// Package steam defines the wire types returned by the external gateways the
// ingestion jobs depend on: the Steam storefront and web APIs, SteamSpy,
// ProtonDB and IsThereAnyDeal. Only the fields the jobs consume are declared;
// everything else in the responses is ignored on decode.
package steam

// AppDetailsEnvelope wraps one entry of the storefront appdetails response,
// which is keyed by app id at the top level.
type AppDetailsEnvelope struct {
	Success bool        `json:"success"`
	Data    *AppDetails `json:"data"`
}

// AppDetails is the storefront catalog record for one app. Type distinguishes
// games from DLC, tools, soundtracks and the like.
type AppDetails struct {
	Type             string         `json:"type"`
	Name             string         `json:"name"`
	SteamAppID       int64          `json:"steam_appid"`
	HeaderImage      string         `json:"header_image"`
	ShortDescription string         `json:"short_description"`
	IsFree           bool           `json:"is_free"`
	PriceOverview    *PriceOverview `json:"price_overview"`
	Platforms        Platforms      `json:"platforms"`
	Categories       []Category     `json:"categories"`
	Genres           []Genre        `json:"genres"`
	ReleaseDate      *ReleaseDate   `json:"release_date"`
}

// PriceOverview carries storefront pricing in minor currency units.
type PriceOverview struct {
	Currency        string `json:"currency"`
	Initial         int64  `json:"initial"`
	Final           int64  `json:"final"`
	DiscountPercent int    `json:"discount_percent"`
}

// Platforms flags native OS support.
type Platforms struct {
	Windows bool `json:"windows"`
	Mac     bool `json:"mac"`
	Linux   bool `json:"linux"`
}

// Category is a storefront capability tag such as "Co-op" or "Multi-player".
type Category struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// Genre is a storefront genre such as "Action".
type Genre struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// ReleaseDate carries the free-text release date and the coming-soon flag.
type ReleaseDate struct {
	ComingSoon bool   `json:"coming_soon"`
	Date       string `json:"date"`
}

// AppReviews is the storefront review-aggregation response.
type AppReviews struct {
	Success      int           `json:"success"`
	QuerySummary *QuerySummary `json:"query_summary"`
}

// QuerySummary aggregates review counts for one app.
type QuerySummary struct {
	TotalReviews  int `json:"total_reviews"`
	TotalPositive int `json:"total_positive"`
	TotalNegative int `json:"total_negative"`
}

// SearchResults is the JSON wrapper around the storefront search listing,
// whose payload is an HTML fragment carrying data-ds-appid attributes.
type SearchResults struct {
	Success     int    `json:"success"`
	ResultsHTML string `json:"results_html"`
}

// FeaturedCategory is one named block of the featuredcategories response.
// The response itself is a heterogeneous object; blocks without an items
// array are skipped during decode.
type FeaturedCategory struct {
	Items []FeaturedItem `json:"items"`
}

// FeaturedItem is one app in a featured block.
type FeaturedItem struct {
	ID int64 `json:"id"`
}

// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package steam

import "github.com/goccy/go-json"

// SpyApp is one SteamSpy record, returned both from the top lists (keyed by
// app id) and from per-app detail lookups.
//
// Tags is kept raw because SteamSpy returns an empty JSON array instead of an
// object when an app has no tags; decode it with DecodeTags.
type SpyApp struct {
	AppID         int64           `json:"appid"`
	Name          string          `json:"name"`
	Average2Weeks int             `json:"average_2weeks"`
	CCU           int             `json:"ccu"`
	Tags          json.RawMessage `json:"tags"`
}

// DecodeTags returns the tag names ordered by the gateway's own vote ranking,
// or nil when the app has no tags (including the empty-array quirk).
func (a *SpyApp) DecodeTags() []string {
	if len(a.Tags) == 0 {
		return nil
	}
	var tags map[string]int
	if err := json.Unmarshal(a.Tags, &tags); err != nil || len(tags) == 0 {
		return nil
	}
	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	// Highest vote count first; ties broken by name for determinism.
	for i := 1; i < len(names); i++ {
		for j := i; j > 0; j-- {
			a, b := names[j-1], names[j]
			if tags[a] > tags[b] || (tags[a] == tags[b] && a <= b) {
				break
			}
			names[j-1], names[j] = b, a
		}
	}
	return names
}

// ProtonSummary is the ProtonDB per-app report summary.
type ProtonSummary struct {
	Tier       string `json:"tier"`
	Confidence string `json:"confidence"`
}

// DealLookup is the deal aggregator's id-resolution response, mapping a Steam
// app id into the aggregator's own namespace.
type DealLookup struct {
	Found bool      `json:"found"`
	Game  *DealGame `json:"game"`
}

// DealGame carries the aggregator-side id for a resolved title.
type DealGame struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

// DealOverview is the batched price-overview response.
type DealOverview struct {
	Prices []DealPrice `json:"prices"`
}

// DealPrice is the current best deal for one resolved id; Current is nil when
// no shop lists the title.
type DealPrice struct {
	ID      string       `json:"id"`
	Current *CurrentDeal `json:"current"`
}

// CurrentDeal is one shop's live price.
type CurrentDeal struct {
	Price DealAmount `json:"price"`
	Shop  *DealShop  `json:"shop"`
	URL   string     `json:"url"`
}

// DealAmount is a price in integer minor-currency units.
type DealAmount struct {
	AmountInt int64  `json:"amountInt"`
	Currency  string `json:"currency"`
}

// DealShop identifies the storefront offering the price.
type DealShop struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

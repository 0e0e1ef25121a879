// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package domain defines the brokerage record types consumed by the desk.
//
// # Description
//
// These are the five read-only collections the desk operates on: buyers,
// properties, deals, events, and insights. Records arrive fully parsed
// from the store before the first context resolution and are never
// mutated afterwards.
//
// Optional references are plain strings where the empty value means
// "absent" (event links), and pointers where the distinction between
// zero and null is load-bearing (offer price, offer date, close target).
// Offer price and offer date are independently nullable: source data
// contains records with a price but no date, and nothing in the desk
// infers one field from the other.
package domain

// Buyer is a client looking to purchase.
type Buyer struct {
	ID                 string   `json:"id" validate:"required"`
	Name               string   `json:"name" validate:"required"`
	Email              string   `json:"email"`
	Phone              string   `json:"phone"`
	BudgetMin          int64    `json:"budget_min" validate:"gte=0"`
	BudgetMax          int64    `json:"budget_max" validate:"gtefield=BudgetMin"`
	PreferredLocations []string `json:"preferred_locations"`
	PropertyTypes      []string `json:"property_types"`
	MinBedrooms        int      `json:"min_bedrooms"`
	MinBathrooms       float64  `json:"min_bathrooms"`
	MustHaves          []string `json:"must_haves"`
	Timeline           string   `json:"timeline"`
	Preapproved        bool     `json:"preapproved"`
	Status             string   `json:"status"`
	Notes              string   `json:"notes"`
}

// Property is a listing. DaysOnMarket is stored, not derived at runtime.
type Property struct {
	ID           string   `json:"id" validate:"required"`
	Address      string   `json:"address" validate:"required"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Zip          string   `json:"zip"`
	Neighborhood string   `json:"neighborhood"`
	Type         string   `json:"type"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    float64  `json:"bathrooms"`
	Sqft         int      `json:"sqft"`
	Price        int64    `json:"price" validate:"gte=0"`
	Features     []string `json:"features"`
	Status       string   `json:"status"`
	ListedAt     string   `json:"listed_at"`
	DaysOnMarket int      `json:"days_on_market" validate:"gte=0"`
}

// Deal ties a buyer to a property through an offer lifecycle.
//
// Stage is an open enum in the data ("discovery", "negotiation",
// "under_contract", ...). OfferPrice, OfferDate, and CloseTarget are
// nullable until the corresponding milestone exists.
type Deal struct {
	ID            string   `json:"id" validate:"required"`
	BuyerID       string   `json:"buyer_id" validate:"required"`
	PropertyID    string   `json:"property_id" validate:"required"`
	Stage         string   `json:"stage"`
	ListPrice     int64    `json:"list_price" validate:"gte=0"`
	OfferPrice    *int64   `json:"offer_price"`
	Financing     string   `json:"financing"`
	Contingencies []string `json:"contingencies"`
	OfferDate     *string  `json:"offer_date"`
	CloseTarget   *string  `json:"close_target"`
	Agent         string   `json:"agent"`
	Status        string   `json:"status"`
}

// Event is an immutable log entry. Dates are ISO "YYYY-MM-DD" strings,
// which sort lexicographically in date order. DealID may be empty for
// command-center-relevant activity that is not attached to a deal.
type Event struct {
	ID         string `json:"id" validate:"required"`
	Date       string `json:"date" validate:"required"`
	Type       string `json:"type"`
	BuyerID    string `json:"buyer_id"`
	PropertyID string `json:"property_id"`
	DealID     string `json:"deal_id"`
	Notes      string `json:"notes"`
	Outcome    string `json:"outcome"`
}

// Insight is a precomputed fit profile for one buyer.
type Insight struct {
	ID             string   `json:"id" validate:"required"`
	BuyerID        string   `json:"buyer_id" validate:"required"`
	FitScore       int      `json:"fit_score" validate:"gte=0,lte=100"`
	TopProperties  []string `json:"top_properties"`
	Rationale      string   `json:"rationale"`
	NextActions    []string `json:"next_actions"`
	Explainability []string `json:"explainability,omitempty"`
	SignalLevel    string   `json:"signal_level,omitempty"`
	SignalSummary  string   `json:"signal_summary,omitempty"`
}

// HighSignal reports whether the insight should surface proactively.
//
// Precomputed signal levels win when present; otherwise the fit score
// threshold used by the intelligence rail applies.
func (i Insight) HighSignal() bool {
	if i.SignalLevel != "" {
		return i.SignalLevel == "high"
	}
	return i.FitScore >= 85
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import "fmt"

// Integrity reports referential gaps in the snapshot.
//
// # Description
//
// None of these findings is fatal: the resolver degrades dangling
// references to placeholder views at runtime. This check exists for the
// `data validate` command so that authors of mock datasets can see what
// they broke. The offer_price-without-offer_date combination is reported
// because it is a known data-entry gap in the source records, not
// because either field implies the other.
func (s *Snapshot) Integrity() []string {
	ix := NewIndex(s)
	var findings []string

	for _, d := range s.Deals {
		if _, ok := ix.Buyer(d.BuyerID); !ok {
			findings = append(findings, fmt.Sprintf("deal %s references missing buyer %s", d.ID, d.BuyerID))
		}
		if _, ok := ix.Property(d.PropertyID); !ok {
			findings = append(findings, fmt.Sprintf("deal %s references missing property %s", d.ID, d.PropertyID))
		}
		if d.OfferPrice != nil && d.OfferDate == nil {
			findings = append(findings, fmt.Sprintf("deal %s has an offer price but no offer date", d.ID))
		}
	}
	for _, e := range s.Events {
		if e.BuyerID != "" {
			if _, ok := ix.Buyer(e.BuyerID); !ok {
				findings = append(findings, fmt.Sprintf("event %s references missing buyer %s", e.ID, e.BuyerID))
			}
		}
		if e.PropertyID != "" {
			if _, ok := ix.Property(e.PropertyID); !ok {
				findings = append(findings, fmt.Sprintf("event %s references missing property %s", e.ID, e.PropertyID))
			}
		}
		if e.DealID != "" {
			if _, ok := ix.Deal(e.DealID); !ok {
				findings = append(findings, fmt.Sprintf("event %s references missing deal %s", e.ID, e.DealID))
			}
		}
	}
	for _, ins := range s.Insights {
		if _, ok := ix.Buyer(ins.BuyerID); !ok {
			findings = append(findings, fmt.Sprintf("insight %s references missing buyer %s", ins.ID, ins.BuyerID))
		}
		for _, pid := range ins.TopProperties {
			if _, ok := ix.Property(pid); !ok {
				findings = append(findings, fmt.Sprintf("insight %s lists missing property %s", ins.ID, pid))
			}
		}
	}
	return findings
}

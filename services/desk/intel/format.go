// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package intel

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatCurrency renders a whole-dollar amount like "$1,234,567".
func FormatCurrency(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	digits := strconv.FormatInt(v, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

// FormatOptionalCurrency renders nil as an em dash.
func FormatOptionalCurrency(v *int64) string {
	if v == nil {
		return "—"
	}
	return FormatCurrency(*v)
}

// FormatDateShort renders an ISO date as "Oct 09". Unparseable input is
// returned verbatim so a bad record still renders something.
func FormatDateShort(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("Jan 02")
}

// FormatDateLong renders an ISO date as "Oct 9, 2024"; nil becomes "TBD".
func FormatDateLong(iso *string) string {
	if iso == nil {
		return "TBD"
	}
	t, err := time.Parse("2006-01-02", *iso)
	if err != nil {
		return *iso
	}
	return t.Format("Jan 2, 2006")
}

// TitleCase prettifies enum-like strings: "under_contract" -> "Under Contract".
func TitleCase(v string) string {
	chunks := strings.Split(v, "_")
	for i, c := range chunks {
		if c == "" {
			continue
		}
		chunks[i] = strings.ToUpper(c[:1]) + c[1:]
	}
	return strings.Join(chunks, " ")
}

// FormatBaths trims trailing zeros: 2.0 -> "2", 3.5 -> "3.5".
func FormatBaths(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func bulleted(lines []string) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = "• " + l
	}
	return strings.Join(out, "\n")
}

func plural(n int, unit string) string {
	return fmt.Sprintf("%d %s", n, unit)
}

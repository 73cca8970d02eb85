package parse

import (
	"strings"

	"github.com/nurbek2810/stockchat-api/internal/domain"
)

// Classify labels a message. Rules are ordered and the first match wins:
//  1. ignore-list override, which drops even a sale-shaped message
//  2. snapshot header prefix
//  3. increment keyword plus an extractable quantity
//  4. sale shape
//  5. ignore
//
// The heuristics trade recall for precision on purpose: a silently ignored
// message costs less than an unrelated chat message filed as a business event.
func Classify(text string) domain.MessageKind {
	norm := Normalize(text)
	if norm == "" {
		return domain.KindIgnore
	}

	if ContainsIgnoredWord(norm) {
		return domain.KindIgnore
	}

	for _, p := range snapshotPrefixes {
		if strings.HasPrefix(norm, p) {
			return domain.KindStockSnapshot
		}
	}

	for _, k := range incrementMarkers {
		if strings.Contains(norm, k) {
			if _, ok := Quantity(norm); ok {
				return domain.KindStockIncrement
			}
		}
	}

	if LooksLikeSaleLine(norm) {
		return domain.KindSale
	}

	return domain.KindIgnore
}

// Package negotiate selects a response representation from an Accept
// header using quality-weighted matching, honoring q-values, wildcard
// ranges, and specificity precedence per RFC 9110 section 12.5.1.
package negotiate

import (
	"errors"
	"mime"
	"strconv"
	"strings"
)

// ErrNotAcceptable is returned when no offered media type satisfies the
// client's preferences.
var ErrNotAcceptable = errors.New("no acceptable representation")

// acceptRange is one parsed element of an Accept header.
type acceptRange struct {
	mediaType string // "type/sub", "type/*" or "*/*"
	quality   float64
	order     int // position in the header, for stable tie-breaks
}

// specificity ranks a range for precedence: exact > type/* > */*.
func (r acceptRange) specificity() int {
	switch {
	case r.mediaType == "*/*":
		return 0
	case strings.HasSuffix(r.mediaType, "/*"):
		return 1
	default:
		return 2
	}
}

// matches reports whether the range covers the concrete offer.
func (r acceptRange) matches(offer string) bool {
	if r.mediaType == "*/*" || r.mediaType == offer {
		return true
	}
	if prefix, ok := strings.CutSuffix(r.mediaType, "/*"); ok {
		return strings.HasPrefix(offer, prefix+"/")
	}
	return false
}

// Negotiate picks the best of the offered media types for the given
// Accept header value. Offers must be concrete "type/subtype" strings in
// server preference order; an empty or absent header accepts everything,
// yielding the first offer. Returns ErrNotAcceptable when every offer is
// either unmatched or explicitly excluded with q=0.
func Negotiate(acceptHeader string, offers ...string) (string, error) {
	if len(offers) == 0 {
		return "", ErrNotAcceptable
	}
	if strings.TrimSpace(acceptHeader) == "" {
		return offers[0], nil
	}

	ranges := parseAccept(acceptHeader)
	if len(ranges) == 0 {
		return "", ErrNotAcceptable
	}

	best := ""
	bestQ := 0.0
	bestSpec := -1
	bestOrder := 0
	for _, offer := range offers {
		q, spec, order, ok := offerQuality(offer, ranges)
		if !ok || q <= 0 {
			continue
		}
		// Higher quality wins; ties go to the more specific range, then
		// to the earlier position in the client's header, then to the
		// server's offer order.
		better := q > bestQ ||
			(q == bestQ && spec > bestSpec) ||
			(q == bestQ && spec == bestSpec && order < bestOrder)
		if better {
			best, bestQ, bestSpec, bestOrder = offer, q, spec, order
		}
	}
	if best == "" {
		return "", ErrNotAcceptable
	}
	return best, nil
}

// offerQuality finds the most specific range matching the offer and
// returns its quality, specificity, and header position.
func offerQuality(offer string, ranges []acceptRange) (float64, int, int, bool) {
	bestSpec := -1
	var q float64
	var order int
	for _, r := range ranges {
		if !r.matches(offer) {
			continue
		}
		if s := r.specificity(); s > bestSpec {
			bestSpec, q, order = s, r.quality, r.order
		}
	}
	return q, bestSpec, order, bestSpec >= 0
}

// parseAccept splits an Accept header into ranges, dropping elements that
// fail media-type parsing.
func parseAccept(header string) []acceptRange {
	var ranges []acceptRange
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		mediaType, params, err := mime.ParseMediaType(part)
		if err != nil {
			continue
		}
		q := 1.0
		if raw, ok := params["q"]; ok {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil || parsed < 0 || parsed > 1 {
				continue
			}
			q = parsed
		}
		ranges = append(ranges, acceptRange{
			mediaType: mediaType,
			quality:   q,
			order:     len(ranges),
		})
	}
	return ranges
}

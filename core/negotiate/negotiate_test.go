package negotiate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/serveindex/core/negotiate"
)

var offers = []string{"text/html", "text/plain", "application/json"}

func TestNegotiate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		accept string
		want   string
	}{
		{"empty_header_takes_first_offer", "", "text/html"},
		{"wildcard_takes_first_offer", "*/*", "text/html"},
		{"exact_match", "application/json", "application/json"},
		{"type_wildcard", "text/*", "text/html"},
		{"quality_ordering", "text/html;q=0.2, application/json;q=0.9", "application/json"},
		{"specific_beats_wildcard", "*/*;q=1, application/json", "application/json"},
		{"browser_default", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8", "text/html"},
		{"curl_style_json", "application/json, text/plain;q=0.5", "application/json"},
		{"excluded_type_falls_through", "text/html;q=0, */*", "text/plain"},
		{"whitespace_tolerant", " text/plain ; q=0.8 , text/html ; q=0.3 ", "text/plain"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := negotiate.Negotiate(tt.accept, offers...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNegotiateNotAcceptable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		accept string
	}{
		{"unsupported_type", "image/png"},
		{"everything_excluded", "*/*;q=0"},
		{"garbage_header", ";;;"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := negotiate.Negotiate(tt.accept, offers...)
			assert.ErrorIs(t, err, negotiate.ErrNotAcceptable)
		})
	}
}

func TestNegotiateNoOffers(t *testing.T) {
	t.Parallel()

	_, err := negotiate.Negotiate("*/*")
	assert.ErrorIs(t, err, negotiate.ErrNotAcceptable)
}

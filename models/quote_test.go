package models

import "testing"

func TestValidQuoteTransition(t *testing.T) {
	cases := []struct {
		event string
		from  string
		valid bool
	}{
		{QuoteEventRespond, QuoteStatusPending, true},
		{QuoteEventRespond, QuoteStatusSent, false},
		{QuoteEventRespond, QuoteStatusAccepted, false},
		{QuoteEventAccept, QuoteStatusSent, true},
		{QuoteEventAccept, QuoteStatusPending, false},
		{QuoteEventAccept, QuoteStatusAccepted, false},
		{QuoteEventReject, QuoteStatusSent, true},
		{QuoteEventReject, QuoteStatusRejected, false},
		{QuoteEventComplete, QuoteStatusAccepted, true},
		{QuoteEventComplete, QuoteStatusSent, false},
		{QuoteEventComplete, QuoteStatusCompleted, false},
		{QuoteEventCancel, QuoteStatusPending, true},
		{QuoteEventCancel, QuoteStatusSent, true},
		{QuoteEventCancel, QuoteStatusAccepted, true},
		{QuoteEventCancel, QuoteStatusCompleted, false},
		{QuoteEventCancel, QuoteStatusCancelled, false},
		{"unknown", QuoteStatusPending, false},
	}

	for _, tt := range cases {
		if got := ValidQuoteTransition(tt.event, tt.from); got != tt.valid {
			t.Fatalf("ValidQuoteTransition(%q, %q)=%v, want %v", tt.event, tt.from, got, tt.valid)
		}
	}
}

func TestQuoteIsTerminal(t *testing.T) {
	cases := []struct {
		status   string
		terminal bool
	}{
		{QuoteStatusPending, false},
		{QuoteStatusSent, false},
		{QuoteStatusAccepted, false},
		{QuoteStatusRejected, true},
		{QuoteStatusCompleted, true},
		{QuoteStatusCancelled, true},
	}

	for _, tt := range cases {
		q := Quote{Status: tt.status}
		if got := q.IsTerminal(); got != tt.terminal {
			t.Fatalf("IsTerminal() for %q = %v, want %v", tt.status, got, tt.terminal)
		}
	}
}

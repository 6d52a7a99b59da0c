package domain

import "testing"

func TestNextStatusAppliesKnownTransitions(t *testing.T) {
	cases := []struct {
		current RecordStatus
		event   string
		want    RecordStatus
	}{
		{"", "select", StatusQuoteRequested},
		{StatusQuoteRequested, "on_select_ok", StatusQuoteAccepted},
		{StatusQuoteRequested, "on_select_err", StatusQuoteRejected},
		{StatusQuoteAccepted, "on_init", StatusInitialized},
		{StatusInitialized, "on_confirm", StatusCreated},
		{StatusCreated, "on_status_accepted", StatusAccepted},
		{StatusAccepted, "on_status_in_progress", StatusInProgress},
		{StatusInProgress, "on_status_completed", StatusCompleted},
		{StatusCreated, "on_cancel_ok", StatusCancelled},
	}

	for _, tc := range cases {
		got, ok := NextStatus(tc.current, tc.event)
		if !ok {
			t.Errorf("NextStatus(%q, %q): expected a legal transition", tc.current, tc.event)
			continue
		}
		if got != tc.want {
			t.Errorf("NextStatus(%q, %q) = %q, want %q", tc.current, tc.event, got, tc.want)
		}
	}
}

func TestNextStatusRejectsStaleOrOutOfOrderEvents(t *testing.T) {
	cases := []struct {
		current RecordStatus
		event   string
	}{
		{StatusQuoteRequested, "on_init"},     // init before a quote was even accepted
		{StatusCompleted, "on_status_accepted"}, // event replayed after terminal status
		{StatusCancelled, "on_confirm"},       // nothing legal out of a cancelled order
		{StatusQuoteAccepted, "on_select_ok"}, // select events don't apply once accepted
	}

	for _, tc := range cases {
		if _, ok := NextStatus(tc.current, tc.event); ok {
			t.Errorf("NextStatus(%q, %q): expected this transition to be rejected", tc.current, tc.event)
		}
	}
}

func TestMappingKeyIsOrderSensitiveComposite(t *testing.T) {
	a := MappingKey("bpp1", "prov1", "item1")
	b := MappingKey("bpp1_prov1", "item1", "")
	if a == b {
		t.Fatalf("expected distinct composite keys for different component splits, got both %q", a)
	}
	if got := MappingKey("bpp1", "prov1", "item1"); got != a {
		t.Fatalf("MappingKey is not deterministic: got %q, want %q", got, a)
	}
}

func TestLocationIDClosureDeduplicatesAcrossItems(t *testing.T) {
	c := Commerce{
		Items: []CommerceItem{
			{ItemID: "i1", LocationIDs: []string{"l1", "l2"}},
			{ItemID: "i2", LocationIDs: []string{"l2", "l3"}},
		},
	}
	got := c.LocationIDClosure()
	want := map[string]bool{"l1": true, "l2": true, "l3": true}
	if len(got) != len(want) {
		t.Fatalf("LocationIDClosure() = %v, want 3 unique ids", got)
	}
	for _, id := range got {
		if !want[id] {
			t.Errorf("unexpected location id %q in closure", id)
		}
	}
}

func TestFulfillmentIDSetReflectsAggregateFulfillments(t *testing.T) {
	c := Commerce{
		Fulfillments: []CommerceFulfillment{
			{FulfillmentID: "f1"},
			{FulfillmentID: "f2"},
		},
	}
	set := c.FulfillmentIDSet()
	if _, ok := set["f1"]; !ok {
		t.Error("expected f1 in fulfillment id set")
	}
	if _, ok := set["f3"]; ok {
		t.Error("did not expect f3 in fulfillment id set")
	}
	if len(set) != 2 {
		t.Errorf("len(set) = %d, want 2", len(set))
	}
}

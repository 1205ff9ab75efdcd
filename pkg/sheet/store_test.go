package sheet

import "testing"

func TestPartition(t *testing.T) {
	rows := []Row{
		{Index: 2, UID: "1", Title: "a"},
		{Index: 3, Title: "b"},
		{Index: 4, UID: "7", Title: "c"},
		{Index: 5, Title: "d"},
	}
	processed, unprocessed := Partition(rows)
	if len(processed) != 2 || len(unprocessed) != 2 {
		t.Fatalf("processed=%d unprocessed=%d", len(processed), len(unprocessed))
	}
	if processed[0].Title != "a" || processed[1].Title != "c" {
		t.Fatalf("processed order changed: %+v", processed)
	}
	if unprocessed[0].Title != "b" || unprocessed[1].Title != "d" {
		t.Fatalf("unprocessed order changed: %+v", unprocessed)
	}
}

func TestValuesColumnContract(t *testing.T) {
	r := Row{
		Index: 2, UID: "42", Title: "fish sculpture", Model: "iphone se",
		Style: "gold", Victories: 18, Days: 25, Hours: 18, Minutes: 1,
		Defended: 25.7507, Treats: 9, Latlon: "40.7,-73.9",
		City: "brooklyn", County: "kings", State: "new york",
	}
	vals := r.Values()
	if len(vals) != len(Columns) {
		t.Fatalf("Values has %d cells, Columns has %d", len(vals), len(Columns))
	}
	if vals[0] != "42" || vals[1] != "fish sculpture" || vals[3] != "gold" {
		t.Fatalf("leading cells out of order: %v", vals[:4])
	}
	if vals[8] != 25.7507 || vals[13] != "new york" {
		t.Fatalf("trailing cells out of order: %v", vals)
	}
}

func TestProcessedPredicate(t *testing.T) {
	if (Row{}).Processed() {
		t.Fatal("blank uid counted as processed")
	}
	if !(Row{UID: "1"}).Processed() {
		t.Fatal("assigned uid not counted as processed")
	}
}

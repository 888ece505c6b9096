package item

// Aggregate is the per-list rollup mirrored onto the list row: the count of
// active (unchecked) items and, for grocery lists, their summed
// price x quantity.
type Aggregate struct {
	ItemNumber int
	Total      float64
}

// FoldChecked sums count and amount over the checked items of a collection.
// Bulk toggles use it as the delta base: checking everything zeroes the
// aggregate, unchecking everything adds this fold back.
func FoldChecked[T Item[T]](items []T, amount func(T) float64) Aggregate {
	var agg Aggregate
	for _, it := range items {
		if !it.IsChecked() {
			continue
		}
		agg.ItemNumber++
		agg.Total += amount(it)
	}
	return agg
}

// FoldActive recomputes the aggregate from scratch over unchecked items.
// It is the authoritative definition the incremental deltas must agree with.
func FoldActive[T Item[T]](items []T, amount func(T) float64) Aggregate {
	var agg Aggregate
	for _, it := range items {
		if it.IsChecked() {
			continue
		}
		agg.ItemNumber++
		agg.Total += amount(it)
	}
	return agg
}

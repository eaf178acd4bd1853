package analyzer

// RankedItem is a name/count pair.
type RankedItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Tally counts occurrences of keys and remembers the order in which each key
// was first seen. Counts only ever go up.
type Tally struct {
	counts map[string]int
	order  []string
}

// NewTally returns an empty tally.
func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

// Inc adds one to key.
func (t *Tally) Inc(key string) {
	if _, ok := t.counts[key]; !ok {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

// Get returns the count for key, zero if it was never seen.
func (t *Tally) Get(key string) int {
	return t.counts[key]
}

// Len returns the number of distinct keys.
func (t *Tally) Len() int {
	return len(t.order)
}

// Total returns the sum of all counts.
func (t *Tally) Total() int {
	total := 0
	for _, c := range t.counts {
		total += c
	}
	return total
}

// Keys returns the distinct keys in first-seen order.
func (t *Tally) Keys() []string {
	keys := make([]string, len(t.order))
	copy(keys, t.order)
	return keys
}

// Items returns key/count pairs in first-seen order.
func (t *Tally) Items() []RankedItem {
	items := make([]RankedItem, len(t.order))
	for i, k := range t.order {
		items[i] = RankedItem{Name: k, Count: t.counts[k]}
	}
	return items
}

package analytics

import "sort"

// Counter accumulates value frequencies while remembering the order in
// which values were first seen.
type Counter struct {
	counts map[string]int
	order  []string
	total  int
}

// NewCounter creates an empty counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Add counts one occurrence of value.
func (c *Counter) Add(value string) {
	if _, ok := c.counts[value]; !ok {
		c.order = append(c.order, value)
	}
	c.counts[value]++
	c.total++
}

// Count returns how often value was added.
func (c *Counter) Count(value string) int {
	return c.counts[value]
}

// Total returns the number of Add calls.
func (c *Counter) Total() int { return c.total }

// Unique returns the number of distinct values.
func (c *Counter) Unique() int { return len(c.order) }

// Distribution freezes the counter into entries sorted by descending
// count. Ties keep first-seen order.
func (c *Counter) Distribution() Distribution {
	entries := make([]Entry, len(c.order))
	for i, v := range c.order {
		entries[i] = Entry{Value: v, Count: c.counts[v]}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return Distribution{
		Total:   c.total,
		Unique:  len(entries),
		Entries: entries,
	}
}

// Entry is a single value with its frequency.
type Entry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Distribution is a frequency table ordered from most to least common.
type Distribution struct {
	Total   int     `json:"total"`
	Unique  int     `json:"unique"`
	Entries []Entry `json:"entries"`
}

// Top returns the first n entries (all when n <= 0).
func (d Distribution) Top(n int) []Entry {
	if n <= 0 || n >= len(d.Entries) {
		return d.Entries
	}
	return d.Entries[:n]
}

// Lookup returns the count recorded for value.
func (d Distribution) Lookup(value string) (int, bool) {
	for _, e := range d.Entries {
		if e.Value == value {
			return e.Count, true
		}
	}
	return 0, false
}

// Values returns the entry values in distribution order.
func (d Distribution) Values() []string {
	out := make([]string, len(d.Entries))
	for i, e := range d.Entries {
		out[i] = e.Value
	}
	return out
}

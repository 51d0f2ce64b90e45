package dedup

// KnownSet is the working memory for one pipeline run: the links seen so far
// for exact matching and the titles seen so far as the fuzzy comparison
// corpus. It is seeded from the ledger's existing rows, grows as candidates
// are accepted, and is discarded when the run ends. The ledger itself stays
// the durable record.
type KnownSet struct {
	links  map[string]struct{}
	titles []string
}

// NewKnownSet seeds the working memory from the ledger's link and title
// columns, empty cells included.
func NewKnownSet(links, titles []string) *KnownSet {
	k := &KnownSet{
		links:  make(map[string]struct{}, len(links)),
		titles: make([]string, 0, len(titles)),
	}
	for _, link := range links {
		k.links[link] = struct{}{}
	}
	k.titles = append(k.titles, titles...)
	return k
}

// HasLink reports whether the exact link was seen before.
func (k *KnownSet) HasLink(link string) bool {
	_, ok := k.links[link]
	return ok
}

// Titles returns the current fuzzy comparison corpus.
func (k *KnownSet) Titles() []string {
	return k.titles
}

// Add records an accepted article so later candidates in the same batch are
// checked against it too.
func (k *KnownSet) Add(link, title string) {
	k.links[link] = struct{}{}
	k.titles = append(k.titles, title)
}

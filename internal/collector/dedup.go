package collector

// KnownIDs is the process-scoped set of video IDs already present in the
// destination store. Rebuilt from the store at run start, grown as the run
// accepts records, discarded at run end — the store is the durable state,
// so the set is treated as stale relative to concurrent outside writers.
type KnownIDs struct {
	ids map[string]struct{}
}

// NewKnownIDs returns an empty known-ID set.
func NewKnownIDs() *KnownIDs {
	return &KnownIDs{ids: make(map[string]struct{})}
}

// Load bulk-initializes the set from the store's current contents.
func (k *KnownIDs) Load(ids []string) {
	for _, id := range ids {
		k.ids[id] = struct{}{}
	}
}

// IsNew reports whether the video ID has not been collected before.
func (k *KnownIDs) IsNew(id string) bool {
	_, ok := k.ids[id]
	return !ok
}

// Mark records an accepted video ID.
func (k *KnownIDs) Mark(id string) {
	k.ids[id] = struct{}{}
}

// Len returns the number of known IDs.
func (k *KnownIDs) Len() int {
	return len(k.ids)
}

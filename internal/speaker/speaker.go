// Package speaker maintains the process-wide speaker directory and resolves
// normalized identities from steno labels and linked biography pages.
package speaker

// Speaker is one person observed across steno transcripts. A Speaker starts
// as a bare stub (steno label and biography link) registered by the
// transcript segmenter and is later filled in by the Resolver.
type Speaker struct {
	StenoName string
	PageName  string
	Name      string
	Titles    string
	Function  string
	Sex       string
	Party     string
	BirthDate string
	Link      string
}

// Enriched reports whether the speaker already carries a resolved identity.
func (s Speaker) Enriched() bool {
	return s.Name != ""
}

// Directory is the speaker table shared by every session in a run. Stub
// registration is first-seen-wins and key order is preserved, so rerunning
// a harvest over the same sessions is deterministic.
type Directory struct {
	order []string
	byKey map[string]Speaker
}

// NewDirectory returns an empty speaker directory.
func NewDirectory() *Directory {
	return &Directory{byKey: make(map[string]Speaker)}
}

// Register records a stub for key unless a speaker with that key already
// exists. The stub never overwrites earlier state. Returns true when the
// speaker is new.
func (d *Directory) Register(key string, stub Speaker) bool {
	if _, exists := d.byKey[key]; exists {
		return false
	}
	d.byKey[key] = stub
	d.order = append(d.order, key)
	return true
}

// Get looks up a speaker by key.
func (d *Directory) Get(key string) (Speaker, bool) {
	s, ok := d.byKey[key]
	return s, ok
}

// Put replaces the speaker stored under key. The key must have been
// registered first; unknown keys are ignored.
func (d *Directory) Put(key string, s Speaker) {
	if _, exists := d.byKey[key]; !exists {
		return
	}
	d.byKey[key] = s
}

// Keys returns the speaker keys in first-seen order.
func (d *Directory) Keys() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Len returns the number of registered speakers.
func (d *Directory) Len() int {
	return len(d.order)
}

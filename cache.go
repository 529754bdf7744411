package fstkit

// CacheOptions configures the per-state memo table used by delayed
// operators.
type CacheOptions struct {
	// GC enables eviction of expanded entries once the cache grows
	// past Limit bytes. Entries pinned by a live arc iterator are
	// never evicted.
	GC bool
	// Limit is the approximate byte budget. With GC enabled a zero
	// limit keeps only pinned entries, which suits operators whose
	// per-arc transform is cheap to redo.
	Limit int
}

// DefaultCacheLimit is the byte budget used by DefaultCacheOptions.
const DefaultCacheLimit = 1 << 20

// DefaultCacheOptions returns the caching configuration used by
// delayed operators unless overridden.
func DefaultCacheOptions() CacheOptions {
	return CacheOptions{GC: true, Limit: DefaultCacheLimit}
}

// entryStatus is the per-state expansion state machine. Each output
// state moves Unvisited -> Expanding -> Expanded independently of all
// others; eviction moves an Expanded entry back to Unvisited.
type entryStatus uint8

const (
	entryUnvisited entryStatus = iota
	entryExpanding
	entryExpanded
)

// Approximate costs for the byte budget.
const (
	cacheArcCost   = 24
	cacheEntryCost = 48
)

// cacheEntry is the memo for one output state: the materialized final
// weight and arc list, with flags recording what has been computed.
type cacheEntry[W Weight[W]] struct {
	final    W
	hasFinal bool
	arcs     []Arc[W]
	status   entryStatus
	pins     int32
}

// stateCache is the generic memo table backing delayed operators. It
// follows the package's single-threaded mutation contract: queries
// that expand states must not run concurrently on a shared handle.
type stateCache[W Weight[W]] struct {
	opts     CacheOptions
	entries  []*cacheEntry[W]
	bytes    int
	start    StateID
	hasStart bool
}

func newStateCache[W Weight[W]](opts CacheOptions) stateCache[W] {
	return stateCache[W]{opts: opts, start: NoStateID}
}

// entry returns the cache entry for s, allocating it (and any gap
// below it) on first reference.
func (c *stateCache[W]) entry(s StateID) *cacheEntry[W] {
	for int(s) >= len(c.entries) {
		c.entries = append(c.entries, nil)
	}
	if c.entries[s] == nil {
		c.entries[s] = &cacheEntry[W]{}
		c.bytes += cacheEntryCost
	}
	return c.entries[s]
}

// SetStart memoizes the start state.
func (c *stateCache[W]) SetStart(s StateID) {
	c.start = s
	c.hasStart = true
}

// Start returns the memoized start state.
func (c *stateCache[W]) Start() (StateID, bool) { return c.start, c.hasStart }

// HasFinal reports whether the final weight of s has been computed.
func (c *stateCache[W]) HasFinal(s StateID) bool {
	if int(s) >= len(c.entries) || c.entries[s] == nil {
		return false
	}
	return c.entries[s].hasFinal
}

// SetFinal memoizes the final weight of s.
func (c *stateCache[W]) SetFinal(s StateID, weight W) {
	e := c.entry(s)
	e.final = weight
	e.hasFinal = true
}

// Final returns the memoized final weight of s.
func (c *stateCache[W]) Final(s StateID) W { return c.entry(s).final }

// HasArcs reports whether s is Expanded.
func (c *stateCache[W]) HasArcs(s StateID) bool {
	if int(s) >= len(c.entries) || c.entries[s] == nil {
		return false
	}
	return c.entries[s].status == entryExpanded
}

// BeginExpand moves s from Unvisited to Expanding. It reports false
// when s is already expanding, which would mean a re-entrant expansion
// of the same state.
func (c *stateCache[W]) BeginExpand(s StateID) bool {
	e := c.entry(s)
	if e.status == entryExpanding {
		return false
	}
	e.status = entryExpanding
	return true
}

// PushArc appends one transformed arc to the entry being expanded.
func (c *stateCache[W]) PushArc(s StateID, arc Arc[W]) {
	e := c.entry(s)
	e.arcs = append(e.arcs, arc)
	c.bytes += cacheArcCost
}

// FinishExpand marks s Expanded and runs eviction if the budget is
// exceeded.
func (c *stateCache[W]) FinishExpand(s StateID) {
	c.entry(s).status = entryExpanded
	if c.opts.GC && c.bytes > c.opts.Limit {
		c.evict(s)
	}
}

// Arcs returns the memoized arc list of s. The returned slice stays
// valid even if the entry is later evicted; eviction only affects
// future visits.
func (c *stateCache[W]) Arcs(s StateID) []Arc[W] { return c.entry(s).arcs }

// NumArcs returns the memoized arc count of s.
func (c *stateCache[W]) NumArcs(s StateID) int { return len(c.entry(s).arcs) }

// Pin guards s against eviction for the duration of an iteration.
func (c *stateCache[W]) Pin(s StateID) { c.entry(s).pins++ }

// Unpin releases a Pin.
func (c *stateCache[W]) Unpin(s StateID) { c.entry(s).pins-- }

// evict returns Expanded, unpinned entries other than keep to
// Unvisited until the cache is at half budget. Memoized final weights
// are retained: they are scalar and their recomputation path is
// identical. Entries left holding no final are dropped wholesale so
// their slot overhead is reclaimed and the target stays reachable.
func (c *stateCache[W]) evict(keep StateID) {
	target := c.opts.Limit / 2
	for s, e := range c.entries {
		if c.bytes <= target {
			return
		}
		if e == nil || StateID(s) == keep || e.status != entryExpanded || e.pins > 0 {
			continue
		}
		c.bytes -= cacheArcCost * len(e.arcs)
		e.arcs = nil
		e.status = entryUnvisited
		if !e.hasFinal {
			c.bytes -= cacheEntryCost
			c.entries[s] = nil
		}
	}
}

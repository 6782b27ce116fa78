package tasks

import "github.com/pthm-cable/fauna/vec"

// SiteMemory remembers the most recent good task sites (dig spots, flower
// patches) in a bounded ring buffer. Oldest entries are overwritten once
// capacity is reached, so memory never grows with agent lifetime.
type SiteMemory struct {
	sites []vec.V
	next  int
	full  bool
}

// NewSiteMemory creates a memory holding up to capacity sites.
func NewSiteMemory(capacity int) *SiteMemory {
	if capacity < 1 {
		capacity = 1
	}
	return &SiteMemory{sites: make([]vec.V, capacity)}
}

// Remember records a site, evicting the oldest if full.
func (m *SiteMemory) Remember(p vec.V) {
	m.sites[m.next] = p
	m.next++
	if m.next == len(m.sites) {
		m.next = 0
		m.full = true
	}
}

// Len returns the number of remembered sites.
func (m *SiteMemory) Len() int {
	if m.full {
		return len(m.sites)
	}
	return m.next
}

// Nearest returns the remembered site closest to p, or false if empty.
func (m *SiteMemory) Nearest(p vec.V) (vec.V, bool) {
	n := m.Len()
	if n == 0 {
		return vec.Zero, false
	}
	best := m.sites[0]
	bestSq := best.DistSq(p)
	for i := 1; i < n; i++ {
		if dSq := m.sites[i].DistSq(p); dSq < bestSq {
			best = m.sites[i]
			bestSq = dSq
		}
	}
	return best, true
}

// Sites returns a copy of the remembered sites, oldest first.
func (m *SiteMemory) Sites() []vec.V {
	n := m.Len()
	out := make([]vec.V, 0, n)
	if m.full {
		out = append(out, m.sites[m.next:]...)
	}
	out = append(out, m.sites[:m.next]...)
	return out
}

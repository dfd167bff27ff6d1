package store

import (
	"math"
	"sort"
	"sync"
)

// entry is one indexed document with its embedding and metadata payload.
type entry struct {
	id        string
	document  string
	embedding []float32
	meta      ChunkMetadata
}

// hit is a similarity match with its cosine distance (lower = more similar).
type hit struct {
	entry    *entry
	distance float64
}

// vectorCollection is an in-process vector index over embeddings with
// brute-force cosine similarity. Reads run concurrently; writes serialize.
type vectorCollection struct {
	mu      sync.RWMutex
	entries []entry
	byID    map[string]int
}

func newVectorCollection() *vectorCollection {
	return &vectorCollection{byID: make(map[string]int)}
}

func (c *vectorCollection) upsert(id, document string, embedding []float32, meta ChunkMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i, ok := c.byID[id]; ok {
		c.entries[i] = entry{id: id, document: document, embedding: embedding, meta: meta}
		return
	}
	c.byID[id] = len(c.entries)
	c.entries = append(c.entries, entry{id: id, document: document, embedding: embedding, meta: meta})
}

func (c *vectorCollection) get(id string) (string, ChunkMetadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return "", ChunkMetadata{}, false
	}
	return c.entries[i].document, c.entries[i].meta, true
}

func (c *vectorCollection) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *vectorCollection) ids() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.id)
	}
	return out
}

func (c *vectorCollection) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.byID = make(map[string]int)
}

// query returns the topK nearest entries by cosine distance, restricted to
// entries the filter accepts. A nil filter accepts everything.
func (c *vectorCollection) query(embedding []float32, topK int, filter func(ChunkMetadata) bool) []hit {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if topK <= 0 {
		topK = 5
	}

	hits := make([]hit, 0, len(c.entries))
	for i := range c.entries {
		e := &c.entries[i]
		if filter != nil && !filter(e.meta) {
			continue
		}
		hits = append(hits, hit{entry: e, distance: cosineDistance(embedding, e.embedding)})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].distance < hits[j].distance })
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}

// cosineDistance is 1 - cosine similarity, so 0 means identical direction.
func cosineDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

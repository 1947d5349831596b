package pipeline

import (
	"sort"
	"sync"

	"github.com/viant/astscope/inspector/info"
)

type position struct {
	slot  int
	index int
}

// arena holds run nodes per discovery slot with an id index
type arena struct {
	slots map[int][]info.Node
	index map[string]position
}

// registry tracks node arenas of in-flight runs
type registry struct {
	mux  sync.Mutex
	runs map[string]*arena
}

func newRegistry() *registry {
	return &registry{runs: map[string]*arena{}}
}

// add stores file nodes under discovery slot, returns number of ids already indexed
func (r *registry) add(runID string, slot int, nodes []info.Node) int {
	r.mux.Lock()
	defer r.mux.Unlock()
	a, ok := r.runs[runID]
	if !ok {
		a = &arena{slots: map[int][]info.Node{}, index: map[string]position{}}
		r.runs[runID] = a
	}
	duplicates := 0
	a.slots[slot] = nodes
	for i := range nodes {
		if _, ok := a.index[nodes[i].ID]; ok {
			duplicates++
			continue
		}
		a.index[nodes[i].ID] = position{slot: slot, index: i}
	}
	return duplicates
}

// essential returns up to limit essential nodes in discovery order
func (r *registry) essential(runID string, limit int) []EssentialNode {
	r.mux.Lock()
	defer r.mux.Unlock()
	var result = make([]EssentialNode, 0)
	a, ok := r.runs[runID]
	if !ok {
		return result
	}
	slots := make([]int, 0, len(a.slots))
	for slot := range a.slots {
		slots = append(slots, slot)
	}
	sort.Ints(slots)
	for _, slot := range slots {
		nodes := a.slots[slot]
		for i := range nodes {
			if !nodes[i].IsEssential() {
				continue
			}
			if len(result) >= limit {
				return result
			}
			result = append(result, newEssentialNode(&nodes[i]))
		}
	}
	return result
}

func (r *registry) size(runID string) int {
	r.mux.Lock()
	defer r.mux.Unlock()
	if a, ok := r.runs[runID]; ok {
		return len(a.index)
	}
	return 0
}

// release drops run arena
func (r *registry) release(runID string) {
	r.mux.Lock()
	defer r.mux.Unlock()
	delete(r.runs, runID)
}

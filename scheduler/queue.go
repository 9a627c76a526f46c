package scheduler

import (
	"container/heap"

	"github.com/jeremyrcoyle/delayed/graph"
)

// readyQueue orders dispatchable nodes by priority: nodes with more direct
// dependents first, ties broken by earliest creation order. Deterministic by
// construction, so runs are reproducible given deterministic worker results.
type readyQueue struct {
	items queueItems
	byID  map[graph.NodeID]*queueItem
}

type queueItem struct {
	id       graph.NodeID
	priority int
	index    int
}

type queueItems []*queueItem

func (q queueItems) Len() int { return len(q) }

func (q queueItems) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority > q[j].priority
	}
	return q[i].id < q[j].id
}

func (q queueItems) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *queueItems) Push(x any) {
	item := x.(*queueItem)
	item.index = len(*q)
	*q = append(*q, item)
}

func (q *queueItems) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

func newReadyQueue() *readyQueue {
	return &readyQueue{byID: make(map[graph.NodeID]*queueItem)}
}

// Add inserts a node with the given priority.
func (q *readyQueue) Add(id graph.NodeID, priority int) {
	item := &queueItem{id: id, priority: priority}
	q.byID[id] = item
	heap.Push(&q.items, item)
}

// Next removes and returns the highest-priority node.
func (q *readyQueue) Next() graph.NodeID {
	item := heap.Pop(&q.items).(*queueItem)
	delete(q.byID, item.id)
	return item.id
}

// Remove deletes a node from the queue if present. Used when failure
// propagation reaches nodes that were already enqueued.
func (q *readyQueue) Remove(id graph.NodeID) bool {
	item, ok := q.byID[id]
	if !ok {
		return false
	}
	heap.Remove(&q.items, item.index)
	delete(q.byID, id)
	return true
}

// Len returns the number of queued nodes.
func (q *readyQueue) Len() int { return len(q.items) }

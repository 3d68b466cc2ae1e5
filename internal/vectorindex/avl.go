package vectorindex

import (
	"container/heap"
	"fmt"
	"sort"

	"github.com/brightfield-labs/vectordb/internal/model"
)

// avlNode is a node in the AVL tree, keyed by chunk id.
type avlNode struct {
	key    model.ID
	chunk  model.Chunk
	vector []float32
	height int
	left   *avlNode
	right  *avlNode
}

// AVLIndex is a self-balancing binary search tree keyed by chunk id. It
// provides O(log n) insert/delete/update and exact k-NN search via a full
// O(n) traversal bounded by a size-k priority queue.
type AVLIndex struct {
	metric      model.Metric
	root        *avlNode
	vectorCount int
	dimension   int
}

// NewAVLIndex constructs an empty AVL index for the given metric.
func NewAVLIndex(metric model.Metric) *AVLIndex {
	return &AVLIndex{metric: metric}
}

func (idx *AVLIndex) Kind() model.IndexKind { return model.IndexKindAVL }
func (idx *AVLIndex) Metric() model.Metric  { return idx.metric }
func (idx *AVLIndex) VectorCount() int      { return idx.vectorCount }

// Build replaces all internal state with the given chunks.
func (idx *AVLIndex) Build(chunks []model.Chunk) {
	idx.root = nil
	idx.vectorCount = 0
	idx.dimension = 0
	for _, c := range chunks {
		idx.Insert(c)
	}
}

// Insert adds or replaces a chunk by id. Chunks without an embedding are
// skipped.
func (idx *AVLIndex) Insert(chunk model.Chunk) {
	if !chunk.HasEmbedding() {
		return
	}

	vector := chunk.Embedding
	if idx.metric == model.MetricCosine {
		vector = normalize(vector)
	} else {
		cp := make([]float32, len(vector))
		copy(cp, vector)
		vector = cp
	}
	if idx.dimension == 0 {
		idx.dimension = len(vector)
	}

	idx.root = idx.insertNode(idx.root, chunk, vector)
}

// Delete removes a chunk by id. No-op if absent.
func (idx *AVLIndex) Delete(id model.ID) {
	if idx.root != nil {
		idx.root = idx.deleteNode(idx.root, id)
	}
}

// Search performs an exhaustive scored traversal of the tree, maintaining
// the top-k candidates in a bounded priority queue.
func (idx *AVLIndex) Search(query []float32, k int) ([]ScoredChunk, error) {
	if k < 1 {
		return nil, ErrInvalidK
	}
	if idx.root == nil {
		return []ScoredChunk{}, nil
	}
	if idx.dimension != 0 && len(query) != idx.dimension {
		return nil, &DimensionMismatchError{Expected: idx.dimension, Got: len(query)}
	}

	queryVector := query
	if idx.metric == model.MetricCosine {
		queryVector = normalize(query)
	}

	h := &scoredHeap{}
	heap.Init(h)

	var visit func(node *avlNode)
	visit = func(node *avlNode) {
		if node == nil {
			return
		}

		var priority float32
		if idx.metric == model.MetricCosine {
			priority = dot(node.vector, queryVector)
		} else {
			priority = -euclideanDistance(node.vector, queryVector)
		}

		heap.Push(h, heapEntry{priority: priority, chunk: node.chunk})
		if h.Len() > k {
			heap.Pop(h)
		}

		visit(node.left)
		visit(node.right)
	}
	visit(idx.root)

	results := make([]ScoredChunk, 0, h.Len())
	for _, e := range *h {
		score := e.priority
		if idx.metric == model.MetricEuclidean {
			score = -score
		}
		results = append(results, ScoredChunk{Chunk: e.chunk, Score: score})
	}

	if idx.metric == model.MetricCosine {
		sort.SliceStable(results, func(i, j int) bool {
			if results[i].Score != results[j].Score {
				return results[i].Score > results[j].Score
			}
			return results[i].Chunk.ID.Compare(results[j].Chunk.ID) < 0
		})
	} else {
		sort.SliceStable(results, func(i, j int) bool {
			if results[i].Score != results[j].Score {
				return results[i].Score < results[j].Score
			}
			return results[i].Chunk.ID.Compare(results[j].Chunk.ID) < 0
		})
	}

	return results, nil
}

// --- AVL tree core logic ---

func (idx *AVLIndex) insertNode(node *avlNode, chunk model.Chunk, vector []float32) *avlNode {
	if node == nil {
		idx.vectorCount++
		return &avlNode{key: chunk.ID, chunk: chunk, vector: vector, height: 1}
	}

	switch chunk.ID.Compare(node.key) {
	case -1:
		node.left = idx.insertNode(node.left, chunk, vector)
	case 1:
		node.right = idx.insertNode(node.right, chunk, vector)
	default:
		node.chunk = chunk
		node.vector = vector
		return node
	}

	node.height = 1 + max(height(node.left), height(node.right))
	balance := balanceFactor(node)

	if balance > 1 && chunk.ID.Compare(node.left.key) < 0 {
		return rightRotate(node)
	}
	if balance < -1 && chunk.ID.Compare(node.right.key) > 0 {
		return leftRotate(node)
	}
	if balance > 1 && chunk.ID.Compare(node.left.key) > 0 {
		node.left = leftRotate(node.left)
		return rightRotate(node)
	}
	if balance < -1 && chunk.ID.Compare(node.right.key) < 0 {
		node.right = rightRotate(node.right)
		return leftRotate(node)
	}

	return node
}

func (idx *AVLIndex) deleteNode(node *avlNode, key model.ID) *avlNode {
	if node == nil {
		return nil
	}

	switch key.Compare(node.key) {
	case -1:
		node.left = idx.deleteNode(node.left, key)
	case 1:
		node.right = idx.deleteNode(node.right, key)
	default:
		if node.left == nil {
			idx.vectorCount--
			return node.right
		}
		if node.right == nil {
			idx.vectorCount--
			return node.left
		}

		successor := minValueNode(node.right)
		node.key = successor.key
		node.chunk = successor.chunk
		node.vector = successor.vector
		node.right = idx.deleteNode(node.right, successor.key)
	}

	node.height = 1 + max(height(node.left), height(node.right))
	balance := balanceFactor(node)

	if balance > 1 && balanceFactor(node.left) >= 0 {
		return rightRotate(node)
	}
	if balance > 1 && balanceFactor(node.left) < 0 {
		node.left = leftRotate(node.left)
		return rightRotate(node)
	}
	if balance < -1 && balanceFactor(node.right) <= 0 {
		return leftRotate(node)
	}
	if balance < -1 && balanceFactor(node.right) > 0 {
		node.right = rightRotate(node.right)
		return leftRotate(node)
	}

	return node
}

func leftRotate(z *avlNode) *avlNode {
	y := z.right
	t2 := y.left
	y.left = z
	z.right = t2
	z.height = 1 + max(height(z.left), height(z.right))
	y.height = 1 + max(height(y.left), height(y.right))
	return y
}

func rightRotate(z *avlNode) *avlNode {
	y := z.left
	t3 := y.right
	y.right = z
	z.left = t3
	z.height = 1 + max(height(z.left), height(z.right))
	y.height = 1 + max(height(y.left), height(y.right))
	return y
}

func minValueNode(node *avlNode) *avlNode {
	current := node
	for current.left != nil {
		current = current.left
	}
	return current
}

func height(node *avlNode) int {
	if node == nil {
		return 0
	}
	return node.height
}

func balanceFactor(node *avlNode) int {
	if node == nil {
		return 0
	}
	return height(node.left) - height(node.right)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// inOrder collects keys in ascending order; used by tests to verify the BST
// invariant.
func (idx *AVLIndex) inOrder() []model.ID {
	var out []model.ID
	var visit func(node *avlNode)
	visit = func(node *avlNode) {
		if node == nil {
			return
		}
		visit(node.left)
		out = append(out, node.key)
		visit(node.right)
	}
	visit(idx.root)
	return out
}

// height reports the height of the whole tree; used by tests.
func (idx *AVLIndex) height() int { return height(idx.root) }

// validateBalance walks the tree bottom-up and reports the first node
// whose balance factor falls outside [-1, 1] or whose cached height
// doesn't match its children, or nil if the tree is a valid AVL tree;
// used by tests.
func (idx *AVLIndex) validateBalance() error {
	var walk func(node *avlNode) (int, error)
	walk = func(node *avlNode) (int, error) {
		if node == nil {
			return 0, nil
		}
		lh, err := walk(node.left)
		if err != nil {
			return 0, err
		}
		rh, err := walk(node.right)
		if err != nil {
			return 0, err
		}
		bf := lh - rh
		if bf < -1 || bf > 1 {
			return 0, fmt.Errorf("node %s balance factor %d out of [-1,1]", node.key, bf)
		}
		h := 1 + max(lh, rh)
		if h != node.height {
			return 0, fmt.Errorf("node %s cached height %d, computed %d", node.key, node.height, h)
		}
		return h, nil
	}
	_, err := walk(idx.root)
	return err
}

// heapEntry is one candidate held in the bounded top-k heap.
type heapEntry struct {
	priority float32
	chunk    model.Chunk
}

// scoredHeap is a min-heap over priority, so the worst current top-k
// candidate is always the one popped when the heap overflows size k. For
// cosine, priority is the raw score (higher is better, so the min-heap
// evicts the smallest score). For Euclidean, priority is the negated
// distance (so the min-heap evicts the most negative value, i.e. the
// largest distance).
type scoredHeap []heapEntry

func (h scoredHeap) Len() int            { return len(h) }
func (h scoredHeap) Less(i, j int) bool  { return h[i].priority < h[j].priority }
func (h scoredHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *scoredHeap) Push(x interface{}) { *h = append(*h, x.(heapEntry)) }
func (h *scoredHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

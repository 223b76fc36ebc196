package inference

// combinations enumerates all k-subsets of {0, ..., n-1} in
// lexicographic order, without recursion or allocation per step.
type combinations struct {
	n, k int
	idx  []int
	done bool
}

func newCombinations(n, k int) *combinations {
	c := &combinations{n: n, k: k, idx: make([]int, k), done: k > n}
	for i := range c.idx {
		c.idx[i] = i
	}
	return c
}

// advance moves to the next combination, or sets done.
func (c *combinations) advance() {
	i := c.k - 1
	for i >= 0 && c.idx[i] == c.n-c.k+i {
		i--
	}
	if i < 0 {
		c.done = true
		return
	}
	c.idx[i]++
	for j := i + 1; j < c.k; j++ {
		c.idx[j] = c.idx[j-1] + 1
	}
}

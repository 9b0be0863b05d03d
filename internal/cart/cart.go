// Package cart holds the per-session list of product ids awaiting confirmation.
// A product added twice appears twice; quantity is the number of occurrences.
package cart

type Cart []uint

// Add appends the id without checking that the product exists; ids that do
// not resolve are dropped when the cart is priced.
func (c *Cart) Add(productID uint) {
	*c = append(*c, productID)
}

// RemoveAt deletes the entry at position i and shifts the rest down so
// positions stay contiguous from zero. It reports false for an out of range
// position and leaves the cart untouched.
func (c *Cart) RemoveAt(i int) bool {
	if i < 0 || i >= len(*c) {
		return false
	}
	*c = append((*c)[:i:i], (*c)[i+1:]...)
	return true
}

func (c *Cart) Clear() {
	*c = nil
}

func (c Cart) Len() int {
	return len(c)
}

func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// IDs returns a copy safe to hand to other packages.
func (c Cart) IDs() []uint {
	out := make([]uint, len(c))
	copy(out, c)
	return out
}

// Count returns how many units of productID the cart holds.
func (c Cart) Count(productID uint) int {
	n := 0
	for _, id := range c {
		if id == productID {
			n++
		}
	}
	return n
}

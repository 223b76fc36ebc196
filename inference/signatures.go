package inference

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/boolnet/psbn/symbolic"
)

// A Signature is the content of one color's fixed-point set: the sorted
// bit-strings of its fixed-point states. Two colors with the same fixed
// points have equal signatures regardless of their identity.
type Signature []string

func (s Signature) String() string { return "[" + strings.Join(s, " ") + "]" }

// key is the deduplication key of the signature.
func (s Signature) key() string { return strings.Join(s, ",") }

// A Combinator enumerates the distinct fixed-point signatures of a
// colored fixed-point set.
type Combinator struct {
	Fixed symbolic.ColoredSet

	Verbose bool      // print each peeled color and its signature
	Out     io.Writer // defaults to os.Stdout
}

// Signatures peels the color projection of the fixed-point set one
// color at a time: pick a representative color, restrict the set to it,
// read its fixed points as bit-strings, then subtract the color and
// repeat until the working set is empty. The symbolic color set offers
// no direct iteration, so this pick-subtract loop is the enumeration;
// it runs exactly one iteration per color with at least one fixed point.
// Signatures deduplicate by content, in first-seen order.
func (c *Combinator) Signatures() []Signature {
	if c.Out == nil {
		c.Out = os.Stdout
	}
	if c.Verbose {
		fmt.Fprintln(c.Out, "Fixed point combinations per model color:")
	}
	var sigs []Signature
	seen := make(map[string]bool)
	colors := c.Fixed.Colors()
	for count := 1; !colors.IsEmpty(); count++ {
		singleton := colors.PickSingleton()
		restricted := c.Fixed.IntersectColors(singleton)
		var bits []string
		restricted.Vertices().Each(func(st symbolic.State) error {
			bits = append(bits, st.String())
			return nil
		})
		sort.Strings(bits)
		sig := Signature(bits)
		if !seen[sig.key()] {
			seen[sig.key()] = true
			sigs = append(sigs, sig)
		}
		if c.Verbose {
			fmt.Fprintf(c.Out, "%d %s\n", count, sig)
			if col, ok := singleton.Pick(); ok {
				fmt.Fprintf(c.Out, "\t-> %s\n", col)
			}
		}
		colors = colors.Minus(singleton)
	}
	if c.Verbose {
		fmt.Fprintln(c.Out, "------")
	}
	return sigs
}

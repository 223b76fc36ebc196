// Command fixpoints explores the fixed points of a partially specified
// boolean network across all of its colors: it prints the symbolic
// cardinalities, the raw fixed-point states, a per-color enumeration and
// the deduplicated list of fixed-point signatures.
//
// It enumerates colors one by one, so it is meant for exploring models
// whose color count stays tractable.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/boolnet/psbn/inference"
	"github.com/boolnet/psbn/network"
	"github.com/boolnet/psbn/symbolic"
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		fmt.Fprintf(os.Stderr, "Syntax : %s <network-file>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	net, err := network.Load(flag.Args()[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	g, err := symbolic.New(net.Normalize())
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not build symbolic graph: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Total variables: %d\n", g.Network().NbVars())
	fmt.Printf("Total colors: %s\n", g.UnitColors().Cardinality())
	fmt.Println("------")

	fps := g.FixedPoints()
	fmt.Printf("Total colored fixed points: %s\n", fps.Cardinality())
	fmt.Printf("Total fixed point states: %s\n", fps.Vertices().Cardinality())
	fmt.Printf("Total fixed point colors: %s\n", fps.Colors().Cardinality())
	fmt.Println("------")

	fmt.Println("Raw fixed point vertices projection (across all colors):")
	fps.Vertices().Each(func(st symbolic.State) error {
		fmt.Println(st)
		return nil
	})
	fmt.Println("------")

	comb := &inference.Combinator{Fixed: fps, Verbose: true, Out: os.Stdout}
	sigs := comb.Signatures()

	fmt.Println("Unique fixed point combinations:")
	for _, sig := range sigs {
		fmt.Println(sig)
	}
}

// Command relax infers which colors of a partially specified boolean
// network are consistent with an imprecise fixed-point specification.
// When the raw specification is contradictory, it searches for the
// smallest number of observed values whose removal restores consistency,
// and reports every minimal removal together with its satisfying colors.
//
// The search enumerates C(n, k) candidate removals at relaxation level
// k, so it is only viable while the minimal level stays small.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/boolnet/psbn/dataset"
	"github.com/boolnet/psbn/inference"
	"github.com/boolnet/psbn/network"
	"github.com/boolnet/psbn/symbolic"
)

func main() {
	var printColors bool
	flag.BoolVar(&printColors, "print-colors", false, "enumerate every satisfying color of each solution (can be intractable)")
	flag.Parse()
	if len(flag.Args()) != 2 {
		fmt.Fprintf(os.Stderr, "Syntax : %s [options] <network-file> <specification-csv>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	net, err := network.Load(flag.Args()[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	ds, err := dataset.Load(flag.Args()[1])
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

	fmt.Println("Specified fixed-point observations:")
	fmt.Print(ds)
	fmt.Println("------")

	fps := g.FixedPoints()
	fmt.Printf("Total colored fixed points: %s\n", fps.Cardinality())
	fmt.Printf("Total fixed point states: %s\n", fps.Vertices().Cardinality())
	fmt.Printf("Total fixed point colors: %s\n", fps.Colors().Cardinality())
	fmt.Println("------")

	s := &inference.Searcher{
		Graph:       g,
		Fixed:       fps,
		Data:        ds,
		Verbose:     true,
		PrintColors: printColors,
		Out:         os.Stdout,
	}
	sols, _, err := s.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if len(sols) == 0 {
		fmt.Println("No matching specification found")
	}
}

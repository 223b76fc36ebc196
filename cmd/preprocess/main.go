// Command preprocess prepares inference inputs from raw tables: it
// builds the regulatory network induced by the measured genes, extracts
// its largest strongly connected component, and filters the measurement
// tables down to that component.
//
// It writes five artifacts to the output directory: the full network
// (network_full.bn), the restricted network (network_scc.bn), the
// component's gene list (genes_scc.txt) and the two filtered tables
// (observations_scc.tsv, confidence_scc.tsv).
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/boolnet/psbn/prep"
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 5 {
		fmt.Fprintf(os.Stderr, "Syntax : %s <edges-tsv> <observations-tsv> <confidence-tsv> <genes-txt> <out-dir>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	edgesPath, obsPath, confPath, genesPath, outDir := flag.Args()[0], flag.Args()[1], flag.Args()[2], flag.Args()[3], flag.Args()[4]

	genes, err := prep.LoadGeneList(genesPath)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Loaded %d allowed genes from %s\n", len(genes), genesPath)

	net, err := prep.LoadEdgeTable(edgesPath, genes)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Built network with %d variables and %d regulations\n", net.NbVars(), len(net.Regulations()))

	scc := prep.LargestSCC(net)
	fmt.Printf("Largest strongly connected component has %d genes\n", len(scc))
	restricted, err := net.Restrict(scc)
	if err != nil {
		fatal(err)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		fatal(fmt.Errorf("could not create %q: %v", outDir, err))
	}
	if err := prep.WriteNetwork(net, filepath.Join(outDir, "network_full.bn")); err != nil {
		fatal(err)
	}
	if err := prep.WriteNetwork(restricted, filepath.Join(outDir, "network_scc.bn")); err != nil {
		fatal(err)
	}
	if err := prep.WriteGeneList(scc, filepath.Join(outDir, "genes_scc.txt")); err != nil {
		fatal(err)
	}
	keep := make(map[string]bool, len(scc))
	for _, g := range scc {
		keep[g] = true
	}
	kept, err := prep.FilterTable(obsPath, filepath.Join(outDir, "observations_scc.tsv"), keep)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Kept %d observation rows\n", kept)
	kept, err = prep.FilterTable(confPath, filepath.Join(outDir, "confidence_scc.tsv"), keep)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Kept %d confidence rows\n", kept)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "%v\n", err)
	os.Exit(1)
}

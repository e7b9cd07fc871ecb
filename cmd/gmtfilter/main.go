// Gmtfilter restricts a GMT gene set database to a size window, the usual
// preprocessing step before enrichment testing so that trivially small and
// uselessly broad sets do not dilute the multiple-testing correction.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/sigscreen/sigscreen/buildinfo"
	"github.com/sigscreen/sigscreen/geneset"
)

func main() {
	buildinfo.Print()

	var (
		inFile  string
		outFile string
		minSize int
		maxSize int
	)

	flag.StringVar(&inFile, "in", "", "Input gene set database in GMT format.")
	flag.StringVar(&outFile, "out", "", "Output GMT path. Defaults to stdout.")
	flag.IntVar(&minSize, "min", 15, "Minimum gene set size to retain.")
	flag.IntVar(&maxSize, "max", 500, "Maximum gene set size to retain.")
	flag.Parse()

	if inFile == "" {
		flag.PrintDefaults()
		return
	}

	col, err := geneset.ReadGMT(inFile)
	if err != nil {
		log.Fatalln(err)
	}

	filtered := col.FilterSize(minSize, maxSize)
	log.Printf("Retained %d of %d gene sets within [%d, %d]", len(filtered.Names()), len(col.Names()), minSize, maxSize)

	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			log.Fatalln(err)
		}
		defer f.Close()
		out = f
	}

	if err := geneset.WriteGMT(out, filtered); err != nil {
		log.Fatalln(err)
	}
}

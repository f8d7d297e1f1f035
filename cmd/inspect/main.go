// Command inspect prints a per-file shape report for the input directory:
// size, row and column counts, and missing-cell totals for every expected
// marketplace extract.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"marketpipe/internal/config"
	"marketpipe/internal/inspect"
)

func main() {
	inputDir := flag.String("input", config.DefaultInputDir, "directory containing the marketplace extracts")
	flag.Parse()

	reports, err := inspect.Scan(context.Background(), *inputDir)
	if err != nil {
		log.Fatalf("%v", err)
	}

	absent := 0
	for _, r := range reports {
		fmt.Println(r)
		if r.Absent {
			absent++
		}
	}
	if absent > 0 {
		fmt.Fprintf(os.Stderr, "%d expected file(s) absent from %s\n", absent, *inputDir)
		os.Exit(1)
	}
}

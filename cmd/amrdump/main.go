// Package main provides a command-line utility to inspect AMR grid files.
// It walks the "Level N/Fab N" hierarchy and prints each quantity dataset's
// shape and element type.
package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"

	"github.com/scigolib/amrgrid"
)

func main() {
	maxLevels := flag.Int("max-levels", 0, "Stop after this many levels (0 = all)")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Println("Usage: amrdump [flags] <grid.h5>")
		fmt.Println("Flags:")
		flag.PrintDefaults()
		return
	}

	store, err := amrgrid.OpenStore(args[0])
	if err != nil {
		log.Fatalf("Failed to open grid file: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Failed to close grid file: %v", err)
		}
	}()

	root := store.File().Root()

	for level := 1; ; level++ {
		if *maxLevels > 0 && level > *maxLevels {
			break
		}
		levelName := "Level " + strconv.Itoa(level)
		lg, err := root.OpenGroup(levelName)
		if err != nil {
			if level == 1 {
				log.Fatalf("No %q group: not an AMR grid file?", levelName)
			}
			break
		}
		fmt.Printf("%s\n", levelName)

		for fab := 1; ; fab++ {
			fabName := "Fab " + strconv.Itoa(fab)
			fg, err := lg.OpenGroup(fabName)
			if err != nil {
				break
			}

			members, err := fg.Members()
			if err != nil {
				log.Fatalf("Failed to list %s/%s: %v", levelName, fabName, err)
			}

			fmt.Printf("  %s\n", fabName)
			for _, name := range members {
				ds, err := fg.OpenDataset(name)
				if err != nil {
					// Non-dataset member; nothing to report.
					continue
				}
				goType, err := ds.GoType()
				typeName := "?"
				if err == nil {
					typeName = goType.String()
				}
				fmt.Printf("    %-20s shape=%v  type=%s\n", name, ds.Shape(), typeName)
			}
		}
	}
}

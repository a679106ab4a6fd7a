package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/jyutdict/jyutdict/dict"
)

func newCmd_Inspect() *cli.Command {
	var indexPath string
	return &cli.Command{
		Name:        "inspect",
		Usage:       "Print statistics about a compiled dictionary index.",
		ArgsUsage:   "--index=<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "index",
				Usage:       "Path to the compiled index",
				EnvVars:     []string{"JYUTDICT_INDEX"},
				Required:    true,
				Destination: &indexPath,
			},
		},
		Action: func(c *cli.Context) error {
			d, err := dict.Open(indexPath)
			if err != nil {
				klog.Exit(err.Error())
			}

			numBySource := make(map[dict.Source]int)
			minCost, maxCost := ^uint32(0), uint32(0)
			for i := 0; i < d.NumEntries(); i++ {
				numBySource[d.EntrySource(i)]++
				cost := d.EntryCost(i)
				if cost < minCost {
					minCost = cost
				}
				if cost > maxCost {
					maxCost = cost
				}
			}
			if d.NumEntries() == 0 {
				minCost = 0
			}

			fmt.Printf("Index: %s\n", indexPath)
			fmt.Printf("Format version: %d\n", dict.Version)
			fmt.Printf("Entries: %s\n", humanize.Comma(int64(d.NumEntries())))
			for _, src := range []dict.Source{dict.SourceCEDict, dict.SourceCCanto} {
				fmt.Printf("  from %s: %s\n", src, humanize.Comma(int64(numBySource[src])))
			}
			fmt.Printf("Characters: %s\n", humanize.Comma(int64(d.NumCharacters())))
			fmt.Printf("Syllable bases: %s\n", humanize.Comma(int64(d.NumSyllableBases())))
			fmt.Printf("Definitions: %s\n", humanize.Comma(int64(d.NumDefinitions())))
			fmt.Printf("English blob: %s\n", humanize.Bytes(uint64(d.EnglishDataLen())))
			fmt.Printf("Static cost range: %d .. %d\n", minCost, maxCost)
			return nil
		},
	}
}

package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/jyutdict/jyutdict/dict"
)

var classicSpewConfig = spew.ConfigState{
	Indent:                  " ",
	DisableMethods:          true,
	DisablePointerMethods:   true,
	DisablePointerAddresses: true,
}

// displayEntry is the debug form printed for each match in the REPL.
type displayEntry struct {
	Characters         string
	Jyutping           string
	EnglishDefinitions []string
	Cost               uint32
	EntrySource        string
}

func newCmd_Search() *cli.Command {
	var indexPath string
	var maxResults int
	return &cli.Command{
		Name:        "search",
		Usage:       "Interactively query a compiled dictionary index.",
		Description: "REPL reading queries from stdin and printing the ranked matches with cost breakdowns.",
		ArgsUsage:   "--index=<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "index",
				Usage:       "Path to the compiled index",
				EnvVars:     []string{"JYUTDICT_INDEX"},
				Required:    true,
				Destination: &indexPath,
			},
			&cli.IntFlag{
				Name:        "max-results",
				Usage:       "Maximum number of matches to print per query",
				Value:       dict.DefaultMaxResults,
				Destination: &maxResults,
			},
		},
		Action: func(c *cli.Context) error {
			d, err := dict.Open(indexPath)
			if err != nil {
				klog.Exit(err.Error())
			}
			klog.Infof("Loaded index %s: %d entries", indexPath, d.NumEntries())

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("Query: ")
				if !scanner.Scan() {
					break
				}
				query := scanner.Text()

				sw := dict.NewNativeStopwatch()
				result := d.Search(query, maxResults, sw)

				klog.V(1).Infof("timings: %+v, candidates: %d", result.Timings, result.InternalCandidates)

				if len(result.Matches) == 0 {
					fmt.Println("(no matches)")
					continue
				}

				for _, m := range result.Matches {
					fmt.Printf("(%s, cost %d %+v, spans %v)\n%s",
						m.Type,
						m.CostInfo.Total(),
						m.CostInfo,
						m.MatchedSpans,
						classicSpewConfig.Sdump(displayEntry{
							Characters:         d.EntryCharacters(m.EntryID),
							Jyutping:           d.EntryJyutping(m.EntryID),
							EnglishDefinitions: d.EntryEnglishDefinitions(m.EntryID),
							Cost:               d.EntryCost(m.EntryID),
							EntrySource:        d.EntrySource(m.EntryID).String(),
						}),
					)
				}
			}
			return scanner.Err()
		},
	}
}

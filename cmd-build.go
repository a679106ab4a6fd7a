package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/jyutdict/jyutdict/builder"
	"github.com/jyutdict/jyutdict/dict"
)

func newCmd_Build() *cli.Command {
	var verify bool
	return &cli.Command{
		Name:        "build",
		Usage:       "Build a compiled dictionary index from the text sources.",
		Description: "Parse CEDICT, CC-Canto, the Cantonese readings supplement and the character frequency table, and write the compiled binary index.",
		ArgsUsage:   "--cedict=<path> --ccanto=<path> --readings=<path> --frequencies=<path> --out=<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "cedict",
				Usage:    "Path to the CEDICT source (plain text or gzip)",
				EnvVars:  []string{"JYUTDICT_CEDICT"},
				Required: true,
			},
			&cli.StringFlag{
				Name:     "ccanto",
				Usage:    "Path to the CC-Canto source (plain text or gzip)",
				EnvVars:  []string{"JYUTDICT_CCANTO"},
				Required: true,
			},
			&cli.StringFlag{
				Name:     "readings",
				Usage:    "Path to the CC-CEDICT Cantonese readings supplement",
				EnvVars:  []string{"JYUTDICT_READINGS"},
				Required: true,
			},
			&cli.StringFlag{
				Name:     "frequencies",
				Usage:    "Path to the character frequency table",
				EnvVars:  []string{"JYUTDICT_FREQUENCIES"},
				Required: true,
			},
			&cli.StringFlag{
				Name:     "out",
				Usage:    "Path to write the compiled index to",
				EnvVars:  []string{"JYUTDICT_INDEX"},
				Required: true,
			},
			&cli.BoolFlag{
				Name:        "verify",
				Usage:       "read the index back after writing it",
				Destination: &verify,
			},
		},
		Action: func(c *cli.Context) error {
			startedAt := time.Now()
			defer func() {
				klog.Infof("Finished in %s", time.Since(startedAt))
			}()

			if ok, err := isDirectory(c.String("out")); err == nil && ok {
				return fmt.Errorf("out path %s is a directory", c.String("out"))
			}

			var frequencies *builder.Frequencies
			var readings *builder.Readings
			{
				group, _ := errgroup.WithContext(c.Context)
				group.Go(func() error {
					var err error
					frequencies, err = parseSource(c.String("frequencies"), "frequencies",
						func(r io.Reader) (*builder.Frequencies, error) {
							return builder.ParseFrequencies(r)
						})
					return err
				})
				group.Go(func() error {
					var err error
					readings, err = parseSource(c.String("readings"), "readings",
						func(r io.Reader) (*builder.Readings, error) {
							return builder.ParseReadings(r)
						})
					return err
				})
				if err := group.Wait(); err != nil {
					return err
				}
			}

			bld := builder.New(frequencies, readings)
			{
				group, _ := errgroup.WithContext(c.Context)
				group.Go(func() error {
					_, err := parseSource(c.String("cedict"), "CEDICT",
						func(r io.Reader) (struct{}, error) {
							return struct{}{}, bld.ParseCEDict(r)
						})
					return err
				})
				group.Go(func() error {
					_, err := parseSource(c.String("ccanto"), "CC-Canto",
						func(r io.Reader) (struct{}, error) {
							return struct{}{}, bld.ParseCCanto(r)
						})
					return err
				})
				if err := group.Wait(); err != nil {
					return err
				}
			}

			bld.Annotate()

			klog.Info("Compiling dictionary...")
			compiled := bld.Compile()
			klog.Infof("Compiled %s entries, %s characters, %s syllable bases",
				humanize.Comma(int64(compiled.NumEntries())),
				humanize.Comma(int64(compiled.NumCharacters())),
				humanize.Comma(int64(compiled.NumSyllableBases())),
			)

			outPath := c.String("out")
			klog.Infof("Writing index to %s", outPath)
			if err := compiled.WriteFile(outPath); err != nil {
				return fmt.Errorf("failed to write index: %w", err)
			}
			klog.Infof("Success: index created at %s", outPath)

			if verify {
				klog.Infof("Verifying index at %s", outPath)
				reloaded, err := dict.Open(outPath)
				if err != nil {
					return cli.Exit(fmt.Errorf("index verification failed: %w", err), 1)
				}
				if reloaded.NumEntries() != compiled.NumEntries() {
					return cli.Exit(fmt.Errorf("index verification failed: %d entries, want %d",
						reloaded.NumEntries(), compiled.NumEntries()), 1)
				}
				klog.Info("Index verified")
			}
			return nil
		},
	}
}

// parseSource opens a source file (sniffing gzip), attaches a byte
// progress bar, and hands it to parse.
func parseSource[T any](path, label string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T

	src, err := builder.OpenSource(path)
	if err != nil {
		return zero, err
	}
	defer src.Close()

	bar := progressbar.DefaultBytes(-1, "parsing "+label)
	defer bar.Close()

	out, err := parse(io.TeeReader(src, bar))
	if err != nil {
		return zero, err
	}
	return out, nil
}

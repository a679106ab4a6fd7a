package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"github.com/valyala/fasthttp"
	"k8s.io/klog/v2"

	"github.com/jyutdict/jyutdict/dict"
	"github.com/jyutdict/jyutdict/render"
)

func newCmd_Serve() *cli.Command {
	var indexPath string
	var listenAddr string
	return &cli.Command{
		Name:        "serve",
		Usage:       "Serve search over HTTP.",
		Description: "Expose GET /search?q=<query>&max=<n> returning rendered matches as JSON.",
		ArgsUsage:   "--index=<path> --listen=<addr>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "index",
				Usage:       "Path to the compiled index",
				EnvVars:     []string{"JYUTDICT_INDEX"},
				Required:    true,
				Destination: &indexPath,
			},
			&cli.StringFlag{
				Name:        "listen",
				Usage:       "Address to listen on",
				EnvVars:     []string{"JYUTDICT_LISTEN"},
				Value:       ":7599",
				Destination: &listenAddr,
			},
		},
		Action: func(c *cli.Context) error {
			d, err := dict.Open(indexPath)
			if err != nil {
				klog.Exit(err.Error())
			}
			klog.Infof("Loaded index %s: %d entries", indexPath, d.NumEntries())

			server := &fasthttp.Server{
				Handler: newSearchHandler(d),
				Name:    "jyutdict",
			}

			errCh := make(chan error, 1)
			go func() {
				klog.Infof("Listening on %s", listenAddr)
				errCh <- server.ListenAndServe(listenAddr)
			}()

			select {
			case err := <-errCh:
				return err
			case <-c.Context.Done():
				klog.Info("Shutting down")
				return server.Shutdown()
			}
		},
	}
}

func newSearchHandler(d *dict.Dictionary) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if string(ctx.Path()) != "/search" {
			ctx.Error("not found", fasthttp.StatusNotFound)
			return
		}

		query := string(ctx.QueryArgs().Peek("q"))
		maxResults, err := ctx.QueryArgs().GetUint("max")
		if err != nil {
			maxResults = dict.DefaultMaxResults
		}

		sw := dict.NewNativeStopwatch()
		result := d.Search(query, maxResults, sw)

		rendered := render.RenderSearchResult(&result, d)
		data, err := rendered.Marshal()
		if err != nil {
			ctx.Error(fmt.Sprintf("failed to serialize result: %s", err), fasthttp.StatusInternalServerError)
			return
		}

		ctx.SetContentType("application/json; charset=utf-8")
		ctx.SetBody(data)
	}
}

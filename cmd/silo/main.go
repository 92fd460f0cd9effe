// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/silo"
	"github.com/poiesic/silo/config"
	"github.com/poiesic/silo/core"
	"github.com/poiesic/silo/query"
)

func main() {
	app := &cli.App{
		Name:  "silo",
		Usage: "Save links from chat, enrich them with AI, find them in plain words",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: ./silo.yaml)",
			},
			&cli.Int64Flag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "User identity owning the links",
				Value:   1,
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Fetch, enrich and save one or more URLs",
				ArgsUsage: "<url> [url...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "note",
						Usage: "your own words about the links, kept as their description",
					},
				},
				Action: ingestCommand,
			},
			{
				Name:      "search",
				Usage:     "Find saved links with a natural-language query",
				ArgsUsage: "<query>",
				Action:    searchCommand,
			},
			{
				Name:   "recent",
				Usage:  "Show the most recently saved links",
				Action: recentCommand,
			},
			{
				Name:   "stats",
				Usage:  "Summarize the collection",
				Action: statsCommand,
			},
			{
				Name:   "export",
				Usage:  "Write a CSV of all links and enrichment to stdout",
				Action: exportCommand,
			},
			{
				Name:      "archive",
				Usage:     "Snapshot a URL now",
				ArgsUsage: "<url>",
				Action:    archiveCommand,
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate embeddings with the configured model",
				Action: reembedCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func openSilo(c *cli.Context) (*silo.Silo, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	return silo.Open(cfg)
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("ingest requires at least one URL")
	}

	s, err := openSilo(c)
	if err != nil {
		return err
	}
	defer s.Close()

	pipeline, err := s.NewPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	reports := pipeline.IngestAll(c.Context, c.Int64("user"), c.Args().Slice(), c.String("note"))
	failures := 0
	for _, report := range reports {
		if report.Err != nil {
			failures++
			fmt.Printf("FAILED  %s: %v\n", report.RawURL, report.Err)
			continue
		}
		status := "saved"
		if report.Outcome.Degraded() {
			status = "saved (partial enrichment)"
		}
		fmt.Printf("%s  %s\n", status, report.Outcome.Link.URL)
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d URLs failed", failures, len(reports))
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	text := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("search requires a query")
	}

	s, err := openSilo(c)
	if err != nil {
		return err
	}
	defer s.Close()

	ranker, err := s.NewRanker()
	if err != nil {
		return err
	}

	links, err := ranker.Query(c.Context, c.Int64("user"), query.Parse(text))
	if err != nil {
		return err
	}
	if len(links) == 0 {
		fmt.Println("nothing found")
		return nil
	}
	for _, link := range links {
		printLink(link)
	}
	return nil
}

func recentCommand(c *cli.Context) error {
	s, err := openSilo(c)
	if err != nil {
		return err
	}
	defer s.Close()

	ranker, err := s.NewRanker()
	if err != nil {
		return err
	}
	links, err := ranker.Query(c.Context, c.Int64("user"), nil)
	if err != nil {
		return err
	}
	for _, link := range links {
		printLink(link)
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	s, err := openSilo(c)
	if err != nil {
		return err
	}
	defer s.Close()

	stats, err := s.Repository().Stats(c.Context, c.Int64("user"))
	if err != nil {
		return err
	}

	fmt.Printf("links:   %d\n", stats.TotalLinks)
	fmt.Printf("domains: %d\n", stats.TotalDomains)
	for contentType, count := range stats.ByContentType {
		fmt.Printf("  %-10s %d\n", contentType, count)
	}
	for _, cc := range stats.TopCategories {
		fmt.Printf("  #%s (%d)\n", cc.Category, cc.Count)
	}
	return nil
}

func exportCommand(c *cli.Context) error {
	s, err := openSilo(c)
	if err != nil {
		return err
	}
	defer s.Close()

	service, err := s.NewService()
	if err != nil {
		return err
	}
	data, count, err := service.Export(c.Context, c.Int64("user"))
	if err != nil {
		return err
	}
	if count == 0 {
		fmt.Fprintln(os.Stderr, "nothing to export")
		return nil
	}
	_, err = os.Stdout.Write(data)
	return err
}

func archiveCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("archive requires exactly one URL")
	}

	s, err := openSilo(c)
	if err != nil {
		return err
	}
	defer s.Close()

	service, err := s.NewService()
	if err != nil {
		return err
	}
	snap, err := service.Archive(c.Context, c.Int64("user"), c.Args().First())
	if err != nil {
		return err
	}
	fmt.Println(snap.Ref)
	return nil
}

func reembedCommand(c *cli.Context) error {
	s, err := openSilo(c)
	if err != nil {
		return err
	}
	defer s.Close()

	reembedder, err := s.NewReembedder(os.Stderr)
	if err != nil {
		return err
	}
	count, err := reembedder.Run(c.Context, c.Int64("user"))
	if err != nil {
		return err
	}
	fmt.Printf("reembedded %d links\n", count)
	return nil
}

func printLink(link *core.Link) {
	title := link.Title
	if title == "" {
		title = link.URL
	}
	fmt.Printf("%s\n  %s\n", title, link.URL)
	if link.Summary != "" {
		fmt.Printf("  %s\n", link.Summary)
	}
}

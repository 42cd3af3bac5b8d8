package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mrmiscellaneous91/dsa-automation/internal/common"
	"github.com/mrmiscellaneous91/dsa-automation/internal/dedup"
	"github.com/mrmiscellaneous91/dsa-automation/internal/entity"
	"github.com/mrmiscellaneous91/dsa-automation/internal/export"
	"github.com/mrmiscellaneous91/dsa-automation/internal/extract"
	"github.com/mrmiscellaneous91/dsa-automation/internal/pipeline"
)

// parse-batch reads a directory of email JSON files (one InboundEmail per
// file), runs the extraction pipeline over them and writes an XLSX workbook.
// Dedup is in-process, persistence is skipped. With no API keys configured it
// runs the deterministic patterns only.

func main() {
	var (
		dir     = flag.String("dir", "", "directory of email JSON files")
		out     = flag.String("out", "provisioning-requests.xlsx", "output XLSX path")
		workers = flag.Int("workers", 4, "parallel parse workers")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "usage: parse-batch -dir <emails-dir> [-out requests.xlsx] [-workers n]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	rules, err := extract.LoadRules(cfg.Rules.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load rules: %v\n", err)
		os.Exit(1)
	}

	files, err := listEmailFiles(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list emails: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "no .json files under %s\n", *dir)
		os.Exit(1)
	}

	parser := pipeline.NewParser(logger, rules, nil)
	svc := pipeline.NewService(parser, dedup.NewMemoryFilter(), nil, logger)

	var (
		mu       sync.Mutex
		requests []*entity.ProvisioningRequest
		dupes    int
		rejected int
	)

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*workers)
	for _, path := range files {
		path := path
		g.Go(func() error {
			in, err := readEmail(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			req, kept, err := svc.Process(ctx, in)
			if err != nil {
				// Structurally bad input should not abort the whole batch.
				logger.Warn("email rejected", "path", path, "error", err)
				mu.Lock()
				rejected++
				mu.Unlock()
				return nil
			}
			mu.Lock()
			if kept {
				requests = append(requests, req)
			} else {
				dupes++
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "batch failed: %v\n", err)
		os.Exit(1)
	}

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].StudentFullName < requests[j].StudentFullName
	})

	buf, err := export.WriteXLSX(requests)
	if err != nil {
		fmt.Fprintf(os.Stderr, "write workbook: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, buf, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *out, err)
		os.Exit(1)
	}

	review := 0
	for _, r := range requests {
		if r.NeedsReview {
			review++
		}
	}
	fmt.Printf("parsed %d emails: %d requests (%d need review), %d duplicates, %d rejected -> %s\n",
		len(files), len(requests), review, dupes, rejected, *out)
}

func listEmailFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func readEmail(path string) (entity.InboundEmail, error) {
	var in entity.InboundEmail
	data, err := os.ReadFile(path)
	if err != nil {
		return in, err
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return in, err
	}
	return in, nil
}

// Command process scans badge screenshots out of the intake directory and
// writes them into the gym sheet. It is the interactive operator tool: all
// fallback prompts come to the terminal.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"goldgym/pkg/badge"
	"goldgym/pkg/config"
	"goldgym/pkg/gym"
	"goldgym/pkg/pipeline"
	"goldgym/pkg/prompt"
	"goldgym/pkg/sheet"
)

var verbose bool

func main() {
	update := flag.Bool("update", false, "re-scan badges for already catalogued gyms")
	watch := flag.Bool("watch", false, "keep watching the intake directory for new files")
	flag.BoolVar(&verbose, "verbose", false, "verbose per-image logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	store, err := sheet.OpenGormStore(cfg.DSN)
	if err != nil {
		log.Fatalf("sheet store: %v", err)
	}

	auditFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Fatalf("open audit log: %v", err)
	}
	defer auditFile.Close()

	if err := os.MkdirAll(cfg.Badges, 0o755); err != nil {
		log.Fatalf("badge storage dir: %v", err)
	}

	proc := &pipeline.Processor{
		Store:     store,
		Extract:   badge.NewExtractor(badge.Tesseract{}),
		Geocode:   gym.NewNominatim(cfg.Email, cfg.GeocodeTimeout),
		Prompt:    prompt.NewTerminal(),
		Threshold: cfg.SimilarityMin,
		BadgeDir:  cfg.Badges,
		Updates:   *update,
		Audit:     log.New(auditFile, "", log.LstdFlags),
	}

	ctx := context.Background()

	queue := listBadgeFiles(cfg.Downloads)
	if len(queue) == 0 && !*watch {
		log.Print("INFO - No images found.")
		return
	}
	if len(queue) > 0 {
		logV("INFO - Found the following images:\n%s", strings.Join(queue, "\n"))
		log.Print("INFO - Begin scanning process.")
		if err := proc.Run(ctx, queue); err != nil {
			log.Fatalf("batch failed: %v", err)
		}
	}

	if *watch {
		if err := watchDirectory(ctx, cfg.Downloads, proc); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
	}
}

func logV(format string, args ...any) {
	if verbose {
		log.Printf(format, args...)
	}
}

// listBadgeFiles returns the intake queue in lexicographic order so batches
// are deterministic regardless of directory enumeration.
func listBadgeFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !isBadgeFile(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out
}

func isBadgeFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".png")
}

// watchDirectory feeds newly created badge files through the pipeline one at
// a time once they stop changing. Processing stays serial: the pipeline
// blocks on operator prompts and id assignment must not race.
func watchDirectory(ctx context.Context, dir string, proc *pipeline.Processor) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	log.Printf("Watching %s (debounced) ...", dir)

	pending := map[string]time.Time{}
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create == fsnotify.Create && isBadgeFile(ev.Name) {
				pending[ev.Name] = time.Now()
			}
		case <-ticker.C:
			now := time.Now()
			for path, t := range pending {
				if now.Sub(t) < 300*time.Millisecond { // still settling
					continue
				}
				delete(pending, path)
				logV("INFO - New badge %s", path)
				if err := proc.Run(ctx, []string{path}); err != nil {
					log.Printf("WARN processing %s: %v", path, err)
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		}
	}
}

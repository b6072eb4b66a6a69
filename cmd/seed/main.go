package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"newsbug/db"
	"newsbug/internal/config"
	"newsbug/internal/model"
	"newsbug/internal/repository"
	"newsbug/pkg/cron"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/schollz/progressbar/v3"
	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Categories []seedCategory `yaml:"categories"`
}

type seedCategory struct {
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Keywords    []string     `yaml:"keywords"`
	Sources     []seedSource `yaml:"sources"`
}

type seedSource struct {
	Title        string `yaml:"title"`
	URL          string `yaml:"url"`
	CronSchedule string `yaml:"cronSchedule"`
	IsActive     *bool  `yaml:"isActive"`
}

func main() {
	file := flag.String("file", "seed.yaml", "YAML file with categories and their sources")
	flag.Parse()

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("error reading seed file: %v", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		log.Fatalf("error parsing seed file: %v", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	err = db.Connect(cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatalf("error creating indexes: %v", err)
	}

	categoryRepo := repository.NewCategoryRepository(db.DB)
	sourceRepo := repository.NewSourceRepository(db.DB)

	existing, err := categoryRepo.GetAll(ctx)
	if err != nil {
		log.Fatalf("error fetching categories: %v", err)
	}

	known := make(map[string]bool, len(existing))
	for _, c := range existing {
		known[strings.ToLower(c.Title)] = true
	}

	color.Blue("Seeding %d categories from %s\n", len(seed.Categories), *file)

	var created, sources, skipped int
	var rows [][3]string
	for _, sc := range seed.Categories {
		if known[strings.ToLower(sc.Title)] {
			color.Yellow("• category %q already exists, skipping\n", sc.Title)
			skipped++
			continue
		}

		category := model.Category{Title: sc.Title, Keywords: sc.Keywords, Description: sc.Description}
		if err := categoryRepo.Create(ctx, &category); err != nil {
			log.Fatalf("error creating category %q: %v", sc.Title, err)
		}
		created++

		bar := getProgressBar(len(sc.Sources), sc.Title)
		for _, ss := range sc.Sources {
			bar.Add(1)

			if !cron.Validate(ss.CronSchedule) {
				color.Red("\n✗ %s: invalid cron expression %q\n", ss.Title, ss.CronSchedule)
				continue
			}

			active := true
			if ss.IsActive != nil {
				active = *ss.IsActive
			}

			source := model.Source{
				Title:        ss.Title,
				URL:          ss.URL,
				CategoryID:   category.ID.Hex(),
				CronSchedule: ss.CronSchedule,
				IsActive:     active,
			}
			if err := sourceRepo.Create(ctx, &source); err != nil {
				log.Fatalf("error creating source %q: %v", ss.Title, err)
			}
			sources++
			rows = append(rows, [3]string{category.Title, source.Title, source.CronSchedule})
		}
		bar.Finish()
		fmt.Println()
	}

	printTable(rows)
	color.Green("✓ Created %d categories and %d sources (%d skipped)\n", created, sources, skipped)
}

// printTable aligns columns by display width so CJK titles line up.
func printTable(rows [][3]string) {
	if len(rows) == 0 {
		return
	}

	header := [3]string{"CATEGORY", "SOURCE", "SCHEDULE"}
	widths := [3]int{}
	for _, row := range append([][3]string{header}, rows...) {
		for i, cell := range row {
			widths[i] = min(max(widths[i], runewidth.StringWidth(cell)), 40)
		}
	}

	line := func(row [3]string) string {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = runewidth.FillRight(runewidth.Truncate(cell, widths[i], "…"), widths[i])
		}
		return strings.Join(cells, "  ")
	}

	color.Cyan("%s", line(header))
	for _, row := range rows {
		fmt.Println(line(row))
	}
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("sources"),
		progressbar.OptionShowCount(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetRenderBlankState(true),
	)
}

package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"egg-hunt/internal/catalog"
	"egg-hunt/internal/config"
	"egg-hunt/internal/render"
	"egg-hunt/internal/scene"
	"egg-hunt/internal/theme"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "validate":
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "Usage: scenetools validate <scene.json>...")
			os.Exit(1)
		}
		os.Exit(runValidate(args))
	case "viz":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: scenetools viz <scene.json>")
			os.Exit(1)
		}
		runViz(args[0])
	case "stats":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: scenetools stats <scene.json>")
			os.Exit(1)
		}
		runStats(args[0])
	case "catalog":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: scenetools catalog <catalog.yaml>")
			os.Exit(1)
		}
		os.Exit(runCatalog(args[0]))
	case "config":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: scenetools config <config.toml>")
			os.Exit(1)
		}
		os.Exit(runConfig(args[0]))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: scenetools <command> <path>

Commands:
  validate <scene.json>...  Check scenes written by scenegen
  viz      <scene.json>     Render the page as a themed minimap
  stats    <scene.json>     Show reward spread and spacing
  catalog  <catalog.yaml>   Validate a discount catalog
  config   <config.toml>    Validate a daemon config file`)
}

func loadScene(path string) (scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scene.Scene{}, err
	}
	var s scene.Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return scene.Scene{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

// --- validate ---

func runValidate(paths []string) int {
	failed := 0
	for _, path := range paths {
		fmt.Printf("Validating %s...\n", path)
		s, err := loadScene(path)
		if err != nil {
			fmt.Printf("  ERROR: %v\n", err)
			failed++
			continue
		}
		errs := scene.Check(s)
		for _, err := range errs {
			fmt.Printf("  ERROR: %v\n", err)
		}
		if len(errs) > 0 {
			failed++
			continue
		}
		fmt.Printf("  OK (seed %d, %d elements, %d rewards)\n", s.Seed, len(s.Elements), len(s.Rewards()))
	}

	if failed > 0 {
		fmt.Printf("\n%d scene(s) invalid\n", failed)
		return 1
	}
	fmt.Printf("\nAll %d scenes valid\n", len(paths))
	return 0
}

// --- viz ---

const (
	vizCols = 64
	vizRows = 48
)

// runViz squeezes the whole page into a vizCols×vizRows grid. Each row is
// tinted with the theme at its offset; eggs win over decorations.
func runViz(path string) {
	s, err := loadScene(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	grid := make([][]rune, vizRows)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", vizCols))
	}
	cellW, cellH := s.Width/vizCols, s.Height/vizRows
	for _, el := range s.Elements {
		x := min(vizCols-1, int(el.Placement.Left/cellW))
		y := min(vizRows-1, int(el.Placement.Top/cellH))
		if x < 0 || y < 0 {
			continue
		}
		switch {
		case el.Discount != nil:
			grid[y][x] = '$'
		case el.Spoiled != nil:
			if grid[y][x] != '$' {
				grid[y][x] = 'x'
			}
		case grid[y][x] == ' ':
			grid[y][x] = '.'
		}
	}

	// Theme sections are measured in screen heights; assume an 800px window.
	eng := theme.DefaultSettings().Engine(800)
	fmt.Printf("seed %d (%.0fx%.0f)\n", s.Seed, s.Width, s.Height)
	for y, row := range grid {
		pair := eng.At(float64(y) * cellH)
		var sb strings.Builder
		for _, ch := range row {
			c := render.Cell{Ch: ch, Fg: pair.Secondary, Bg: pair.Primary}
			if ch == '$' || ch == 'x' {
				c.Bold = true
				c.Fg = theme.RGB{R: 255, G: 255, B: 255}
			}
			render.WriteCellSGR(&sb, c)
		}
		sb.WriteString(render.Reset)
		fmt.Printf("%s %6.0f\n", sb.String(), float64(y)*cellH)
	}
	fmt.Println("\n$ discount   x spoiled   . decoration")
}

// --- stats ---

func runStats(path string) {
	s, err := loadScene(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	rewards := s.Rewards()
	fmt.Printf("seed %d: %d elements, %d rewards, %d relaxed\n\n", s.Seed, len(s.Elements), len(rewards), s.Relaxed)

	// Reward spread by vertical tenth of the page
	const bands = 10
	counts := make([]int, bands)
	for _, el := range rewards {
		b := min(bands-1, int(el.Placement.Top/s.Height*bands))
		counts[b]++
	}
	for i, c := range counts {
		bar := strings.Repeat("█", c)
		fmt.Printf("  %3d%%-%3d%% %3d %s\n", i*10, (i+1)*10, c, bar)
	}

	// Nearest-neighbour spacing between rewards
	if len(rewards) < 2 {
		return
	}
	nearest := make([]float64, len(rewards))
	for i, a := range rewards {
		nearest[i] = math.Inf(1)
		for j, b := range rewards {
			if i != j {
				nearest[i] = math.Min(nearest[i], a.Placement.Point().Distance(b.Placement.Point()))
			}
		}
	}
	sort.Float64s(nearest)
	sum := 0.0
	for _, d := range nearest {
		sum += d
	}
	fmt.Printf("\nNearest reward spacing: min %.0fpx, median %.0fpx, mean %.0fpx\n",
		nearest[0], nearest[len(nearest)/2], sum/float64(len(nearest)))
}

// --- catalog ---

func runCatalog(path string) int {
	cat, err := catalog.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		return 1
	}
	fmt.Printf("%s: %d discounts, guaranteed %s\n", path, len(cat.Discounts), cat.Guaranteed.Code)
	for _, d := range cat.Discounts {
		fmt.Printf("  %-12s %-9s %-7s %s\n", d.Code, d.Rarity, d.Size, d.DisplayValue)
	}
	return 0
}

// --- config ---

func runConfig(path string) int {
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		return 1
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		return 1
	}
	fmt.Printf("%s: ssh %s, http %q, catalog %s\n", path, cfg.Server.ListenAddr, cfg.Server.HTTPAddr, cfg.Server.CatalogPath)
	fmt.Printf("  layout: %d decorations, %d spoiled, x%.2f rewards, %.0fx%.0f px\n",
		cfg.Layout.DecorativeCount, cfg.Layout.SpoiledCount, cfg.Layout.RewardMultiplier,
		cfg.Layout.ViewportWidth, cfg.Layout.PageHeight)
	fmt.Printf("  theme:  %d pairs, buffer %.0f, section %.0f viewports\n",
		len(cfg.Theme.Palette), cfg.Theme.BufferViewports, cfg.Theme.SectionViewports)
	return 0
}

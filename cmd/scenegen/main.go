package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"sort"

	"egg-hunt/internal/catalog"
	"egg-hunt/internal/config"
	"egg-hunt/internal/scene"
)

func main() {
	configPath := flag.String("config", "", "TOML config with a [layout] section (default: built-in layout)")
	catalogPath := flag.String("catalog", "assets/catalog.yaml", "discount catalog")
	seed := flag.Uint64("seed", 0, "random seed (0 = random)")
	width := flag.Float64("width", 0, "canvas width in px (0 = layout default)")
	out := flag.String("out", "", "output file (default: stdout)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cat, fallback, err := catalog.LoadOrDefault(*catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if fallback {
		fmt.Fprintf(os.Stderr, "Catalog %s not found, using built-in discounts\n", *catalogPath)
	}

	if *seed == 0 {
		*seed = rand.Uint64()
	}
	layout := cfg.Layout
	if *width > 0 {
		layout.ViewportWidth = *width
	}

	fmt.Fprintf(os.Stderr, "Generating %.0fx%.0f scene (seed %d)...\n", layout.ViewportWidth, layout.PageHeight, *seed)
	s := scene.GenerateSeeded(layout, cat, *seed)

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		os.Exit(1)
	}

	if *out == "" {
		os.Stdout.Write(data)
		os.Stdout.WriteString("\n")
	} else {
		if err := os.WriteFile(*out, append(data, '\n'), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s (%d bytes)\n", *out, len(data))
	}

	printSummary(s)
}

// printSummary writes the visual mix and reward counts to stderr.
func printSummary(s scene.Scene) {
	counts := make(map[scene.Visual]int)
	decorative := 0
	for _, el := range s.Elements {
		if !el.IsReward() {
			counts[el.Visual]++
			decorative++
		}
	}

	fmt.Fprintf(os.Stderr, "\nDecorative distribution (%d):\n", decorative)
	for _, v := range scene.DecorativeVisuals {
		if c, ok := counts[v]; ok {
			fmt.Fprintf(os.Stderr, "  %-10s %5d (%5.1f%%)\n", v, c, float64(c)/float64(decorative)*100)
		}
	}

	rarity := make(map[string]int)
	spoiled := 0
	for _, el := range s.Rewards() {
		if el.Discount != nil {
			rarity[string(el.Discount.Rarity)]++
		} else {
			spoiled++
		}
	}
	tiers := make([]string, 0, len(rarity))
	for r := range rarity {
		tiers = append(tiers, r)
	}
	sort.Strings(tiers)

	fmt.Fprintf(os.Stderr, "\nRewards:\n")
	for _, r := range tiers {
		fmt.Fprintf(os.Stderr, "  %-10s %5d\n", r, rarity[r])
	}
	fmt.Fprintf(os.Stderr, "  %-10s %5d\n", "spoiled", spoiled)
	fmt.Fprintf(os.Stderr, "  %-10s %5d\n", "relaxed", s.Relaxed)
}

// Command filterinfo prints the coefficients and frequency responses of
// the streaming filter presets.
//
// Usage:
//
//	filterinfo [flags] [preset ...]
//
// Without arguments it prints every preset.
//
// Examples:
//
//	filterinfo lowpass
//	filterinfo --cutoff 0.05 lowpass highpass
//	filterinfo --cutoff 0.25 --radius 0.99 resonance
//	filterinfo --list
package main

import (
	"fmt"
	"math"
	"math/cmplx"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"

	"github.com/onewordstudios/audiodsp/dsp/filter/stream"
)

type cli struct {
	Cutoff      float64  `default:"0.1" help:"Normalized cutoff/center frequency in [0, 0.5]"`
	Radius      float64  `default:"0.95" help:"Pole radius for the resonance preset"`
	Pole        float64  `default:"0.95" help:"Pole position for the pole and dcblock presets"`
	Coefficient float64  `default:"0.5" help:"Coefficient for the allpass preset"`
	Taps        int      `default:"4" help:"Tap count for the average preset"`
	Points      int      `short:"n" default:"11" help:"Response points between DC and Nyquist"`
	List        bool     `help:"List available preset names"`
	Presets     []string `arg:"" optional:"" name:"preset" help:"Presets to print (default: all)"`
}

type presetEntry struct {
	name    string
	summary string
	build   func(c *cli) (stream.Filter, error)
}

var presets = []presetEntry{
	{"lowpass", "one-pole lowpass at --cutoff", func(c *cli) (stream.Filter, error) {
		f := stream.NewOnePole(1)
		f.SetLowpass(c.Cutoff)
		return f, nil
	}},
	{"pole", "one-pole filter with unity peak gain at --pole", func(c *cli) (stream.Filter, error) {
		f := stream.NewOnePole(1)
		return f, f.SetPole(c.Pole)
	}},
	{"resonance", "two-pole resonance at --cutoff with --radius, normalized", func(c *cli) (stream.Filter, error) {
		f := stream.NewTwoPole(1)
		return f, f.SetResonance(c.Cutoff, c.Radius, true)
	}},
	{"highpass", "pole-zero highpass at --cutoff", func(c *cli) (stream.Filter, error) {
		f := stream.NewPoleZero(1)
		f.SetHighpass(c.Cutoff)
		return f, nil
	}},
	{"allpass", "pole-zero allpass with --coefficient", func(c *cli) (stream.Filter, error) {
		f := stream.NewPoleZero(1)
		return f, f.SetAllpass(c.Coefficient)
	}},
	{"dcblock", "DC blocker with pole at --pole", func(c *cli) (stream.Filter, error) {
		f := stream.NewPoleZero(1)
		return f, f.SetBlockZero(c.Pole)
	}},
	{"average", "FIR moving average over --taps frames", func(c *cli) (stream.Filter, error) {
		if c.Taps < 1 {
			return nil, fmt.Errorf("average: tap count %d must be positive", c.Taps)
		}
		bvals := make([]float64, c.Taps)
		for i := range bvals {
			bvals[i] = 1 / float64(c.Taps)
		}
		f := stream.NewFIR(1)
		f.SetBCoeff(bvals)
		return f, nil
	}},
}

func main() {
	args := &cli{}
	ctx := kong.Parse(args,
		kong.Name("filterinfo"),
		kong.Description("Prints coefficients and frequency responses of the streaming filter presets."),
		kong.UsageOnError(),
	)

	if args.List {
		printList()
		return
	}

	names := args.Presets
	if len(names) == 0 {
		for _, p := range presets {
			names = append(names, p.name)
		}
	}

	entries := resolveEntries(names)
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "error: no matching presets")
		os.Exit(1)
	}

	ctx.FatalIfErrorf(printAnalysis(entries, args))
}

func printList() {
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.name
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Println(n)
	}
}

func resolveEntries(names []string) []presetEntry {
	byName := make(map[string]presetEntry, len(presets))
	for _, p := range presets {
		byName[p.name] = p
	}

	var result []presetEntry
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		p, ok := byName[name]
		if !ok {
			fmt.Fprintf(os.Stderr, "warning: unknown preset %q (use --list to see available)\n", name)
			continue
		}
		result = append(result, p)
	}
	return result
}

func printAnalysis(entries []presetEntry, args *cli) error {
	if args.Points < 2 {
		return fmt.Errorf("points must be at least 2, got %d", args.Points)
	}
	for _, p := range entries {
		f, err := p.build(args)
		if err != nil {
			return fmt.Errorf("%s: %w", p.name, err)
		}

		fmt.Printf("%s (%s)\n", p.name, p.summary)
		fmt.Printf("  b: %s\n", formatCoeffs(f.BCoeff()))
		fmt.Printf("  a: %s\n", formatCoeffs(f.ACoeff()))

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintf(tw, "  freq\t|H|\tdB\tphase [rad]\t\n")
		for i := 0; i < args.Points; i++ {
			freq := 0.5 * float64(i) / float64(args.Points-1)
			h := f.Response(freq)
			mag := cmplx.Abs(h)
			db := 20 * math.Log10(mag)
			fmt.Fprintf(tw, "  %.4f\t%.4f\t%+.2f\t%+.3f\t\n", freq, mag, db, cmplx.Phase(h))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Println()
	}
	return nil
}

func formatCoeffs(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%.6g", v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

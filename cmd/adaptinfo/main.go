// Command adaptinfo prints the coefficients and the temporal behaviour of
// adaptation-loop presets.
//
// Usage:
//
//	adaptinfo [flags] [preset-name ...]
//
// Without arguments it prints info for all known presets.
//
// Examples:
//
//	adaptinfo dau1996
//	adaptinfo --fs 48000 --level 40 osses2021 puschel1988
//	adaptinfo --mtf 2,8,32,128 --scale mu
//	adaptinfo --coef breebaart2001
//	adaptinfo --limiter muenkner --db-offset 94 dau1996
//	adaptinfo --list
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"

	"github.com/cwbudde/algo-auditory/dsp/adaptloop"
	"github.com/cwbudde/algo-auditory/dsp/core"
	"github.com/cwbudde/algo-auditory/measure/adaptation"
)

// CLI defines the command-line interface.
type CLI struct {
	SampleRate float64   `name:"fs" default:"44100" help:"Sample rate in Hz."`
	Level      float64   `default:"70" help:"Step level in dB SPL."`
	DBOffset   float64   `name:"db-offset" default:"100" help:"Level in dB SPL of a unit-amplitude signal."`
	Duration   float64   `default:"2" help:"Step duration in seconds."`
	Depth      float64   `default:"0.5" help:"Modulation depth for --mtf, in (0, 1]."`
	MTF        []float64 `name:"mtf" sep:"," help:"Comma-separated modulation frequencies in Hz."`
	Scale      string    `enum:"unit,mu" default:"unit" help:"Output scale: unit or mu (model units)."`
	Limiter    string    `enum:"equilibrium,muenkner" default:"equilibrium" help:"Limiter ceiling: equilibrium or muenkner."`
	Coef       bool      `help:"Print per-loop coefficients."`
	List       bool      `short:"l" help:"List available preset names."`
	Presets    []string  `arg:"" name:"preset" optional:"" help:"Presets to analyse (default: all)."`
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0087D7"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A40000"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
)

// exitCode carries a kong exit request out of Parse.
type exitCode int

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) (code int) {
	var cli CLI

	defer func() {
		if r := recover(); r != nil {
			c, ok := r.(exitCode)
			if !ok {
				panic(r)
			}
			code = int(c)
		}
	}()

	parser, err := kong.New(&cli,
		kong.Name("adaptinfo"),
		kong.Description("Prints step-response and modulation-transfer properties of adaptation-loop presets.\nWithout arguments, prints info for all presets."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(c int) { panic(exitCode(c)) }),
	)
	if err != nil {
		printError(stderr, err)
		return 2
	}

	if _, err := parser.Parse(args); err != nil {
		printError(stderr, err)
		return 2
	}

	if cli.List {
		for _, p := range adaptloop.Presets() {
			fmt.Fprintln(stdout, p)
		}
		return 0
	}

	presets := resolvePresets(cli.Presets, stderr)
	if len(presets) == 0 {
		printError(stderr, errors.New("no matching presets"))
		return 1
	}

	if err := printAnalysis(stdout, presets, cli); err != nil {
		printError(stderr, err)
		return 1
	}

	return 0
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", errorStyle.Render("error:"), err)
}

func parseScale(s string) adaptloop.OutputScale {
	if s == "mu" {
		return adaptloop.OutputModelUnits
	}
	return adaptloop.OutputUnit
}

func parseLimiter(s string) adaptloop.LimiterMode {
	if s == "muenkner" {
		return adaptloop.LimiterMuenkner
	}
	return adaptloop.LimiterEquilibrium
}

func resolvePresets(names []string, stderr io.Writer) []adaptloop.Preset {
	if len(names) == 0 {
		return adaptloop.Presets()
	}

	var result []adaptloop.Preset
	for _, name := range names {
		p, err := adaptloop.ParsePreset(name)
		if err != nil {
			fmt.Fprintf(stderr, "%s unknown preset %q (use --list to see available)\n", warnStyle.Render("warning:"), name)
			continue
		}
		result = append(result, p)
	}

	return result
}

func newBank(p adaptloop.Preset, cli CLI) (*adaptloop.Bank, error) {
	params, err := adaptloop.PresetConfig(p)
	if err != nil {
		return nil, err
	}

	bank, err := adaptloop.New(1, len(params.TimeConstants))
	if err != nil {
		return nil, err
	}

	err = bank.Configure(cli.SampleRate,
		adaptloop.WithPreset(p),
		adaptloop.WithOutputScale(parseScale(cli.Scale)),
		adaptloop.WithLimiterMode(parseLimiter(cli.Limiter)),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	return bank, nil
}

func printAnalysis(w io.Writer, presets []adaptloop.Preset, cli CLI) error {
	cfg := core.ApplyProcessorOptions(core.WithDBOffset(cli.DBOffset))
	level := core.SPLToLinear(cli.Level, cfg.DBOffset)

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Step response (%g dB SPL = %.4g, %g s)", cli.Level, level, cli.Duration)))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Preset\tLoops\tLimit\tMin [dB SPL]\tPeak\tPeak [ms]\tSteady\tExpected\tOvershoot\tSettling [ms]\n")
	fmt.Fprintf(tw, "------\t-----\t-----\t------------\t----\t---------\t------\t--------\t---------\t-------------\n")

	banks := make([]*adaptloop.Bank, 0, len(presets))
	for _, p := range presets {
		bank, err := newBank(p, cli)
		if err != nil {
			return err
		}
		banks = append(banks, bank)

		res, err := adaptation.StepResponse(bank, level, cli.Duration)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}

		settling := "-"
		if res.Settled {
			settling = fmt.Sprintf("%.1f", 1000*res.SettlingTime)
		}

		limit := "off"
		if bank.Limiting() {
			limit = fmt.Sprintf("%g", bank.Limit())
		}

		fmt.Fprintf(tw, "%s\t%d\t%s\t%.1f\t%.4f\t%.2f\t%.4f\t%.4f\t%.3f\t%s\n",
			p, bank.Loops(), limit, core.LinearToSPL(bank.MinLevel(), cfg.DBOffset),
			res.Peak, 1000*res.PeakTime, res.SteadyState, res.Expected, res.OvershootRatio, settling)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	if cli.Coef {
		if err := printCoefficients(w, presets, banks); err != nil {
			return err
		}
	}

	if len(cli.MTF) > 0 {
		return printMTF(w, presets, banks, cli.MTF, cli.Depth, level)
	}

	return nil
}

func printCoefficients(w io.Writer, presets []adaptloop.Preset, banks []*adaptloop.Bank) error {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("Loop coefficients"))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Preset\tLoop\tTau [ms]\tDecay\tCeiling\tRest Level\n")
	fmt.Fprintf(tw, "------\t----\t--------\t-----\t-------\t----------\n")

	for i, bank := range banks {
		for l, c := range bank.Coefficients() {
			fmt.Fprintf(tw, "%s\t%d\t%.1f\t%.8f\t%.4g\t%.6g\n",
				presets[i], l+1, 1000*c.TimeConstant, c.DecayFactor, c.Ceiling, c.RestLevel)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	return nil
}

func printMTF(w io.Writer, presets []adaptloop.Preset, banks []*adaptloop.Bank, freqs []float64, depth, level float64) error {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Modulation transfer (depth %g)", depth)))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Preset\tMod [Hz]\tActual [Hz]\tDepth In\tDepth Out\tGain [dB]\tDistortion\n")
	fmt.Fprintf(tw, "------\t--------\t-----------\t--------\t---------\t---------\t----------\n")

	for i, bank := range banks {
		points, err := adaptation.ModulationTransfer(bank, freqs, depth, level)
		if err != nil {
			return fmt.Errorf("%s: %w", presets[i], err)
		}

		for _, pt := range points {
			fmt.Fprintf(tw, "%s\t%g\t%.3f\t%.3f\t%.4f\t%.2f\t%.4f\n",
				presets[i], pt.Frequency, pt.Actual, pt.InputDepth, pt.OutputDepth, pt.GainDB, pt.Distortion)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	return nil
}

// Command lofi renders an audio file through the lo-fi effect chain.
//
// Usage:
//
//	lofi [flags] -in <file>
//
// The input may be WAV or MP3. Without -out the rendered WAV is written
// into the working directory as lofi-<name>.wav. Controls come from a
// JSON preset and from repeated -set name=value flags, applied in that
// order over the defaults.
//
// Examples:
//
//	lofi -in song.mp3
//	lofi -in ~/music/song.wav -out ~/out.wav -set bitCrush=0.2 -set tempo=0.8
//	lofi -in song.wav -preset dusty.json -play
//	lofi -params
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-lofi/internal/lofi"
	"github.com/cwbudde/algo-lofi/internal/playback"
)

// setFlags collects -set name=value pairs.
type setFlags []string

func (s *setFlags) String() string { return strings.Join(*s, ",") }

func (s *setFlags) Set(v string) error {
	name, _, ok := strings.Cut(v, "=")
	if !ok {
		return fmt.Errorf("expected name=value: %q", v)
	}

	if _, known := lofi.FieldByName(name); !known {
		return fmt.Errorf("unknown control %q", name)
	}

	*s = append(*s, v)

	return nil
}

func main() {
	in := flag.String("in", "", "input audio file (WAV or MP3)")
	out := flag.String("out", "", "output WAV file (default lofi-<name>.wav)")
	preset := flag.String("preset", "", "JSON file with control values")
	seed := flag.Uint64("seed", 0, "noise and dither seed, 0 for random")
	rate := flag.Float64("rate", 44100, "engine sample rate in Hz")
	level := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	play := flag.Bool("play", false, "monitor the processed source instead of exporting")
	listParams := flag.Bool("params", false, "list controls and exit")

	var sets setFlags
	flag.Var(&sets, "set", "control value as name=value (repeatable)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lofi [flags] -in <file>\n\n")
		fmt.Fprintf(os.Stderr, "Renders audio through a lo-fi effect chain.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(*level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lofi: %v\n", err)
		os.Exit(2)
	}

	log.SetLevel(lvl)

	if *listParams {
		printParams()
		return
	}

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := runConfig{
		in:     *in,
		out:    *out,
		preset: *preset,
		sets:   sets,
		seed:   *seed,
		rate:   *rate,
		play:   *play,
	}

	if err := run(ctx, log, cfg); err != nil {
		log.WithError(err).Error("lofi failed")
		os.Exit(1)
	}
}

type runConfig struct {
	in, out, preset string
	sets            []string
	seed            uint64
	rate            float64
	play            bool
}

func run(ctx context.Context, log *logrus.Logger, cfg runConfig) error {
	inPath, err := homedir.Expand(cfg.in)
	if err != nil {
		return err
	}

	opts := []lofi.Option{
		lofi.WithSampleRate(cfg.rate),
		lofi.WithLogger(log),
	}

	if cfg.seed != 0 {
		opts = append(opts, lofi.WithNoiseSeed(cfg.seed))
	}

	ended := make(chan struct{}, 1)

	if cfg.play {
		mon, err := playback.NewOto(int(cfg.rate))
		if err != nil {
			return err
		}

		opts = append(opts,
			lofi.WithMonitor(mon),
			lofi.WithTransportListener(func(ev lofi.TransportEvent) {
				if ev == lofi.TransportEnded {
					select {
					case ended <- struct{}{}:
					default:
					}
				}
			}),
		)
	}

	p, err := lofi.New(opts...)
	if err != nil {
		return err
	}
	defer p.Close()

	params, err := loadParams(cfg.preset, cfg.sets)
	if err != nil {
		return err
	}

	p.ApplyParameters(params)

	f, err := os.Open(inPath)
	if err != nil {
		return err
	}

	err = p.LoadReader(filepath.Base(inPath), f)
	f.Close()

	if err != nil {
		return err
	}

	if cfg.play {
		if err := p.Play(); err != nil {
			return err
		}

		select {
		case <-ended:
		case <-ctx.Done():
		}

		return p.Stop()
	}

	return export(ctx, log, p, cfg.out)
}

func export(ctx context.Context, log *logrus.Logger, p *lofi.Processor, out string) error {
	res, err := p.Export(ctx)
	if err != nil {
		return err
	}

	if out == "" {
		info, _ := p.Source()
		out = lofi.DownloadName(info.Name, res.Extension)
	}

	outPath, err := homedir.Expand(out)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, res.Data, 0o644); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"path":   outPath,
		"frames": res.Frames,
		"rate":   res.SampleRate,
	}).Info("wrote file")

	return nil
}

// loadParams applies the preset file and then the -set pairs to the
// default controls.
func loadParams(preset string, sets []string) (lofi.ParameterSet, error) {
	ps := lofi.DefaultParameters()

	if preset != "" {
		path, err := homedir.Expand(preset)
		if err != nil {
			return ps, err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return ps, err
		}

		var u lofi.ParameterUpdate
		if err := json.Unmarshal(data, &u); err != nil {
			return ps, fmt.Errorf("preset %s: %w", preset, err)
		}

		ps = u.Apply(ps)
	}

	for _, kv := range sets {
		name, raw, _ := strings.Cut(kv, "=")

		f, ok := lofi.FieldByName(name)
		if !ok {
			return ps, fmt.Errorf("unknown control %q", name)
		}

		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return ps, fmt.Errorf("control %s: %w", name, err)
		}

		f.Set(&ps, v)
	}

	return ps, nil
}

func printParams() {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMIN\tMAX\tDEFAULT")

	for _, f := range lofi.Fields() {
		fmt.Fprintf(tw, "%s\t%g\t%g\t%g\n", f.Name, f.Min, f.Max, f.Default)
	}

	tw.Flush()
}

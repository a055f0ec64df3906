package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mmcloughlin/profile"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"example.com/wiggles/base/timemath"
	"example.com/wiggles/base/zaplog"
	"example.com/wiggles/core/config"
	"example.com/wiggles/core/network"
	"example.com/wiggles/core/timebase"
	"example.com/wiggles/driver/clock"
	"example.com/wiggles/driver/framer"
)

const reportInterval = 10 * time.Second

var log *zap.Logger

func initLogger(verbose bool) {
	c := zap.NewDevelopmentConfig()
	c.DisableStacktrace = true
	c.EncoderConfig.EncodeCaller = func(
		caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		p := caller.TrimmedPath()
		if len(p) > 30 {
			p = "..." + p[len(p)-27:]
		}
		enc.AppendString(fmt.Sprintf("%30s", p))
	}
	if !verbose {
		c.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	var err error
	log, err = c.Build()
	if err != nil {
		panic(err)
	}
	zaplog.SetLogger(log)
}

func runMonitor(log *zap.Logger, addr string) {
	http.Handle("/metrics", promhttp.Handler())
	err := http.ListenAndServe(addr, nil)
	log.Fatal("failed to serve metrics", zap.Error(err))
}

func loadNetwork(cfg config.Config, clk clockwork.Clock, log *zap.Logger) *network.Network {
	tb := timebase.New(clk, log)
	net := network.New(tb, log)
	err := config.Apply(cfg, net)
	if err != nil {
		log.Fatal("failed to set up clock network", zap.Error(err))
	}
	return net
}

func logValues(log *zap.Logger, net *network.Network) {
	if !log.Core().Enabled(zap.DebugLevel) {
		return
	}
	for _, v := range net.Values() {
		log.Debug("clock",
			zap.String("name", v.Name),
			zap.Stringer("kind", v.Kind),
			zap.Int64("frame", v.Frame),
			zap.Float64("phase", v.Phase),
			zap.Int64("ticks", v.Ticks),
			zap.Int64("total_ticks", v.TotalTicks))
	}
}

func runReporter(ctx context.Context, log *zap.Logger, clk clockwork.Clock,
	net *network.Network, fr *framer.Framer) {
	ticker := clk.NewTicker(reportInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s := fr.Stats()
			log.Info("frame statistics",
				zap.Int64("frames", s.Frames),
				zap.Duration("mean", s.Mean),
				zap.Duration("median", s.Median),
				zap.Duration("p99", s.P99),
				zap.Float64("rate", s.Rate),
				zap.Duration("jitter", s.Jitter))
			logValues(log, net)
		}
	}
}

func runService(configFile string, withProfile bool) {
	if withProfile {
		defer profile.Start(profile.CPUProfile).Stop()
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	clk := clock.NewMonotonicClock(log)
	net := loadNetwork(cfg, clk, log)
	log.Info("clock network ready", zap.Strings("clocks", net.Names()))

	go runMonitor(log, cfg.MetricsAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fr := &framer.Framer{
		Timebase:  net.Timebase(),
		Clock:     clk,
		FrameRate: cfg.FrameRate,
		Log:       log,
	}
	go runReporter(ctx, log, clk, net, fr)

	err = fr.Run(ctx)
	if err != nil {
		log.Fatal("frame driver failed", zap.Error(err))
	}
}

// dump steps a simulated clock through the configured network and writes
// every clock's value for each frame.
func dump(w io.Writer, cfg config.Config, frames int, interval time.Duration) {
	clk := clockwork.NewFakeClock()
	net := loadNetwork(cfg, clk, log)
	for i := 0; i < frames; i++ {
		clk.Advance(interval)
		net.Timebase().Next()
		for _, v := range net.Values() {
			var mark string
			if v.Ticked {
				mark = "*"
			}
			fmt.Fprintf(w, "%6d %-16s %-10s phase=%.6f ticks=%d total=%d%s\n",
				v.Frame, v.Name, v.Kind, v.Phase, v.Ticks, v.TotalTicks, mark)
		}
	}
}

func runDump(configFile string, frames int, interval time.Duration) {
	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}
	if interval == 0 {
		interval = timemath.Interval(cfg.FrameRate)
	}
	dump(os.Stdout, cfg, frames, interval)
}

func exitWithUsage() {
	fmt.Println("usage: wiggles run -config <file> [-verbose] [-profile]")
	fmt.Println("       wiggles dump -config <file> [-frames <n>] [-interval <duration>] [-verbose]")
	os.Exit(1)
}

func main() {
	var (
		verbose     bool
		withProfile bool
		configFile  string
		frames      int
		interval    time.Duration
	)

	runFlags := flag.NewFlagSet("run", flag.ExitOnError)
	dumpFlags := flag.NewFlagSet("dump", flag.ExitOnError)

	runFlags.BoolVar(&verbose, "verbose", false, "Verbose logging")
	runFlags.BoolVar(&withProfile, "profile", false, "Write a CPU profile")
	runFlags.StringVar(&configFile, "config", "", "Config file")

	dumpFlags.BoolVar(&verbose, "verbose", false, "Verbose logging")
	dumpFlags.StringVar(&configFile, "config", "", "Config file")
	dumpFlags.IntVar(&frames, "frames", 10, "Number of frames")
	dumpFlags.DurationVar(&interval, "interval", 0, "Frame interval, 1/frame_rate if zero")

	if len(os.Args) < 2 {
		exitWithUsage()
	}

	switch os.Args[1] {
	case runFlags.Name():
		err := runFlags.Parse(os.Args[2:])
		if err != nil || runFlags.NArg() != 0 {
			exitWithUsage()
		}
		if configFile == "" {
			exitWithUsage()
		}
		initLogger(verbose)
		runService(configFile, withProfile)
	case dumpFlags.Name():
		err := dumpFlags.Parse(os.Args[2:])
		if err != nil || dumpFlags.NArg() != 0 {
			exitWithUsage()
		}
		if configFile == "" || frames < 0 || interval < 0 {
			exitWithUsage()
		}
		initLogger(verbose)
		runDump(configFile, frames, interval)
	default:
		exitWithUsage()
	}
}

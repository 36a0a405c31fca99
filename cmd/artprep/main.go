package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"artprep/pkg/cfg"
	"artprep/pkg/logging"

	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, th cfg.Thresholds, args []string) error
}

var commands = []command{
	{"sanitize", "sanitize [file]", runSanitize},
	{"recolor", "recolor -color C [file]", runRecolor},
	{"rasterize", "rasterize [-o out.png] [file]", runRasterize},
	{"bounds", "bounds [file]", runBounds},
	{"homography", "homography -src QUAD -dst QUAD [-point X,Y]", runHomography},
	{"plane", "plane -quad QUAD -size W,H", runPlane},
	{"warp", "warp -width W -height H -quad QUAD [file]", runWarp},
	{"text", "text [-font file.ttf] [-height H] [-spacing S] [-proof out.png] TEXT", runText},
	{"vectorize", "vectorize [-threshold N] [-min-area A] [-blur S] [-invert] [-width MM] [-height MM] [file]", runVectorize},
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [-config thresholds.json] [-v] command [args]\n\ncommands:\n", os.Args[0])
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %s\n", c.usage)
	}
}

func main() {
	configPath := flag.String("config", "", "JSON file overriding the default thresholds")
	verbose := flag.Bool("v", false, "log pipeline decisions")
	flag.Usage = usage
	flag.Parse()

	var logger *zap.Logger
	if *verbose {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()
	logging.SetLogger(logger)

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	th, err := loadThresholds(*configPath)
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	name := flag.Arg(0)
	for _, c := range commands {
		if c.name != name {
			continue
		}
		if err := c.run(context.Background(), th, flag.Args()[1:]); err != nil {
			logger.Error(name, zap.Error(err))
			logger.Sync()
			os.Exit(1)
		}
		return
	}
	usage()
	os.Exit(2)
}

func loadThresholds(path string) (cfg.Thresholds, error) {
	if path == "" {
		return cfg.Default, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg.Default, xerrors.Errorf("opening config: %w", err)
	}
	defer f.Close()
	return cfg.Load(f)
}

// readInput reads the named file, or stdin when the name is empty or "-".
func readInput(fs *flag.FlagSet) ([]byte, error) {
	name := fs.Arg(0)
	if name == "" || name == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, xerrors.Errorf("file read error: %w", err)
	}
	return data, nil
}

// writeOutput writes to the named file, or stdout when the name is empty.
func writeOutput(name string, data []byte) error {
	if name == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return xerrors.Errorf("writing %s: %w", name, err)
	}
	return nil
}

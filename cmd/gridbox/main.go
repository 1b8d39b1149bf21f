// Command gridbox evaluates region programs and queries, samples or meshes
// the regions they define.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/chazu/gridbox/pkg/config"
	"github.com/chazu/gridbox/pkg/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args, executes one command and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	app := kingpin.New("gridbox", "Axis-aligned compact regions on a lattice.")
	app.HelpFlag.Short('h')
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)

	configPath := app.Flag("config", "YAML configuration file").Short('c').ExistingFile()
	logMode := app.Flag("log-mode", "dev, prod or nop (overrides config)").String()
	logLevel := app.Flag("log-level", "minimum log level (overrides config)").String()

	regionsCmd := app.Command("regions", "evaluate a file and list its named regions")
	regionsFile := regionsCmd.Arg("file", "region program").Required().ExistingFile()
	regionsJSON := regionsCmd.Flag("json", "print JSON").Bool()

	checkCmd := app.Command("check", "report empty, oversized, duplicate or nested regions")
	checkFile := checkCmd.Arg("file", "region program").Required().ExistingFile()

	pointsCmd := app.Command("points", "print every lattice point of a region")
	pointsFile := pointsCmd.Arg("file", "region program").Required().ExistingFile()
	pointsRegion := pointsCmd.Flag("region", "region name").Short('r').String()
	pointsStep := pointsCmd.Flag("step", "lattice step per dimension (repeatable)").Float64List()
	pointsCount := pointsCmd.Flag("count", "print only the number of points").Bool()

	scanCmd := app.Command("scan", "stream a region's lattice as blank-line separated scan lines")
	scanFile := scanCmd.Arg("file", "region program").Required().ExistingFile()
	scanRegion := scanCmd.Flag("region", "region name").Short('r').String()
	scanStep := scanCmd.Flag("step", "lattice step per dimension (repeatable)").Float64List()

	nearestCmd := app.Command("nearest", "print the lattice point of a region nearest to a point")
	nearestFile := nearestCmd.Arg("file", "region program").Required().ExistingFile()
	nearestCoords := nearestCmd.Arg("coords", "query point").Required().Float64List()
	nearestRegion := nearestCmd.Flag("region", "region name").Short('r').String()

	containsCmd := app.Command("contains", "report whether a point lies in a region")
	containsFile := containsCmd.Arg("file", "region program").Required().ExistingFile()
	containsCoords := containsCmd.Arg("coords", "query point").Required().Float64List()
	containsRegion := containsCmd.Flag("region", "region name").Short('r').String()

	meshCmd := app.Command("mesh", "tessellate regions of up to three dimensions")
	meshFile := meshCmd.Arg("file", "region program").Required().ExistingFile()
	meshFormat := meshCmd.Flag("format", "output format").Default("json").Enum("json", "stl")
	meshOut := meshCmd.Flag("out", "output file (default stdout)").Short('o').String()

	command, err := app.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "gridbox: %v\n", err)
		return 2
	}

	cfg := config.Default()
	if *configPath != "" {
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(stderr, "gridbox: %v\n", err)
			return 2
		}
	}
	if *logMode != "" {
		cfg.LogMode = *logMode
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	log, err := logger.New(cfg.LogMode, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "gridbox: %v\n", err)
		return 2
	}
	defer logger.Sync(log)

	a := NewApp(cfg, log)
	readSource := func(path string) (string, error) {
		b, err := os.ReadFile(path)
		return string(b), err
	}

	err = func() error {
		switch command {
		case regionsCmd.FullCommand():
			src, err := readSource(*regionsFile)
			if err != nil {
				return err
			}
			regions, err := a.Regions(src)
			if err != nil {
				return err
			}
			if *regionsJSON {
				return writeJSON(stdout, regions)
			}
			for _, r := range regions {
				fmt.Fprintf(stdout, "%s\t%dd\t[%s]..[%s]\tstep [%s]\t%s\n", r.Name, r.Dim,
					formatCoords(r.Lower), formatCoords(r.Upper), formatCoords(r.Step), r.Fold)
			}
			return nil

		case checkCmd.FullCommand():
			src, err := readSource(*checkFile)
			if err != nil {
				return err
			}
			r, err := a.Check(src)
			if err != nil {
				return err
			}
			for _, f := range append(r.Errors, r.Warnings...) {
				fmt.Fprintln(stdout, f.Error())
			}
			if !r.OK() {
				return errCheckFailed
			}
			return nil

		case pointsCmd.FullCommand():
			src, err := readSource(*pointsFile)
			if err != nil {
				return err
			}
			set, err := a.Points(src, *pointsRegion, *pointsStep)
			if err != nil {
				return err
			}
			if *pointsCount {
				_, err := fmt.Fprintln(stdout, set.Len())
				return err
			}
			return WritePoints(stdout, set)

		case scanCmd.FullCommand():
			src, err := readSource(*scanFile)
			if err != nil {
				return err
			}
			n, err := a.Scan(stdout, src, *scanRegion, *scanStep)
			log.Debug("scan finished", zap.Int("points", n))
			return err

		case nearestCmd.FullCommand():
			src, err := readSource(*nearestFile)
			if err != nil {
				return err
			}
			p, err := a.Nearest(src, *nearestRegion, *nearestCoords)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(stdout, formatCoords(p.Coords()))
			return err

		case containsCmd.FullCommand():
			src, err := readSource(*containsFile)
			if err != nil {
				return err
			}
			ok, err := a.Contains(src, *containsRegion, *containsCoords)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(stdout, ok)
			return err

		case meshCmd.FullCommand():
			src, err := readSource(*meshFile)
			if err != nil {
				return err
			}
			meshes, err := a.Meshes(src)
			if err != nil {
				return err
			}
			w := stdout
			if *meshOut != "" {
				f, err := os.Create(*meshOut)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if *meshFormat == "stl" {
				return WriteSTL(w, meshes)
			}
			return writeJSON(w, meshes)
		}
		return fmt.Errorf("unknown command %q", command)
	}()

	if errors.Is(err, errCheckFailed) {
		return 1
	}
	if err != nil {
		if !isSourceError(err) {
			log.Error("command failed", zap.String("command", command), zap.Error(err))
		}
		fmt.Fprintf(stderr, "gridbox: %s: %v\n", command, err)
		return 1
	}
	return 0
}

// errCheckFailed signals that check printed errors.
var errCheckFailed = errors.New("check failed")

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

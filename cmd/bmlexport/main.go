package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/saiko-tech/bml-exporter/pkg/catalog"
	"github.com/saiko-tech/bml-exporter/pkg/config"
	"github.com/saiko-tech/bml-exporter/pkg/exporter"
	"github.com/saiko-tech/bml-exporter/pkg/logging"
	"github.com/saiko-tech/bml-exporter/pkg/scene"
	"github.com/saiko-tech/bml-exporter/pkg/sourceimport"
)

const sourceHitboxes = "Source hitboxes"

func main() {
	configFile := flag.String("config", "", "Path to an export settings file (YAML or JSON)")
	sceneFile := flag.String("scene", "", "Path to the scene file to export")
	outputDir := flag.String("output", "", "Output directory (default: .)")
	catalogDir := flag.String("catalog", "", "Directory holding DOF.xml, switch.xml, script.xml and callbacks.xml")
	compression := flag.String("compression", "", "Payload compression: none, lz4 or lzma (default: lzma)")
	script := flag.String("script", "", "Script number or name (default: -1, no script)")
	prefix := flag.String("prefix", "", "Prefix of the BML file names")
	debug := flag.Bool("debug", false, "Enable debug logging")
	sourceMap := flag.String("source-map", "", "Source engine map whose static prop hulls are added as bounding boxes")
	vpks := flag.String("vpk", "", "Comma separated VPK archives searched for -source-map models")

	flag.Parse()

	if *sceneFile == "" && flag.NArg() > 0 {
		*sceneFile = flag.Arg(0)
	}

	if *sceneFile == "" {
		fmt.Fprintln(os.Stderr, "Error: no scene file given. Use -scene or pass it as an argument.")
		os.Exit(2)
	}

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	err := cfg.Resolve(config.Flags{
		Compression: *compression,
		Script:      *script,
		OutputDir:   *outputDir,
		Prefix:      *prefix,
		CatalogDir:  *catalogDir,
		Debug:       *debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := logging.NewDefaultLogger("bmlexport", cfg.Debug)

	if err := run(cfg, *sceneFile, *sourceMap, *vpks, log); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, sceneFile, sourceMap, vpks string, log logging.Logger) error {
	s, err := scene.Load(sceneFile)
	if err != nil {
		return err
	}

	cat := catalog.Empty()
	if cfg.CatalogDir != "" {
		if cat, err = catalog.Load(cfg.CatalogDir); err != nil {
			return errors.Wrap(err, "failed to load catalog")
		}

		log.Infof("catalog: %d DOFs, %d switches, %d scripts, %d callbacks",
			len(cat.Dofs), len(cat.Switches), len(cat.Scripts), len(cat.Callbacks))
	}

	if sourceMap != "" {
		if err := addSourceHitboxes(s, sourceMap, vpks, log); err != nil {
			return err
		}
	}

	summary, err := exporter.New(cfg.Options(), cat, log).Export(s, cfg.OutputDir)
	if err != nil {
		return err
	}

	for _, l := range summary.LODs {
		fmt.Printf("%s: %d nodes\n", l.File, l.Nodes)
	}

	fmt.Printf("Materials: %d, Hotspots: %d\n", len(summary.Materials), len(summary.Hotspots))
	fmt.Printf("Done in %.1fs\n", summary.Elapsed.Seconds())

	return nil
}

// addSourceHitboxes appends the static prop hulls of a Source map to s as a
// collection of its own. Missing models are reported but do not fail the
// export.
func addSourceHitboxes(s *scene.Scene, bspPath, vpks string, log logging.Logger) error {
	var archives []string
	if vpks != "" {
		archives = strings.Split(vpks, ",")
	}

	boxes, err := sourceimport.LoadMapHitboxes(bspPath, archives...)
	if err != nil {
		var missing sourceimport.MissingModelsError
		if !errors.As(err, &missing) {
			return errors.Wrapf(err, "failed to import hitboxes from %q", bspPath)
		}

		log.Warnf("%v", err)
	}

	log.Infof("imported %d hitboxes from %q", len(boxes), bspPath)

	if len(boxes) == 0 {
		return nil
	}

	s.Collections = append(s.Collections, &scene.Collection{
		Name:    sourceHitboxes,
		Objects: []*scene.Object{sourceimport.Group(sourceHitboxes, boxes)},
	})

	return nil
}

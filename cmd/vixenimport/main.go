// Command vixenimport discovers a Vixen 3 profile directory, imports its
// fixtures, groups, controllers, layout, and sequences into a Show, and
// prints a summary plus any import warnings: flag-parsed options, a
// single library call, a plain-text summary on success.
package main

import (
	"flag"
	"fmt"
	"os"

	"vibelights/internal/vixenimport"
)

func main() {
	profileName := flag.String("name", "Imported Show", "profile name to assign the resulting show")
	importLayout := flag.Bool("layout", true, "import the preview/layout file if one is found")
	discoverOnly := flag.Bool("discover", false, "only scan the directory and print what would be imported")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [--name NAME] [--layout] [--discover] <vixen-profile-dir>\n", os.Args[0])
		os.Exit(1)
	}
	vixenDir := flag.Arg(0)

	discovery, err := vixenimport.Discover(vixenDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "discovery error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Found %d fixture(s), %d group(s), %d controller(s)\n",
		discovery.FixturesFound, discovery.GroupsFound, discovery.ControllersFound)
	if discovery.PreviewAvailable {
		fmt.Printf("Preview: %s\n", discovery.PreviewFilePath)
	}
	fmt.Printf("Sequences found: %d\n", len(discovery.Sequences))
	for _, s := range discovery.Sequences {
		fmt.Printf("  %s (%d bytes)\n", s.Filename, s.SizeBytes)
	}
	fmt.Printf("Media files found: %d\n", len(discovery.MediaFiles))

	if *discoverOnly {
		return
	}

	cfg := vixenimport.Config{
		VixenDir:          vixenDir,
		ProfileName:       *profileName,
		ImportControllers: true,
		ImportLayout:      *importLayout,
	}
	for _, s := range discovery.Sequences {
		cfg.SequencePaths = append(cfg.SequencePaths, s.Path)
	}
	for _, m := range discovery.MediaFiles {
		cfg.MediaFilenames = append(cfg.MediaFilenames, m.Filename)
	}

	show, result, err := vixenimport.Import(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "import error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nImported show %q: %d fixture(s), %d group(s), %d controller(s), %d layout item(s), %d sequence(s)\n",
		show.Name, result.FixturesImported, result.GroupsImported, result.ControllersImported,
		result.LayoutItemsImported, result.SequencesImported)

	if len(result.Warnings) > 0 {
		fmt.Fprintf(os.Stderr, "\n%d warning(s):\n", len(result.Warnings))
		for _, w := range result.Warnings {
			fmt.Fprintf(os.Stderr, "  %s\n", w)
		}
	}
}

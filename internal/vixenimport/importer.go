package vixenimport

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"vibelights/internal/config"
	"vibelights/internal/model"
	"vibelights/internal/workerpool"
)

// Importer accumulates fixtures, groups, controllers, and sequences
// across one or more calls into ParseSystemConfig/ParsePreview/
// ParseSequence, then exposes them as plain model values.
type Importer struct {
	nodes     map[string]*vixenNode
	rootGUIDs []string

	guidToID    map[string]uint32 // node guid -> FixtureId
	guidToGroup map[string]uint32 // node guid -> GroupId
	nextID      uint32

	mergedFixtureIDs map[uint32]bool
	mergedParent     map[string]*vixenNode // leaf guid -> merged parent node, for preview pixel index resolution

	nextControllerID uint32

	fixtures    []model.FixtureDef
	groups      []model.FixtureGroup
	controllers []model.Controller
	patches     []model.Patch

	warnMu   sync.Mutex
	warnings []string

	maxEffectCount int
}

// addWarning appends a warning under a lock, so it stays safe to call
// from ParseSequence calls running concurrently across a worker pool.
func (imp *Importer) addWarning(w string) {
	imp.warnMu.Lock()
	imp.warnings = append(imp.warnings, w)
	imp.warnMu.Unlock()
}

// NewImporter constructs an empty Importer for a fresh fixture import,
// bounded by config.Default().
func NewImporter() *Importer {
	return NewImporterWithConfig(config.Default())
}

// NewImporterWithConfig constructs an empty Importer whose imported-effect
// cap comes from cfg.
func NewImporterWithConfig(cfg config.Config) *Importer {
	return &Importer{
		nodes:            make(map[string]*vixenNode),
		guidToID:         make(map[string]uint32),
		guidToGroup:      make(map[string]uint32),
		mergedFixtureIDs: make(map[uint32]bool),
		mergedParent:     make(map[string]*vixenNode),
		maxEffectCount:   cfg.MaxEffectCount,
	}
}

// NewImporterFromProfile reconstructs importer state from an
// already-imported profile plus its saved GUID→id mapping, so a later
// sequence import can resolve targets against fixtures created earlier.
func NewImporterFromProfile(fixtures []model.FixtureDef, groups []model.FixtureGroup, controllers []model.Controller, patches []model.Patch, guidMap map[string]uint32) *Importer {
	var maxID uint32
	for _, id := range guidMap {
		if id >= maxID {
			maxID = id + 1
		}
	}
	guidToID := make(map[string]uint32, len(guidMap))
	for k, v := range guidMap {
		guidToID[k] = v
	}
	return &Importer{
		nodes:            make(map[string]*vixenNode),
		guidToID:         guidToID,
		guidToGroup:      make(map[string]uint32),
		nextID:           maxID,
		mergedFixtureIDs: make(map[uint32]bool),
		mergedParent:     make(map[string]*vixenNode),
		fixtures:         fixtures,
		groups:           groups,
		controllers:      controllers,
		patches:          patches,
		maxEffectCount:   config.Default().MaxEffectCount,
	}
}

// GuidMap returns the node guid -> FixtureId mapping, for persisting
// alongside an imported profile so later sequence imports can resolve
// against it.
func (imp *Importer) GuidMap() map[string]uint32 {
	out := make(map[string]uint32, len(imp.guidToID))
	for k, v := range imp.guidToID {
		out[k] = v
	}
	return out
}

func (imp *Importer) Warnings() []string     { return append([]string(nil), imp.warnings...) }
func (imp *Importer) Fixtures() []model.FixtureDef { return imp.fixtures }
func (imp *Importer) Groups() []model.FixtureGroup { return imp.groups }
func (imp *Importer) Controllers() []model.Controller { return imp.controllers }

// ParseSystemConfig reads SystemData/SystemConfig.xml: a first streaming
// pass records the node DAG, a second records controllers, then fixtures
// and groups are built from the completed node tree.
func (imp *Importer) ParseSystemConfig(path string) error {
	if err := imp.withUTF8Reader(path, imp.parseNodes); err != nil {
		return err
	}
	if err := imp.withUTF8Reader(path, imp.parseControllers); err != nil {
		return err
	}
	imp.buildFixturesAndGroups()
	return nil
}

// ParsePreview parses the preview/layout XML at path and returns the
// resulting FixtureLayout items.
func (imp *Importer) ParsePreview(path string) ([]model.FixtureLayout, error) {
	var layouts []model.FixtureLayout
	err := imp.withUTF8Reader(path, func(r io.Reader) error {
		ls, err := imp.parsePreview(r)
		layouts = ls
		return err
	})
	return layouts, err
}

// ParseSequence parses a .tim file at path into a named Sequence.
func (imp *Importer) ParseSequence(name, path string) (model.Sequence, error) {
	var seq model.Sequence
	err := imp.withUTF8Reader(path, func(r io.Reader) error {
		s, err := imp.parseSequence(name, r)
		seq = s
		return err
	})
	return seq, err
}

func (imp *Importer) withUTF8Reader(path string, fn func(r io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return ioError(err)
	}
	defer f.Close()
	r, err := normalizeToUTF8(f)
	if err != nil {
		return err
	}
	return fn(r)
}

// Discovery summarizes a scanned Vixen directory before the user
// confirms what to import.
type Discovery struct {
	VixenDir           string
	FixturesFound      int
	GroupsFound        int
	ControllersFound   int
	PreviewAvailable   bool
	PreviewItemCount   int
	PreviewFilePath    string
	Sequences          []SequenceInfo
	MediaFiles         []MediaInfo
}

type SequenceInfo struct {
	Filename  string
	Path      string
	SizeBytes int64
}

type MediaInfo struct {
	Filename  string
	Path      string
	SizeBytes int64
}

// Discover scans vixenDir for SystemConfig.xml, a preview file, sequence
// (.tim) files, and media files, without importing anything yet.
func Discover(vixenDir string) (*Discovery, error) {
	d := &Discovery{VixenDir: vixenDir}

	systemConfig := filepath.Join(vixenDir, "SystemData", "SystemConfig.xml")
	if _, err := os.Stat(systemConfig); err == nil {
		probe := NewImporter()
		if err := probe.ParseSystemConfig(systemConfig); err == nil {
			d.FixturesFound = len(probe.fixtures)
			d.GroupsFound = len(probe.groups)
			d.ControllersFound = len(probe.controllers)
		}
	}

	if previewPath := findPreviewFile(vixenDir); previewPath != "" {
		d.PreviewFilePath = previewPath
		d.PreviewAvailable = true
	}

	seqDir := filepath.Join(vixenDir, "Sequence")
	entries, _ := os.ReadDir(seqDir)
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".tim") {
			continue
		}
		if info, err := e.Info(); err == nil {
			d.Sequences = append(d.Sequences, SequenceInfo{
				Filename: e.Name(), Path: filepath.Join(seqDir, e.Name()), SizeBytes: info.Size(),
			})
		}
	}

	mediaDir := filepath.Join(vixenDir, "Media")
	mediaEntries, _ := os.ReadDir(mediaDir)
	for _, e := range mediaEntries {
		if e.IsDir() {
			continue
		}
		if info, err := e.Info(); err == nil {
			d.MediaFiles = append(d.MediaFiles, MediaInfo{
				Filename: e.Name(), Path: filepath.Join(mediaDir, e.Name()), SizeBytes: info.Size(),
			})
		}
	}

	return d, nil
}

// findPreviewFile looks for a standalone preview XML, or a ModuleStore.xml
// likely to embed one, favoring an explicit standalone file.
func findPreviewFile(vixenDir string) string {
	candidates := []string{
		filepath.Join(vixenDir, "Module Data Files", "Preview.xml"),
		filepath.Join(vixenDir, "SystemData", "ModuleStore.xml"),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// ImportResult summarizes a completed import for the caller.
type ImportResult struct {
	FixturesImported    int
	GroupsImported      int
	ControllersImported int
	LayoutItemsImported int
	SequencesImported   int
	MediaImported       int
	Warnings            []string
}

// Import runs a full import against cfg, returning the populated Show
// and a result summary. It is the single entry point cmd/vixenimport and
// any higher-level caller should use.
func Import(cfg Config) (*model.Show, *ImportResult, error) {
	imp := NewImporter()

	systemConfig := filepath.Join(cfg.VixenDir, "SystemData", "SystemConfig.xml")
	if err := imp.ParseSystemConfig(systemConfig); err != nil {
		return nil, nil, err
	}

	show := &model.Show{
		Name:        cfg.ProfileName,
		Fixtures:    imp.fixtures,
		Groups:      imp.groups,
		Controllers: imp.controllers,
		Patches:     imp.patches,
	}

	result := &ImportResult{
		FixturesImported:    len(imp.fixtures),
		GroupsImported:      len(imp.groups),
		ControllersImported: len(imp.controllers),
	}

	if cfg.ImportLayout {
		previewPath := cfg.PreviewFileOverride
		if previewPath == "" {
			previewPath = findPreviewFile(cfg.VixenDir)
		}
		if previewPath != "" {
			layout, err := imp.ParsePreview(previewPath)
			if err != nil {
				imp.addWarning("preview import failed: "+err.Error())
			} else if len(layout) > 0 {
				show.Layouts = append(show.Layouts, model.Layout{Name: "Imported Layout", Items: layout})
				result.LayoutItemsImported = len(layout)
			}
		}
	}

	sequences := imp.parseSequencesConcurrent(cfg.SequencePaths)
	for _, seq := range sequences {
		if seq == nil {
			continue
		}
		show.Sequences = append(show.Sequences, *seq)
		result.SequencesImported++
	}

	result.MediaImported = len(cfg.MediaFilenames)
	result.Warnings = imp.Warnings()
	return show, result, nil
}

// parseSequencesConcurrent parses each .tim file in paths across a small
// worker pool, since sequences are independent of one another once the
// system config and node tree have already been parsed. Results preserve
// the input order; a failed parse records a warning and leaves a nil
// entry in its slot rather than aborting the rest of the batch.
func (imp *Importer) parseSequencesConcurrent(paths []string) []*model.Sequence {
	if len(paths) == 0 {
		return nil
	}

	pool := workerpool.New(len(paths), len(paths))
	defer pool.Close()

	out := make([]*model.Sequence, len(paths))
	workerpool.RunIndexed(pool, len(paths), func(i int) {
		seqPath := paths[i]
		name := strings.TrimSuffix(filepath.Base(seqPath), filepath.Ext(seqPath))
		seq, err := imp.ParseSequence(name, seqPath)
		if err != nil {
			imp.addWarning("sequence \"" + name + "\" failed: " + err.Error())
			return
		}
		out[i] = &seq
	})
	return out
}

// Config is the caller-provided selection of what to import, mirroring
// the wizard fields a desktop frontend would collect.
type Config struct {
	VixenDir            string
	ProfileName         string
	ImportControllers   bool
	ImportLayout        bool
	PreviewFileOverride string
	SequencePaths       []string
	MediaFilenames      []string
}

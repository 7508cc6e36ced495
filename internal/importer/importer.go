// Package importer ingests finding and asset source directories into a
// client's store. Writes go to the filesystem first and the database
// second, so a crash mid-import leaves files that a re-import
// reconciles rather than database rows with no documents behind them.
package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/joshsymonds/lantern/internal/codec"
	"github.com/joshsymonds/lantern/internal/database"
	"github.com/joshsymonds/lantern/internal/models"
	"github.com/joshsymonds/lantern/internal/store"
	"github.com/joshsymonds/lantern/pkg/logger"
)

// AmbiguousSourceError reports a source directory that does not contain
// exactly one markdown document.
type AmbiguousSourceError struct {
	Path  string
	Count int
}

func (e *AmbiguousSourceError) Error() string {
	return fmt.Sprintf("expected exactly one markdown document in %s, found %d", e.Path, e.Count)
}

// PartialImportError reports a finding whose documents reached the
// filesystem but whose database commit failed. Re-importing the same
// source directory reconciles the two representations.
type PartialImportError struct {
	Path string
	Err  error
}

func (e *PartialImportError) Error() string {
	return fmt.Sprintf("documents written under %s but database commit failed: %v (re-import to reconcile)", e.Path, e.Err)
}

func (e *PartialImportError) Unwrap() error {
	return e.Err
}

// UnitError pairs a failed bulk-import unit with its error.
type UnitError struct {
	Path string
	Err  error
}

// Result summarizes a bulk import.
type Result struct {
	BatchID  string
	Imported int
	Errors   []UnitError
}

// Failed reports whether any unit in the batch failed.
func (r *Result) Failed() bool {
	return len(r.Errors) > 0
}

// Coordinator imports source material into one client's database and
// findings tree.
type Coordinator struct {
	db     *database.DB
	store  *store.Store
	client string
	log    logger.Logger
}

// New creates a Coordinator for the given client.
func New(db *database.DB, st *store.Store, client string, log logger.Logger) *Coordinator {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Coordinator{db: db, store: st, client: client, log: log.With("client", client)}
}

// ImportFinding imports a single finding source directory. The
// directory's base name becomes the finding's slug, and it must
// contain exactly one markdown document. Files in the source's img/
// directory travel along as images.
func (c *Coordinator) ImportFinding(ctx context.Context, srcDir string) (*models.Finding, error) {
	docPath, err := findSoleDocument(srcDir)
	if err != nil {
		return nil, err
	}
	slug := filepath.Base(filepath.Clean(srcDir))

	raw, err := os.ReadFile(docPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", docPath, err)
	}

	finding, err := codec.ParseFinding(string(raw), slug)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", docPath, err)
	}
	finding.Slug = slug

	_, created, err := c.db.EnsureAsset(ctx, finding.Asset)
	if err != nil {
		return nil, err
	}
	if created {
		asset := models.NewAsset(finding.Asset)
		if err := c.store.WriteAsset(c.client, asset, []byte(codec.RenderAsset(asset))); err != nil {
			return nil, err
		}
		c.log.Info("Created asset", "asset", finding.Asset)
	}

	// A re-import of an existing (asset, slug) pair keeps its identifier.
	existing, err := c.db.LookupFinding(ctx, finding.Asset, slug)
	var notFound *database.NotFoundError
	switch {
	case err == nil:
		finding.Seq = existing.Seq
	case errors.As(err, &notFound):
		next, allocErr := c.db.NextIdentifier(ctx, finding.Asset)
		if allocErr != nil {
			return nil, allocErr
		}
		finding.Seq = next
	default:
		return nil, err
	}

	doc, err := codec.RenderFinding(finding)
	if err != nil {
		return nil, err
	}

	images, err := c.store.WriteFinding(c.client, finding, []byte(doc), srcDir)
	if err != nil {
		return nil, err
	}
	finding.Images = images

	if err := c.db.SaveFinding(ctx, finding); err != nil {
		dir, dirErr := c.store.FindingDir(c.client, finding)
		if dirErr != nil {
			dir = srcDir
		}
		return nil, &PartialImportError{Path: dir, Err: err}
	}

	c.log.Info("Imported finding",
		"asset", finding.Asset, "slug", slug, "id", finding.Seq.String(), "images", len(images))
	return finding, nil
}

// ImportFindings imports every subdirectory of rootDir as a finding
// source, in lexical order. Unit failures are collected rather than
// aborting the batch.
func (c *Coordinator) ImportFindings(ctx context.Context, rootDir string) (*Result, error) {
	entries, err := os.ReadDir(rootDir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rootDir, err)
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	sort.Strings(dirs)

	result := &Result{BatchID: uuid.New().String()}
	c.log.Info("Starting finding import", "batch", result.BatchID, "units", len(dirs))

	for _, name := range dirs {
		srcDir := filepath.Join(rootDir, name)
		if _, err := c.ImportFinding(ctx, srcDir); err != nil {
			c.log.Error("Import unit failed", "batch", result.BatchID, "path", srcDir, "error", err)
			result.Errors = append(result.Errors, UnitError{Path: srcDir, Err: err})
			continue
		}
		result.Imported++
	}

	c.log.Info("Finished finding import",
		"batch", result.BatchID, "imported", result.Imported, "failed", len(result.Errors))
	return result, nil
}

// ImportAssets imports a markdown file holding one or more asset
// blocks separated by horizontal rules. Each asset is upserted and its
// document rewritten in canonical form.
func (c *Coordinator) ImportAssets(ctx context.Context, path string) (*Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	result := &Result{BatchID: uuid.New().String()}
	for i, block := range codec.SplitAssetBlocks(string(raw)) {
		asset, parseErr := codec.ParseAsset(block)
		if parseErr != nil {
			result.Errors = append(result.Errors, UnitError{
				Path: fmt.Sprintf("%s#%d", path, i+1),
				Err:  parseErr,
			})
			continue
		}
		if importErr := c.importAsset(ctx, asset); importErr != nil {
			result.Errors = append(result.Errors, UnitError{Path: asset.Name, Err: importErr})
			continue
		}
		result.Imported++
	}

	c.log.Info("Finished asset import",
		"batch", result.BatchID, "imported", result.Imported, "failed", len(result.Errors))
	return result, nil
}

func (c *Coordinator) importAsset(ctx context.Context, asset *models.Asset) error {
	if err := c.store.WriteAsset(c.client, asset, []byte(codec.RenderAsset(asset))); err != nil {
		return err
	}
	if _, err := c.db.UpsertAsset(ctx, asset); err != nil {
		findingsDir, dirErr := c.store.FindingsDir(c.client)
		if dirErr != nil {
			return err
		}
		return &PartialImportError{Path: filepath.Join(findingsDir, asset.Name), Err: err}
	}
	return nil
}

func findSoleDocument(srcDir string) (string, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", srcDir, err)
	}

	var docs []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".md") {
			docs = append(docs, entry.Name())
		}
	}
	if len(docs) != 1 {
		return "", &AmbiguousSourceError{Path: srcDir, Count: len(docs)}
	}
	return filepath.Join(srcDir, docs[0]), nil
}

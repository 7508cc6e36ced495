// Package query is the read and mutation surface over one client's
// store. Searches and exports only touch the database; status updates
// rewrite the on-disk document before committing the row so the two
// representations stay in step.
package query

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/joshsymonds/lantern/internal/codec"
	"github.com/joshsymonds/lantern/internal/database"
	"github.com/joshsymonds/lantern/internal/importer"
	"github.com/joshsymonds/lantern/internal/models"
	"github.com/joshsymonds/lantern/internal/store"
	"github.com/joshsymonds/lantern/pkg/logger"
)

// csvHeader is the fixed export column order.
var csvHeader = []string{
	"identifier", "title", "severity", "asset", "date", "location", "status", "description",
}

// Facade bundles the query operations for one client.
type Facade struct {
	db     *database.DB
	store  *store.Store
	client string
	log    logger.Logger
}

// New creates a Facade for the given client.
func New(db *database.DB, st *store.Store, client string, log logger.Logger) *Facade {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Facade{db: db, store: st, client: client, log: log.With("client", client)}
}

// Search returns findings matching the filter, most severe first.
func (q *Facade) Search(ctx context.Context, filter database.SearchFilter) ([]models.Finding, error) {
	if filter.Asset != "" {
		filter.Asset = models.NormalizeAssetName(filter.Asset)
	}
	return q.db.SearchFindings(ctx, filter)
}

// ListAssets returns assets, optionally filtered by criticality.
func (q *Facade) ListAssets(ctx context.Context, criticality string) ([]models.Asset, error) {
	return q.db.ListAssets(ctx, criticality)
}

// FindingsInRange returns findings in chronological order, constrained
// by the filter's asset and date bounds.
func (q *Facade) FindingsInRange(ctx context.Context, filter database.RangeFilter) ([]models.Finding, error) {
	if filter.Asset != "" {
		filter.Asset = models.NormalizeAssetName(filter.Asset)
	}
	return q.db.FindingsInRange(ctx, filter)
}

// SeverityCounts tallies findings per severity within the filter.
func (q *Facade) SeverityCounts(ctx context.Context, filter database.RangeFilter) (models.SeverityCounts, error) {
	if filter.Asset != "" {
		filter.Asset = models.NormalizeAssetName(filter.Asset)
	}
	return q.db.SeverityCounts(ctx, filter)
}

// UpdateStatus changes a finding's workflow status. The document is
// rewritten first; a database failure after that point surfaces as a
// partial-import error so the caller knows a re-import reconciles it.
func (q *Facade) UpdateStatus(ctx context.Context, asset string, seq models.Identifier, status models.Status) (*models.Finding, error) {
	asset = models.NormalizeAssetName(asset)

	finding, err := q.db.GetFinding(ctx, asset, seq)
	if err != nil {
		return nil, err
	}
	finding.Status = status

	doc, err := codec.RenderFinding(finding)
	if err != nil {
		return nil, err
	}
	if err := q.store.WriteFindingDoc(q.client, finding, []byte(doc)); err != nil {
		return nil, err
	}

	if err := q.db.SetFindingStatus(ctx, asset, seq, status); err != nil {
		dir, dirErr := q.store.FindingDir(q.client, finding)
		if dirErr != nil {
			dir = finding.DirName()
		}
		return nil, &importer.PartialImportError{Path: dir, Err: err}
	}

	q.log.Info("Updated status", "asset", asset, "id", seq.String(), "status", status.String())
	return finding, nil
}

// ExportCSV writes findings in the range as CSV, header row included.
func (q *Facade) ExportCSV(ctx context.Context, w io.Writer, filter database.RangeFilter) error {
	findings, err := q.FindingsInRange(ctx, filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, f := range findings {
		record := []string{
			f.Seq.String(),
			f.Title,
			f.Severity.String(),
			f.Asset,
			f.Date,
			f.Location,
			f.Status.String(),
			f.Body,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Wipe clears both representations for the client. Rows go first so a
// failure partway leaves only orphan documents, which a re-import can
// always rebuild from.
func (q *Facade) Wipe(ctx context.Context) error {
	if err := q.db.Wipe(ctx); err != nil {
		return err
	}
	if err := q.store.WipeClient(q.client); err != nil {
		return err
	}
	q.log.Info("Wiped client data")
	return nil
}

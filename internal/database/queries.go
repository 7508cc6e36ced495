package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/joshsymonds/lantern/internal/models"
)

// ---------------------------------------------------------------------------
// Assets
// ---------------------------------------------------------------------------

// UpsertAsset inserts an asset or, when the name already exists, overwrites
// its metadata. Returns the row id. The asset's name must already be
// normalized.
func (db *DB) UpsertAsset(ctx context.Context, asset *models.Asset) (int64, error) {
	query := `
		INSERT INTO assets (name, description, contact, criticality, dns_or_ip)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			description = excluded.description,
			contact = excluded.contact,
			criticality = excluded.criticality,
			dns_or_ip = excluded.dns_or_ip
	`

	if _, err := db.ExecContext(ctx, query,
		asset.Name, asset.Description, asset.Contact, asset.Criticality, asset.DNSOrIP,
	); err != nil {
		return 0, fmt.Errorf("upserting asset: %w", err)
	}

	var id int64
	if err := db.QueryRowContext(ctx, `SELECT id FROM assets WHERE name = ?`, asset.Name).Scan(&id); err != nil {
		return 0, fmt.Errorf("querying asset id: %w", err)
	}

	asset.ID = id
	return id, nil
}

// EnsureAsset inserts an asset with all-default fields if no asset with the
// name exists. Unlike UpsertAsset it never overwrites existing metadata.
// Returns the row id and whether the asset was created.
func (db *DB) EnsureAsset(ctx context.Context, name string) (int64, bool, error) {
	result, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO assets (name) VALUES (?)`, name)
	if err != nil {
		return 0, false, fmt.Errorf("ensuring asset: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("getting rows affected: %w", err)
	}

	var id int64
	if err := db.QueryRowContext(ctx, `SELECT id FROM assets WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, false, fmt.Errorf("querying asset id: %w", err)
	}

	return id, inserted > 0, nil
}

// GetAsset retrieves an asset by its normalized name.
func (db *DB) GetAsset(ctx context.Context, name string) (*models.Asset, error) {
	query := `SELECT id, name, description, contact, criticality, dns_or_ip FROM assets WHERE name = ?`

	asset := &models.Asset{}
	err := db.QueryRowContext(ctx, query, name).Scan(
		&asset.ID, &asset.Name, &asset.Description, &asset.Contact, &asset.Criticality, &asset.DNSOrIP,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Kind: "asset", Key: name}
	}
	if err != nil {
		return nil, fmt.Errorf("querying asset: %w", err)
	}

	return asset, nil
}

// ListAssets retrieves assets ordered by name, optionally filtered by
// criticality (matched case-insensitively).
func (db *DB) ListAssets(ctx context.Context, criticality string) ([]models.Asset, error) {
	query := `SELECT id, name, description, contact, criticality, dns_or_ip FROM assets`
	var args []any

	if criticality != "" {
		query += ` WHERE LOWER(criticality) = LOWER(?)`
		args = append(args, criticality)
	}
	query += ` ORDER BY name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying assets: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var assets []models.Asset
	for rows.Next() {
		var asset models.Asset
		if err := rows.Scan(
			&asset.ID, &asset.Name, &asset.Description, &asset.Contact, &asset.Criticality, &asset.DNSOrIP,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		assets = append(assets, asset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return assets, nil
}

// ---------------------------------------------------------------------------
// Identifier allocation
// ---------------------------------------------------------------------------

// NextIdentifier returns the next per-asset identifier: one past the highest
// identifier ever assigned under the asset. Identifiers deleted rows held
// are never reused. The caller persists the allocation as part of the same
// commit that creates the finding; this method only reads.
func (db *DB) NextIdentifier(ctx context.Context, asset string) (models.Identifier, error) {
	var maxSeq sql.NullInt64
	err := db.QueryRowContext(ctx,
		`SELECT MAX(seq) FROM findings WHERE asset = ?`, asset).Scan(&maxSeq)
	if err != nil {
		return 0, fmt.Errorf("querying max identifier: %w", err)
	}

	if maxSeq.Valid {
		return models.Identifier(maxSeq.Int64 + 1), nil
	}
	return models.Identifier(1), nil
}

// ---------------------------------------------------------------------------
// Findings
// ---------------------------------------------------------------------------

// LookupFinding retrieves a finding by its upsert key (asset, slug).
func (db *DB) LookupFinding(ctx context.Context, asset, slug string) (*models.Finding, error) {
	query := findingSelect + ` WHERE asset = ? AND slug = ?`

	finding, err := db.queryOneFinding(ctx, query, asset, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Kind: "finding", Key: fmt.Sprintf("%s/%s", asset, slug)}
	}
	return finding, err
}

// GetFinding retrieves a finding by its asset and identifier.
func (db *DB) GetFinding(ctx context.Context, asset string, seq models.Identifier) (*models.Finding, error) {
	query := findingSelect + ` WHERE asset = ? AND seq = ?`

	finding, err := db.queryOneFinding(ctx, query, asset, int64(seq))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Kind: "finding", Key: fmt.Sprintf("%s/%s", asset, seq)}
	}
	return finding, err
}

// SaveFinding commits a finding row, matching on (asset, slug). An existing
// row keeps its identifier; the finding's Seq must already be set (from
// NextIdentifier for new findings, from the existing row otherwise). The
// image list is replaced, not merged. Row and images commit in one
// transaction.
func (db *DB) SaveFinding(ctx context.Context, f *models.Finding) error {
	return db.InTransaction(ctx, func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM findings WHERE asset = ? AND slug = ?`, f.Asset, f.Slug,
		).Scan(&id)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			result, insErr := tx.ExecContext(ctx, `
				INSERT INTO findings (asset, seq, slug, title, severity, date, location, body, status)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				f.Asset, int64(f.Seq), f.Slug, f.Title, f.Severity.String(),
				f.Date, f.Location, f.Body, f.Status.String(),
			)
			if insErr != nil {
				return fmt.Errorf("inserting finding: %w", insErr)
			}
			if id, insErr = result.LastInsertId(); insErr != nil {
				return fmt.Errorf("getting finding id: %w", insErr)
			}
		case err != nil:
			return fmt.Errorf("querying finding id: %w", err)
		default:
			// Existing row keeps its identifier.
			if _, updErr := tx.ExecContext(ctx, `
				UPDATE findings
				SET title = ?, severity = ?, date = ?, location = ?, body = ?, status = ?
				WHERE id = ?`,
				f.Title, f.Severity.String(), f.Date, f.Location, f.Body, f.Status.String(), id,
			); updErr != nil {
				return fmt.Errorf("updating finding: %w", updErr)
			}
		}
		f.ID = id

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM finding_images WHERE finding_id = ?`, id); err != nil {
			return fmt.Errorf("clearing images: %w", err)
		}
		for _, img := range f.Images {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO finding_images (finding_id, path) VALUES (?, ?)`, id, img); err != nil {
				return fmt.Errorf("inserting image: %w", err)
			}
		}

		return nil
	})
}

// SearchFindings retrieves findings matching the filter, most severe first,
// then newest.
func (db *DB) SearchFindings(ctx context.Context, filter SearchFilter) ([]models.Finding, error) {
	query := findingSelect + ` WHERE 1=1`
	var args []any

	if filter.Text != "" {
		query += ` AND (LOWER(title) LIKE ? OR LOWER(body) LIKE ? OR LOWER(location) LIKE ?)`
		pattern := "%" + strings.ToLower(filter.Text) + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if filter.Severity != nil {
		query += ` AND severity = ?`
		args = append(args, filter.Severity.String())
	}
	if filter.Asset != "" {
		query += ` AND asset = ?`
		args = append(args, filter.Asset)
	}
	if filter.Status != nil {
		query += ` AND status = ?`
		args = append(args, filter.Status.String())
	}

	query += ` ORDER BY ` + severityRankCase + `, date DESC, asset, seq`

	return db.queryFindings(ctx, query, args...)
}

// FindingsInRange retrieves findings for export, ordered by date then
// identifier. Undated findings appear only when no date bound is set.
func (db *DB) FindingsInRange(ctx context.Context, filter RangeFilter) ([]models.Finding, error) {
	query := findingSelect + ` WHERE 1=1`
	var args []any

	if filter.Asset != "" {
		query += ` AND asset = ?`
		args = append(args, filter.Asset)
	}
	if filter.dated() {
		query += ` AND date <> ''`
		if filter.From != "" {
			query += ` AND date >= ?`
			args = append(args, filter.From)
		}
		if filter.To != "" {
			query += ` AND date <= ?`
			args = append(args, filter.To)
		}
	}

	query += ` ORDER BY date, asset, seq`

	return db.queryFindings(ctx, query, args...)
}

// SeverityCounts tallies findings per severity within the range filter.
func (db *DB) SeverityCounts(ctx context.Context, filter RangeFilter) (models.SeverityCounts, error) {
	query := `SELECT severity, COUNT(*) FROM findings WHERE 1=1`
	var args []any

	if filter.Asset != "" {
		query += ` AND asset = ?`
		args = append(args, filter.Asset)
	}
	if filter.dated() {
		query += ` AND date <> ''`
		if filter.From != "" {
			query += ` AND date >= ?`
			args = append(args, filter.From)
		}
		if filter.To != "" {
			query += ` AND date <= ?`
			args = append(args, filter.To)
		}
	}
	query += ` GROUP BY severity`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return models.SeverityCounts{}, fmt.Errorf("querying severity counts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var counts models.SeverityCounts
	for rows.Next() {
		var severity string
		var n int
		if err := rows.Scan(&severity, &n); err != nil {
			return models.SeverityCounts{}, fmt.Errorf("scanning row: %w", err)
		}
		if sev, err := models.ParseSeverity(severity); err == nil {
			counts.Add(sev, n)
		}
	}

	if err := rows.Err(); err != nil {
		return models.SeverityCounts{}, fmt.Errorf("iterating rows: %w", err)
	}

	return counts, nil
}

// SetFindingStatus updates the status of the finding identified by asset
// and identifier.
func (db *DB) SetFindingStatus(ctx context.Context, asset string, seq models.Identifier, status models.Status) error {
	result, err := db.ExecContext(ctx,
		`UPDATE findings SET status = ? WHERE asset = ? AND seq = ?`,
		status.String(), asset, int64(seq))
	if err != nil {
		return fmt.Errorf("updating finding status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return &NotFoundError{Kind: "finding", Key: fmt.Sprintf("%s/%s", asset, seq)}
	}

	return nil
}

// Wipe deletes every finding, image, and asset row.
func (db *DB) Wipe(ctx context.Context) error {
	return db.InTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM finding_images`,
			`DELETE FROM findings`,
			`DELETE FROM assets`,
		} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("wiping table: %w", err)
			}
		}
		return nil
	})
}

// ---------------------------------------------------------------------------
// Row mapping helpers
// ---------------------------------------------------------------------------

const findingSelect = `SELECT id, asset, seq, slug, title, severity, date, location, body, status FROM findings`

func (db *DB) queryOneFinding(ctx context.Context, query string, args ...any) (*models.Finding, error) {
	row := db.QueryRowContext(ctx, query, args...)

	finding, err := scanFinding(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("querying finding: %w", err)
	}

	if err := db.loadImages(ctx, finding); err != nil {
		return nil, err
	}
	return finding, nil
}

func (db *DB) queryFindings(ctx context.Context, query string, args ...any) ([]models.Finding, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying findings: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var findings []models.Finding
	for rows.Next() {
		finding, err := scanFinding(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		findings = append(findings, *finding)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	for i := range findings {
		if err := db.loadImages(ctx, &findings[i]); err != nil {
			return nil, err
		}
	}

	return findings, nil
}

// scanFinding maps a row onto a Finding. Severity and status columns hold
// canonical tokens; anything else in a hand-edited database is a data error.
func scanFinding(scan func(...any) error) (*models.Finding, error) {
	var f models.Finding
	var seq int64
	var severity, status string

	if err := scan(
		&f.ID, &f.Asset, &seq, &f.Slug, &f.Title, &severity,
		&f.Date, &f.Location, &f.Body, &status,
	); err != nil {
		return nil, err
	}

	f.Seq = models.Identifier(seq)

	sev, err := models.ParseSeverity(severity)
	if err != nil {
		return nil, err
	}
	f.Severity = sev

	st, err := models.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	f.Status = st

	return &f, nil
}

func (db *DB) loadImages(ctx context.Context, f *models.Finding) error {
	rows, err := db.QueryContext(ctx,
		`SELECT path FROM finding_images WHERE finding_id = ? ORDER BY path`, f.ID)
	if err != nil {
		return fmt.Errorf("querying images: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
		f.Images = append(f.Images, path)
	}

	return rows.Err()
}

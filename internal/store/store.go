// Package store manages the on-disk mirror of the finding database.
// Every record committed to SQLite has a human-readable markdown twin
// under the client's findings tree; the tree is authoritative enough to
// rebuild the database from scratch via a bulk import.
package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joshsymonds/lantern/internal/models"
	"github.com/joshsymonds/lantern/pkg/logger"
	"github.com/joshsymonds/lantern/pkg/pathutil"
)

const (
	clientsDirName     = "clients"
	findingsDirName    = "findings"
	databaseFileName   = "lantern.db"
	assetDocFileName   = "asset.md"
	findingDocFileName = "finding.md"
	imagesDirName      = "img"
	defaultPointerName = "default_client"

	dirPerm  = 0o755
	filePerm = 0o644
)

// Error wraps a filesystem failure with the operation and path that
// produced it.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Store owns a Lantern root directory and its per-client subtrees.
type Store struct {
	root string
	log  logger.Logger
}

// New creates a Store rooted at root, creating the root and clients
// directories if they do not exist.
func New(root string, log logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	if err := os.MkdirAll(filepath.Join(root, clientsDirName), dirPerm); err != nil {
		return nil, &Error{Op: "create", Path: root, Err: err}
	}
	return &Store{root: root, log: log}, nil
}

// Root returns the root directory the store was opened at.
func (s *Store) Root() string {
	return s.root
}

// ClientDir returns the directory owned by the named client.
func (s *Store) ClientDir(client string) (string, error) {
	if err := validateClientName(client); err != nil {
		return "", err
	}
	return pathutil.JoinAndValidate(s.root, clientsDirName, client)
}

// DatabasePath returns the path of the client's SQLite file.
func (s *Store) DatabasePath(client string) (string, error) {
	dir, err := s.ClientDir(client)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, databaseFileName), nil
}

// FindingsDir returns the root of the client's findings tree.
func (s *Store) FindingsDir(client string) (string, error) {
	dir, err := s.ClientDir(client)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, findingsDirName), nil
}

// ClientExists reports whether the named client has a directory.
func (s *Store) ClientExists(client string) bool {
	dir, err := s.ClientDir(client)
	if err != nil {
		return false
	}
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

// ClientNames lists all clients in lexical order.
func (s *Store) ClientNames() ([]string, error) {
	clientsDir := filepath.Join(s.root, clientsDirName)
	entries, err := os.ReadDir(clientsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &Error{Op: "list", Path: clientsDir, Err: err}
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// CreateClient creates the directory skeleton for a new client. It
// fails if the client already exists.
func (s *Store) CreateClient(client string) error {
	dir, err := s.ClientDir(client)
	if err != nil {
		return err
	}
	if s.ClientExists(client) {
		return &Error{Op: "create", Path: dir, Err: os.ErrExist}
	}
	if err := os.MkdirAll(filepath.Join(dir, findingsDirName), dirPerm); err != nil {
		return &Error{Op: "create", Path: dir, Err: err}
	}
	s.log.Info("Created client", "client", client, "dir", dir)
	return nil
}

// DeleteClient removes a client's entire subtree, database included.
// If the client was the default, the default pointer is cleared.
func (s *Store) DeleteClient(client string) error {
	dir, err := s.ClientDir(client)
	if err != nil {
		return err
	}
	if !s.ClientExists(client) {
		return &Error{Op: "delete", Path: dir, Err: os.ErrNotExist}
	}
	if err := os.RemoveAll(dir); err != nil {
		return &Error{Op: "delete", Path: dir, Err: err}
	}

	def, err := s.DefaultClient()
	if err == nil && def == client {
		pointer := filepath.Join(s.root, defaultPointerName)
		if rmErr := os.Remove(pointer); rmErr != nil && !os.IsNotExist(rmErr) {
			return &Error{Op: "delete", Path: pointer, Err: rmErr}
		}
	}
	s.log.Info("Deleted client", "client", client)
	return nil
}

// DefaultClient returns the client named by the default pointer, or ""
// when no default has been set.
func (s *Store) DefaultClient() (string, error) {
	pointer := filepath.Join(s.root, defaultPointerName)
	data, err := os.ReadFile(pointer)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", &Error{Op: "read", Path: pointer, Err: err}
	}
	return strings.TrimSpace(string(data)), nil
}

// SetDefaultClient records client as the default. The pointer is
// written to a temporary file and renamed so readers never observe a
// partial write.
func (s *Store) SetDefaultClient(client string) error {
	if err := validateClientName(client); err != nil {
		return err
	}
	if !s.ClientExists(client) {
		return &Error{Op: "default", Path: client, Err: os.ErrNotExist}
	}

	pointer := filepath.Join(s.root, defaultPointerName)
	tmp := pointer + ".tmp"
	if err := os.WriteFile(tmp, []byte(client+"\n"), filePerm); err != nil {
		return &Error{Op: "write", Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, pointer); err != nil {
		_ = os.Remove(tmp)
		return &Error{Op: "write", Path: pointer, Err: err}
	}
	s.log.Debug("Set default client", "client", client)
	return nil
}

// FindingDir returns the directory a finding's document and images live
// in, creating nothing.
func (s *Store) FindingDir(client string, f *models.Finding) (string, error) {
	findingsDir, err := s.FindingsDir(client)
	if err != nil {
		return "", err
	}
	return pathutil.JoinAndValidate(findingsDir, f.Asset, f.DirName())
}

// WriteFinding writes the finding's rendered document as finding.md
// and mirrors the source's img/ directory, replacing any images from a
// previous import. It returns the stored image paths, relative to the
// finding directory ("img/<name>"). Pass srcDir as "" to skip image
// handling.
func (s *Store) WriteFinding(client string, f *models.Finding, doc []byte, srcDir string) ([]string, error) {
	if err := s.WriteFindingDoc(client, f, doc); err != nil {
		return nil, err
	}
	if srcDir == "" {
		return nil, nil
	}

	dir, err := s.FindingDir(client, f)
	if err != nil {
		return nil, err
	}
	return s.copyImages(filepath.Join(srcDir, imagesDirName), filepath.Join(dir, imagesDirName))
}

// WriteFindingDoc rewrites only the finding's markdown document,
// leaving any images in place.
func (s *Store) WriteFindingDoc(client string, f *models.Finding, doc []byte) error {
	dir, err := s.FindingDir(client, f)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return &Error{Op: "create", Path: dir, Err: err}
	}
	docPath := filepath.Join(dir, findingDocFileName)
	if err := os.WriteFile(docPath, doc, filePerm); err != nil {
		return &Error{Op: "write", Path: docPath, Err: err}
	}
	s.log.Debug("Wrote finding document", "client", client, "path", docPath)
	return nil
}

// WriteAsset writes the asset's rendered document at the top of its
// findings subtree.
func (s *Store) WriteAsset(client string, a *models.Asset, doc []byte) error {
	findingsDir, err := s.FindingsDir(client)
	if err != nil {
		return err
	}
	assetDir, err := pathutil.JoinAndValidate(findingsDir, a.Name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(assetDir, dirPerm); err != nil {
		return &Error{Op: "create", Path: assetDir, Err: err}
	}
	docPath := filepath.Join(assetDir, assetDocFileName)
	if err := os.WriteFile(docPath, doc, filePerm); err != nil {
		return &Error{Op: "write", Path: docPath, Err: err}
	}
	s.log.Debug("Wrote asset document", "client", client, "path", docPath)
	return nil
}

// WipeClient removes the client's findings tree and recreates it empty.
// The database file is untouched; callers wipe it separately.
func (s *Store) WipeClient(client string) error {
	findingsDir, err := s.FindingsDir(client)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(findingsDir); err != nil {
		return &Error{Op: "delete", Path: findingsDir, Err: err}
	}
	if err := os.MkdirAll(findingsDir, dirPerm); err != nil {
		return &Error{Op: "create", Path: findingsDir, Err: err}
	}
	s.log.Info("Wiped findings tree", "client", client)
	return nil
}

// copyImages mirrors srcDir into dstDir. The destination is rebuilt
// from scratch so a re-import replaces rather than merges. A missing
// source directory means the finding has no images, and any images a
// prior import left behind go away with the rows that recorded them.
func (s *Store) copyImages(srcDir, dstDir string) ([]string, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		if os.IsNotExist(err) {
			if rmErr := os.RemoveAll(dstDir); rmErr != nil {
				return nil, &Error{Op: "delete", Path: dstDir, Err: rmErr}
			}
			return nil, nil
		}
		return nil, &Error{Op: "list", Path: srcDir, Err: err}
	}

	if err := os.RemoveAll(dstDir); err != nil {
		return nil, &Error{Op: "delete", Path: dstDir, Err: err}
	}
	if err := os.MkdirAll(dstDir, dirPerm); err != nil {
		return nil, &Error{Op: "create", Path: dstDir, Err: err}
	}

	var copied []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		src := filepath.Join(srcDir, entry.Name())
		dst := filepath.Join(dstDir, entry.Name())
		if err := copyFile(src, dst); err != nil {
			return copied, err
		}
		copied = append(copied, filepath.Join(imagesDirName, entry.Name()))
	}
	sort.Strings(copied)
	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return &Error{Op: "read", Path: src, Err: err}
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return &Error{Op: "write", Path: dst, Err: err}
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return &Error{Op: "write", Path: dst, Err: err}
	}
	if err := out.Close(); err != nil {
		return &Error{Op: "write", Path: dst, Err: err}
	}
	return nil
}

func validateClientName(client string) error {
	if !pathutil.SafeName(client) {
		return &Error{Op: "validate", Path: client, Err: fmt.Errorf("invalid client name %q", client)}
	}
	return nil
}

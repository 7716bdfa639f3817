// Package stage copies the CMS stub tree into a host application.
//
// Staging runs in a fixed order because later phases rely on directories
// created by earlier ones:
//
//  1. one-time backups of trees and files that are about to change
//  2. ensure every destination directory exists
//  3. copy directory entries, overwriting unconditionally
//  4. copy single files, backing up host-owned originals once
//  5. add the CMS entry to vite.config.js
//  6. append the CMS route include to routes/web.php
//
// Nothing is rolled back when a phase fails.
package stage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/cmskit/internal/logging"
)

// Stager stages stubs into the host application at Base.
type Stager struct {
	Stubs    fs.FS
	Base     string
	Suffix   string
	Backup   bool
	Mappings []Mapping
}

// Result summarizes what a staging run changed.
type Result struct {
	FilesCopied   int
	Backups       []string
	ViteUpdated   bool
	RouteAppended bool
}

// Summary renders a one-line description of the result.
func (r *Result) Summary() string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("Staged %d files, %d backups created", r.FilesCopied, len(r.Backups))
}

// New returns a Stager using the default mapping table.
func New(stubs fs.FS, base, suffix string, backup bool) *Stager {
	return &Stager{
		Stubs:    stubs,
		Base:     base,
		Suffix:   suffix,
		Backup:   backup,
		Mappings: DefaultMappings(),
	}
}

// Stage runs every staging phase in order and stops at the first error.
func (s *Stager) Stage(ctx context.Context) (*Result, error) {
	log := logging.FromContext(ctx)
	result := &Result{}

	if s.Backup {
		if err := s.backupPreexisting(result); err != nil {
			return result, err
		}
	}

	if err := s.ensureDirectories(); err != nil {
		return result, err
	}

	for _, m := range s.Mappings {
		if !m.IsDir() {
			continue
		}
		n, err := CopyTree(s.Stubs, m.Source, s.path(m.Destination))
		result.FilesCopied += n
		if err != nil {
			return result, err
		}
	}

	for _, m := range s.Mappings {
		if m.IsDir() {
			continue
		}
		if err := s.stageFile(m, result); err != nil {
			return result, err
		}
	}

	viteUpdated, err := AddViteEntry(s.path(ViteConfigFile))
	if err != nil {
		return result, err
	}
	result.ViteUpdated = viteUpdated

	routes := s.path(WebRoutesFile)
	appended, backedUp, err := AppendRouteInclude(routes, RouteInclude, s.Suffix, s.Backup)
	if backedUp {
		result.Backups = append(result.Backups, BackupPath(routes, s.Suffix))
	}
	if err != nil {
		return result, err
	}
	result.RouteAppended = appended

	log.Info().
		Ctx(ctx).
		Str("component", "stage").
		Str("operation", "stage_all").
		Int("files", result.FilesCopied).
		Int("backups", len(result.Backups)).
		Bool("vite_updated", result.ViteUpdated).
		Bool("route_appended", result.RouteAppended).
		Msg("stub files staged")

	return result, nil
}

func (s *Stager) backupPreexisting(result *Result) error {
	for _, rel := range append(append([]string{}, backupTrees...), backupFiles...) {
		p := s.path(rel)
		created, err := BackupOnce(p, s.Suffix)
		if err != nil {
			return err
		}
		if created {
			result.Backups = append(result.Backups, BackupPath(p, s.Suffix))
		}
	}
	return nil
}

func (s *Stager) ensureDirectories() error {
	for _, m := range s.Mappings {
		dir := m.Destination
		if !m.IsDir() {
			dir = path.Dir(dir)
		}
		target := s.path(dir)
		if err := os.MkdirAll(target, dirPerm); err != nil {
			return fmt.Errorf("%w: creating %s: %w", ErrWriteFailed, target, err)
		}
	}
	return nil
}

func (s *Stager) stageFile(m Mapping, result *Result) error {
	dest := s.path(m.Destination)

	if m.Kind != KindHostFile {
		if err := CopyStub(s.Stubs, m.Source, dest); err != nil {
			return err
		}
		result.FilesCopied++
		return nil
	}

	content, err := fs.ReadFile(s.Stubs, m.Source)
	if err != nil {
		return fmt.Errorf("reading stub %s: %w", m.Source, err)
	}
	backedUp, err := BackupThenOverwrite(dest, content, s.Suffix, s.Backup)
	if err != nil {
		return err
	}
	if backedUp {
		result.Backups = append(result.Backups, BackupPath(dest, s.Suffix))
	}
	result.FilesCopied++
	return nil
}

func (s *Stager) path(rel string) string {
	return filepath.Join(s.Base, filepath.FromSlash(rel))
}

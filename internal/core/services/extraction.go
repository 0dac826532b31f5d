package services

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/ytengage/internal/core/domain"
	"github.com/custodia-labs/ytengage/internal/logger"
)

// Extract copies exactly the required members of the zip archive into
// destDir and removes the archive afterwards. Other members are ignored.
// A missing member or an unreadable archive is an acquisition error.
func Extract(archivePath string, required []string, destDir string) error {
	if err := extractMembers(archivePath, required, destDir); err != nil {
		return err
	}

	if err := os.Remove(archivePath); err != nil {
		return fmt.Errorf("%w: remove archive: %w", domain.ErrAcquisition, err)
	}
	logger.Info("Extraction complete, archive deleted")
	return nil
}

func extractMembers(archivePath string, required []string, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("%w: corrupt archive %s: %w", domain.ErrAcquisition, filepath.Base(archivePath), err)
	}
	defer reader.Close()

	members := make(map[string]*zip.File, len(reader.File))
	for _, f := range reader.File {
		members[f.Name] = f
	}
	logger.Debug("Archive members: %d", len(members))

	if missing := missingMembers(members, required); len(missing) > 0 {
		return fmt.Errorf("%w: missing files in archive: %s",
			domain.ErrAcquisition, strings.Join(missing, ", "))
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("%w: create destination: %w", domain.ErrAcquisition, err)
	}

	for _, name := range required {
		if err := extractFile(members[name], destDir); err != nil {
			return err
		}
		logger.Debug("Extracted %s", name)
	}
	return nil
}

// missingMembers returns the required names absent from members, sorted.
func missingMembers(members map[string]*zip.File, required []string) []string {
	var missing []string
	for _, name := range required {
		if _, ok := members[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

func extractFile(file *zip.File, destDir string) error {
	target, err := memberPath(destDir, file.Name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("%w: create directory for %s: %w", domain.ErrAcquisition, file.Name, err)
	}

	rc, err := file.Open()
	if err != nil {
		return fmt.Errorf("%w: corrupt archive member %s: %w", domain.ErrAcquisition, file.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", domain.ErrAcquisition, file.Name, err)
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("%w: corrupt archive member %s: %w", domain.ErrAcquisition, file.Name, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: write %s: %w", domain.ErrAcquisition, file.Name, err)
	}
	return nil
}

// memberPath resolves name inside destDir, rejecting names that escape it.
func memberPath(destDir, name string) (string, error) {
	target := filepath.Join(destDir, name)
	rel, err := filepath.Rel(destDir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: archive member %q escapes destination", domain.ErrAcquisition, name)
	}
	return target, nil
}

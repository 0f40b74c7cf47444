package devstack

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/futig/agent-gateway/internal/entity"
)

// EnvFile is a required environment file seeded from a template.
type EnvFile struct {
	Label    string
	Path     string
	Template string
}

// DefaultEnvFiles are checked in order: the root file, then the backend one.
func DefaultEnvFiles() []EnvFile {
	return []EnvFile{
		{Label: "root", Path: ".env", Template: ".env.example"},
		{Label: "backend", Path: filepath.Join("backend", ".env"), Template: filepath.Join("backend", ".env.example")},
	}
}

// MissingEnvError reports an env file that was absent. Created tells whether
// the template was copied into place.
type MissingEnvError struct {
	File    EnvFile
	Created bool
	Err     error
}

func (e *MissingEnvError) Error() string {
	if e.Created {
		return fmt.Sprintf("%s not found, created it from %s", e.File.Path, e.File.Template)
	}
	return fmt.Sprintf("%s not found and could not be created from %s: %v", e.File.Path, e.File.Template, e.Err)
}

func (e *MissingEnvError) Unwrap() []error {
	if e.Err == nil {
		return []error{entity.ErrEnvFileMissing}
	}
	return []error{entity.ErrEnvFileMissing, e.Err}
}

// Ensure checks f under root. When it is missing the template is copied into
// place and a *MissingEnvError is returned either way, so the caller stops.
func (f EnvFile) Ensure(root string) error {
	target := filepath.Join(root, f.Path)

	if _, err := os.Stat(target); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", target, err)
	}

	if err := copyFile(filepath.Join(root, f.Template), target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %v", entity.ErrTemplateMissing, err)
		}
		return &MissingEnvError{File: f, Err: err}
	}

	return &MissingEnvError{File: f, Created: true}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	// O_EXCL: never clobber a file that appeared in the meantime.
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

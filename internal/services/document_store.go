package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DocumentKind names one of the profile's upload slots.
type DocumentKind string

const (
	DocumentPhoto     DocumentKind = "photo"
	DocumentResume    DocumentKind = "resume"
	DocumentIDProof   DocumentKind = "id_proof"
	DocumentMarksheet DocumentKind = "marksheet"
)

// DocumentKinds lists the slots in form order.
var DocumentKinds = []DocumentKind{DocumentPhoto, DocumentResume, DocumentIDProof, DocumentMarksheet}

type documentRule struct {
	dir            string
	maxBytes       int64
	label          string
	declaredPrefix string
	allowed        []string
	typeMessage    string
}

const mb = 1 << 20

var documentRules = map[DocumentKind]documentRule{
	DocumentPhoto: {
		dir:            "student_photos",
		maxBytes:       5 * mb,
		label:          "Photo",
		declaredPrefix: "image/",
		allowed:        []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
		typeMessage:    "Only image files are allowed for photo",
	},
	DocumentResume: {
		dir:      "resumes",
		maxBytes: 10 * mb,
		label:    "Resume",
		allowed: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
		typeMessage: "Resume must be a PDF or Word document",
	},
	DocumentIDProof: {
		dir:         "id_proofs",
		maxBytes:    10 * mb,
		label:       "ID proof",
		allowed:     []string{"application/pdf", "image/jpeg", "image/png"},
		typeMessage: "ID proof must be a PDF, JPEG or PNG file",
	},
	DocumentMarksheet: {
		dir:         "marksheets",
		maxBytes:    10 * mb,
		label:       "Marksheet",
		allowed:     []string{"application/pdf", "image/jpeg", "image/png"},
		typeMessage: "Marksheet must be a PDF, JPEG or PNG file",
	},
}

// DocumentStore persists uploaded files and returns a path relative to the media root.
type DocumentStore interface {
	Save(ctx context.Context, kind DocumentKind, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, relPath string) error
}

// LocalDocumentStore writes files under a root directory on local disk.
type LocalDocumentStore struct {
	root string
}

func NewLocalDocumentStore(root string) *LocalDocumentStore {
	return &LocalDocumentStore{root: root}
}

func (s *LocalDocumentStore) Save(ctx context.Context, kind DocumentKind, filename string, r io.Reader) (string, error) {
	rule, ok := documentRules[kind]
	if !ok {
		return "", fmt.Errorf("unknown document kind %q", kind)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, rule.dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	name := uuid.NewString() + safeExt(filename)
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	return path.Join(rule.dir, name), nil
}

// Delete removes a file previously returned by Save. Missing files are not an error.
func (s *LocalDocumentStore) Delete(ctx context.Context, relPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean := path.Clean("/" + relPath)[1:]
	if clean == "" || clean != relPath {
		return fmt.Errorf("refusing to delete %q outside the media root", relPath)
	}
	if err := os.Remove(filepath.Join(s.root, filepath.FromSlash(clean))); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", relPath, err)
	}
	return nil
}

func safeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 6 || strings.ContainsAny(ext, `/\ `) {
		return ""
	}
	return ext
}

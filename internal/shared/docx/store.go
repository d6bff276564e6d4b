package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
)

// TemplateStore resolves template identifiers to document bytes. When
// an object store is configured templates live under a bucket prefix;
// otherwise they are read from a local directory.
type TemplateStore struct {
	client   *minio.Client
	bucket   string
	prefix   string
	localDir string
}

// NewTemplateStore builds a store backed by MinIO when client is
// non-nil, falling back to localDir reads.
func NewTemplateStore(client *minio.Client, bucket, prefix, localDir string) *TemplateStore {
	return &TemplateStore{
		client:   client,
		bucket:   bucket,
		prefix:   prefix,
		localDir: localDir,
	}
}

// Load fetches the template bytes for one identifier.
func (s *TemplateStore) Load(ctx context.Context, name string) ([]byte, error) {
	if s.client != nil {
		object, err := s.client.GetObject(ctx, s.bucket, filepath.Join(s.prefix, name), minio.GetObjectOptions{})
		if err != nil {
			return nil, fmt.Errorf("fetch template %s: %w", name, err)
		}
		defer object.Close()

		content, err := io.ReadAll(object)
		if err != nil {
			return nil, fmt.Errorf("fetch template %s: %w", name, err)
		}
		return content, nil
	}

	if s.localDir == "" {
		return nil, fmt.Errorf("template %s: no template store configured", name)
	}
	content, err := os.ReadFile(filepath.Join(s.localDir, name))
	if err != nil {
		return nil, fmt.Errorf("load template %s: %w", name, err)
	}
	return content, nil
}

// WriteDocument builds a minimal docx archive around one document.xml
// body. Production templates are authored in Word; this exists so
// tests can fabricate templates without fixture files.
func WriteDocument(documentXML string) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	parts := []struct{ name, content string }{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="xml" ContentType="application/xml"/>` +
			`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
			`</Types>`},
		{"word/document.xml", documentXML},
	}
	for _, part := range parts {
		f, err := w.Create(part.name)
		if err != nil {
			return nil, err
		}
		if _, err := f.Write([]byte(part.content)); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/jurisflow/internal/model"
)

// DefaultMaxBytes bounds one input file
const DefaultMaxBytes = 16 << 20

// Loader reads document files
type Loader struct {
	maxBytes int64
}

// NewLoader creates a loader; non-positive maxBytes uses DefaultMaxBytes
func NewLoader(maxBytes int64) *Loader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Loader{maxBytes: maxBytes}
}

// readFile reads a file, failing when it exceeds the size limit
func (l *Loader) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%s: larger than %d bytes", path, l.maxBytes)
	}
	return data, nil
}

// LoadDocument reads one document from a YAML or JSON file
func (l *Loader) LoadDocument(path string) (*model.Document, error) {
	docs, err := l.LoadBatch(path)
	if err != nil {
		return nil, err
	}
	if len(docs) != 1 {
		return nil, fmt.Errorf("%s: expected one document, found %d", path, len(docs))
	}
	return docs[0], nil
}

// LoadBatch reads documents from a YAML list or mapping, a JSON array
// or object, or JSON Lines. Documents without an id are named after the
// file and their position.
func (l *Loader) LoadBatch(path string) ([]*model.Document, error) {
	data, err := l.readFile(path)
	if err != nil {
		return nil, err
	}

	var docs []*model.Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		docs, err = decodeYAML(data)
	default:
		docs, err = decodeJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base := documentID(path)
	for i, d := range docs {
		if d.ID == "" {
			if len(docs) == 1 {
				d.ID = base
			} else {
				d.ID = fmt.Sprintf("%s#%d", base, i+1)
			}
		}
	}
	return docs, nil
}

// LoadText builds a document from raw text files: the document itself
// and, optionally, the user's context notes.
func (l *Loader) LoadText(variant model.Variant, sourcePath, contextPath string) (*model.Document, error) {
	doc := &model.Document{ID: documentID(sourcePath), Variant: variant}

	source, err := l.readFile(sourcePath)
	if err != nil {
		return nil, err
	}
	doc.SourceText = string(source)

	if contextPath != "" {
		ctxText, err := l.readFile(contextPath)
		if err != nil {
			return nil, err
		}
		doc.ContextText = string(ctxText)
	}
	return doc, nil
}

func decodeYAML(data []byte) ([]*model.Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("empty document file")
	}

	node := root.Content[0]
	switch node.Kind {
	case yaml.SequenceNode:
		var docs []*model.Document
		if err := node.Decode(&docs); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
		return docs, nil
	case yaml.MappingNode:
		var doc model.Document
		if err := node.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
		return []*model.Document{&doc}, nil
	default:
		return nil, fmt.Errorf("expected a document or a list of documents")
	}
}

func decodeJSON(data []byte) ([]*model.Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document file")
	}

	if trimmed[0] == '[' {
		var docs []*model.Document
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&docs); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
		return docs, nil
	}

	// One object, or a stream of objects such as JSON Lines
	var docs []*model.Document
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	for {
		var doc model.Document
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: parse JSON: %w", len(docs)+1, err)
		}
		docs = append(docs, &doc)
	}
	return docs, nil
}

// documentID derives a readable id from a file path
func documentID(path string) string {
	base := filepath.Base(path)
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	return base
}

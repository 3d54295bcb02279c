// Package xmlfeed writes feed documents with the structured element API the
// assembler expects, backed by encoding/xml tokens.
package xmlfeed

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"bv-connector/internal/ports"
)

// Factory opens feed documents on the local filesystem.
type Factory struct{}

// NewFactory creates a new feed writer factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Open creates the document at path (creating parent directories), writes
// the XML declaration and the namespaced Feed root element, and returns a
// writer positioned inside the root.
func (Factory) Open(path, namespace string, rootAttrs map[string]string) (ports.FeedWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create feed file: %w", err)
	}
	if _, err := file.WriteString(xml.Header); err != nil {
		file.Close()
		return nil, fmt.Errorf("write xml header: %w", err)
	}

	enc := xml.NewEncoder(file)
	enc.Indent("", "  ")

	root := xml.StartElement{
		Name: xml.Name{Local: "Feed"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "xmlns"}, Value: namespace}},
	}
	// Deterministic attribute order.
	keys := make([]string, 0, len(rootAttrs))
	for k := range rootAttrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		root.Attr = append(root.Attr, xml.Attr{Name: xml.Name{Local: k}, Value: rootAttrs[k]})
	}

	w := &writer{path: path, file: file, enc: enc}
	if err := w.push(root); err != nil {
		file.Close()
		return nil, err
	}
	return w, nil
}

type writer struct {
	path  string
	file  *os.File
	enc   *xml.Encoder
	stack []string
}

func (w *writer) push(el xml.StartElement) error {
	if err := w.enc.EncodeToken(el); err != nil {
		return fmt.Errorf("start element %s: %w", el.Name.Local, err)
	}
	w.stack = append(w.stack, el.Name.Local)
	return nil
}

func (w *writer) StartElement(name string) error {
	return w.push(xml.StartElement{Name: xml.Name{Local: name}})
}

func (w *writer) WriteElement(name, text string) error {
	el := xml.StartElement{Name: xml.Name{Local: name}}
	if err := w.enc.EncodeToken(el); err != nil {
		return fmt.Errorf("start element %s: %w", name, err)
	}
	if err := w.enc.EncodeToken(xml.CharData(text)); err != nil {
		return fmt.Errorf("write text of %s: %w", name, err)
	}
	if err := w.enc.EncodeToken(xml.EndElement{Name: el.Name}); err != nil {
		return fmt.Errorf("end element %s: %w", name, err)
	}
	return nil
}

func (w *writer) EndElement() error {
	if len(w.stack) <= 1 {
		return fmt.Errorf("unbalanced end element")
	}
	name := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	if err := w.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}}); err != nil {
		return fmt.Errorf("end element %s: %w", name, err)
	}
	return nil
}

// Close ends any open elements including the root, flushes, and returns the
// local file path.
func (w *writer) Close() (string, error) {
	for len(w.stack) > 0 {
		name := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]
		if err := w.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}}); err != nil {
			w.file.Close()
			return "", fmt.Errorf("end element %s: %w", name, err)
		}
	}
	if err := w.enc.Flush(); err != nil {
		w.file.Close()
		return "", fmt.Errorf("flush feed: %w", err)
	}
	if _, err := w.file.WriteString("\n"); err != nil {
		w.file.Close()
		return "", fmt.Errorf("finish feed: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return "", fmt.Errorf("close feed file: %w", err)
	}
	return w.path, nil
}

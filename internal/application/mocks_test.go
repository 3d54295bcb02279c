package application

import (
	"context"
	"fmt"

	"bv-connector/internal/domain"
	"bv-connector/internal/ports"
)

type mockOrderRepo struct {
	countFn    func(ctx context.Context, q ports.OrderQuery) (int64, error)
	findFn     func(ctx context.Context, q ports.OrderQuery) ([]*domain.Order, error)
	markSentFn func(ctx context.Context, orderID string) error

	countCalls int
	findCalls  int
	marked     []string
}

func (m *mockOrderRepo) Count(ctx context.Context, q ports.OrderQuery) (int64, error) {
	m.countCalls++
	if m.countFn != nil {
		return m.countFn(ctx, q)
	}
	return 0, nil
}

func (m *mockOrderRepo) Find(ctx context.Context, q ports.OrderQuery) ([]*domain.Order, error) {
	m.findCalls++
	if m.findFn != nil {
		return m.findFn(ctx, q)
	}
	return nil, nil
}

func (m *mockOrderRepo) MarkSent(ctx context.Context, orderID string) error {
	if m.markSentFn != nil {
		if err := m.markSentFn(ctx, orderID); err != nil {
			return err
		}
	}
	m.marked = append(m.marked, orderID)
	return nil
}

type mockStoreRepo struct {
	stores   []*domain.Store
	groups   []*domain.StoreGroup
	websites []*domain.Website
}

func (m *mockStoreRepo) GetStore(ctx context.Context, id int64) (*domain.Store, error) {
	for _, s := range m.stores {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (m *mockStoreRepo) ListStores(ctx context.Context) ([]*domain.Store, error) {
	return m.stores, nil
}

func (m *mockStoreRepo) ListStoreGroups(ctx context.Context) ([]*domain.StoreGroup, error) {
	return m.groups, nil
}

func (m *mockStoreRepo) ListWebsites(ctx context.Context) ([]*domain.Website, error) {
	return m.websites, nil
}

type mockCatalog struct {
	products map[string]*domain.Product
	err      error
}

func (m *mockCatalog) GetProduct(ctx context.Context, productID string, storeID int64) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.products[productID], nil
}

type mockConfigRepo struct {
	forStoreFn func(ctx context.Context, storeID int64) (*domain.FeedConfig, error)
}

func (m *mockConfigRepo) ForStore(ctx context.Context, storeID int64) (*domain.FeedConfig, error) {
	return m.forStoreFn(ctx, storeID)
}

// mockWriter records every element call as a flat event list.
type mockWriter struct {
	path   string
	events []string
	closed bool
}

func (w *mockWriter) StartElement(name string) error {
	w.events = append(w.events, "<"+name+">")
	return nil
}

func (w *mockWriter) WriteElement(name, text string) error {
	w.events = append(w.events, fmt.Sprintf("<%s>%s</%s>", name, text, name))
	return nil
}

func (w *mockWriter) EndElement() error {
	w.events = append(w.events, "</>")
	return nil
}

func (w *mockWriter) Close() (string, error) {
	w.closed = true
	return w.path, nil
}

// find returns the text written for the first occurrence of an element.
func (w *mockWriter) text(name string) string {
	prefix := "<" + name + ">"
	for _, e := range w.events {
		if len(e) > len(prefix) && e[:len(prefix)] == prefix && e[len(e)-1] == '>' && e != prefix {
			return e[len(prefix) : len(e)-len(name)-3]
		}
	}
	return ""
}

// texts returns every text value written for the named element.
func (w *mockWriter) texts(name string) []string {
	prefix := "<" + name + ">"
	var out []string
	for _, e := range w.events {
		if len(e) > len(prefix) && e[:len(prefix)] == prefix && e != prefix {
			out = append(out, e[len(prefix):len(e)-len(name)-3])
		}
	}
	return out
}

type mockWriterFactory struct {
	writers []*mockWriter
	openErr error
}

func (f *mockWriterFactory) Open(path, namespace string, rootAttrs map[string]string) (ports.FeedWriter, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	w := &mockWriter{path: path}
	f.writers = append(f.writers, w)
	return w, nil
}

type mockUploader struct {
	uploadFn func(ctx context.Context, localPath, remotePath string, store *domain.Store) error
	uploads  []string
}

func (m *mockUploader) Upload(ctx context.Context, localPath, remotePath string, store *domain.Store) error {
	if m.uploadFn != nil {
		if err := m.uploadFn(ctx, localPath, remotePath, store); err != nil {
			return err
		}
	}
	m.uploads = append(m.uploads, remotePath)
	return nil
}

type mockLock struct {
	held     bool
	released bool
}

func (m *mockLock) Acquire(ctx context.Context) (bool, error) {
	return !m.held, nil
}

func (m *mockLock) Release(ctx context.Context) error {
	m.released = true
	return nil
}

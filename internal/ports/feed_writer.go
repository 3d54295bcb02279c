package ports

// FeedWriter is a generic structured document writer. Elements must be
// properly nested; Close finishes the document and returns the local file
// path it was written to.
type FeedWriter interface {
	StartElement(name string) error
	WriteElement(name, text string) error
	EndElement() error
	Close() (string, error)
}

// FeedWriterFactory opens a new document at path with the given root
// namespace and root element attributes.
type FeedWriterFactory interface {
	Open(path, namespace string, rootAttrs map[string]string) (FeedWriter, error)
}

package services

// ImageStore abstracts where image files live. The default backend is the
// local images directory; an S3 backend is available for deployments without
// a persistent disk.
type ImageStore interface {
	// Save stores content under filename, overwriting any previous file.
	Save(filename string, content []byte, contentType string) error

	// Open returns the content and content type of a stored file.
	Open(filename string) ([]byte, string, error)

	// Delete removes a stored file. Deleting a missing file is an error.
	Delete(filename string) error

	// Exists reports whether a file is stored under filename.
	Exists(filename string) bool
}

var imageStoreInstance ImageStore

// InitImageStore installs the image store backend
func InitImageStore(store ImageStore) ImageStore {
	imageStoreInstance = store
	return store
}

// GetImageStore returns the installed image store instance
func GetImageStore() ImageStore {
	return imageStoreInstance
}

// SetImageStore sets the image store instance (primarily for testing)
func SetImageStore(store ImageStore) {
	imageStoreInstance = store
}

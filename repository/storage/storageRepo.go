package storagerepo

// Repo uploads book cover images to the object store. Listings keep only the
// returned public URL.
type Repo interface {
	UploadCover(name, contentType string, data []byte) (publicURL string, err error)
}

package domain

// Archive is a compressed bundle downloaded from the dataset provider.
// It is transient: removed after extraction or when its content is unchanged.
type Archive struct {
	// Path is the location of the archive on disk.
	Path string

	// Hash is the hex-encoded content hash used for change detection.
	Hash string
}

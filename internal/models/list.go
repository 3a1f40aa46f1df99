package models

// ListDirectoryRequest is the argument map of a listDirectory call.
type ListDirectoryRequest struct {
	Path string `json:"path"`
}

// Entry describes one immediate child of a listed directory.
type Entry struct {
	// Name is the base name of the child.
	Name string `json:"name"`
	// Path is the listed path joined with Name.
	Path string `json:"path"`
	// IsDirectory reports whether Path was a directory when it was checked.
	IsDirectory bool `json:"isDirectory"`
}

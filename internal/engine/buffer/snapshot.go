package buffer

// Snapshot provides a read-only view of a buffer at a specific point in
// time. It is safe for concurrent access and will not change even if
// the original buffer is modified. The search engine consumes snapshots
// rather than live buffers so that scans never race with edits.
type Snapshot struct {
	text       string
	length     CharOffset
	revisionID RevisionID
}

// Text returns the full snapshot content as a string.
func (s *Snapshot) Text() string {
	return s.text
}

// Len returns the total snapshot length in grapheme clusters.
func (s *Snapshot) Len() CharOffset {
	return s.length
}

// RevisionID returns the revision the snapshot was taken at.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}

// IsEmpty returns true if the snapshot is empty.
func (s *Snapshot) IsEmpty() bool {
	return s.length == 0
}

package iso

// Extent locates a byte span inside the volume as a sector index plus a byte
// length. It never owns data; absolute positions are derived against the
// layout's root offset.
type Extent struct {
	Sector uint32 // First sector of the span, relative to the root offset
	Size   uint32 // Length of the span in bytes
}

// Offset returns the absolute byte offset of the extent within the image
func (e Extent) Offset(rootOffset int64) int64 {
	return rootOffset + int64(e.Sector)*SectorSize
}

// End returns the absolute byte offset one past the extent's last byte
func (e Extent) End(rootOffset int64) int64 {
	return e.Offset(rootOffset) + int64(e.Size)
}

// Sectors returns the number of sectors the extent spans
func (e Extent) Sectors() uint32 {
	return uint32((uint64(e.Size) + SectorSize - 1) / SectorSize)
}

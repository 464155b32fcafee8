package god

// ConHeaderSize is the fixed size of the con header blob
const ConHeaderSize = 0xB000

// conHeaderMagic marks the header as a LIVE package
const conHeaderMagic = "LIVE"

// newConHeaderTemplate builds the constant template every header starts
// from: a zeroed LIVE package of the fixed size. The certificate and
// signature regions ahead of the metadata block stay zeroed; the console
// treats unsigned LIVE packages the same either way.
func newConHeaderTemplate() []byte {
	buffer := make([]byte, ConHeaderSize)
	copy(buffer, conHeaderMagic)
	return buffer
}

package iso

import (
	"errors"
	"testing"
)

func TestDetectLayout(t *testing.T) {
	testCases := []struct {
		name     string
		layout   Layout
		expected Layout
	}{
		{"XSF at offset zero", LayoutXSF, LayoutXSF},
		{"GDF behind video partition", LayoutGDF, LayoutGDF},
		{"XGD3 short prefix", LayoutXGD3, LayoutXGD3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			img := newSparseImage(tc.layout.RootOffset() + 64*SectorSize)
			img.put(tc.layout.RootOffset()+descriptorSector*SectorSize, []byte(VolumeSignature))

			detected, err := DetectLayout(img)
			if err != nil {
				t.Fatalf("DetectLayout() failed: %v", err)
			}
			if detected != tc.expected {
				t.Errorf("DetectLayout() = %s, want %s", detected, tc.expected)
			}
		})
	}
}

func TestDetectLayoutPriority(t *testing.T) {
	// When several candidates carry the signature, the highest priority one
	// wins.
	img := newSparseImage(LayoutGDF.RootOffset() + 64*SectorSize)
	img.put(LayoutXSF.RootOffset()+descriptorSector*SectorSize, []byte(VolumeSignature))
	img.put(LayoutGDF.RootOffset()+descriptorSector*SectorSize, []byte(VolumeSignature))

	detected, err := DetectLayout(img)
	if err != nil {
		t.Fatalf("DetectLayout() failed: %v", err)
	}
	if detected != LayoutXSF {
		t.Errorf("DetectLayout() = %s, want XSF", detected)
	}
}

func TestDetectLayoutNoMatch(t *testing.T) {
	testCases := []struct {
		name string
		img  *sparseImage
	}{
		{"garbage signature", func() *sparseImage {
			img := newSparseImage(LayoutGDF.RootOffset() + 64*SectorSize)
			img.put(descriptorSector*SectorSize, []byte("NOT*A*VALID*SIGNATURE"))
			return img
		}()},
		{"stream shorter than every candidate", newSparseImage(0x8000)},
		{"empty stream", newSparseImage(0)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DetectLayout(tc.img)
			if !errors.Is(err, ErrSignatureNotFound) {
				t.Errorf("DetectLayout() error = %v, want ErrSignatureNotFound", err)
			}
		})
	}
}

func TestReadVolumeDescriptor(t *testing.T) {
	img := testImage()

	descriptor, err := ReadVolumeDescriptor(img, LayoutXSF)
	if err != nil {
		t.Fatalf("ReadVolumeDescriptor() failed: %v", err)
	}

	if string(descriptor.Identifier[:]) != VolumeSignature {
		t.Errorf("Identifier = %q, want %q", descriptor.Identifier[:], VolumeSignature)
	}
	if descriptor.RootDirectory.Sector != 33 {
		t.Errorf("RootDirectory.Sector = %d, want 33", descriptor.RootDirectory.Sector)
	}
	if descriptor.RootDirectory.Size != 2*SectorSize {
		t.Errorf("RootDirectory.Size = %d, want %d", descriptor.RootDirectory.Size, 2*SectorSize)
	}
	if descriptor.SectorSize != SectorSize {
		t.Errorf("SectorSize = %d, want %d", descriptor.SectorSize, SectorSize)
	}
	if descriptor.VolumeSize != 40*SectorSize {
		t.Errorf("VolumeSize = %d, want %d", descriptor.VolumeSize, 40*SectorSize)
	}
}

func TestExtent(t *testing.T) {
	e := Extent{Sector: 33, Size: 0x900}

	if offset := e.Offset(0); offset != 33*SectorSize {
		t.Errorf("Offset(0) = %d, want %d", offset, 33*SectorSize)
	}
	if offset := e.Offset(0x2080000); offset != 0x2080000+33*SectorSize {
		t.Errorf("Offset(XGD3) = %d, want %d", offset, 0x2080000+33*SectorSize)
	}
	if end := e.End(0); end != 33*SectorSize+0x900 {
		t.Errorf("End(0) = %d, want %d", end, 33*SectorSize+0x900)
	}
	if sectors := e.Sectors(); sectors != 2 {
		t.Errorf("Sectors() = %d, want 2", sectors)
	}
}

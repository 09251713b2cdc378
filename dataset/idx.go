package dataset

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"

	"ffnet/nn"
)

// Magic numbers of the IDX files holding images and labels.
const (
	idxImagesMagic = 2051
	idxLabelsMagic = 2049
)

// NumClasses is the number of distinct labels of an IDX digit dataset.
const NumClasses = 10

// Limits on header fields, so a corrupt header cannot force a huge allocation before
// any data has been read.
const (
	maxIDXImagePixels = 1 << 24
	idxChunk          = 1 << 16
)

// ReadIDXImages reads at most limit images (all of them if limit is 0) from an IDX3
// stream. Pixels are scaled from [0, 255] to [0, 1].
//
// File format:
//
//	magic number: 0x00000803 (2051)
//	number of images, rows, columns: uint32 big-endian each
//	pixels: unsigned bytes, row-major
func ReadIDXImages(r io.Reader, limit int) ([][]float64, error) {
	var header struct {
		Magic, Count, Rows, Cols uint32
	}
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, errors.Wrap(err, "failed to read images header")
	}
	if header.Magic != idxImagesMagic {
		return nil, errors.Errorf("invalid magic number: got %d, want %d", header.Magic, idxImagesMagic)
	}

	count := int(header.Count)
	if limit > 0 && limit < count {
		count = limit
	}
	size := uint64(header.Rows) * uint64(header.Cols)
	if size == 0 || size > maxIDXImagePixels {
		return nil, errors.Errorf("invalid image size %dx%d", header.Rows, header.Cols)
	}
	pixels := make([]byte, size)
	images := make([][]float64, 0, min(count, idxChunk))
	for i := 0; i < count; i++ {
		if _, err := io.ReadFull(r, pixels); err != nil {
			return nil, errors.Wrapf(err, "failed to read image %d", i)
		}
		image := make([]float64, len(pixels))
		for p, b := range pixels {
			image[p] = float64(b) / 255.0
		}
		images = append(images, image)
	}
	return images, nil
}

// ReadIDXLabels reads at most limit labels (all of them if limit is 0) from an IDX1
// stream.
//
// File format:
//
//	magic number: 0x00000801 (2049)
//	number of labels: uint32 big-endian
//	labels: unsigned bytes
func ReadIDXLabels(r io.Reader, limit int) ([]uint8, error) {
	var header struct {
		Magic, Count uint32
	}
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, errors.Wrap(err, "failed to read labels header")
	}
	if header.Magic != idxLabelsMagic {
		return nil, errors.Errorf("invalid magic number: got %d, want %d", header.Magic, idxLabelsMagic)
	}

	count := int(header.Count)
	if limit > 0 && limit < count {
		count = limit
	}
	// grow with the data actually present rather than with the header count
	labels := make([]uint8, 0, min(count, idxChunk))
	chunk := make([]uint8, idxChunk)
	for len(labels) < count {
		n := min(count-len(labels), idxChunk)
		if _, err := io.ReadFull(r, chunk[:n]); err != nil {
			return nil, errors.Wrapf(err, "failed to read labels after %d", len(labels))
		}
		labels = append(labels, chunk[:n]...)
	}
	return labels, nil
}

// IDXSamples pairs images with their one-hot encoded labels.
func IDXSamples(images [][]float64, labels []uint8) ([]nn.Sample, error) {
	if len(images) != len(labels) {
		return nil, errors.Errorf("%d images but %d labels", len(images), len(labels))
	}
	samples := make([]nn.Sample, len(images))
	for i, image := range images {
		if int(labels[i]) >= NumClasses {
			return nil, errors.Errorf("label %d of sample %d out of range", labels[i], i)
		}
		samples[i] = nn.Sample{Input: image, Expected: OneHot(NumClasses, int(labels[i]))}
	}
	return samples, nil
}

// LoadIDX reads an images file and a labels file into samples. A positive limit keeps
// only the first limit samples.
func LoadIDX(imagesPath, labelsPath string, limit int) ([]nn.Sample, error) {
	f, err := os.Open(imagesPath)
	if err != nil {
		return nil, err
	}
	images, err := ReadIDXImages(bufio.NewReader(f), limit)
	f.Close()
	if err != nil {
		return nil, errors.Wrap(err, imagesPath)
	}

	f, err = os.Open(labelsPath)
	if err != nil {
		return nil, err
	}
	labels, err := ReadIDXLabels(bufio.NewReader(f), limit)
	f.Close()
	if err != nil {
		return nil, errors.Wrap(err, labelsPath)
	}
	return IDXSamples(images, labels)
}

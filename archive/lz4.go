package archive

import (
	"archive/zip"
	"io"

	"github.com/pierrec/lz4/v4"
)

// MethodLZ4 is the zip compression method id toolbox uses for LZ4 frames.
// It is not assigned by the zip application note; only readers that
// register it (every reader this package opens) can decode such entries.
const MethodLZ4 uint16 = 0x4c5a

func lz4Compressor(w io.Writer) (io.WriteCloser, error) {
	zw := lz4.NewWriter(w)
	if err := zw.Apply(lz4.CompressionLevelOption(lz4.Fast)); err != nil {
		return nil, err
	}
	return zw, nil
}

func lz4Decompressor(r io.Reader) io.ReadCloser {
	return io.NopCloser(lz4.NewReader(r))
}

func registerLZ4Reader(zr *zip.Reader) {
	zr.RegisterDecompressor(MethodLZ4, lz4Decompressor)
}

func registerLZ4Writer(zw *zip.Writer) {
	zw.RegisterCompressor(MethodLZ4, lz4Compressor)
}

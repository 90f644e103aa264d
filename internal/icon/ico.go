package icon

import (
	"bytes"
	"encoding/binary"
)

// ICO wraps raw PNG bytes of a size×size image in a minimal ICO
// container. Windows LoadImage(IMAGE_ICON) requires ICO format; since
// Vista, ICO supports embedded PNG data directly.
func ICO(png []byte, size int) []byte {
	dim := byte(size)
	if size >= 256 {
		dim = 0 // 0 means 256
	}

	buf := new(bytes.Buffer)
	// ICONDIR header
	binary.Write(buf, binary.LittleEndian, uint16(0)) // reserved
	binary.Write(buf, binary.LittleEndian, uint16(1)) // type: 1 = ICO
	binary.Write(buf, binary.LittleEndian, uint16(1)) // count: 1 image

	// ICONDIRENTRY
	buf.WriteByte(dim)                                       // width
	buf.WriteByte(dim)                                       // height
	buf.WriteByte(0)                                         // color count
	buf.WriteByte(0)                                         // reserved
	binary.Write(buf, binary.LittleEndian, uint16(1))        // color planes
	binary.Write(buf, binary.LittleEndian, uint16(32))       // bits per pixel
	binary.Write(buf, binary.LittleEndian, uint32(len(png))) // image data size
	binary.Write(buf, binary.LittleEndian, uint32(6+1*16))   // offset to image data (header + 1 entry)

	buf.Write(png)
	return buf.Bytes()
}

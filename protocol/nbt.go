package protocol

import (
	"bytes"

	"github.com/hargrave81/minesharp-go/internal"
	"github.com/hargrave81/minesharp-go/mcerror"
	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

const tagEnd = 0x00

// ReadNBT reads a tag tree from the buffer. A leading end tag denotes an
// absent tree and yields a nil map. When anonymousRoot is true the root
// compound carries no name field on the wire, which is the shape used from
// Version764 onwards; the two-byte empty name is re-inserted before handing
// the bytes to the tag codec.
func (b *Buffer) ReadNBT(anonymousRoot bool) (map[string]any, error) {
	start := b.off
	t, err := b.ReadUint8()
	if err != nil {
		return nil, err
	}
	if t == tagEnd {
		return nil, nil
	}

	rest := b.data[b.off:]
	src := make([]byte, 0, len(rest)+3)
	src = append(src, t)
	if anonymousRoot {
		src = append(src, 0, 0)
	}
	src = append(src, rest...)

	r := bytes.NewReader(src)
	var m map[string]any
	if err := nbt.NewDecoderWithEncoding(r, nbt.BigEndian).Decode(&m); err != nil {
		b.off = start
		return nil, mcerror.New("decode tag tree: %v", err)
	}

	consumed := len(src) - r.Len()
	if anonymousRoot {
		consumed -= 2
	}
	// The leading type byte was already consumed by ReadUint8 above.
	b.off += consumed - 1
	return m, nil
}

// WriteNBT writes a tag tree to the buffer. A nil map is written as a single
// end tag. When anonymousRoot is true the root compound's empty name is
// stripped from the encoded bytes.
func (b *Buffer) WriteNBT(m map[string]any, anonymousRoot bool) error {
	if m == nil {
		b.WriteUint8(tagEnd)
		return nil
	}

	buf := internal.BufferPool.Get().(*bytes.Buffer)
	defer internal.BufferPool.Put(buf)
	buf.Reset()

	if err := nbt.NewEncoderWithEncoding(buf, nbt.BigEndian).Encode(m); err != nil {
		return mcerror.New("encode tag tree: %v", err)
	}
	enc := buf.Bytes()
	if anonymousRoot {
		b.WriteUint8(enc[0])
		b.WriteBytes(enc[3:])
		return nil
	}
	b.WriteBytes(enc)
	return nil
}

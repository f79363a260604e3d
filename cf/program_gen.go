package cf

// NOTE: THIS FILE WAS PRODUCED BY THE
// MSGP CODE GENERATION TOOL (github.com/tinylib/msgp)
// DO NOT EDIT

import (
	"github.com/tinylib/msgp/msgp"
)

// DecodeMsg implements msgp.Decodable
func (z *CompiledProgram) DecodeMsg(dc *msgp.Reader) (err error) {
	var field []byte
	_ = field
	var zb0001 uint32
	zb0001, err = dc.ReadMapHeader()
	if err != nil {
		return
	}
	for zb0001 > 0 {
		zb0001--
		field, err = dc.ReadMapKeyPtr()
		if err != nil {
			return
		}
		switch msgp.UnsafeString(field) {
		case "source":
			z.Source, err = dc.ReadString()
			if err != nil {
				return
			}
		case "blake2":
			z.Blake2, err = dc.ReadUint64()
			if err != nil {
				return
			}
		case "code":
			z.Code, err = dc.ReadBytes(z.Code)
			if err != nil {
				return
			}
		default:
			err = dc.Skip()
			if err != nil {
				return
			}
		}
	}
	return
}

// EncodeMsg implements msgp.Encodable
func (z *CompiledProgram) EncodeMsg(en *msgp.Writer) (err error) {
	// map header, size 3
	// write "source"
	err = en.Append(0x83, 0xa6, 0x73, 0x6f, 0x75, 0x72, 0x63, 0x65)
	if err != nil {
		return
	}
	err = en.WriteString(z.Source)
	if err != nil {
		return
	}
	// write "blake2"
	err = en.Append(0xa6, 0x62, 0x6c, 0x61, 0x6b, 0x65, 0x32)
	if err != nil {
		return
	}
	err = en.WriteUint64(z.Blake2)
	if err != nil {
		return
	}
	// write "code"
	err = en.Append(0xa4, 0x63, 0x6f, 0x64, 0x65)
	if err != nil {
		return
	}
	err = en.WriteBytes(z.Code)
	if err != nil {
		return
	}
	return
}

// MarshalMsg implements msgp.Marshaler
func (z *CompiledProgram) MarshalMsg(b []byte) (o []byte, err error) {
	o = msgp.Require(b, z.Msgsize())
	// map header, size 3
	// string "source"
	o = append(o, 0x83, 0xa6, 0x73, 0x6f, 0x75, 0x72, 0x63, 0x65)
	o = msgp.AppendString(o, z.Source)
	// string "blake2"
	o = append(o, 0xa6, 0x62, 0x6c, 0x61, 0x6b, 0x65, 0x32)
	o = msgp.AppendUint64(o, z.Blake2)
	// string "code"
	o = append(o, 0xa4, 0x63, 0x6f, 0x64, 0x65)
	o = msgp.AppendBytes(o, z.Code)
	return
}

// UnmarshalMsg implements msgp.Unmarshaler
func (z *CompiledProgram) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var field []byte
	_ = field
	var zb0001 uint32
	zb0001, bts, err = msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		return
	}
	for zb0001 > 0 {
		zb0001--
		field, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			return
		}
		switch msgp.UnsafeString(field) {
		case "source":
			z.Source, bts, err = msgp.ReadStringBytes(bts)
			if err != nil {
				return
			}
		case "blake2":
			z.Blake2, bts, err = msgp.ReadUint64Bytes(bts)
			if err != nil {
				return
			}
		case "code":
			z.Code, bts, err = msgp.ReadBytesBytes(bts, z.Code)
			if err != nil {
				return
			}
		default:
			bts, err = msgp.Skip(bts)
			if err != nil {
				return
			}
		}
	}
	o = bts
	return
}

// Msgsize returns an upper bound estimate of the number of bytes occupied by the serialized message
func (z *CompiledProgram) Msgsize() (s int) {
	s = 1 + 7 + msgp.StringPrefixSize + len(z.Source) + 7 + msgp.Uint64Size + 5 + msgp.BytesPrefixSize + len(z.Code)
	return
}

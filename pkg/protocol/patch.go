package protocol

import "fmt"

// Frame type bytes. The first byte of every binary message identifies
// the frame.
const (
	FramePatches byte = 0x01 // server -> client: ordered patch list
	FrameEvent   byte = 0x02 // client -> server: user interaction
	FramePing    byte = 0x03
	FramePong    byte = 0x04
)

// Patch opcodes.
const (
	OpSetAttr     byte = 0x01
	OpRemoveAttr  byte = 0x02
	OpAddClass    byte = 0x03
	OpRemoveClass byte = 0x04
	OpSetText     byte = 0x05
	OpInsertNode  byte = 0x06
	OpRemoveNode  byte = 0x07
	OpFocus       byte = 0x08
	OpBlur        byte = 0x09
)

// Patch is a single document mutation addressed by element UID.
// Field use depends on Op:
//
//	SetAttr:     Name, Value
//	RemoveAttr:  Name
//	AddClass:    Name (the class)
//	RemoveClass: Name
//	SetText:     Value
//	InsertNode:  Name (parent UID), Value (serialized HTML)
//	RemoveNode, Focus, Blur: UID only
type Patch struct {
	Op    byte
	UID   string
	Name  string
	Value string
}

func (p Patch) String() string {
	return fmt.Sprintf("patch{op=%#02x uid=%s name=%q value=%q}", p.Op, p.UID, p.Name, p.Value)
}

// PatchFrame is an ordered batch of mutations flushed to the client
// after one event dispatch. Seq increments per session so the client
// can detect gaps after reconnect.
type PatchFrame struct {
	Seq     uint64
	Patches []Patch
}

// Encode appends the frame to enc.
func (f *PatchFrame) Encode(enc *Encoder) {
	enc.WriteUint8(FramePatches)
	enc.WriteUvarint(f.Seq)
	enc.WriteUvarint(uint64(len(f.Patches)))
	for _, p := range f.Patches {
		enc.WriteUint8(p.Op)
		enc.WriteString(p.UID)
		switch p.Op {
		case OpSetAttr:
			enc.WriteString(p.Name)
			enc.WriteString(p.Value)
		case OpRemoveAttr, OpAddClass, OpRemoveClass:
			enc.WriteString(p.Name)
		case OpSetText:
			enc.WriteString(p.Value)
		case OpInsertNode:
			enc.WriteString(p.Name)
			enc.WriteString(p.Value)
		case OpRemoveNode, OpFocus, OpBlur:
			// UID only.
		}
	}
}

// DecodePatchFrame reads a patch frame, including its leading frame
// type byte.
func DecodePatchFrame(dec *Decoder) (*PatchFrame, error) {
	ft, err := dec.ReadByte()
	if err != nil {
		return nil, err
	}
	if ft != FramePatches {
		return nil, ErrUnknownFrame
	}
	seq, err := dec.ReadUvarint()
	if err != nil {
		return nil, err
	}
	count, err := dec.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	f := &PatchFrame{Seq: seq, Patches: make([]Patch, 0, count)}
	for i := 0; i < count; i++ {
		var p Patch
		if p.Op, err = dec.ReadByte(); err != nil {
			return nil, err
		}
		if p.UID, err = dec.ReadString(); err != nil {
			return nil, err
		}
		switch p.Op {
		case OpSetAttr:
			if p.Name, err = dec.ReadString(); err != nil {
				return nil, err
			}
			if p.Value, err = dec.ReadString(); err != nil {
				return nil, err
			}
		case OpRemoveAttr, OpAddClass, OpRemoveClass:
			if p.Name, err = dec.ReadString(); err != nil {
				return nil, err
			}
		case OpSetText:
			if p.Value, err = dec.ReadString(); err != nil {
				return nil, err
			}
		case OpInsertNode:
			if p.Name, err = dec.ReadString(); err != nil {
				return nil, err
			}
			if p.Value, err = dec.ReadString(); err != nil {
				return nil, err
			}
		case OpRemoveNode, OpFocus, OpBlur:
		default:
			return nil, ErrUnknownOp
		}
		f.Patches = append(f.Patches, p)
	}
	return f, nil
}

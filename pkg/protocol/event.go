package protocol

// Event type bytes for client frames.
const (
	EventClick   byte = 0x01
	EventKeydown byte = 0x02
	EventFocus   byte = 0x03
	EventBlur    byte = 0x04
	EventSubmit  byte = 0x05
)

// EventFrame is a user interaction reported by the client, addressed
// by the UID of the target element. Key and Shift are meaningful only
// for keydown.
type EventFrame struct {
	Type  byte
	UID   string
	Key   string
	Shift bool
}

// EventName maps the wire byte to the document event type dispatched
// on the server-side tree.
func (f *EventFrame) EventName() string {
	switch f.Type {
	case EventClick:
		return "click"
	case EventKeydown:
		return "keydown"
	case EventFocus:
		return "focus"
	case EventBlur:
		return "blur"
	case EventSubmit:
		return "submit"
	}
	return ""
}

// Encode appends the frame to enc, leading frame type byte included.
func (f *EventFrame) Encode(enc *Encoder) {
	enc.WriteUint8(FrameEvent)
	enc.WriteUint8(f.Type)
	enc.WriteString(f.UID)
	if f.Type == EventKeydown {
		enc.WriteString(f.Key)
		enc.WriteBool(f.Shift)
	}
}

// DecodeEventFrame reads an event frame, including its leading frame
// type byte.
func DecodeEventFrame(dec *Decoder) (*EventFrame, error) {
	ft, err := dec.ReadByte()
	if err != nil {
		return nil, err
	}
	if ft != FrameEvent {
		return nil, ErrUnknownFrame
	}
	f := &EventFrame{}
	if f.Type, err = dec.ReadByte(); err != nil {
		return nil, err
	}
	switch f.Type {
	case EventClick, EventKeydown, EventFocus, EventBlur, EventSubmit:
	default:
		return nil, ErrUnknownEvent
	}
	if f.UID, err = dec.ReadString(); err != nil {
		return nil, err
	}
	if f.Type == EventKeydown {
		if f.Key, err = dec.ReadString(); err != nil {
			return nil, err
		}
		if f.Shift, err = dec.ReadBool(); err != nil {
			return nil, err
		}
	}
	return f, nil
}

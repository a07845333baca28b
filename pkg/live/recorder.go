package live

import (
	"github.com/navkit-dev/navkit/pkg/dom"
	"github.com/navkit-dev/navkit/pkg/protocol"
)

// Recorder translates document mutations into wire patches. It
// implements dom.Observer and buffers patches until the session
// flushes them after an event dispatch. Not safe for concurrent use;
// it lives on the session's event goroutine.
type Recorder struct {
	patches []protocol.Patch
	seq     uint64
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Pending returns the number of buffered patches.
func (r *Recorder) Pending() int { return len(r.patches) }

// NextFrame drains the buffer into a sequenced frame, or returns nil
// when nothing changed.
func (r *Recorder) NextFrame() *protocol.PatchFrame {
	if len(r.patches) == 0 {
		return nil
	}
	r.seq++
	f := &protocol.PatchFrame{Seq: r.seq, Patches: r.patches}
	r.patches = nil
	return f
}

func (r *Recorder) SetAttr(el dom.Element, name, value string) {
	r.patches = append(r.patches, protocol.Patch{Op: protocol.OpSetAttr, UID: el.UID(), Name: name, Value: value})
}

func (r *Recorder) RemoveAttr(el dom.Element, name string) {
	r.patches = append(r.patches, protocol.Patch{Op: protocol.OpRemoveAttr, UID: el.UID(), Name: name})
}

func (r *Recorder) AddClass(el dom.Element, name string) {
	r.patches = append(r.patches, protocol.Patch{Op: protocol.OpAddClass, UID: el.UID(), Name: name})
}

func (r *Recorder) RemoveClass(el dom.Element, name string) {
	r.patches = append(r.patches, protocol.Patch{Op: protocol.OpRemoveClass, UID: el.UID(), Name: name})
}

func (r *Recorder) SetText(el dom.Element, text string) {
	r.patches = append(r.patches, protocol.Patch{Op: protocol.OpSetText, UID: el.UID(), Value: text})
}

func (r *Recorder) InsertNode(parent, child dom.Element, index int) {
	r.patches = append(r.patches, protocol.Patch{
		Op:    protocol.OpInsertNode,
		UID:   child.UID(),
		Name:  parent.UID(),
		Value: dom.OuterHTML(child),
	})
}

func (r *Recorder) RemoveNode(el dom.Element) {
	r.patches = append(r.patches, protocol.Patch{Op: protocol.OpRemoveNode, UID: el.UID()})
}

func (r *Recorder) Focus(el dom.Element) {
	r.patches = append(r.patches, protocol.Patch{Op: protocol.OpFocus, UID: el.UID()})
}

func (r *Recorder) Blur(el dom.Element) {
	r.patches = append(r.patches, protocol.Patch{Op: protocol.OpBlur, UID: el.UID()})
}

package vst3

import (
	"sync/atomic"

	"github.com/nidefawl/yabridge/pkg/wire"
)

// View message family, multiplexed on the control channel alongside the
// plugin requests by reusing the request envelope.
const (
	tagViewAttached uint8 = iota + 200
	tagViewRemoved
	tagViewGetSize
	tagViewOnSize
	tagViewCanResize
	tagViewDestruct
)

type viewCall struct{ ViewID uint64 }

func (c *viewCall) MarshalWire(e *wire.Encoder) { e.Uint64(c.ViewID) }
func (c *viewCall) UnmarshalWire(d *wire.Decoder) error {
	var err error
	c.ViewID, err = d.Uint64()
	return err
}

// ViewAttached embeds the foreign editor into the host's window handle.
type ViewAttached struct {
	viewCall
	Handle       uint64
	PlatformType string
}

func (m *ViewAttached) requestTag() uint8 { return tagViewAttached }
func (m *ViewAttached) MarshalWire(e *wire.Encoder) {
	m.viewCall.MarshalWire(e)
	e.Uint64(m.Handle)
	e.String(m.PlatformType)
}
func (m *ViewAttached) UnmarshalWire(d *wire.Decoder) error {
	if err := m.viewCall.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	if m.Handle, err = d.Uint64(); err != nil {
		return err
	}
	m.PlatformType, err = d.String()
	return err
}

type ViewRemoved struct{ viewCall }

func (m *ViewRemoved) requestTag() uint8 { return tagViewRemoved }

type ViewGetSize struct{ viewCall }

func (m *ViewGetSize) requestTag() uint8 { return tagViewGetSize }

// ViewGetSizeResponse returns the editor's current rectangle.
type ViewGetSizeResponse struct {
	Result Result
	Rect   ViewRect
}

func (r *ViewGetSizeResponse) MarshalWire(e *wire.Encoder) {
	e.Int32(int32(r.Result))
	marshalViewRect(e, &r.Rect)
}

func (r *ViewGetSizeResponse) UnmarshalWire(d *wire.Decoder) error {
	v, err := d.Int32()
	if err != nil {
		return err
	}
	r.Result = Result(v)
	return unmarshalViewRect(d, &r.Rect)
}

type ViewOnSize struct {
	viewCall
	Rect ViewRect
}

func (m *ViewOnSize) requestTag() uint8 { return tagViewOnSize }
func (m *ViewOnSize) MarshalWire(e *wire.Encoder) {
	m.viewCall.MarshalWire(e)
	marshalViewRect(e, &m.Rect)
}
func (m *ViewOnSize) UnmarshalWire(d *wire.Decoder) error {
	if err := m.viewCall.UnmarshalWire(d); err != nil {
		return err
	}
	return unmarshalViewRect(d, &m.Rect)
}

type ViewCanResize struct{ viewCall }

func (m *ViewCanResize) requestTag() uint8 { return tagViewCanResize }

type ViewDestruct struct{ viewCall }

func (m *ViewDestruct) requestTag() uint8 { return tagViewDestruct }

// PlugViewProxy stands in for a foreign editor view. Its lifetime is
// managed by the host's reference counting; the owning plugin proxy keeps
// only an unmanaged pointer for resize routing.
type PlugViewProxy struct {
	bridge *Bridge
	owner  *PluginProxy
	viewID uint64
	refs   int32

	// frame is the host's IPlugFrame, set through SetFrame and called
	// back when the plugin resizes its editor.
	frame PlugFrame
}

func (v *PlugViewProxy) AddRef() int32 { return atomic.AddInt32(&v.refs, 1) }

func (v *PlugViewProxy) Release() int32 {
	refs := atomic.AddInt32(&v.refs, -1)
	if refs == 0 {
		v.bridge.sendResult(&ViewDestruct{viewCall{v.viewID}})
		if v.owner.lastCreatedView == v {
			v.owner.lastCreatedView = nil
		}
	}
	return refs
}

// SetFrame installs the host's resize handler.
func (v *PlugViewProxy) SetFrame(frame PlugFrame) Result {
	v.frame = frame
	return ResultOK
}

// Attached embeds the editor into the host's window.
func (v *PlugViewProxy) Attached(handle uint64, platformType string) Result {
	return v.bridge.sendResult(&ViewAttached{viewCall: viewCall{v.viewID}, Handle: handle, PlatformType: platformType})
}

func (v *PlugViewProxy) Removed() Result {
	return v.bridge.sendResult(&ViewRemoved{viewCall{v.viewID}})
}

func (v *PlugViewProxy) GetSize() (ViewRect, Result) {
	var resp ViewGetSizeResponse
	if err := v.bridge.send(&ViewGetSize{viewCall{v.viewID}}, &resp); err != nil {
		return ViewRect{}, InternalError
	}
	return resp.Rect, resp.Result
}

func (v *PlugViewProxy) OnSize(rect ViewRect) Result {
	return v.bridge.sendResult(&ViewOnSize{viewCall: viewCall{v.viewID}, Rect: rect})
}

func (v *PlugViewProxy) CanResize() Result {
	return v.bridge.sendResult(&ViewCanResize{viewCall{v.viewID}})
}

package main

import (
	"github.com/Carmen-Shannon/oxy-dissolve/common"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/device"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/host"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/surface"
)

// recordingHost collects the completion callbacks handed to Begin.
type recordingHost struct {
	bounds    common.Rect
	completes []func()
}

var _ host.SurfaceHost = &recordingHost{}

func (h *recordingHost) Begin(_ common.Bitmap, _ common.Rect, onComplete, _ func()) {
	h.completes = append(h.completes, onComplete)
}

func (h *recordingHost) Layout(bounds common.Rect) { h.bounds = bounds }
func (h *recordingHost) Teardown()                 {}
func (h *recordingHost) Close() error              { return nil }
func (h *recordingHost) Bounds() common.Rect       { return h.bounds }
func (h *recordingHost) Scale() float64            { return 1 }
func (h *recordingHost) Surface() surface.Surface  { return nil }
func (h *recordingHost) Device() *device.Device    { return nil }
func (h *recordingHost) TornDown() bool            { return false }

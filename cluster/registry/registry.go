// Package registry binds bus message identifiers and slot offsets to gauges.
package registry

import (
	"errors"
	"fmt"
	"image"

	"m8r/cluster/decode"
	"m8r/cluster/gauge"
	"m8r/internal/config"
)

// Binding ties one slot of a message to the gauge it drives.
type Binding struct {
	ID     uint32
	Offset int
	Type   decode.ValueType
	Gauge  gauge.Gauge
}

// Apply decodes the binding's slot from payload and updates the gauge. On
// error the gauge keeps its previous value.
func (b *Binding) Apply(payload []byte) error {
	v, err := decode.Decode(payload, b.Offset, b.Type)
	if err != nil {
		return err
	}
	b.Gauge.SetValue(v)
	return nil
}

// Registry maps message identifiers to ordered bindings. Identifiers iterate in
// order of first appearance; bindings keep configuration order within an id.
// The mapping is fixed after Build; only gauge values change.
type Registry struct {
	byID  map[uint32][]*Binding
	order []uint32
	n     int
}

var errNoLimits = errors.New("dial requires min_value and max_value")

// Build instantiates every configured gauge with its static geometry.
func Build(cfg *config.Config, pal gauge.Palette) (*Registry, error) {
	r := &Registry{byID: make(map[uint32][]*Binding)}
	for i, gc := range cfg.Gauges {
		g, err := newGauge(gc, pal)
		if err != nil {
			return nil, fmt.Errorf("gauges[%d] (%q): %w", i, gc.Title, err)
		}
		t := gc.DataType.ValueType()
		if !t.Valid() {
			return nil, fmt.Errorf("gauges[%d] (%q): %w: %s", i, gc.Title, decode.ErrUnknownType, t)
		}
		r.add(&Binding{ID: gc.FrameID, Offset: cfg.SlotOffset(gc), Type: t, Gauge: g})
	}
	return r, nil
}

func (r *Registry) add(b *Binding) {
	if _, ok := r.byID[b.ID]; !ok {
		r.order = append(r.order, b.ID)
	}
	r.byID[b.ID] = append(r.byID[b.ID], b)
	r.n++
}

func newGauge(gc config.Gauge, pal gauge.Palette) (gauge.Gauge, error) {
	digits, err := gauge.ParseDigits(gc.Digits)
	if err != nil {
		return nil, err
	}
	bounds := image.Rect(gc.Point.X, gc.Point.Y, gc.Point.X+gc.Size.Width, gc.Point.Y+gc.Size.Height)

	switch gc.Kind {
	case config.KindDial:
		if gc.MinValue == nil || gc.MaxValue == nil {
			return nil, errNoLimits
		}
		d, err := gauge.NewDial(gauge.DialConfig{
			Title:      gc.Title,
			Min:        *gc.MinValue,
			Max:        *gc.MaxValue,
			Digits:     digits,
			Bounds:     bounds,
			Indicators: gc.Indicators,
			Palette:    pal,
		})
		if err != nil {
			return nil, err
		}
		return d, nil
	case config.KindTextGauge:
		t, err := gauge.NewTextGauge(gauge.TextConfig{
			Title:   gc.Title,
			Unit:    gc.Unit,
			Digits:  digits,
			Bounds:  bounds,
			Palette: pal,
		})
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unknown gauge kind %s", gc.Kind)
	}
}

// Lookup returns the bindings for id. A miss means the message carries
// nothing the cluster shows.
func (r *Registry) Lookup(id uint32) ([]*Binding, bool) {
	bs, ok := r.byID[id]
	return bs, ok
}

// Each calls fn for every binding in registry order and stops at the first error.
func (r *Registry) Each(fn func(*Binding) error) error {
	for _, id := range r.order {
		for _, b := range r.byID[id] {
			if err := fn(b); err != nil {
				return err
			}
		}
	}
	return nil
}

// Len is the number of bindings.
func (r *Registry) Len() int { return r.n }

// IDs returns the bound identifiers in registry order.
func (r *Registry) IDs() []uint32 {
	return append([]uint32(nil), r.order...)
}

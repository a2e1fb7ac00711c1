// Package gauge implements the cluster's widgets: circular dials and text readouts.
//
// A Gauge owns its visual state and draws itself onto a Canvas. Static geometry
// (rings, indicator ticks, title placement) is computed once at construction;
// SetValue only replaces the current value.
//
// Angles:
//
// Screen angles are in degrees, measured clockwise from the positive x axis
// (y grows down). A dial's value arc starts at ArcStart (6 o'clock) and sweeps
// clockwise through at most ArcRange degrees, leaving the lower-right quadrant
// open.
//
// Values outside [min, max] are not clamped: the arc and the value text follow
// the raw value, so an over-range reading sweeps past the last tick.
package gauge

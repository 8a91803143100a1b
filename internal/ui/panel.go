package ui

import (
	"image"
	"math"
	"strconv"

	"gpu-life/internal/core"
)

const (
	panelPadding   = 12
	rowHeight      = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	rowsTop        = panelPadding + headerBaseline + 14
	statusGap      = 20
	statusLine     = 16
)

// row is one adjustable parameter with its last observed value and the
// button rectangles in panel coordinates.
type row struct {
	ctrl  core.ParameterControl
	value float64
	known bool
	minus image.Rectangle
	plus  image.Rectangle
}

// Panel is the layout and adjustment logic behind the HUD, kept free of any
// drawing so it can run headless.
type Panel struct {
	src   core.ParameterProvider
	ints  core.IntParameterSetter
	flts  core.FloatParameterSetter
	width int
	rows  []row
	snap  core.ParameterSnapshot
}

// NewPanel lays out the controls src exposes in a panel width pixels wide.
func NewPanel(src core.ParameterProvider, width int) *Panel {
	p := &Panel{src: src, width: max(0, width)}
	p.ints, _ = src.(core.IntParameterSetter)
	p.flts, _ = src.(core.FloatParameterSetter)
	if cp, ok := src.(core.ParameterControlsProvider); ok {
		for i, ctrl := range cp.ParameterControls() {
			top := rowsTop + i*rowHeight + (rowHeight-buttonSize)/2
			plus := image.Rect(p.width-panelPadding-buttonSize, top, p.width-panelPadding, top+buttonSize)
			minus := plus.Sub(image.Pt(buttonSize+buttonGap, 0))
			p.rows = append(p.rows, row{ctrl: ctrl, minus: minus, plus: plus})
		}
	}
	return p
}

// Refresh pulls a new snapshot and updates the displayed values.
func (p *Panel) Refresh() {
	p.snap = p.src.Parameters()
	for i := range p.rows {
		r := &p.rows[i]
		r.known = false
		param, ok := p.snap.Lookup(r.ctrl.Key)
		if !ok {
			continue
		}
		if v, err := strconv.ParseFloat(param.Value, 64); err == nil {
			r.value, r.known = v, true
		}
	}
}

// Click handles a press at panel coordinates (x, y). It reports whether a
// parameter changed.
func (p *Panel) Click(x, y int) bool {
	pt := image.Pt(x, y)
	for i := range p.rows {
		switch {
		case pt.In(p.rows[i].minus):
			return p.adjust(&p.rows[i], -1)
		case pt.In(p.rows[i].plus):
			return p.adjust(&p.rows[i], 1)
		}
	}
	return false
}

// target returns the clamped value one step in dir, and whether it differs
// from the current one.
func (r *row) target(dir int) (float64, bool) {
	if !r.known {
		return 0, false
	}
	step := r.ctrl.Step
	if step <= 0 {
		step = 1
		if r.ctrl.Type == core.ParamTypeFloat {
			step = 0.05
		}
	}
	v := r.value + float64(dir)*step
	if r.ctrl.HasMin {
		v = math.Max(v, r.ctrl.Min)
	}
	if r.ctrl.HasMax {
		v = math.Min(v, r.ctrl.Max)
	}
	if r.ctrl.Type == core.ParamTypeInt {
		v = math.Round(v)
	}
	return v, math.Abs(v-r.value) > 1e-9
}

func (p *Panel) adjust(r *row, dir int) bool {
	v, ok := r.target(dir)
	if !ok {
		return false
	}
	switch r.ctrl.Type {
	case core.ParamTypeInt:
		ok = p.ints != nil && p.ints.SetIntParameter(r.ctrl.Key, int(v))
	case core.ParamTypeFloat:
		ok = p.flts != nil && p.flts.SetFloatParameter(r.ctrl.Key, v)
	default:
		ok = false
	}
	if ok {
		r.value = v
	}
	return ok
}

// text renders a row's value with a precision matching its step.
func (r *row) text() string {
	if !r.known {
		return "--"
	}
	if r.ctrl.Type == core.ParamTypeInt {
		return strconv.FormatInt(int64(r.value), 10)
	}
	prec := 1
	switch step := r.ctrl.Step; {
	case step > 0 && step < 0.001:
		prec = 4
	case step > 0 && step < 0.01:
		prec = 3
	case step <= 0 || step < 0.1:
		prec = 2
	}
	return strconv.FormatFloat(r.value, 'f', prec, 64)
}

// status lists the read-only parameters as "Label: value" lines.
func (p *Panel) status() []string {
	adjustable := make(map[string]bool, len(p.rows))
	for _, r := range p.rows {
		adjustable[r.ctrl.Key] = true
	}
	var lines []string
	for _, g := range p.snap.Groups {
		for _, param := range g.Params {
			if !adjustable[param.Key] {
				lines = append(lines, param.Label+": "+param.Value)
			}
		}
	}
	return lines
}

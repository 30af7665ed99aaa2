package panel

import (
	"image"
	"image/color"
	"math"
	"time"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"aura/internal/i18n"
	"aura/internal/session"
)

// Opacity of the toggle button while it is disabled.
const disabledOpacity = 0.4

// drawPanel draws the whole window for the current model.
func drawPanel(gtx layout.Context, cfg Config, m model, samples []float32, btn *widget.Clickable) {
	drawBackground(gtx, cfg.BGColor)

	layout.UniformInset(unit.Dp(12)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						return drawToggleButton(gtx, btn, cfg, m.control, time.Since(m.stateSince))
					}),
					layout.Rigid(layout.Spacer{Width: unit.Dp(12)}.Layout),
					layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
						return drawTextLines(gtx, cfg, m)
					}),
				)
			}),

			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),

			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				switch m.state {
				case session.StateRecording:
					return drawWaveformPanel(gtx, samples, cfg)
				case session.StateUploading:
					return layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
						return drawSpinner(gtx, time.Since(m.stateSince), cfg.AccentColor)
					})
				default:
					return layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
						th := material.NewTheme()
						lbl := material.Label(th, unit.Sp(11), i18n.T("panel_hint"))
						lbl.Color = cfg.TextDimColor
						return lbl.Layout(gtx)
					})
				}
			}),
		)
	})
}

// drawTextLines draws the status line and the transcript line.
func drawTextLines(gtx layout.Context, cfg Config, m model) layout.Dimensions {
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			th := material.NewTheme()
			lbl := material.Label(th, unit.Sp(15), m.status.Text)
			lbl.Color = withOpacity(m.status.Color(), m.opacity)
			lbl.Font.Weight = font.Medium
			lbl.MaxLines = 2
			return lbl.Layout(gtx)
		}),
		layout.Rigid(layout.Spacer{Height: unit.Dp(4)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			if m.transcript.Text == "" {
				return layout.Dimensions{}
			}
			th := material.NewTheme()
			lbl := material.Label(th, unit.Sp(13), m.transcript.Text)
			lbl.Color = m.transcript.Color()
			lbl.MaxLines = 2
			return lbl.Layout(gtx)
		}),
	)
}

// drawBackground draws a rectangle background.
func drawBackground(gtx layout.Context, col color.NRGBA) {
	rect := clip.Rect{Max: gtx.Constraints.Max}
	paint.FillShape(gtx.Ops, col, rect.Op())
}

// drawToggleButton draws the round record button. It pulses while recording.
func drawToggleButton(gtx layout.Context, btn *widget.Clickable, cfg Config, c session.Control, elapsed time.Duration) layout.Dimensions {
	return btn.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		size := gtx.Dp(unit.Dp(48))

		col := buttonColor(cfg, c)
		if c.Recording {
			pulse := float32(math.Sin(float64(elapsed.Milliseconds())/200.0)*0.15 + 0.85)
			col = withOpacity(col, pulse)
		} else if c.Enabled && btn.Hovered() {
			col = darken(col, 0.85)
		}

		circle := clip.Ellipse{Max: image.Pt(size, size)}
		paint.FillShape(gtx.Ops, col, circle.Op(gtx.Ops))

		drawMicGlyph(gtx, size, withOpacity(color.NRGBA{R: 255, G: 255, B: 255, A: 255}, float32(col.A)/255))

		return layout.Dimensions{Size: image.Pt(size, size)}
	})
}

// drawMicGlyph draws a simplified microphone inside the button.
func drawMicGlyph(gtx layout.Context, size int, col color.NRGBA) {
	s := float32(size)
	w := float32(gtx.Dp(unit.Dp(2)))

	capsule := clip.RRect{
		Rect: image.Rect(int(s*0.40), int(s*0.22), int(s*0.60), int(s*0.58)),
		NE:   int(s * 0.1), NW: int(s * 0.1), SE: int(s * 0.1), SW: int(s * 0.1),
	}
	paint.FillShape(gtx.Ops, col, capsule.Op(gtx.Ops))

	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(s*0.32, s*0.50))
	path.QuadTo(f32.Pt(s*0.32, s*0.70), f32.Pt(s*0.50, s*0.70))
	path.QuadTo(f32.Pt(s*0.68, s*0.70), f32.Pt(s*0.68, s*0.50))
	path.MoveTo(f32.Pt(s*0.50, s*0.70))
	path.LineTo(f32.Pt(s*0.50, s*0.80))
	paint.FillShape(gtx.Ops, col, clip.Stroke{Path: path.End(), Width: w}.Op())
}

// drawWaveformPanel draws the waveform in a panel.
func drawWaveformPanel(gtx layout.Context, samples []float32, cfg Config) layout.Dimensions {
	rr := gtx.Dp(unit.Dp(8))
	rect := clip.RRect{
		Rect: image.Rectangle{Max: gtx.Constraints.Max},
		NE:   rr, NW: rr, SE: rr, SW: rr,
	}
	paint.FillShape(gtx.Ops, cfg.PanelColor, rect.Op(gtx.Ops))

	return layout.UniformInset(unit.Dp(6)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return drawWaveform(gtx, samples, levelColor(cfg, calculateRMS(samples)))
	})
}

// calculateRMS computes the volume level of the latest samples in [0, 1].
func calculateRMS(samples []float32) float32 {
	if len(samples) == 0 {
		return 0
	}

	start := 0
	if len(samples) > 1024 {
		start = len(samples) - 1024
	}
	subset := samples[start:]

	var sum float64
	for _, s := range subset {
		sum += float64(s) * float64(s)
	}

	// Typical speech is around 0.1-0.3 RMS
	level := float32(math.Sqrt(sum/float64(len(subset)))) * 3
	if level > 1 {
		level = 1
	}
	return level
}

// drawWaveform renders an oscilloscope-style waveform.
func drawWaveform(gtx layout.Context, samples []float32, col color.NRGBA) layout.Dimensions {
	width := float32(gtx.Constraints.Max.X)
	height := float32(gtx.Constraints.Max.Y)
	centerY := height / 2
	size := image.Pt(int(width), int(height))

	centerLine := clip.Rect{
		Min: image.Pt(0, int(centerY)),
		Max: image.Pt(int(width), int(centerY)+1),
	}
	paint.FillShape(gtx.Ops, color.NRGBA{R: 60, G: 60, B: 65, A: 255}, centerLine.Op())

	if len(samples) < 2 {
		return layout.Dimensions{Size: size}
	}

	display := samples
	if maxSamples := int(width); len(samples) > maxSamples {
		display = samples[len(samples)-maxSamples:]
	}

	var path clip.Path
	path.Begin(gtx.Ops)

	step := width / float32(len(display))
	for i, sample := range display {
		pt := f32.Pt(float32(i)*step, centerY-(sample*centerY*0.85))
		if i == 0 {
			path.MoveTo(pt)
		} else {
			path.LineTo(pt)
		}
	}

	paint.FillShape(gtx.Ops, col, clip.Stroke{Path: path.End(), Width: 2}.Op())
	return layout.Dimensions{Size: size}
}

// drawSpinner draws a circle of fading dots.
func drawSpinner(gtx layout.Context, elapsed time.Duration, col color.NRGBA) layout.Dimensions {
	size := gtx.Dp(unit.Dp(36))
	thickness := gtx.Dp(unit.Dp(3))

	rotation := float64(elapsed.Milliseconds()) / 800.0 * 2 * math.Pi
	center := image.Pt(size/2, size/2)
	radius := size/2 - thickness

	const numDots = 12
	for i := 0; i < numDots; i++ {
		angle := rotation + float64(i)*2*math.Pi/numDots
		x := center.X + int(float64(radius)*math.Cos(angle))
		y := center.Y + int(float64(radius)*math.Sin(angle))

		alpha := 255 - i*20
		if alpha < 40 {
			alpha = 40
		}

		r := thickness / 2
		dot := clip.Ellipse{Min: image.Pt(x-r, y-r), Max: image.Pt(x+r, y+r)}
		paint.FillShape(gtx.Ops, color.NRGBA{R: col.R, G: col.G, B: col.B, A: uint8(alpha)}, dot.Op(gtx.Ops))
	}

	return layout.Dimensions{Size: image.Pt(size, size)}
}

// buttonColor is red while recording and dimmed while disabled.
func buttonColor(cfg Config, c session.Control) color.NRGBA {
	col := cfg.IdleColor
	if c.Recording {
		col = cfg.RecordColor
	}
	if !c.Enabled {
		col = withOpacity(col, disabledOpacity)
	}
	return col
}

// levelColor picks the waveform color for the volume level.
func levelColor(cfg Config, level float32) color.NRGBA {
	switch {
	case level > 0.7:
		return color.NRGBA{R: 255, G: 80, B: 80, A: 255}
	case level > 0.4:
		return color.NRGBA{R: 255, G: 180, B: 0, A: 255}
	default:
		return cfg.WaveColor
	}
}

func withOpacity(c color.NRGBA, opacity float32) color.NRGBA {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	c.A = uint8(float32(c.A) * opacity)
	return c
}

func darken(c color.NRGBA, f float32) color.NRGBA {
	return color.NRGBA{
		R: uint8(float32(c.R) * f),
		G: uint8(float32(c.G) * f),
		B: uint8(float32(c.B) * f),
		A: c.A,
	}
}

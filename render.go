package birch

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// CommandType identifies the kind of draw command.
type CommandType uint8

const (
	CommandFillRect     CommandType = iota // vector.DrawFilledRect
	CommandStrokeRect                      // vector.StrokeRect
	CommandFillCircle                      // vector.DrawFilledCircle
	CommandStrokeCircle                    // vector.StrokeCircle
	CommandImage                           // DrawImage of a media sub-rectangle
	CommandText                            // text/v2 Draw
)

// DrawCommand is a single draw instruction recorded during the frame update.
// Geometry is in the entity's local frame; Transform maps it to the surface.
type DrawCommand struct {
	Type      CommandType
	Transform [6]float64

	// X, Y, Width, Height is the destination rectangle. Circles use X, Y as
	// the center.
	X, Y, Width, Height float64
	Radius              float64
	LineWidth           float64

	// Color carries the combined entity and layer alpha.
	Color Color

	Media  *ImageMedia
	Source image.Rectangle

	Text string
	Font Font

	Entity *Entity
}

// Origin returns the command's destination point on the surface.
func (c *DrawCommand) Origin() (float64, float64) {
	return transformPoint(c.Transform, c.X, c.Y)
}

// DrawList records draw commands. Entities draw into it through the frame
// pipeline; OnDraw hooks receive it with the entity's transform already set.
type DrawList struct {
	commands  []DrawCommand
	transform [6]float64
	alpha     float64
	entity    *Entity
}

func newDrawList() *DrawList {
	return &DrawList{transform: identityTransform, alpha: 1}
}

// begin sets the transform and alpha subsequent commands are recorded with.
func (dl *DrawList) begin(e *Entity, m [6]float64, alpha float64) {
	dl.entity, dl.transform, dl.alpha = e, m, alpha
}

// end restores identity so nothing leaks into the next entity.
func (dl *DrawList) end() {
	dl.entity, dl.transform, dl.alpha = nil, identityTransform, 1
}

func (dl *DrawList) reset() {
	dl.commands = dl.commands[:0]
	dl.end()
}

func (dl *DrawList) push(cmd DrawCommand) {
	cmd.Transform = dl.transform
	cmd.Color = cmd.Color.withAlpha(dl.alpha)
	cmd.Entity = dl.entity
	dl.commands = append(dl.commands, cmd)
}

// Commands returns the recorded commands. The slice is reused by the next
// frame.
func (dl *DrawList) Commands() []DrawCommand {
	return dl.commands
}

// Len returns the number of recorded commands.
func (dl *DrawList) Len() int {
	return len(dl.commands)
}

// FillRect records a filled rectangle.
func (dl *DrawList) FillRect(x, y, w, h float64, c Color) {
	if !c.visible() {
		return
	}
	dl.push(DrawCommand{Type: CommandFillRect, X: x, Y: y, Width: w, Height: h, Color: c})
}

// StrokeRect records a rectangle outline.
func (dl *DrawList) StrokeRect(x, y, w, h, lineWidth float64, c Color) {
	if !c.visible() || lineWidth <= 0 {
		return
	}
	dl.push(DrawCommand{Type: CommandStrokeRect, X: x, Y: y, Width: w, Height: h, LineWidth: lineWidth, Color: c})
}

// FillCircle records a filled circle centered on cx, cy.
func (dl *DrawList) FillCircle(cx, cy, r float64, c Color) {
	if !c.visible() {
		return
	}
	dl.push(DrawCommand{Type: CommandFillCircle, X: cx, Y: cy, Radius: r, Color: c})
}

// StrokeCircle records a circle outline centered on cx, cy.
func (dl *DrawList) StrokeCircle(cx, cy, r, lineWidth float64, c Color) {
	if !c.visible() || lineWidth <= 0 {
		return
	}
	dl.push(DrawCommand{Type: CommandStrokeCircle, X: cx, Y: cy, Radius: r, LineWidth: lineWidth, Color: c})
}

// DrawImage records src of m stretched over the destination rectangle.
func (dl *DrawList) DrawImage(m *ImageMedia, src image.Rectangle, x, y, w, h float64) {
	if m == nil || src.Empty() {
		return
	}
	dl.push(DrawCommand{Type: CommandImage, Media: m, Source: src, X: x, Y: y, Width: w, Height: h, Color: ColorWhite})
}

// DrawText records a single line of text with its top-left corner at x, y.
func (dl *DrawList) DrawText(s string, f Font, x, y float64, c Color) {
	if s == "" || f == nil || !c.visible() {
		return
	}
	dl.push(DrawCommand{Type: CommandText, Text: s, Font: f, X: x, Y: y, Color: c})
}

// submit replays the commands onto dst.
func (dl *DrawList) submit(dst *ebiten.Image, filter ebiten.Filter) {
	aa := filter != ebiten.FilterNearest
	for i := range dl.commands {
		cmd := &dl.commands[i]
		x, y := cmd.Origin()
		clr := cmd.Color.toRGBA()
		switch cmd.Type {
		case CommandFillRect:
			vector.DrawFilledRect(dst, float32(x), float32(y), float32(cmd.Width), float32(cmd.Height), clr, aa)
		case CommandStrokeRect:
			vector.StrokeRect(dst, float32(x), float32(y), float32(cmd.Width), float32(cmd.Height), float32(cmd.LineWidth), clr, aa)
		case CommandFillCircle:
			vector.DrawFilledCircle(dst, float32(x), float32(y), float32(cmd.Radius), clr, aa)
		case CommandStrokeCircle:
			vector.StrokeCircle(dst, float32(x), float32(y), float32(cmd.Radius), float32(cmd.LineWidth), clr, aa)
		case CommandImage:
			submitImage(dst, cmd, x, y, filter)
		case CommandText:
			face := cmd.Font.Face()
			if face == nil {
				continue
			}
			op := &text.DrawOptions{}
			op.GeoM.Translate(x, y)
			op.ColorScale.ScaleWithColor(clr)
			text.Draw(dst, cmd.Text, face, op)
		}
	}
}

func submitImage(dst *ebiten.Image, cmd *DrawCommand, x, y float64, filter ebiten.Filter) {
	img := cmd.Media.ebitenImage()
	if img == nil {
		return
	}
	src := img.SubImage(cmd.Source).(*ebiten.Image)
	sw, sh := float64(cmd.Source.Dx()), float64(cmd.Source.Dy())
	op := &ebiten.DrawImageOptions{Filter: filter}
	op.GeoM.Scale(cmd.Width/sw, cmd.Height/sh)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleAlpha(float32(cmd.Color.A))
	dst.DrawImage(src, op)
}

// draw records e's commands under its own transform and alpha, starting from
// identity.
func (e *Entity) draw(dl *DrawList, layerAlpha float64) {
	if e.Kind == KindText {
		e.measure()
	}
	dl.begin(e, localTransform(e, true), e.Alpha*layerAlpha)
	defer dl.end()

	switch e.Kind {
	case KindRectangle:
		e.drawRectangle(dl)
	case KindCircle:
		e.drawCircle(dl)
	case KindImage:
		e.drawImage(dl)
	case KindSprite:
		e.drawSprite(dl)
	case KindText:
		e.drawText(dl)
	}
	if e.OnDraw != nil {
		e.OnDraw(dl)
	}
}

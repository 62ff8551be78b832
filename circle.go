package birch

// SetRadius sets the radius of a circle before ScaleR.
func (e *Entity) SetRadius(r float64) *Entity {
	e.Radius = r
	return e
}

func (e *Entity) drawCircle(dl *DrawList) {
	r := e.Radius * e.ScaleR
	if r <= 0 {
		return
	}
	dl.FillCircle(e.X, e.Y, r, e.FillColor)
	dl.StrokeCircle(e.X, e.Y, r, e.LineWidth, e.StrokeColor)
}

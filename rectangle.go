package birch

func (e *Entity) drawRectangle(dl *DrawList) {
	w, h := e.Crop()
	sx, sy := e.scaleFactors()
	dl.FillRect(e.X, e.Y, w*sx, h*sy, e.FillColor)
	dl.StrokeRect(e.X, e.Y, w*sx, h*sy, e.LineWidth, e.StrokeColor)
}

package birch

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// translate appends a translation to m.
func translate(m [6]float64, tx, ty float64) [6]float64 {
	return multiplyAffine(m, [6]float64{1, 0, 0, 1, tx, ty})
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// localTransform composes the offsets every entity is drawn with, starting
// from identity:
//
//	camera offset (unless fixed) -> -(w*sx)/2, -(h*sy)/2 -> origin offset
//
// The origin offset is -(w/2)*ox*sx, -(h/2)*oy*sy for box-shaped kinds and
// -r*ox*sr, -r*oy*sr for circles. withCamera=false yields the collision frame.
func localTransform(e *Entity, withCamera bool) [6]float64 {
	m := identityTransform
	if withCamera && !e.Fixed {
		if cam := e.camera(); cam != nil && cam != e {
			m = translate(m, cam.X, cam.Y)
		}
	}
	// Text draws unscaled glyphs but its anchor still follows ScaleX and ScaleY.
	sx, sy := e.ScaleX, e.ScaleY
	m = translate(m, -(e.Width*sx)/2, -(e.Height*sy)/2)
	if e.Kind == KindCircle {
		return translate(m, -e.Radius*e.OriginX*e.ScaleR, -e.Radius*e.OriginY*e.ScaleR)
	}
	return translate(m, -(e.Width/2)*e.OriginX*sx, -(e.Height/2)*e.OriginY*sy)
}

package kage

// stepSource advances one generation. Each destination pixel samples its
// Moore neighbourhood from image 0; cell state lives in the red channel.
var stepSource = []byte(`//kage:unit pixels

package main

var Wrap float

func cell(p vec2) float {
	origin := imageSrc0Origin()
	size := imageSrc0Size()
	q := p - origin
	if Wrap > 0.5 {
		q = mod(q+size, size)
	} else if q.x < 0 || q.y < 0 || q.x >= size.x || q.y >= size.y {
		return 0
	}
	return step(0.5, imageSrc0At(q+origin).r)
}

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	n := cell(srcPos+vec2(-1, -1)) + cell(srcPos+vec2(0, -1)) + cell(srcPos+vec2(1, -1))
	n += cell(srcPos+vec2(-1, 0)) + cell(srcPos+vec2(1, 0))
	n += cell(srcPos+vec2(-1, 1)) + cell(srcPos+vec2(0, 1)) + cell(srcPos+vec2(1, 1))
	alive := cell(srcPos)
	next := 0.0
	if n == 3 || (alive > 0.5 && n == 2) {
		next = 1
	}
	return vec4(next, next, next, 1)
}
`)

// injectSource writes opaque live pixels inside the disc and fully transparent
// pixels outside it, so source-over blending leaves the rest untouched.
var injectSource = []byte(`//kage:unit pixels

package main

var Center vec2
var Radius float

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	d := dstPos.xy - imageDstOrigin() - vec2(0.5) - Center
	if dot(d, d) <= Radius*Radius {
		return vec4(1)
	}
	return vec4(0)
}
`)

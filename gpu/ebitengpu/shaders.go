package ebitengpu

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/canopy/gpu"
)

// --- Kage shader sources ---
// All shaders use //kage:unit pixels. Ebitengine images are premultiplied;
// every shader unpremultiplies, works in straight alpha, and premultiplies
// its result.

const baseShaderSrc = `//kage:unit pixels
package main

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a > 0 {
		c.rgb /= c.a
	}
	c *= color
	return vec4(c.rgb*c.a, c.a)
}
`

const colorShaderSrc = `//kage:unit pixels
package main

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	return vec4(color.rgb*color.a, color.a)
}
`

const spriteShaderSrc = `//kage:unit pixels
package main

var Color vec4
var Tone vec4
var Opacity float
var Bush float
var BushDepth float
var BushOpacity float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a > 0 {
		c.rgb /= c.a
	}
	c *= color
	l := dot(c.rgb, vec3(0.299, 0.587, 0.114))
	c.rgb = mix(c.rgb, vec3(l), Tone.a)
	c.rgb = clamp(c.rgb+Tone.rgb, vec3(0), vec3(1))
	c.rgb = mix(c.rgb, Color.rgb, Color.a)
	c.a *= Opacity
	if Bush > 0 && src.y >= BushDepth {
		c.a *= BushOpacity
	}
	return vec4(c.rgb*c.a, c.a)
}
`

const flatShaderSrc = `//kage:unit pixels
package main

var Color vec4
var Tone vec4

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a > 0 {
		c.rgb /= c.a
	}
	c *= color
	l := dot(c.rgb, vec3(0.299, 0.587, 0.114))
	c.rgb = mix(c.rgb, vec3(l), Tone.a)
	c.rgb = clamp(c.rgb+Tone.rgb, vec3(0), vec3(1))
	c.rgb = mix(c.rgb, Color.rgb, Color.a)
	return vec4(c.rgb*c.a, c.a)
}
`

const alphaTransitionShaderSrc = `//kage:unit pixels
package main

var Progress float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	return mix(imageSrc0At(src), imageSrc1At(src), Progress)
}
`

const vagueTransitionShaderSrc = `//kage:unit pixels
package main

var Progress float
var Vague float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	m := imageSrc2At(src).r
	t := clamp(m, Progress, Progress+Vague)
	a := (t - Progress) / Vague
	return mix(imageSrc1At(src), imageSrc0At(src), a)
}
`

const hueShaderSrc = `//kage:unit pixels
package main

var Hue float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a > 0 {
		c.rgb /= c.a
	}
	k := vec3(0.57735, 0.57735, 0.57735)
	cosA := cos(Hue)
	c.rgb = c.rgb*cosA + cross(k, c.rgb)*sin(Hue) + k*dot(k, c.rgb)*(1-cosA)
	c.rgb = clamp(c.rgb, vec3(0), vec3(1))
	return vec4(c.rgb*c.a, c.a)
}
`

// shaders compiles each program lazily on first use. Ebitengine rendering
// happens on one goroutine, so no locking.
type shaders struct {
	compiled map[string]*ebiten.Shader
}

var shaderSources = map[gpu.Pipeline]string{
	gpu.PipelineBase:            baseShaderSrc,
	gpu.PipelineColor:           colorShaderSrc,
	gpu.PipelineSprite:          spriteShaderSrc,
	gpu.PipelineFlat:            flatShaderSrc,
	gpu.PipelineAlphaTransition: alphaTransitionShaderSrc,
	gpu.PipelineVagueTransition: vagueTransitionShaderSrc,
}

func (s *shaders) get(name, src string) *ebiten.Shader {
	if sh, ok := s.compiled[name]; ok {
		return sh
	}
	sh, err := ebiten.NewShader([]byte(src))
	if err != nil {
		panic(fmt.Sprintf("ebitengpu: compile %s shader: %v", name, err))
	}
	if s.compiled == nil {
		s.compiled = make(map[string]*ebiten.Shader)
	}
	s.compiled[name] = sh
	return sh
}

func (s *shaders) pipeline(p gpu.Pipeline) *ebiten.Shader {
	src, ok := shaderSources[p]
	if !ok {
		src = baseShaderSrc
	}
	return s.get(fmt.Sprintf("pipeline%d", p), src)
}

func (s *shaders) hue() *ebiten.Shader {
	return s.get("hue", hueShaderSrc)
}

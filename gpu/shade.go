package gpu

// Luma weights used by tone desaturation.
var lumaWeights = [3]float32{0.299, 0.587, 0.114}

// ApplyTone desaturates c toward its luma by tone[3], then offsets rgb by tone.
func ApplyTone(c Vec4, tone Vec4) Vec4 {
	if tone[3] != 0 {
		l := c[0]*lumaWeights[0] + c[1]*lumaWeights[1] + c[2]*lumaWeights[2]
		for i := 0; i < 3; i++ {
			c[i] += (l - c[i]) * tone[3]
		}
	}
	for i := 0; i < 3; i++ {
		c[i] = clamp01(c[i] + tone[i])
	}
	return c
}

// ApplyColor mixes c toward color.rgb by color[3].
func ApplyColor(c Vec4, color Vec4) Vec4 {
	if color[3] == 0 {
		return c
	}
	for i := 0; i < 3; i++ {
		c[i] += (color[i] - c[i]) * color[3]
	}
	return c
}

// ShadeSprite computes the PipelineSprite output for texel c at source row v.
func ShadeSprite(c Vec4, v float32, in *Instance) Vec4 {
	c = ApplyTone(c, in.Tone)
	c = ApplyColor(c, in.Color)
	c[3] *= in.Opacity
	if in.Bush && v >= in.BushDepth {
		c[3] *= in.BushOpacity
	}
	return c
}

// ShadeFlat computes the PipelineFlat output for texel c.
func ShadeFlat(c Vec4, e *Effect) Vec4 {
	return ApplyColor(ApplyTone(c, e.Tone), e.Color)
}

// MixTransition crossfades frozen toward current by progress.
func MixTransition(frozen, current Vec4, progress float32) Vec4 {
	var out Vec4
	for i := range out {
		out[i] = frozen[i] + (current[i]-frozen[i])*progress
	}
	return out
}

// VagueAlpha returns the weight of the frozen frame for a mapping value m.
// Pixels whose mapping value lies below progress have switched to the
// current frame; the vague band softens the edge.
func VagueAlpha(m, progress, vague float32) float32 {
	if vague <= 0 {
		vague = 1.0 / 256
	}
	t := m
	if t < progress {
		t = progress
	}
	if t > progress+vague {
		t = progress + vague
	}
	return (t - progress) / vague
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Mul multiplies two vectors component-wise.
func Mul(a, b Vec4) Vec4 {
	return Vec4{a[0] * b[0], a[1] * b[1], a[2] * b[2], a[3] * b[3]}
}

package canopy

import (
	"encoding/json"
	"fmt"
)

// frameStep represents a single action in a frame script.
type frameStep struct {
	Action  string `json:"action"`
	Label   string `json:"label,omitempty"`
	Frames  int    `json:"frames,omitempty"`
	Mapping string `json:"mapping,omitempty"`
	Vague   int    `json:"vague,omitempty"`
}

// frameScript is the top-level JSON structure for a frame script.
type frameScript struct {
	Steps []frameStep `json:"steps"`
}

// FrameScript sequences screen operations and screenshots for automated
// visual checks. Supported actions: update, wait, freeze, transition,
// fadein, fadeout and screenshot.
type FrameScript struct {
	steps  []frameStep
	cursor int
}

// LoadFrameScript parses a JSON frame script of the form
//
//	{"steps": [{"action": "fadeout", "frames": 30}, {"action": "screenshot", "label": "black"}]}
func LoadFrameScript(jsonData []byte) (*FrameScript, error) {
	var script frameScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse frame script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse frame script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "update", "wait", "freeze", "transition", "fadein", "fadeout", "screenshot":
		default:
			return nil, fmt.Errorf("parse frame script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &FrameScript{steps: script.Steps}, nil
}

// Done reports whether every step has run.
func (r *FrameScript) Done() bool { return r.cursor >= len(r.steps) }

// Step runs the next step on s.
func (r *FrameScript) Step(s *Screen) error {
	if r.Done() {
		return nil
	}
	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "update":
		s.Wait(max(st.Frames, 1))
	case "wait":
		s.Wait(st.Frames)
	case "freeze":
		s.Freeze()
	case "transition":
		var mapping *Bitmap
		if st.Mapping != "" {
			b, err := LoadBitmap(s.e, st.Mapping)
			if err != nil {
				return fmt.Errorf("frame script step %d: %w", r.cursor-1, err)
			}
			defer b.Dispose()
			mapping = b
		}
		s.Transition(st.Frames, mapping, st.Vague)
	case "fadein":
		s.FadeIn(st.Frames)
	case "fadeout":
		s.FadeOut(st.Frames)
	case "screenshot":
		s.Screenshot(st.Label)
		s.Update()
	}
	return nil
}

// Run executes every remaining step.
func (r *FrameScript) Run(s *Screen) error {
	for !r.Done() {
		if err := r.Step(s); err != nil {
			return err
		}
	}
	return nil
}

// Package renderer turns notification snapshots into display lines.
//
// The renderer is responsible for:
//   - Tokenizing and wrapping message text within the surface width
//   - Annotation alignment on wrapped continuation lines
//   - Syntax capture overlay with conceal handling
//   - Group headers, separators, and duplicate folding
//   - Caching rendered lines across passes with resize invalidation
//
// Architecture:
//
// The renderer follows a layered design:
//
//	┌─────────────────────────────────────────┐
//	│           Renderer (Facade)             │
//	├─────────────────────────────────────────┤
//	│   layout   │  highlight  │    cache     │
//	│  Wrap/Align│ Palette/Rec │ Pass/Entries │
//	├─────────────────────────────────────────┤
//	│     core: Token, Measurer, Line         │
//	└─────────────────────────────────────────┘
//
// A pass observes the Surface once, renders each group through the
// cache, and flattens the chunks. The renderer holds no locks and is
// not safe for concurrent use; callers serialize passes.
//
// Usage:
//
//	r := renderer.New(surface, palette, renderer.DefaultOptions())
//	frame := r.Render(time.Now(), model.Groups())
package renderer

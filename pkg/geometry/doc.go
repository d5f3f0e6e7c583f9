// Package geometry describes the tubular tower as coarse sections and
// refines it into the structural mesh used by every later stage.
//
// # Sections
//
// A tower is parametrised bottom-up by section heights, outer diameters at
// the section boundaries and one wall thickness per section:
//
//	len(Heights) == len(Diameters)-1 == len(Thicknesses)
//
// # Foundation
//
// [AdjustFoundation] reconciles the buried pile length of a monopile with the
// lowest section. Land towers pass through untouched. For monopiles the pile
// depth p is carved off the first section when it fits, otherwise a new pile
// section is prepended:
//
//	p <= h0:  [h0, h1, ...] -> [p, h0-p, h1, ...]
//	p >  h0:  [h0, h1, ...] -> [p, h0, h1, ...]
//
// A depth of zero (or below) is raised to [MinEmbedment] before splitting.
//
// # Mesh
//
// [Discretize] subdivides each section into equal elements, at least
// [DefaultRefine] per section and never longer than the configured maximum
// element length. Diameters live on nodes and vary linearly, thicknesses live
// on elements and are constant within a section.
package geometry

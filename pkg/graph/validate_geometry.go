package graph

import "fmt"

// MinSegments is the fewest facets a cylinder or sphere may be built with.
const MinSegments = 3

// ---------------------------------------------------------------------------
// Tier 2: geometric validation (errors + warnings)
// ---------------------------------------------------------------------------

// validateGeometry runs all Tier 2 geometric checks.
// Returns errors (blocking) and warnings (advisory) separately.
func validateGeometry(g *SceneGraph) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	errs = append(errs, validatePositiveDimensions(g)...)
	errs = append(errs, validateSegments(g)...)
	warnings = append(warnings, validateIdentityTransforms(g)...)

	return errs, warnings
}

func positive(errs []ValidationError, n *Node, what string, v float64) []ValidationError {
	if v > 0 {
		return errs
	}
	return append(errs, ValidationError{
		NodeID:   n.ID,
		Message:  fmt.Sprintf("%s is %.4f, must be positive", what, v),
		Severity: SeverityError,
	})
}

// validatePositiveDimensions checks that every primitive has positive
// measurements for the fields its kind uses.
func validatePositiveDimensions(g *SceneGraph) []ValidationError {
	var errs []ValidationError

	for _, node := range g.Nodes {
		pd, ok := node.Data.(PrimitiveData)
		if !ok {
			continue
		}

		switch pd.Kind {
		case PrimBox:
			errs = positive(errs, node, "box dimension X", pd.Size.X)
			errs = positive(errs, node, "box dimension Y", pd.Size.Y)
			errs = positive(errs, node, "box dimension Z", pd.Size.Z)
		case PrimCylinder:
			errs = positive(errs, node, "cylinder height", pd.Height)
			errs = positive(errs, node, "cylinder radius", pd.Radius)
		case PrimSphere:
			errs = positive(errs, node, "sphere radius", pd.Radius)
		case PrimTetra:
			errs = positive(errs, node, "tetra size", pd.Edge)
		default:
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("unknown primitive %s", pd.Kind),
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateSegments rejects faceted primitives with too few segments. Zero
// means the kernel default and is accepted.
func validateSegments(g *SceneGraph) []ValidationError {
	var errs []ValidationError

	for _, node := range g.Nodes {
		pd, ok := node.Data.(PrimitiveData)
		if !ok || (pd.Kind != PrimCylinder && pd.Kind != PrimSphere) {
			continue
		}
		if pd.Segments != 0 && pd.Segments < MinSegments {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("%s has %d segments, need at least %d", pd.Kind, pd.Segments, MinSegments),
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateIdentityTransforms warns about placements that do nothing.
func validateIdentityTransforms(g *SceneGraph) []ValidationWarning {
	var warnings []ValidationWarning

	for _, node := range g.Nodes {
		td, ok := node.Data.(TransformData)
		if !ok {
			continue
		}
		moved := td.Translation != nil && !td.Translation.IsZero()
		turned := td.Rotation != nil && !td.Rotation.IsZero()
		if !moved && !turned {
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: "transform has no translation or rotation",
			})
		}
	}

	return warnings
}

// ---------------------------------------------------------------------------
// Tier 3: material warnings
// ---------------------------------------------------------------------------

// validateMaterial warns about objects that carry no material.
func validateMaterial(g *SceneGraph) []ValidationWarning {
	var warnings []ValidationWarning

	for _, node := range g.Nodes {
		od, ok := node.Data.(ObjectData)
		if !ok {
			continue
		}
		if od.Material == "" {
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: fmt.Sprintf("object %q has no material", node.Name),
			})
		}
	}

	return warnings
}

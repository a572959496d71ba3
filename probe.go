package amrgrid

// Exists reports whether the quantity dataset called name is present in the
// container, by probing "Level 1", then "Level 1/Fab 1", then the dataset
// itself under that fab. It returns false as soon as a segment is absent.
//
// This is deliberately a level-1/fab-1-only heuristic, kept for
// compatibility with the files this layout comes from: a true result means
// the dataset exists for at least the first block, not for every block. A
// grid where the dataset is present only on some blocks will probe true here
// and then fail mid-read with a ContainerReadError. Use ExistsEverywhere
// when the stronger guarantee is needed.
func Exists(c Container, name string) bool {
	lp := levelPath(1)
	if !c.PathExists(lp) {
		return false
	}
	fp := lp + "/" + fabName(1)
	if !c.PathExists(fp) {
		return false
	}
	return c.PathExists(fp + "/" + name)
}

// ExistsEverywhere reports whether the quantity dataset called name is
// present under every level/fab of the geometry. It is the strict
// counterpart of Exists and probes blocks in traversal order, stopping at
// the first absentee.
func ExistsEverywhere(c Container, name string, geo *Geometry) bool {
	for li, lvl := range geo.Levels {
		for fi := range lvl.Fabs {
			if !c.PathExists(blockPath(li+1, fi+1, name)) {
				return false
			}
		}
	}
	return true
}

package inventory

// Predicate selects inventory rows.
type Predicate func(Row) bool

// IsPublished reports whether the row is a public, published, non-derived asset.
func IsPublished(r Row) bool {
	return r.Public == "true" && r.DerivedView == "false" && r.PublicationStage == "published"
}

// IsDataset reports whether the asset is a dataset.
func IsDataset(r Row) bool {
	return r.Type == "dataset"
}

// IsGISMap reports whether the asset is a GIS map.
func IsGISMap(r Row) bool {
	return r.Type == "gis map"
}

// Selected reports whether the row is a published dataset, the only rows
// converted into data packages.
func Selected(r Row) bool {
	return IsPublished(r) && IsDataset(r)
}

// And combines predicates; the result matches rows matching all of them.
func And(ps ...Predicate) Predicate {
	return func(r Row) bool {
		for _, p := range ps {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

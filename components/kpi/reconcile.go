package kpi

// ReconcileVisibility repairs a stored visible set against the live catalog.
// Without a stored value every catalog id is visible. Stored ids keep their
// relative order; stale and duplicate ids are dropped and ids missing from the
// stored list stay hidden. An explicitly stored empty list stays empty, while a
// non-empty list that is entirely stale is treated as never customized.
func ReconcileVisibility(catalog, stored []string, ok bool) []string {
	catalog = uniqueIDs(catalog)
	if len(catalog) == 0 {
		return []string{}
	}
	if !ok || stored == nil {
		return catalog
	}
	filtered := filterKnown(catalog, stored)
	if len(filtered) == 0 && len(stored) > 0 {
		return catalog
	}
	return filtered
}

// ReconcileOrder repairs a stored order so it is a permutation of the catalog:
// known ids keep their stored relative order and catalog ids not yet present
// are appended in catalog order.
func ReconcileOrder(catalog, stored []string, ok bool) []string {
	catalog = uniqueIDs(catalog)
	if len(catalog) == 0 {
		return []string{}
	}
	if !ok || stored == nil {
		return catalog
	}
	return appendMissing(filterKnown(catalog, stored), catalog)
}

// ReconcileVisibilityKnown reconciles a visible set using the previously
// persisted order as the set of ids the user has already seen. Seen ids that are
// absent from stored remain hidden; catalog ids never seen before are appended
// as visible.
func ReconcileVisibilityKnown(catalog, stored []string, ok bool, known []string, knownOK bool) []string {
	if !knownOK || known == nil {
		return ReconcileVisibility(catalog, stored, ok)
	}
	visible := ReconcileVisibility(catalog, stored, ok)
	if !ok || stored == nil {
		return visible
	}
	seen := toSet(known)
	for _, id := range visible {
		seen[id] = struct{}{}
	}
	for _, id := range uniqueIDs(catalog) {
		if _, exists := seen[id]; !exists {
			visible = append(visible, id)
		}
	}
	return visible
}

// ArrangeSelectedFirst returns selected ids in their given order followed by
// the remaining catalog ids in catalog order.
func ArrangeSelectedFirst(catalog, selected []string) []string {
	return appendMissing(filterKnown(uniqueIDs(catalog), selected), uniqueIDs(catalog))
}

func filterKnown(catalog, ids []string) []string {
	allowed := toSet(catalog)
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := allowed[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func appendMissing(ids, catalog []string) []string {
	seen := toSet(ids)
	for _, id := range catalog {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cloneIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

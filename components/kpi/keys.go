package kpi

import "strings"

const (
	// DefaultVisibilityNamespace prefixes visible-set keys. Changing it loses stored preferences.
	DefaultVisibilityNamespace = "kpi.visible"
	// DefaultOrderNamespace prefixes order keys. Changing it loses stored preferences.
	DefaultOrderNamespace = "kpi.order"
)

// Namespaces holds the key prefixes for the two preference slices.
type Namespaces struct {
	Visibility string `yaml:"visibility" json:"visibility"`
	Order      string `yaml:"order" json:"order"`
}

// DefaultNamespaces returns the stable key prefixes.
func DefaultNamespaces() Namespaces {
	return Namespaces{
		Visibility: DefaultVisibilityNamespace,
		Order:      DefaultOrderNamespace,
	}
}

func (n Namespaces) normalize() Namespaces {
	if strings.TrimSpace(n.Visibility) == "" {
		n.Visibility = DefaultVisibilityNamespace
	}
	if strings.TrimSpace(n.Order) == "" {
		n.Order = DefaultOrderNamespace
	}
	return n
}

// VisibilityKey returns the storage key of a report's visible set.
func (n Namespaces) VisibilityKey(reportKey string) string {
	return n.normalize().Visibility + ":" + reportKey
}

// OrderKey returns the storage key of a report's tile order.
func (n Namespaces) OrderKey(reportKey string) string {
	return n.normalize().Order + ":" + reportKey
}

// ReportKeyFor extracts the report key from a storage key, reporting which
// slice the key belongs to.
func (n Namespaces) ReportKeyFor(key string) (reportKey string, slice string, ok bool) {
	n = n.normalize()
	if rest, found := strings.CutPrefix(key, n.Visibility+":"); found {
		return rest, "visibility", true
	}
	if rest, found := strings.CutPrefix(key, n.Order+":"); found {
		return rest, "order", true
	}
	return "", "", false
}

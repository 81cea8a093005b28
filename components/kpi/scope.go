package kpi

import "strings"

const userKeyPrefix = "user:"

// StoreScoper narrows the shared store to a single viewer.
type StoreScoper func(base KeyValueStore, viewer ViewerContext) KeyValueStore

// ScopeByUser prefixes every key with the viewer's user id so two users
// never read each other's preferences.
func ScopeByUser(base KeyValueStore, viewer ViewerContext) KeyValueStore {
	return PrefixStore(base, UserPrefix(viewer.UserID))
}

// UserPrefix is the key prefix ScopeByUser applies for userID.
func UserPrefix(userID string) string {
	return userKeyPrefix + userID + "/"
}

// SplitUserKey reverses ScopeByUser, returning the user id and the unscoped key.
func SplitUserKey(key string) (userID, rest string, ok bool) {
	scoped, found := strings.CutPrefix(key, userKeyPrefix)
	if !found {
		return "", key, false
	}
	userID, rest, ok = strings.Cut(scoped, "/")
	if !ok || userID == "" {
		return "", key, false
	}
	return userID, rest, true
}

// ExternalEvents maps storage keys changed outside the service to change
// events, one per report and user. Keys outside the namespaces are skipped.
func ExternalEvents(ns Namespaces, keys []string) []PreferenceEvent {
	seen := map[string]struct{}{}
	var events []PreferenceEvent
	for _, key := range keys {
		userID, rest, _ := SplitUserKey(key)
		reportKey, _, ok := ns.ReportKeyFor(rest)
		if !ok || reportKey == "" {
			continue
		}
		id := userID + "\x00" + reportKey
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		events = append(events, PreferenceEvent{ReportKey: reportKey, UserID: userID, Kind: ChangeExternal})
	}
	return events
}

// PrefixStore returns a view of base whose keys are prefixed.
func PrefixStore(base KeyValueStore, prefix string) KeyValueStore {
	if prefix == "" {
		return base
	}
	return prefixedStore{base: base, prefix: prefix}
}

type prefixedStore struct {
	base   KeyValueStore
	prefix string
}

func (s prefixedStore) Get(key string) (string, bool, error) {
	return s.base.Get(s.prefix + key)
}

func (s prefixedStore) Set(key, value string) error {
	return s.base.Set(s.prefix+key, value)
}

package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeByUserPrefixesKeys(t *testing.T) {
	base := newMemStore()
	scoped := ScopeByUser(base, ViewerContext{UserID: "42"})
	require.NoError(t, scoped.Set("kpi.order:r", `["a"]`))

	raw, ok := base.raw("user:42/kpi.order:r")
	require.True(t, ok)
	assert.Equal(t, `["a"]`, raw)

	value, ok, err := scoped.Get("kpi.order:r")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["a"]`, value)

	assert.Same(t, base, PrefixStore(base, ""))
}

func TestSplitUserKey(t *testing.T) {
	user, rest, ok := SplitUserKey("user:42/kpi.visible:r")
	assert.True(t, ok)
	assert.Equal(t, "42", user)
	assert.Equal(t, "kpi.visible:r", rest)

	for _, key := range []string{"kpi.visible:r", "user:/kpi.visible:r", "user:42"} {
		_, rest, ok := SplitUserKey(key)
		assert.False(t, ok, key)
		assert.Equal(t, key, rest)
	}
}

func TestExternalEvents(t *testing.T) {
	events := ExternalEvents(DefaultNamespaces(), []string{
		"user:1/kpi.visible:marketing.campaigns",
		"user:1/kpi.order:marketing.campaigns",
		"user:2/kpi.order:marketing.campaigns",
		"kpi.order:marketing.coupons",
		"user:1/other:thing",
		"kpi.order:",
	})
	assert.Equal(t, []PreferenceEvent{
		{ReportKey: "marketing.campaigns", UserID: "1", Kind: ChangeExternal},
		{ReportKey: "marketing.campaigns", UserID: "2", Kind: ChangeExternal},
		{ReportKey: "marketing.coupons", Kind: ChangeExternal},
	}, events)
}

func TestNamespacesKeys(t *testing.T) {
	ns := Namespaces{Visibility: "vis", Order: "ord"}
	assert.Equal(t, "vis:r", ns.VisibilityKey("r"))
	assert.Equal(t, "ord:r", ns.OrderKey("r"))

	report, slice, ok := ns.ReportKeyFor("ord:r")
	assert.True(t, ok)
	assert.Equal(t, "r", report)
	assert.Equal(t, "order", slice)

	assert.Equal(t, "kpi.visible:r", Namespaces{}.VisibilityKey("r"))
}

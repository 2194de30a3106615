package models_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"snapnet/models"
)

func TestIDListToggleIsItsOwnInverse(t *testing.T) {
	original := models.IDList{1, 2, 3}

	toggled, added := original.Toggle(7)
	require.True(t, added)
	require.True(t, toggled.Contains(7))
	require.Len(t, toggled, 4)

	back, added := toggled.Toggle(7)
	require.False(t, added)
	require.Equal(t, original, back)
}

func TestIDListToggleFlipsExactlyOnce(t *testing.T) {
	list := models.IDList{5}

	removed, added := list.Toggle(5)
	require.False(t, added)
	require.False(t, removed.Contains(5))
	require.Len(t, removed, 0)
}

func TestIDListAddDeduplicates(t *testing.T) {
	list := models.IDList{}
	list = list.Add(9)
	list = list.Add(9)
	require.Equal(t, models.IDList{9}, list)
}

func TestIDListRemovePreservesOrder(t *testing.T) {
	list := models.IDList{4, 8, 15, 16, 23}
	require.Equal(t, models.IDList{4, 15, 16, 23}, list.Remove(8))
	require.Equal(t, list, list.Remove(42))
}

func TestIDListScanValueRoundtrip(t *testing.T) {
	list := models.IDList{3, 1, 2}

	raw, err := list.Value()
	require.NoError(t, err)

	var restored models.IDList
	require.NoError(t, restored.Scan(raw))
	require.Equal(t, list, restored)
}

func TestIDListScanNilYieldsEmptyList(t *testing.T) {
	var list models.IDList
	require.NoError(t, list.Scan(nil))
	require.NotNil(t, list)
	require.Len(t, list, 0)
}

func TestIDListValueNilStoresEmptyArray(t *testing.T) {
	var list models.IDList
	raw, err := list.Value()
	require.NoError(t, err)
	require.Equal(t, "[]", raw)
}

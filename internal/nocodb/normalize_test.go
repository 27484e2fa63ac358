package nocodb

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/shoplist/internal/model"
)

func TestNormalize_NestedAndFlatAgree(t *testing.T) {
	nested, err := Normalize(json.RawMessage(`{"id": 4, "fields": {"Title": "Cucumbers #shop-a", "IsDone": true, "Qty": 2}}`))
	require.NoError(t, err)
	flat, err := Normalize(json.RawMessage(`{"Id": 4, "Title": "Cucumbers #shop-a", "IsDone": true, "Qty": 2}`))
	require.NoError(t, err)

	assert.Equal(t, flat, nested)
	assert.Equal(t, model.ID("4"), flat.ID)
	assert.Equal(t, map[string]any{"Qty": float64(2)}, flat.Fields)
}

func TestNormalize_IDFallbacks(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want model.ID
	}{
		{"flat upper", `{"Id": 1, "id": 2}`, "1"},
		{"flat lower only", `{"id": "abc"}`, `"abc"`},
		{"nested root lower wins", `{"id": 3, "Id": 9, "fields": {}}`, "3"},
		{"nested root upper", `{"Id": 9, "fields": {"Title": "x"}}`, "9"},
		{"missing", `{"Title": "x"}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := Normalize(json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, it.ID)
		})
	}
}

func TestNormalize_LooseColumns(t *testing.T) {
	it, err := Normalize(json.RawMessage(`{"Id": 1, "Title": null, "IsDone": 1}`))
	require.NoError(t, err)
	assert.Equal(t, "", it.Title)
	assert.True(t, it.IsDone)
	assert.Nil(t, it.Fields)
}

func TestNormalize_TitleAsText(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`{"Id": 1, "Title": 42}`, "42"},
		{`{"Id": 1, "Title": true}`, "true"},
		{`{"Id": 1, "Title": {"a": 1}}`, ""},
		{`{"Id": 1, "Title": ["x"]}`, ""},
		{`{"Id": 1}`, ""},
	}
	for _, tt := range tests {
		it, err := Normalize(json.RawMessage(tt.raw))
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, it.Title, tt.raw)
	}
}

func TestNormalize_IsDoneTruthiness(t *testing.T) {
	for raw, want := range map[string]bool{
		`true`: true, `1`: true, `"1"`: true, `"true"`: true,
		`false`: false, `0`: false, `"yes"`: false, `null`: false, `{}`: false,
	} {
		it, err := Normalize(json.RawMessage(`{"Id": 1, "IsDone": ` + raw + `}`))
		require.NoError(t, err, raw)
		assert.Equal(t, want, it.IsDone, raw)
	}
}

func TestNormalize_RejectsNonObject(t *testing.T) {
	_, err := Normalize(json.RawMessage(`[1,2]`))
	assert.Error(t, err)
	_, err = Normalize(json.RawMessage(`null`))
	assert.Error(t, err)
}

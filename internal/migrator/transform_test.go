package migrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/n8nmigrate/internal/config"
	"github.com/dbsmedya/n8nmigrate/internal/types"
)

func TestTransform_RenamesAndDrops(t *testing.T) {
	tr := NewTransformer("tag_entity", []string{"id", "name", "createdAt", "updatedAt"}, "")

	src := types.RowFromSlices(
		[]string{"id", "name", "createdat", "updatedat", "extra"},
		[]any{"t1", "prod", "2024-01-01", "2024-01-02", "gone"},
	)

	out, err := tr.Transform(src)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "createdAt", "updatedAt"}, types.Columns(out))
	assert.Equal(t, []any{"t1", "prod", "2024-01-01", "2024-01-02"}, types.Values(out))
}

func TestTransform_KeepsSourceOrder(t *testing.T) {
	tr := NewTransformer("tag_entity", []string{"updatedAt", "name", "id"}, "")

	out, err := tr.Transform(types.RowFromSlices([]string{"id", "name", "updatedat"}, []any{1, "n", "u"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "updatedAt"}, types.Columns(out))
}

func TestTransform_Booleans(t *testing.T) {
	tr := NewTransformer("user", []string{"disabled", "mfaEnabled", "isPending", "email"}, "")

	out, err := tr.Transform(types.RowFromSlices(
		[]string{"disabled", "mfaenabled", "ispending", "email"},
		[]any{int64(0), int64(1), nil, "a@b.c"},
	))
	require.NoError(t, err)
	assert.Equal(t, []any{false, true, nil, "a@b.c"}, types.Values(out))
}

func TestTransform_EmptyResult(t *testing.T) {
	tr := NewTransformer("installed_packages", []string{"unrelated"}, "")

	out, err := tr.Transform(types.RowFromSlices([]string{"packagename"}, []any{"x"}))
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
}

func TestTransform_JSONPassthroughNeverMutates(t *testing.T) {
	tr := NewTransformer("workflow_entity", []string{"nodes", "connections", "settings"}, config.JSONPassthrough)

	raw := []byte(`{"a": 1}`)
	out, err := tr.Transform(types.RowFromSlices(
		[]string{"nodes", "connections", "settings"},
		[]any{"not json", raw, nil},
	))
	require.NoError(t, err)
	assert.Equal(t, []any{"not json", raw, nil}, types.Values(out))
	assert.Equal(t, int64(1), tr.InvalidJSON)
}

func TestTransform_JSONReject(t *testing.T) {
	tr := NewTransformer("workflow_entity", []string{"id", "staticData"}, config.JSONReject)

	_, err := tr.Transform(types.RowFromSlices([]string{"id", "staticdata"}, []any{"w1", "{"}))
	require.Error(t, err)

	var jsonErr *InvalidJSONError
	require.ErrorAs(t, err, &jsonErr)
	assert.Equal(t, "staticData", jsonErr.Column)
	assert.Equal(t, "invalid JSON in workflow_entity.staticData", err.Error())

	out, err := tr.Transform(types.RowFromSlices([]string{"id", "staticdata"}, []any{"w1", `{"k":"v"}`}))
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
}

func TestValidJSON(t *testing.T) {
	assert.True(t, validJSON(nil))
	assert.True(t, validJSON(int64(5)))
	assert.True(t, validJSON(`[]`))
	assert.True(t, validJSON([]byte(`{"x":null}`)))
	assert.False(t, validJSON(``))
	assert.False(t, validJSON(`{`))
	assert.False(t, validJSON([]byte(`nope`)))
}

package migrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/n8nmigrate/internal/config"
	"github.com/dbsmedya/n8nmigrate/internal/schema"
)

func TestResolveOrder(t *testing.T) {
	fixed, err := ResolveOrder(config.MigrationConfig{Ordering: config.OrderingFixed})
	require.NoError(t, err)
	assert.Equal(t, schema.TableOrder(), fixed)

	def, err := ResolveOrder(config.MigrationConfig{})
	require.NoError(t, err)
	assert.Equal(t, fixed, def)

	byGraph, err := ResolveOrder(config.MigrationConfig{Ordering: config.OrderingGraph})
	require.NoError(t, err)
	assert.ElementsMatch(t, fixed, byGraph)
	assert.NoError(t, ValidateOrder(byGraph))
}

func TestResolveOrder_Filter(t *testing.T) {
	order, err := ResolveOrder(config.MigrationConfig{
		Tables: []string{"workflows_tags", "tag_entity", "workflow_entity"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"tag_entity", "workflow_entity", "workflows_tags"}, order)
}

func TestResolveOrder_Errors(t *testing.T) {
	_, err := ResolveOrder(config.MigrationConfig{Tables: []string{"tag_entity", "nope"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tables: nope")

	_, err = ResolveOrder(config.MigrationConfig{Ordering: "random"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown ordering "random"`)
}

func TestValidateOrder(t *testing.T) {
	assert.NoError(t, ValidateOrder(schema.TableOrder()))

	err := ValidateOrder([]string{"user", "role"})
	require.Error(t, err)
	var pfErr *PreflightError
	require.ErrorAs(t, err, &pfErr)
	assert.Equal(t, "table order", pfErr.Check)
}

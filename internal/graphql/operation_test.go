package graphql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
)

func TestDescribeOperation(t *testing.T) {
	op, err := DescribeOperation(`query AllRecipes($after: String) { recipes(after: $after) { nodes { id } } }`)
	require.NoError(t, err)
	assert.Equal(t, ast.Query, op.Type)
	assert.Equal(t, "AllRecipes", op.Label())

	op, err = DescribeOperation(`mutation CREATE_COMMENT($input: CreateCommentInput!) { createComment(input: $input) { success } }`)
	require.NoError(t, err)
	assert.Equal(t, ast.Mutation, op.Type)

	op, err = DescribeOperation(`{ __typename }`)
	require.NoError(t, err)
	assert.Equal(t, "anonymous", op.Label())
}

func TestDescribeOperationRejectsBadDocuments(t *testing.T) {
	_, err := DescribeOperation("")
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = DescribeOperation(`query {`)
	assert.Error(t, err)
}

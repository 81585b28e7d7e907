package motor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const filterBody = `{"data":{"users":[
	{"id":"1","name":"Alice","status":"ACTIVE"},
	{"id":"2","name":"Bob","status":"BANNED"},
	{"id":"3","name":"Cara","status":"ACTIVE"}]}}`

func TestFilterResponse_Empty(t *testing.T) {
	out, err := FilterResponse([]byte(filterBody), "")
	require.NoError(t, err)
	assert.Equal(t, filterBody, string(out))
}

func TestFilterResponse_KeepsShape(t *testing.T) {
	out, err := FilterResponse([]byte(filterBody), "{data: {users: data.users[?status=='ACTIVE']}}")
	require.NoError(t, err)

	table, err := Project(out)
	require.NoError(t, err)
	require.NotNil(t, table)
	assert.Equal(t, "users", table.Source)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "1", table.Rows[0].ID)
	assert.Equal(t, "3", table.Rows[1].ID)

	// members come back sorted
	assert.Equal(t, []string{"id", "name", "status"}, table.Columns)
}

func TestFilterResponse_Projection(t *testing.T) {
	out, err := FilterResponse([]byte(filterBody), "data.users[].name")
	require.NoError(t, err)
	assert.JSONEq(t, `["Alice","Bob","Cara"]`, string(out))

	out, err = FilterResponse([]byte(filterBody), "data.nothing")
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestFilterResponse_Errors(t *testing.T) {
	_, err := FilterResponse([]byte(filterBody), "data.users[?")
	assert.ErrorContains(t, err, "invalid JMESPath expression")

	_, err = FilterResponse([]byte(`{"data":`), "data")
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

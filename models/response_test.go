package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseOmitsEmptyData(t *testing.T) {
	out, err := json.Marshal(Response{Status: 404, Message: "Member not found"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":404,"message":"Member not found"}`, string(out))
}

func TestResponseCarriesData(t *testing.T) {
	out, err := json.Marshal(Response{
		Status:  200,
		Message: "Members fetched successfully",
		Data: map[string]interface{}{
			"pagination": Pagination{CurrentPage: 2, TotalPages: 5, TotalCount: 92, Limit: 20},
		},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"status": 200,
		"message": "Members fetched successfully",
		"data": {
			"pagination": {"currentPage": 2, "totalPages": 5, "totalCount": 92, "limit": 20}
		}
	}`, string(out))
}

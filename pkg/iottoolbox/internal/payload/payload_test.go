package payload

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/oncemcp/pkg/management"
)

func TestDecode(t *testing.T) {
	var v struct {
		ICCID string `json:"iccid"`
	}

	require.NoError(t, Decode("tool", json.RawMessage(`{"iccid":"1"}`), &v))
	assert.Equal(t, "1", v.ICCID)

	err := Decode("tool", json.RawMessage(`{"iccid":1}`), &v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tool: invalid input")
}

func TestResult(t *testing.T) {
	out, err := Result("tool", json.RawMessage(`{"a":1}`), nil)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, out)

	out, err = Result("tool", nil, management.ErrInvalidDate)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Dates must be in YYYY-MM-DD format"}`, out)

	_, err = Result("tool", nil, errors.New("boom"))
	assert.EqualError(t, err, "boom")
}

func TestAck(t *testing.T) {
	out, err := Ack("tool", nil, "done")
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"message":"done"}`, out)

	out, err = Ack("tool", management.ErrInvalidStatus, "done")
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Status must be either 'Enabled' or 'Disabled'"}`, out)

	_, err = Ack("tool", errors.New("boom"), "done")
	assert.Error(t, err)
}

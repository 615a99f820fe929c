package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandVocabulary(t *testing.T) {
	require.Equal(t, "get-cameras", GetCommand("cameras"))
	require.Equal(t, "submit-camera", SubmitCommand("camera"))
	require.Equal(t, "edit-rig", EditCommand("rig"))
	require.Equal(t, "delete-rotator", DeleteCommand("rotator"))
}

func TestNewCorrelationID_Unique(t *testing.T) {
	a := NewCorrelationID()
	b := NewCorrelationID()
	require.Len(t, a, 26)
	require.NotEqual(t, a, b)
}

func TestFrame_RoundTrip(t *testing.T) {
	f := Frame{
		Kind:    KindAck,
		ID:      NewCorrelationID(),
		Success: true,
		Payload: json.RawMessage(`[{"id":1}]`),
	}

	b, err := json.Marshal(f)
	require.NoError(t, err)

	var got Frame
	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, f.ID, got.ID)
	require.True(t, got.Success)
	require.JSONEq(t, `[{"id":1}]`, string(got.Payload))
}

func TestFrame_OmitsEmptyFields(t *testing.T) {
	b, err := json.Marshal(Frame{Kind: KindEvent, Topic: EventStatus})
	require.NoError(t, err)
	require.NotContains(t, string(b), `"id"`)
	require.NotContains(t, string(b), `"error"`)
}

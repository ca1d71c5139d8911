package common

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestID_Validate_ValidUUID(t *testing.T) {
	id := ID("550e8400-e29b-41d4-a716-446655440000")
	err := id.Validate()
	assert.NoError(t, err)
}

func TestID_Validate_EmptyString(t *testing.T) {
	id := ID("")
	err := id.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")
}

func TestID_Validate_InvalidFormat(t *testing.T) {
	id := ID("not-a-uuid")
	err := id.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ID format")
}

func TestNewID_GeneratesValidUUID(t *testing.T) {
	id := NewID()
	err := id.Validate()
	assert.NoError(t, err)
}

func TestGenerateID_WithPrefix(t *testing.T) {
	id := GenerateID("ingest")
	assert.Contains(t, id, "ingest-")
}

func TestGenerateID_WithoutPrefix(t *testing.T) {
	id := GenerateID("")
	assert.NoError(t, ID(id).Validate())
}

func TestTimestamp_MarshalJSON(t *testing.T) {
	now := time.Date(2023, 10, 27, 10, 0, 0, 0, time.UTC)
	ts := Timestamp(now)
	data, err := json.Marshal(ts)
	assert.NoError(t, err)
	assert.Equal(t, "\"2023-10-27T10:00:00Z\"", string(data))
}

func TestTimestamp_UnmarshalJSON_Valid(t *testing.T) {
	data := []byte("\"2023-10-27T10:00:00Z\"")
	var ts Timestamp
	err := json.Unmarshal(data, &ts)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2023, 10, 27, 10, 0, 0, 0, time.UTC), time.Time(ts))
}

func TestTimestamp_UnmarshalJSON_Invalid(t *testing.T) {
	data := []byte("\"invalid-date\"")
	var ts Timestamp
	err := json.Unmarshal(data, &ts)
	assert.Error(t, err)
}

func TestTimestamp_ToUnixMilli_RoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	ts := Timestamp(now)
	msec := ts.ToUnixMilli()
	ts2 := FromUnixMilli(msec)
	assert.Equal(t, ts, ts2)
}

func TestNewBaseEvent_PopulatesFields(t *testing.T) {
	evt := NewBaseEvent("statute.parsed", "statute_test_act_1974")

	assert.NoError(t, ID(evt.EventID()).Validate())
	assert.Equal(t, "statute.parsed", evt.EventType())
	assert.Equal(t, "statute_test_act_1974", evt.AggregateID())
	assert.WithinDuration(t, time.Now().UTC(), evt.OccurredAt(), time.Minute)
}

func TestBaseEvent_ImplementsDomainEvent(t *testing.T) {
	var evt DomainEvent = NewBaseEvent("statute.parsed", "agg-1")
	assert.NotEmpty(t, evt.EventID())
}

package habit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricUnmarshal(t *testing.T) {
	cases := []struct {
		name    string
		json    string
		want    Metric
		wantErr bool
	}{
		{"number", `7.5`, Metric{Value: 7.5, Present: true}, false},
		{"zero is present", `0`, Metric{Value: 0, Present: true}, false},
		{"numeric string", `"8"`, Metric{Value: 8, Present: true}, false},
		{"null is absent", `null`, Metric{}, false},
		{"empty string is absent", `""`, Metric{}, false},
		{"garbage string rejected", `"a lot"`, Metric{}, true},
		{"bool rejected", `true`, Metric{}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var m Metric
			err := json.Unmarshal([]byte(tc.json), &m)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, m)
		})
	}
}

func TestMetricsAbsentFieldsStayAbsent(t *testing.T) {
	var m Metrics
	require.NoError(t, json.Unmarshal([]byte(`{"mood": 6, "sleepHours": ""}`), &m))

	assert.True(t, m.Mood.Present)
	assert.False(t, m.SleepHours.Present)
	assert.False(t, m.ExerciseMinutes.Present)
}

func TestMetricRoundTripThroughPtr(t *testing.T) {
	assert.Nil(t, Metric{}.Ptr())
	assert.Equal(t, Metric{}, FromPtr(nil))

	m := MetricOf(42)
	p := m.Ptr()
	require.NotNil(t, p)
	assert.Equal(t, m, FromPtr(p))
}

func TestDomainValid(t *testing.T) {
	for _, d := range Domains {
		assert.True(t, d.Valid())
	}
	assert.False(t, Domain("Sleep").Valid())
	assert.False(t, Domain("").Valid())
}

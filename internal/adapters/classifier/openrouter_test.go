package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenRouter(t *testing.T) {
	c := NewOpenRouter("key", "model", []string{"!forecast", "!uptime"})

	assert.NotNil(t, c)
	assert.Equal(t, "model", c.model)
}

func TestParsePrediction(t *testing.T) {
	type TestCase struct {
		description    string
		raw            string
		wantLabel      string
		wantConfidence float64
	}

	testCases := []TestCase{
		{
			description:    "plain object",
			raw:            `{"label": "!forecast", "confidence": 0.93}`,
			wantLabel:      "!forecast",
			wantConfidence: 0.93,
		},
		{
			description:    "fenced object",
			raw:            "```json\n{\"label\": \"!uptime\", \"confidence\": 0.5}\n```",
			wantLabel:      "!uptime",
			wantConfidence: 0.5,
		},
		{
			description:    "object wrapped in prose",
			raw:            `Sure! {"label": "!song", "confidence": 1}`,
			wantLabel:      "!song",
			wantConfidence: 1,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			label, confidence, err := parsePrediction(testCase.raw)
			require.NoError(t, err)

			assert.Equal(t, testCase.wantLabel, label)
			assert.InDelta(t, testCase.wantConfidence, confidence, 0.0001)
		})
	}
}

func TestParsePredictionErrors(t *testing.T) {
	_, _, err := parsePrediction("no object here")
	assert.Error(t, err)

	_, _, err = parsePrediction(`{"confidence": 0.9}`)
	assert.Error(t, err)

	_, _, err = parsePrediction(`{"label": []}`)
	assert.Error(t, err)
}

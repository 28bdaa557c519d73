package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  StringList
	}{
		{"array", `["1 cup rice", " salt "]`, StringList{"1 cup rice", "salt"}},
		{"comma joined", `"vegan, gluten-free,,"`, StringList{"vegan", "gluten-free"}},
		{"empty string", `""`, StringList{}},
		{"empty array", `[]`, StringList{}},
		{"null", `null`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got StringList
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringListUnmarshalRejectsOtherTypes(t *testing.T) {
	var got StringList
	assert.Error(t, json.Unmarshal([]byte(`42`), &got))
	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &got))
}

func TestFromForm(t *testing.T) {
	assert.Equal(t, StringList{"a", "b"}, FromForm([]string{"a, b"}))
	assert.Equal(t, StringList{"a, b", "c"}, FromForm([]string{"a, b", "c"}))
	assert.Equal(t, StringList{}, FromForm(nil))
}

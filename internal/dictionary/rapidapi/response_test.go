package rapidapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPronunciation_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantAll string
		wantErr bool
	}{
		{
			name:    "struct format",
			json:    `{"all": "həˈloʊ"}`,
			wantAll: "həˈloʊ",
		},
		{
			name:    "string format",
			json:    `"həˈloʊ"`,
			wantAll: "həˈloʊ",
		},
		{
			name:    "empty struct",
			json:    `{"all": ""}`,
			wantAll: "",
		},
		{
			name:    "number",
			json:    `12`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Pronunciation
			err := json.Unmarshal([]byte(tt.json), &p)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantAll, p.All)
		})
	}
}

func TestResponse_Definition(t *testing.T) {
	bank := Response{
		Word: "bank",
		Results: []Result{
			{PartOfSpeech: "noun", Definition: "a financial institution"},
			{Definition: "the side of a river"},
			{PartOfSpeech: "verb"},
			{PartOfSpeech: "verb", Definition: "to deposit money"},
		},
	}

	tests := []struct {
		name     string
		response Response
		limit    int
		want     string
	}{
		{
			name:     "all results",
			response: bank,
			want:     "(noun) a financial institution; the side of a river; (verb) to deposit money",
		},
		{
			name:     "limited",
			response: bank,
			limit:    1,
			want:     "(noun) a financial institution",
		},
		{
			name:     "no result",
			response: Response{Word: "zzz"},
			limit:    2,
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.response.Definition(tt.limit))
		})
	}
}

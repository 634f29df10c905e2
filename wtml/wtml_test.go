package wtml

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Record(t *testing.T) {
	record, err := Record(ImageSet{}, "http://example.org/tiles", 3)
	require.NoError(t, err)

	assert.Contains(t, record, `Url="http://example.org/tiles/{1}/{3}/{3}_{2}.png"`)
	assert.Contains(t, record, `TileLevels="3"`)
	assert.Contains(t, record, `Projection="Toast"`)
	assert.Contains(t, record, `BandPass="Visible"`)
	assert.Contains(t, record, `<Folder Name="Toastel">`)

	// must stay well-formed
	var reparsed folderXML
	assert.NoError(t, xml.Unmarshal([]byte(record), &reparsed))
	assert.Equal(t, 3, reparsed.ImageSet.TileLevels)
}

func Test_Load(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		want    ImageSet
		wantErr bool
	}{
		{
			name: "defaults fill the gaps",
			json: `{"name": "Westerbork 92cm"}`,
			want: ImageSet{
				FolderName: "Toastel",
				Name:       "Westerbork 92cm",
				BandPass:   "Visible",
				Credits:    "Toastel",
			},
		},
		{
			name: "unknown keys are tolerated",
			json: `{"bandPass": "Radio", "futureKey": true}`,
			want: ImageSet{
				FolderName: "Toastel",
				Name:       "Toastel map",
				BandPass:   "Radio",
				Credits:    "Toastel",
			},
		},
		{
			name:    "invalid band pass",
			json:    `{"bandPass": "Sonar"}`,
			wantErr: true,
		},
		{
			name:    "invalid credits url",
			json:    `{"creditsUrl": "not a url"}`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load([]byte(tt.json))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

package media

import "testing"

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    float64
		wantErr bool
	}{
		{
			name:   "format",
			output: `{"format":{"duration":"12.480000"},"streams":[]}`,
			want:   12.48,
		},
		{
			name:   "videoStream",
			output: `{"format":{},"streams":[{"codec_type":"audio","duration":"3.0"},{"codec_type":"video","duration":"9.5"}]}`,
			want:   9.5,
		},
		{
			name:    "missing",
			output:  `{"format":{},"streams":[]}`,
			wantErr: true,
		},
		{
			name:    "garbage",
			output:  `not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDuration([]byte(tt.output))
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDuration() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

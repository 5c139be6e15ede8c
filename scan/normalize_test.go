package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text unchanged",
			in:   "MIT License",
			want: "MIT License",
		},
		{
			name: "comment decoration collapses",
			in:   " * Apache License,\n * Version 2.0 ",
			want: "Apache License, Version 2.0",
		},
		{
			name: "hash comments collapse",
			in:   "# Licensed # under # the # MIT # License",
			want: "Licensed under the MIT License",
		},
		{
			name: "url survives verbatim",
			in:   "see http://www.apache.org/licenses/LICENSE-2.0 for terms",
			want: "see http://www.apache.org/licenses/LICENSE-2.0 for terms",
		},
		{
			name: "apostrophes and hyphens survive",
			in:   "Copyright  O'Brien third-party tools",
			want: "Copyright O'Brien third-party tools",
		},
		{
			name: "whitespace-free separator run kept",
			in:   "and/or",
			want: "and/or",
		},
		{
			name: "idempotent on normalized text",
			in:   "Apache License, Version 2.0",
			want: "Apache License, Version 2.0",
		},
		{
			name: "empty",
			in:   "   \t\n ",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Normalize(got), "normalization must be idempotent")
		})
	}
}

package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitAttachedVerbosity(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "bare -V untouched",
			args: []string{"makecab", "-V", "in.txt"},
			want: []string{"makecab", "-V", "in.txt"},
		},
		{
			name: "attached level split out",
			args: []string{"makecab", "-V2", "in.txt"},
			want: []string{"makecab", "--verbosity-level", "2", "in.txt"},
		},
		{
			name: "other flags untouched",
			args: []string{"makecab", "-L", "out", "in.txt"},
			want: []string{"makecab", "-L", "out", "in.txt"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := splitAttachedVerbosity(tc.args)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("splitAttachedVerbosity() (-want +got):\n%s", diff)
			}
		})
	}
}

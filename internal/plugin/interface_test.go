package plugin

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetadataValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		meta    Metadata
		wantErr string
	}{
		{
			name: "valid with dependencies",
			meta: Metadata{ID: "crm", Name: "CRM", Dependencies: []string{"auth", "mail"}},
		},
		{
			name: "valid without dependencies",
			meta: Metadata{ID: "home"},
		},
		{
			name:    "empty id",
			meta:    Metadata{Name: "Nameless"},
			wantErr: "non-empty ID",
		},
		{
			name:    "blank dependency",
			meta:    Metadata{ID: "mail", Dependencies: []string{" "}},
			wantErr: "empty id",
		},
		{
			name:    "self dependency",
			meta:    Metadata{ID: "mail", Dependencies: []string{"mail"}},
			wantErr: "cannot depend on itself",
		},
		{
			name:    "duplicate dependency",
			meta:    Metadata{ID: "crm", Dependencies: []string{"auth", "auth"}},
			wantErr: "more than once",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.meta.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "registered", StateRegistered.String())
	require.Equal(t, "error", StateError.String())
}

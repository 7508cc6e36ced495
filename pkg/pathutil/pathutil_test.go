package pathutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "simple relative", path: "data/clients"},
		{name: "absolute", path: "/tmp/lantern"},
		{name: "traversal", path: "../etc/passwd", wantErr: true},
		{name: "embedded traversal", path: "data/../../etc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidatePath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, filepath.IsAbs(got))
		})
	}
}

func TestJoinAndValidate(t *testing.T) {
	base := t.TempDir()

	got, err := JoinAndValidate(base, "clients", "acme", "findings")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "clients", "acme", "findings"), got)

	_, err = JoinAndValidate(base, "..", "outside")
	assert.Error(t, err)

	_, err = JoinAndValidate(base, "a/../../b")
	assert.Error(t, err)
}

func TestSafeName(t *testing.T) {
	assert.True(t, SafeName("acme"))
	assert.True(t, SafeName("acme_corp"))
	assert.False(t, SafeName(""))
	assert.False(t, SafeName("."))
	assert.False(t, SafeName(".."))
	assert.False(t, SafeName("a/b"))
	assert.False(t, SafeName(`a\b`))
}

package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucible-build/crucible/pkg/errors"
)

func TestOptionValueBool(t *testing.T) {
	assert.True(t, True.Bool())
	assert.False(t, False.Bool())
	assert.False(t, None.Bool())
	assert.False(t, OptionValue("16").Bool())
}

func TestOptionSpecConstructors(t *testing.T) {
	b := Bool(true)
	assert.Equal(t, True, b.Default)
	assert.True(t, b.Contains(False))
	assert.False(t, b.Contains(None))

	e := Enum(OptionValue("16"), "8", "16", "32")
	assert.Equal(t, OptionValue("16"), e.Default)
	assert.True(t, e.Contains("32"))
	assert.False(t, e.Contains("64"))
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		options Options
		wantErr bool
	}{
		{
			name: "valid table",
			options: Options{
				"shared": Bool(false),
				"jpeg":   Enum("libjpeg", "libjpeg", "libjpeg-turbo", None),
			},
		},
		{
			name: "default outside enumeration",
			options: Options{
				"quantum_depth": OptionSpec{Values: []OptionValue{"8", "16", "32"}, Default: "64"},
			},
			wantErr: true,
		},
		{
			name: "empty enumeration",
			options: Options{
				"broken": OptionSpec{Default: True},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.options.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOptionsCloneIsDeep(t *testing.T) {
	orig := Options{"shared": Bool(false)}
	cloned := orig.Clone()

	cloned.Delete("shared")
	cloned["fPIC"] = Bool(true)

	assert.Contains(t, orig, "shared")
	assert.NotContains(t, orig, "fPIC")
}

func TestOptionsResolveDefaults(t *testing.T) {
	opts := Options{
		"shared":        Bool(false),
		"quantum_depth": Enum("16", "8", "16", "32"),
	}

	set, err := opts.Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, False, set.Value("shared"))
	assert.Equal(t, OptionValue("16"), set.Value("quantum_depth"))
}

func TestOptionsResolveOverrides(t *testing.T) {
	opts := Options{
		"shared":        Bool(false),
		"quantum_depth": Enum("16", "8", "16", "32"),
	}

	set, err := opts.Resolve(map[string]string{
		"shared":        "true",
		"quantum_depth": "32",
	})
	require.NoError(t, err)
	assert.True(t, set.Bool("shared"))
	assert.True(t, set.Is("quantum_depth", "32"))
}

func TestOptionsResolveRejections(t *testing.T) {
	opts := Options{"shared": Bool(false)}

	tests := []struct {
		name      string
		overrides map[string]string
	}{
		{name: "unknown option", overrides: map[string]string{"hdri": "true"}},
		{name: "out of enumeration", overrides: map[string]string{"shared": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := opts.Resolve(tt.overrides)
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
		})
	}
}

func TestOptionSetHelpers(t *testing.T) {
	set := OptionSet{"shared": True, "jpeg": "libjpeg-turbo"}

	assert.True(t, set.Has("shared"))
	assert.False(t, set.Has("fPIC"))
	assert.True(t, set.Bool("shared"))
	assert.False(t, set.Bool("missing"))
	assert.True(t, set.Is("jpeg", "libjpeg-turbo"))
	assert.False(t, set.Is("missing", True))
	assert.Equal(t, []string{"jpeg", "shared"}, set.SortedNames())

	cloned := set.Clone()
	cloned.Delete("shared")
	assert.True(t, set.Has("shared"))
}

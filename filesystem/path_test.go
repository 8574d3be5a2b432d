package filesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPath_String(t *testing.T) {
	assert.Equal(t, "/", Path{}.String())
	assert.Equal(t, "/", Path(nil).String())
	assert.Equal(t, "/docs/", Path{"docs"}.String())
	assert.Equal(t, "/docs/2024/", Path{"docs", "2024"}.String())
	assert.Equal(t, "/docs/2024", Path{"docs", "2024"}.Dir())
	assert.Equal(t, "/", Path{}.Dir())
}

func TestPath_Clone(t *testing.T) {
	p := Path{"docs", "2024"}
	c := p.Clone()
	c[0] = "other"
	c = append(c, "more")
	assert.Equal(t, Path{"docs", "2024"}, p)
	assert.Equal(t, Path{"other", "2024", "more"}, c)
	assert.NotNil(t, Path(nil).Clone())
}

func TestPath_Resolve(t *testing.T) {
	current := Path{"docs", "2024"}
	tests := []struct {
		pathText string
		wantDir  Path
		wantName string
		wantOK   bool
	}{
		{"readme.txt", Path{"docs", "2024"}, "readme.txt", true},
		{"/readme.txt", Path{}, "readme.txt", true},
		{"/docs/readme.txt", Path{"docs"}, "readme.txt", true},
		{"./a/./b.txt", Path{"docs", "2024", "a"}, "b.txt", true},
		{"../readme.txt", Path{"docs"}, "readme.txt", true},
		{"../../../../etc/passwd", Path{"etc"}, "passwd", true},
		{"my file with spaces.txt", Path{"docs", "2024"}, "my file with spaces.txt", true},
		{"sub/", Path{"docs", "2024"}, "sub", true},
		{"//double//slash", Path{"double"}, "slash", true},
		{"/", Path{}, "", false},
		{"../..", Path{}, "", false},
		{"", Path{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.pathText, func(t *testing.T) {
			dir, name, ok := current.Resolve(tt.pathText)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantDir, dir)
				assert.Equal(t, tt.wantName, name)
			}
		})
	}
	assert.Equal(t, Path{"docs", "2024"}, current, "resolve must not modify the receiver")
}

func TestPath_Join(t *testing.T) {
	assert.Equal(t, Path{"docs"}, Path{"docs", "2024"}.Join(".."))
	assert.Equal(t, Path{}, Path{"docs"}.Join("/"))
	assert.Equal(t, Path{"a", "b"}, ParsePath("/a/b/"))
	assert.Equal(t, Path{"docs"}, Path{"docs", "2024"}.Parent())
	assert.Equal(t, Path{}, Path{}.Parent())
	assert.True(t, Path{}.IsRoot())
}

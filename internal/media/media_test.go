package media

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/domain"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		ct, name string
		want     domain.MediaKind
	}{
		{"video/mp4", "a.bin", domain.MediaVideo},
		{"image/png", "a.png", domain.MediaImage},
		{"", "clip.MOV", domain.MediaVideo},
		{"application/octet-stream", "photo.jpg", domain.MediaImage},
		{"", "noext", domain.MediaImage},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, KindOf(tc.ct, tc.name), "%s %s", tc.ct, tc.name)
	}
}

func TestFakeAndDisabled(t *testing.T) {
	f := &Fake{BaseURL: "https://cdn.test"}
	url, err := f.Upload(context.Background(), "dir/front.jpg", strings.NewReader("x"), domain.MediaImage)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/image/front.jpg", url)
	assert.Equal(t, []string{"dir/front.jpg"}, f.Uploaded())

	_, err = Disabled{}.Upload(context.Background(), "a.jpg", strings.NewReader("x"), domain.MediaImage)
	assert.True(t, errors.Is(err, ErrDisabled))

	_, err = NewCloudinary("", "k", "s", "products")
	assert.Error(t, err)
}

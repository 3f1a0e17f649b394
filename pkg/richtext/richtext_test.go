package richtext_test

import (
	"testing"

	"github.com/niksmo/cloudshop/pkg/richtext"
	"github.com/stretchr/testify/assert"
)

func TestExtractImages(t *testing.T) {
	tests := []struct {
		name         string
		introduction string
		want         []string
	}{
		{
			name:         "Regular",
			introduction: "<img src='https://cdn/a.jpg'><br/><img src='https://cdn/b.jpg'>",
			want:         []string{"https://cdn/a.jpg", "https://cdn/b.jpg"},
		},
		{
			name:         "ExtraAttributesAndWrappers",
			introduction: "<p><img alt='front' src='a.png' /></p><br/><div>text</div><br/><img src='b.png'/>",
			want:         []string{"a.png", "b.png"},
		},
		{
			name:         "DoubleQuotesAlready",
			introduction: `<img src="a.jpg">`,
			want:         []string{"a.jpg"},
		},
		{
			name:         "MissingClosingQuote",
			introduction: "<img src='https://cdn/a.jpg>",
			want:         []string{},
		},
		{
			name:         "MalformedSegmentDropped",
			introduction: "<img src='ok.jpg'><br/><img alt='no source'><br/><img src=''>",
			want:         []string{"ok.jpg"},
		},
		{
			name:         "Garbage",
			introduction: "<<<>>>'''\"\"<br/><br/>&&;",
			want:         []string{},
		},
		{
			name:         "Empty",
			introduction: "",
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			assert.NotPanics(t, func() {
				got = richtext.ExtractImages(tt.introduction)
			})
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

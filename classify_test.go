package microlog

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Classified
	}{
		{
			name:    "link with commentary",
			content: "https://x.com|hello",
			want:    Classified{Kind: KindLink, URL: "https://x.com", Commentary: "hello"},
		},
		{
			name:    "http link",
			content: "http://example.org|note",
			want:    Classified{Kind: KindLink, URL: "http://example.org", Commentary: "note"},
		},
		{
			name:    "www link without scheme",
			content: "www.example.org|note",
			want:    Classified{Kind: KindLink, URL: "www.example.org", Commentary: "note"},
		},
		{
			name:    "image with caption",
			content: "photo.jpg|caption",
			want:    Classified{Kind: KindImage, Image: "photo.jpg", Commentary: "caption"},
		},
		{
			name:    "uppercase extension",
			content: "PHOTO.JPG|caption",
			want:    Classified{Kind: KindImage, Image: "PHOTO.JPG", Commentary: "caption"},
		},
		{
			name:    "plain text",
			content: "just text",
			want:    Classified{Kind: KindText, Commentary: "just text"},
		},
		{
			name:    "fallback keeps the whole original string",
			content: "notaurl|trailing",
			want:    Classified{Kind: KindText, Commentary: "notaurl|trailing"},
		},
		{
			name:    "only first separator splits",
			content: "https://x.com|a|b",
			want:    Classified{Kind: KindLink, URL: "https://x.com", Commentary: "a|b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.content); got != tt.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.content, got, tt.want)
			}
		})
	}
}

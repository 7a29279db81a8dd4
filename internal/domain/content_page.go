package domain

// Image is a CMS media item reference.
type Image struct {
	SourceURL string
	AltText   string
}

// ContentPage is a generic CMS page built from up to three sections.
type ContentPage struct {
	Title                 string
	Slug                  string
	Section1Content       string
	Section1Image         *Image
	Section2Content       string
	Section2Image         *Image
	Section2ImagePosition string
	Section3Content       string
}

// Section2ImageRight reports whether the second section image sits to the right of its text.
func (p ContentPage) Section2ImageRight() bool {
	return p.Section2ImagePosition == "Right"
}

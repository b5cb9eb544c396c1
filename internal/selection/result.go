package selection

import (
	"github.com/JPM1118/assetpick/internal/media"
)

// Result is the terminal outcome of a picker session: either a selected
// image or no selection. The zero value is NoSelection.
type Result struct {
	image *media.Image
}

// Selected returns a Result carrying img. A nil img yields NoSelection.
func Selected(img *media.Image) Result {
	return Result{image: img}
}

// NoSelection returns the empty Result. Cancellation, dismissal and surface
// failures all resolve to it.
func NoSelection() Result {
	return Result{}
}

// Image returns the selected image, or nil for NoSelection. The pointer is
// the one the picker surface delivered.
func (r Result) Image() *media.Image {
	return r.image
}

// OK reports whether an image was selected.
func (r Result) OK() bool {
	return r.image != nil
}

func (r Result) String() string {
	if r.image == nil {
		return "NoSelection"
	}
	return "Selected(" + r.image.Path + ")"
}

// Callback receives the outcome of a picker session. A Controller invokes it
// at most once.
type Callback func(Result)

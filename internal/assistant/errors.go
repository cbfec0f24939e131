// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assistant

import "errors"

// Precondition and missing-input errors. None of them involve a model call;
// surfaces report them as user errors.
var (
	ErrNotSummarized   = errors.New("please summarize the paper first")
	ErrEnglishTarget   = errors.New("text is already in English")
	ErrEmptyQuestion   = errors.New("please enter a question")
	ErrNoPaperSelected = errors.New("no paper selected")
	ErrNoUpload        = errors.New("no PDF uploaded")
	ErrPaperNotFound   = errors.New("paper not found in search results")
)

var userErrors = []error{
	ErrNotSummarized,
	ErrEnglishTarget,
	ErrEmptyQuestion,
	ErrNoPaperSelected,
	ErrNoUpload,
	ErrPaperNotFound,
}

// IsUserError reports whether err is caused by user input rather than a failing dependency.
func IsUserError(err error) bool {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

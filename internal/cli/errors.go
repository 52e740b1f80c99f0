package cli

import "errors"

var (
	ErrNotSignedIn    = errors.New("not signed in, run `postsctl login` first")
	ErrAPIURLRequired = errors.New("posts API URL is required, set --api or API_BASE_URL")
	ErrNotConfirmed   = errors.New("aborted")
)

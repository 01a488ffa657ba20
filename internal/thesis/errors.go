// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package thesis

import "errors"

// ErrEmptyQuery is returned by Search when the query is blank. No request is
// sent in that case.
var ErrEmptyQuery = errors.New("query is empty")

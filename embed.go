package tessera

import "embed"

// WebFS holds the static lobby and board UI, embedded so the server
// ships as a single binary.
//
//go:embed web
var WebFS embed.FS

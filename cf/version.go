package cf

import "fmt"

// version information, stamped by the build via -ldflags.
var GITLASTTAG = "v0.1.0"
var GITLASTCOMMIT string

func Version() string {
	if GITLASTCOMMIT == "" {
		return GITLASTTAG
	}
	return fmt.Sprintf("%s/%s", GITLASTTAG, GITLASTCOMMIT)
}

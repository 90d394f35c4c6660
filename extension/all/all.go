// Package all imports all built-in examdex extensions.
// Import this package to register all built-in commands.
package all

import (
	// Each registers itself via init()
	_ "github.com/jpl-au/examdex/extension/admin"
	_ "github.com/jpl-au/examdex/extension/core"
	_ "github.com/jpl-au/examdex/extension/search"
)

// flags.go defines constants for all CLI flag names.
//
// Naming convention: Flag<PascalCaseName> where name matches the kebab-case
// CLI flag (e.g., "dry-run" -> FlagDryRun).

package extension

// Flag name constants for CLI commands.
// These are used with cobra's Flags().Type() and GetType() methods.
const (
	// Boolean flags

	FlagAdmin       = "admin"        // Search as a global admin
	FlagDryRun      = "dry-run"      // Validate without making changes
	FlagGlobal      = "global"       // Use global config scope
	FlagLocal       = "local"        // Use local scope (gitignored)
	FlagNoAnswers   = "no-answers"   // Exclude answers
	FlagNoComments  = "no-comments"  // Exclude comments
	FlagNoDocuments = "no-documents" // Exclude documents and pages
	FlagPaid        = "paid"         // Search with an active payment
	FlagShare       = "share"        // Mark as shared (committed)
	FlagTimings     = "timings"      // Print per-kind timings

	// String flags

	FlagUser = "user" // Username to search as

	// Integer flags

	FlagAmount = "amount" // Results per kind

	// Integer slice flags

	FlagAdminCategory = "admin-category" // Category ID the requester administers
)

package bot

import "strings"

// Fixed reply texts. The gate replies are deliberately terse and
// constant so they leak nothing about why a request was rejected.
const (
	msgAccessGranted = "Access granted"
	msgAccessDenied  = "Access denied"
	msgInvalidKey    = "Invalid activation key"
	msgSearchResults = "Matching files:"
	msgNotFound      = "File not found"
	msgFetchFailed   = "Could not fetch the file, please try again later"
	msgProcessed     = "File delivered"
	msgGroupChat     = "This command is not available in group chats"
	msgNewUserPrefix = "New user: "
)

// helpText is the /start reply, pre-escaped for MarkdownV2.
const helpText = "*Available commands*\n\n" +
	"/start \\- show this message\n" +
	"/key \\<activation key\\> \\- unlock access"

// escapeUnderscores escapes underscore characters for MarkdownV2, where
// a bare underscore opens an italic span. Applied to every markdown
// reply because usernames and file names routinely contain underscores.
func escapeUnderscores(s string) string {
	return strings.ReplaceAll(s, "_", "\\_")
}

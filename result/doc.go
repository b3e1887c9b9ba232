// Package result holds validation result trees and reduces them to
// per-field messages.
package result

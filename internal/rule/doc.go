// Package rule defines the validated Search & Change rule model: natural
// classes, directions, the rule record, and the rules document. Validation
// collects every error in a document before reporting, so a batch of bad
// rules surfaces in one pass.
package rule

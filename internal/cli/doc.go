// Package cli implements the command-line interface for catalog-courses.
//
// The cli package provides the Cobra-based CLI with commands to scrape program
// requirement tables (the default command), list a saved program document as a
// table or JSON, and check a course's prerequisites against completed courses.
// It coordinates the config, pipeline and storage packages and reports what
// changed since the previous scrape.
package cli

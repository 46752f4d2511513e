// Package catalog provides HTTP fetching and HTML table extraction for catalog pages.
//
// The catalog package fetches degree-program and course search pages from the online
// catalog and materializes every table into plain Row and Cell values, so callers can
// walk table rows by index without holding on to the parsed DOM. Any failure to fetch
// or parse a page is reported as a *NetworkError.
package catalog

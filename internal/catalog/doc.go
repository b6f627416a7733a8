// Package catalog fetches and parses the remote addon repository definition
// (addons.xml, optionally gzip-compressed) for a Kodi release channel. The
// parsed Index maps addon ids to their package paths and declared
// dependencies and is read-only for the rest of the run.
package catalog

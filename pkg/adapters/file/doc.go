// Package file reads and writes graph descriptions as JSON or YAML files.
//
// Store keeps one file per graph under a base directory. Only explicit edges
// are written; virtual edges belong to a resolution pass, not to the layout.
package file

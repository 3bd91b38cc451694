// Package assets bundles static data shipped with the binaries.
package assets

import "embed"

// DatasetPath is the location of the bundled product dataset inside FS.
const DatasetPath = "mock/products.json"

//go:embed mock/products.json
var FS embed.FS
